package reddit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/raine/reddit-oauth/internal/reddit/auth"
)

type ClientOpts struct {
	BaseURL string
	Timeout time.Duration
}

// Client issues requests to the OAuth API with the holder's current
// credential attached.
type Client struct {
	httpClient *resty.Client
	holder     *auth.Holder
	baseURL    string
}

func NewClient(holder *auth.Holder, opts ClientOpts) *Client {
	c := Client{baseURL: auth.APIBaseURL, holder: holder}
	if opts.BaseURL != "" {
		c.baseURL = opts.BaseURL
	}
	c.httpClient = resty.New().
		SetDebug(false).
		SetBaseURL(c.baseURL).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(c.attachCredential)
	if opts.Timeout > 0 {
		c.httpClient.SetTimeout(opts.Timeout)
	}

	return &c
}

// attachCredential copies the headers of the manager current at send time,
// so a token refreshed in the meantime is picked up.
func (c *Client) attachCredential(_ *resty.Client, req *resty.Request) error {
	headers := c.holder.Headers()
	if headers == nil {
		return fmt.Errorf("no credential available")
	}
	for _, k := range headers.Keys() {
		req.SetHeader(k, headers[k])
	}
	return nil
}

// Get fetches path and decodes the JSON response into result.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	req := c.httpClient.NewRequest().SetContext(ctx)
	if result != nil {
		req.SetResult(result)
	}
	_, err := handleError(req.Get(path))
	return err
}

// handleError is a generic error handler for failing response (>399 status
// code). Without this, failing responses would have nil error.
func handleError(res *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return res, err
	}
	if res.IsError() {
		return res, fmt.Errorf("request failed: %s %s (status: %d)", res.Request.Method, res.Request.URL, res.StatusCode())
	}

	return res, nil
}
