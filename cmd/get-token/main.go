package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/lithammer/dedent"
	"github.com/raine/reddit-oauth/config"
	"github.com/raine/reddit-oauth/internal/reddit"
	"github.com/raine/reddit-oauth/internal/reddit/auth"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
)

func main() {
	var (
		seed    uint64
		probe   string
		asJSON  bool
		verbose bool
	)

	flag.Uint64Var(&seed, "seed", 0, "seed for device generation (0 = random)")
	flag.StringVar(&probe, "probe", "", "API path to GET with the new token, e.g. /api/v1/scopes")
	flag.BoolVar(&asJSON, "json", false, "print the credential as JSON")
	flag.BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if !verbose {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	config.LoadEnvFile()
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	opts := auth.ManagerOpts{
		BaseURL: cfg.AuthBaseURL,
		Timeout: cfg.HTTPTimeout,
	}
	if seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(seed, seed))
	}
	manager := auth.NewManager(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.HTTPTimeout)
	defer cancel()

	if err := manager.Login(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Login failed: %v\n", err)
		os.Exit(1)
	}

	cred := manager.Credential()
	device := manager.Device()

	if asJSON {
		out := map[string]any{
			"platform":    device.Platform.String(),
			"instance_id": device.InstanceID,
			"token":       cred.Token,
			"expires_in":  cred.ExpiresIn,
			"expires_at":  cred.ExpiresAt().Format(time.RFC3339),
			"headers":     cred.Headers,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Print(formatCredential(device, cred))
	}

	if probe != "" {
		client := reddit.NewClient(auth.NewHolder(manager), reddit.ClientOpts{
			BaseURL: cfg.APIBaseURL,
			Timeout: cfg.HTTPTimeout,
		})
		var result map[string]any
		if err := client.Get(ctx, probe, &result); err != nil {
			fmt.Fprintf(os.Stderr, "Probe %s failed: %v\n", probe, err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Probe %s ok (%d top-level fields)\n", probe, len(result))
	}
}

func formatCredential(device auth.Device, cred auth.Credential) string {
	var headers strings.Builder
	for _, k := range cred.Headers.Keys() {
		fmt.Fprintf(&headers, "  %s: %s\n", k, cred.Headers[k])
	}

	text := `
		Platform:    %s
		Instance ID: %s
		Token:       %s
		Expires in:  %ds (at %s)

		Headers:
	`
	return fmt.Sprintf(strings.TrimLeft(dedent.Dedent(text), "\n"),
		device.Platform, device.InstanceID, cred.Token, cred.ExpiresIn,
		cred.ExpiresAt().Format(time.RFC3339)) + headers.String()
}
