package auth

const (
	// OAuth client ids of the official mobile apps. Used only as the Basic auth
	// username of the token request.
	AndroidClientID = "ohXpoqrZYub1kg"
	IOSClientID     = "LNDo9k1o8UAEUw"

	// Base URLs
	AuthBaseURL = "https://accounts.reddit.com"
	APIBaseURL  = "https://oauth.reddit.com"

	AccessTokenPath = "/api/access_token"

	// Response headers that identify the device session. Echoed on every
	// subsequent request once seen.
	HeaderLoid    = "x-reddit-loid"
	HeaderSession = "x-reddit-session"

	HeaderAuthorization = "Authorization"

	// Placeholder advertising id sent by the iOS app when tracking is disabled
	placeholderAdID = "00000000-0000-0000-0000-000000000000"
	anonymousUserID = "anonymous_browsing_mode"
	productName     = "Reddit"
)
