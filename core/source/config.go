package source

// Config holds configuration for the source system API.
type Config struct {
	// BaseURL is the root URL of the source API, without a trailing slash.
	BaseURL string `mapstructure:"base_url" default:"http://localhost:8081"`
	// Token is the bearer token used to authenticate requests.
	Token string `mapstructure:"token" default:""`
	// System is the source system name recorded on snapshots and runs.
	System string `mapstructure:"system" default:"helpdesk"`
	// TimeoutSeconds is the per-request HTTP timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// RetryAfterFallbackSeconds is how long to wait before the single retry
	// when the server rate-limits us without a usable reset header.
	RetryAfterFallbackSeconds int `mapstructure:"retry_after_fallback_seconds" default:"30"`
	// PageSize is the page size used for list requests.
	PageSize int `mapstructure:"page_size" default:"100"`
}
