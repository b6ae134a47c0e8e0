// Package yahoo provides a client for the Yahoo Finance chart API.
package yahoo

const (
	DefaultBaseURL     = "https://query1.finance.yahoo.com"
	DefaultFallbackURL = "https://query2.finance.yahoo.com"
	// The chart API rejects requests without a browser-like user agent.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// Config holds configuration for the Yahoo Finance client.
// Request timeouts belong to the *http.Client passed to NewYahooMarket.
type Config struct {
	BaseURL     string // Primary host
	FallbackURL string // Secondary host tried for metadata when the primary fails
	UserAgent   string
	// AutoAdjust scales open, high, low and close by the adjusted-close ratio.
	AutoAdjust bool
}

// DefaultConfig returns the public hosts with auto adjustment enabled.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		FallbackURL: DefaultFallbackURL,
		UserAgent:   DefaultUserAgent,
		AutoAdjust:  true,
	}
}
