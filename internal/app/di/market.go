// Package di wires the application's components from configuration.
package di

import (
	"finfetcher/internal/platform/config"
	"finfetcher/internal/platform/externalapi/yahoo"
	infrahttp "finfetcher/internal/platform/http"
)

// NewMarket creates a Yahoo chart client with a dedicated HTTP client.
// cfg.Timeout bounds each chart request; zero means the client default.
func NewMarket(cfg config.YahooConfig) *yahoo.YahooMarket {
	ycfg := yahoo.DefaultConfig()
	if cfg.BaseURL != "" {
		ycfg.BaseURL = cfg.BaseURL
	}
	if cfg.FallbackURL != "" {
		ycfg.FallbackURL = cfg.FallbackURL
	}
	return yahoo.NewYahooMarket(ycfg, infrahttp.NewHTTPClient(cfg.Timeout))
}
