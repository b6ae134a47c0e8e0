// Package router assembles the gin engine.
package router

import (
	"time"

	"github.com/gin-gonic/gin"

	candlehandler "finfetcher/internal/feature/candles/transport/handler"
	symbolhandler "finfetcher/internal/feature/symbollist/transport/handler"
	platformhandler "finfetcher/internal/platform/http/handler"
	jwtmw "finfetcher/internal/platform/jwt"
)

// NewRouter registers the public probes and the token-protected data routes.
func NewRouter(jwtSecret string, candles *candlehandler.CandlesHandler, symbol *symbolhandler.SymbolHandler, ready ...platformhandler.Check) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Any("/healthz", platformhandler.Health)
	r.GET("/readyz", platformhandler.Ready(2*time.Second, ready...))

	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(jwtSecret))
	{
		auth.GET("/symbols", symbol.List)
		auth.GET("/candles/:code", candles.FetchHandler)
		auth.POST("/candles/:code", candles.FetchWithCutoffsHandler)
		auth.GET("/candles/:code/stored", candles.GetCandlesHandler)
	}

	return r
}
