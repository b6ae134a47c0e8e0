// Package handler provides the HTTP handlers of the candles feature.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"finfetcher/internal/feature/candles/domain"
	"finfetcher/internal/feature/candles/domain/cutoff"
	"finfetcher/internal/feature/candles/domain/entity"
	"finfetcher/internal/feature/candles/transport/http/dto"
)

// CandlesUsecase is defined on the consumer side, following Go convention.
type CandlesUsecase interface {
	GetCandles(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
	FetchLive(ctx context.Context, symbol, period, interval string, overrides cutoff.Overrides) (entity.FetchResult, error)
}

// CandlesHandler serves stored and live candle data.
type CandlesHandler struct {
	uc CandlesUsecase
}

// NewCandlesHandler returns a CandlesHandler backed by uc.
func NewCandlesHandler(uc CandlesUsecase) *CandlesHandler {
	return &CandlesHandler{uc: uc}
}

// GetCandlesHandler returns stored candles.
//
//	GET /candles/:code/stored?interval=1d&outputsize=200
func (h *CandlesHandler) GetCandlesHandler(c *gin.Context) {
	code := c.Param("code")
	interval := c.DefaultQuery("interval", domain.DefaultInterval)
	// Invalid values become 0 and the usecase applies its default.
	outputsize, _ := strconv.Atoi(c.DefaultQuery("outputsize", strconv.Itoa(200)))

	candles, err := h.uc.GetCandles(c.Request.Context(), code, interval, outputsize)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCandleResponses(candles))
}

// FetchHandler downloads the series now and drops any unfinished bar.
//
//	GET /candles/:code?period=4y&interval=1d
func (h *CandlesHandler) FetchHandler(c *gin.Context) {
	h.fetch(c, c.Query("period"), c.Query("interval"), nil)
}

// FetchWithCutoffsHandler is FetchHandler with per-request cutoff overrides.
//
//	POST /candles/:code {"period":"1y","cutoffs":{"EQUITY":{"default":{"hour":17,"minute":0}}}}
func (h *CandlesHandler) FetchWithCutoffsHandler(c *gin.Context) {
	var req dto.FetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	overrides, err := cutoff.ParseOverridesJSON(req.Cutoffs)
	if err != nil {
		writeError(c, err)
		return
	}
	h.fetch(c, req.Period, req.Interval, overrides)
}

func (h *CandlesHandler) fetch(c *gin.Context, period, interval string, overrides cutoff.Overrides) {
	code := c.Param("code")
	res, err := h.uc.FetchLive(c.Request.Context(), code, period, interval, overrides)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FetchResponse{
		Symbol:     strings.ToUpper(code),
		AssetType:  res.AssetType,
		Timezone:   res.Timezone,
		TargetDate: res.TargetDate.String(),
		Candles:    toCandleResponses(res.Candles),
	})
}

func toCandleResponses(candles []entity.Candle) []dto.CandleResponse {
	out := make([]dto.CandleResponse, 0, len(candles))
	for _, x := range candles {
		out = append(out, dto.CandleResponse{
			Time:   x.Time.UTC().Format("2006-01-02"),
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		})
	}
	return out
}

// writeError maps domain error kinds to HTTP status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidConfig), errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrTickerNotFound), errors.Is(err, domain.ErrDataEmpty):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConnectionFailure):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	c.JSON(status, dto.ErrorResponse{Error: err.Error()})
}
