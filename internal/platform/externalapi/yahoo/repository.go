package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"finfetcher/internal/feature/candles/domain"
	"finfetcher/internal/feature/candles/domain/entity"
	"finfetcher/internal/feature/candles/usecase"
	"finfetcher/internal/platform/externalapi/yahoo/dto"
)

// ErrSymbolNotFound is returned when the API reports an unknown symbol.
var ErrSymbolNotFound = errors.New("yahoo: symbol not found")

// YahooMarket reads history and metadata from the chart API.
type YahooMarket struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
}

var (
	_ usecase.MarketRepository       = (*YahooMarket)(nil)
	_ usecase.SymbolMetadataProvider = (*YahooMarket)(nil)
)

// NewYahooMarket returns a client using cfg and client.
func NewYahooMarket(cfg Config, client *http.Client) *YahooMarket {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &YahooMarket{cfg: cfg, client: client, now: time.Now}
}

// GetSymbolInfo reads instrument type and exchange timezone from chart metadata.
// The fallback host is tried when the primary one fails for any reason other
// than an unknown symbol.
func (y *YahooMarket) GetSymbolInfo(ctx context.Context, symbol string) (entity.SymbolInfo, error) {
	q := url.Values{}
	q.Set("range", "5d")
	q.Set("interval", "1d")

	body, err := y.chart(ctx, y.cfg.BaseURL, symbol, q)
	if err != nil && !errors.Is(err, ErrSymbolNotFound) && y.cfg.FallbackURL != "" && ctx.Err() == nil {
		slog.Warn("chart metadata failed on primary host, trying fallback", "symbol", symbol, "error", err)
		body, err = y.chart(ctx, y.cfg.FallbackURL, symbol, q)
	}
	if err != nil {
		return entity.SymbolInfo{}, err
	}
	if len(body.Chart.Result) == 0 {
		return entity.SymbolInfo{}, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}

	meta := body.Chart.Result[0].Meta
	return entity.SymbolInfo{
		Symbol:    symbol,
		AssetType: strings.ToUpper(meta.InstrumentType),
		Timezone:  meta.ExchangeTimezoneName,
	}, nil
}

// GetHistory downloads bars for period and interval. An unknown symbol or a
// window without trades yields an empty slice and a nil error.
func (y *YahooMarket) GetHistory(ctx context.Context, symbol string, period domain.Period, interval string) ([]entity.Candle, error) {
	q := url.Values{}
	q.Set("interval", interval)
	q.Set("includeAdjustedClose", "true")
	if period.IsMax() {
		q.Set("range", "max")
	} else {
		now := y.now()
		q.Set("period1", strconv.FormatInt(period.Start(now).Unix(), 10))
		q.Set("period2", strconv.FormatInt(now.Unix(), 10))
	}

	body, err := y.chart(ctx, y.cfg.BaseURL, symbol, q)
	if errors.Is(err, ErrSymbolNotFound) {
		return []entity.Candle{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(body.Chart.Result) == 0 {
		return []entity.Candle{}, nil
	}
	return toCandles(body.Chart.Result[0], y.cfg.AutoAdjust), nil
}

func (y *YahooMarket) chart(ctx context.Context, host, symbol string, q url.Values) (*dto.ChartResponse, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", strings.TrimRight(host, "/"), url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", y.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	res, err := y.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	var body dto.ChartResponse
	decodeErr := json.NewDecoder(res.Body).Decode(&body)

	if body.Chart.Error != nil && body.Chart.Error.Code == "Not Found" {
		return nil, fmt.Errorf("%w: %s: %s", ErrSymbolNotFound, symbol, body.Chart.Error.Description)
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("yahoo http %d for %s", res.StatusCode, symbol)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("yahoo: decode chart for %s: %w", symbol, decodeErr)
	}
	if body.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s: %s", body.Chart.Error.Code, body.Chart.Error.Description)
	}
	return &body, nil
}

// toCandles flattens the parallel quote arrays. Bars with a null close are skipped.
func toCandles(r dto.ChartResult, autoAdjust bool) []entity.Candle {
	out := make([]entity.Candle, 0, len(r.Timestamp))
	if len(r.Indicators.Quote) == 0 {
		return out
	}
	quote := r.Indicators.Quote[0]
	var adj []*float64
	if len(r.Indicators.AdjClose) > 0 {
		adj = r.Indicators.AdjClose[0].AdjClose
	}

	for i, ts := range r.Timestamp {
		c := at(quote.Close, i)
		if c == nil {
			continue
		}
		candle := entity.Candle{
			Symbol: r.Meta.Symbol,
			Time:   time.Unix(ts, 0).UTC(),
			Open:   deref(at(quote.Open, i)),
			High:   deref(at(quote.High, i)),
			Low:    deref(at(quote.Low, i)),
			Close:  *c,
		}
		if v := at(quote.Volume, i); v != nil {
			candle.Volume = *v
		}
		if a := at(adj, i); autoAdjust && a != nil && *c != 0 {
			ratio := *a / *c
			candle.Open *= ratio
			candle.High *= ratio
			candle.Low *= ratio
			candle.Close = *a
		}
		out = append(out, candle)
	}
	return out
}

func at[T any](s []*T, i int) *T {
	if i < len(s) {
		return s[i]
	}
	return nil
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
