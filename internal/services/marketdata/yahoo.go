package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// yahooChartResponse mirrors the chart API payload. Quote arrays may contain
// nulls for halted sessions, hence the pointer elements.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// YahooSource fetches OHLCV history from the Yahoo Finance chart API.
type YahooSource struct {
	client   *xhttp.Client
	baseURL  string
	rng      string
	interval string
	l        *applogger.Logger
}

var _ domrepo.MarketDataSource = (*YahooSource)(nil)

// YahooConfig holds Yahoo source configuration.
type YahooConfig struct {
	BaseURL  string
	Range    string
	Interval string
	Timeout  time.Duration
}

// NewYahooSource creates a Yahoo Finance market data source.
func NewYahooSource(cfg YahooConfig) *YahooSource {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultYahooBaseURL
	}
	if cfg.Range == "" {
		cfg.Range = "30d"
	}
	if cfg.Interval == "" {
		cfg.Interval = "1d"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &YahooSource{
		client:   xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		baseURL:  cfg.BaseURL,
		rng:      cfg.Range,
		interval: cfg.Interval,
	}
}

// SetLogger injects a structured logger.
func (s *YahooSource) SetLogger(l *applogger.Logger) { s.l = l }

// Fetch retrieves OHLCV bars for symbol. Rows with null or non-positive
// prices, or an incoherent OHLC shape, are skipped rather than failing the
// whole series. Points come back sorted ascending by timestamp.
func (s *YahooSource) Fetch(ctx context.Context, symbol string) ([]models.PricePoint, error) {
	var data yahooChartResponse
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/%s", s.baseURL, url.PathEscape(symbol)),
		QueryParams: map[string][]string{
			"interval": {s.interval},
			"range":    {s.rng},
		},
		Headers: map[string]string{
			"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		},
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart request for %s: %w", symbol, err)
	}

	if data.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error for %s: %s", symbol, data.Chart.Error.Description)
	}
	if len(data.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo chart returned no result for %s", symbol)
	}

	result := data.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo chart returned no quote data for %s", symbol)
	}
	quote := result.Indicators.Quote[0]

	points := make([]models.PricePoint, 0, len(result.Timestamp))
	skipped := 0
	for i, ts := range result.Timestamp {
		open := at(quote.Open, i)
		high := at(quote.High, i)
		low := at(quote.Low, i)
		closep := at(quote.Close, i)
		volume := at(quote.Volume, i)

		if open == nil || high == nil || low == nil || closep == nil || volume == nil {
			skipped++
			continue
		}
		if *open <= 0 || *high <= 0 || *low <= 0 || *closep <= 0 {
			skipped++
			continue
		}
		if *high < *low || *high < *open || *high < *closep || *low > *open || *low > *closep {
			skipped++
			continue
		}

		points = append(points, models.PricePoint{
			Symbol:    symbol,
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      *open,
			High:      *high,
			Low:       *low,
			Close:     *closep,
			Volume:    *volume,
		})
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("no valid market data points for %s", symbol)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	if s.l != nil {
		s.l.Debug("yahoo fetch complete",
			applogger.String("symbol", symbol),
			applogger.Int("points", len(points)),
			applogger.Int("skipped", skipped),
		)
	}

	return points, nil
}

func at(xs []*float64, i int) *float64 {
	if i < 0 || i >= len(xs) {
		return nil
	}
	return xs[i]
}
