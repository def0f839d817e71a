package nordpool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/angas/spotprice-go/prices"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://dataportal-api.nordpoolgroup.com"

// HTTPClient describes an HTTP client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Nordpool fetches day-ahead prices from the Nord Pool data portal.
type Nordpool struct {
	area     string
	currency string
	baseURL  string
	client   HTTPClient
}

type Option func(*Nordpool)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(n *Nordpool) {
		n.baseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client HTTPClient) Option {
	return func(n *Nordpool) {
		n.client = client
	}
}

func New(area string, currency string, options ...Option) *Nordpool {
	n := &Nordpool{
		area:     area,
		currency: currency,
		baseURL:  defaultBaseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, option := range options {
		option(n)
	}
	return n
}

func (n *Nordpool) Name() string { return "nordpool" }

// DayAhead fetches the day-ahead series for the given delivery date.
// Returns prices.ErrNotPublished when the market has not yet published
// that date (the API answers 404).
func (n *Nordpool) DayAhead(ctx context.Context, date time.Time) (prices.Day, error) {
	url := fmt.Sprintf("%s/api/DayAheadPrices?date=%s&market=DayAhead&deliveryArea=%s&currency=%s",
		n.baseURL,
		date.Format("2006-01-02"),
		n.area,
		n.currency)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, prices.ErrNotPublished
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var data dayAheadResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	day := make(prices.Day, 0, len(data.MultiAreaEntries))
	for _, entry := range data.MultiAreaEntries {
		price, ok := entry.EntryPerArea[n.area]
		if !ok {
			continue
		}
		day = append(day, prices.Interval{
			Start: entry.DeliveryStart.UTC(),
			End:   entry.DeliveryEnd.UTC(),
			Price: decimal.NewFromFloat(price),
		})
	}

	slices.SortFunc(day, func(a, b prices.Interval) int { return a.Start.Compare(b.Start) })

	if err := day.Validate(); err != nil {
		return nil, fmt.Errorf("invalid price series: %w", err)
	}

	return day, nil
}
