package elprisetjustnu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/angas/spotprice-go/prices"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://www.elprisetjustnu.se"

var thousand = decimal.NewFromInt(1000)

type rawPrice struct {
	SEKPerKWh float64   `json:"SEK_per_kWh"`
	EURPerKWh float64   `json:"EUR_per_kWh"`
	EXR       float64   `json:"EXR"`
	TimeStart time.Time `json:"time_start"`
	TimeEnd   time.Time `json:"time_end"`
}

// ElPrisetJustNu fetches day-ahead prices from elprisetjustnu.se.
// Covers the Swedish bidding zones (SE1-SE4) only.
type ElPrisetJustNu struct {
	area     string
	currency string
	baseURL  string
	client   *http.Client
}

func New(area string, currency string) *ElPrisetJustNu {
	return &ElPrisetJustNu{
		area:     area,
		currency: currency,
		baseURL:  defaultBaseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithBaseURL is used by tests to point the client at a fake server.
func NewWithBaseURL(area string, currency string, baseURL string) *ElPrisetJustNu {
	e := New(area, currency)
	e.baseURL = baseURL
	return e
}

func (e *ElPrisetJustNu) Name() string { return "elprisetjustnu" }

func (e *ElPrisetJustNu) DayAhead(ctx context.Context, date time.Time) (prices.Day, error) {
	url := fmt.Sprintf("%s/api/v1/prices/%d/%02d-%02d_%s.json",
		e.baseURL, date.Year(), int(date.Month()), date.Day(), e.area)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := e.client.Do(req)
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

	var rawPrices []rawPrice
	if err := json.NewDecoder(resp.Body).Decode(&rawPrices); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	day := make(prices.Day, 0, len(rawPrices))
	for _, raw := range rawPrices {
		perKWh := raw.SEKPerKWh
		if strings.EqualFold(e.currency, "EUR") {
			perKWh = raw.EURPerKWh
		}
		day = append(day, prices.Interval{
			Start: raw.TimeStart.UTC(),
			End:   raw.TimeEnd.UTC(),
			// The API quotes per kWh, the rest of the system works in per MWh.
			Price: decimal.NewFromFloat(perKWh).Mul(thousand),
		})
	}

	slices.SortFunc(day, func(a, b prices.Interval) int { return a.Start.Compare(b.Start) })

	if err := day.Validate(); err != nil {
		return nil, fmt.Errorf("invalid price series: %w", err)
	}

	return day, nil
}
