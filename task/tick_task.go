package task

import (
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angas/spotprice-go/calc"
	"github.com/angas/spotprice-go/config"
	"github.com/angas/spotprice-go/homie"
	"github.com/angas/spotprice-go/prices"
)

// ValuePublisher is the slice of homie.Publisher the tick task needs.
type ValuePublisher interface {
	PublishValue(nodeId, propertyId, payload string) error
}

// NewTickTask resolves the active interval for the current time,
// converts its price to cents/kWh including VAT and publishes it when
// it differs from the last published value. Publish failures leave the
// state untouched so the next tick retries.
func NewTickTask(
	logger *slog.Logger,
	store *prices.Store,
	state *PublishedState,
	publisher ValuePublisher,
	cnfg config.AppConfigEnergyPrice) func() {

	vat := decimal.NewFromFloat(cnfg.Vat)

	// The scheduler and the publisher's reconnect hook may both fire
	// this task; run at most one evaluation at a time.
	var mu sync.Mutex

	return func() {
		mu.Lock()
		defer mu.Unlock()

		day := store.Current()
		if len(day) == 0 {
			logger.Debug("no price series cached yet")
			return
		}

		now := time.Now()
		interval, ok := day.ActiveAt(now)
		if !ok {
			logger.Warn("no price interval for current time, awaiting refresh",
				slog.Time("now", now))
			return
		}

		price := calc.CentsPerKWh(interval.Price, vat).Round(2)
		if !state.ShouldPublish(price) {
			return
		}

		if err := publisher.PublishValue(homie.PriceNodeId, homie.PricePropertyId, price.String()); err != nil {
			logger.Error("failed to publish price", slog.Any("error", err))
			return
		}
		state.MarkPublished(price, now)

		logger.Info("published active price",
			slog.String("price", price.String()),
			slog.Time("intervalStart", interval.Start),
			slog.Time("intervalEnd", interval.End))
	}
}
