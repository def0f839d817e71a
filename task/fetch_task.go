package task

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/angas/spotprice-go/prices"
)

const (
	fetchTimeout   = 30 * time.Second
	retryBaseDelay = time.Minute
	retryMaxDelay  = time.Hour
)

// FetchTask retrieves the day's price series and replaces the cached
// one wholesale. On failure the prior series is retained and a retry
// is scheduled with exponential backoff, capped well below the daily
// period so the regular cron run always wins.
type FetchTask struct {
	logger    *slog.Logger
	store     *prices.Store
	providers []prices.Provider
	location  *time.Location

	mu       sync.Mutex
	retry    *time.Timer
	attempts int
}

func NewFetchTask(logger *slog.Logger, store *prices.Store, providers []prices.Provider, location *time.Location) *FetchTask {
	if len(providers) == 0 {
		panic("no price providers")
	}
	return &FetchTask{
		logger:    logger,
		store:     store,
		providers: providers,
		location:  location,
	}
}

// Run is the scheduled entry point. It resets any pending backoff
// retry since a fresh attempt is about to happen anyway.
func (t *FetchTask) Run() {
	t.mu.Lock()
	if t.retry != nil {
		t.retry.Stop()
		t.retry = nil
	}
	t.attempts = 0
	t.mu.Unlock()

	t.run()
}

// Stop cancels a pending backoff retry.
func (t *FetchTask) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.retry != nil {
		t.retry.Stop()
		t.retry = nil
	}
}

func (t *FetchTask) run() {
	t.logger.Debug("running price fetch task...")

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	date := time.Now().In(t.location)

	for _, provider := range t.providers {
		day, err := provider.DayAhead(ctx, date)
		if err != nil {
			t.logger.Error("fetch task error, fetching prices",
				slog.String("provider", provider.Name()),
				slog.Any("error", err))
			continue
		}

		t.store.Replace(day)
		t.mu.Lock()
		t.attempts = 0
		t.mu.Unlock()

		t.logger.Info("fetch task done",
			slog.String("provider", provider.Name()),
			slog.Int("noOfIntervals", len(day)))
		return
	}

	t.scheduleRetry()
}

func (t *FetchTask) scheduleRetry() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.attempts++
	delay := retryBaseDelay
	for i := 1; i < t.attempts && delay < retryMaxDelay; i++ {
		delay *= 2
	}
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}

	t.logger.Warn("all providers failed, prior series retained",
		slog.Int("attempt", t.attempts),
		slog.Duration("retryIn", delay))
	t.retry = time.AfterFunc(delay, t.run)
}
