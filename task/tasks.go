package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/angas/spotprice-go/config"
	"github.com/angas/spotprice-go/prices"
)

type Tasks struct {
	cron  *cron.Cron
	cnfg  *config.AppConfig
	store *prices.Store
	Fetch *FetchTask
	Tick  func()
}

func NewTasks(
	store *prices.Store,
	providers []prices.Provider,
	state *PublishedState,
	publisher ValuePublisher,
	cnfg *config.AppConfig,
	location *time.Location,
) *Tasks {
	logger := slog.Default().With("module", "tasks")
	return &Tasks{
		cron:  cron.New(cron.WithLocation(location)),
		cnfg:  cnfg,
		store: store,
		Fetch: NewFetchTask(logger.With(slog.String("task", "fetch_prices")), store, providers, location),
		Tick:  NewTickTask(logger.With(slog.String("task", "check_price")), store, state, publisher, cnfg.EnergyPrice),
	}
}

func (t *Tasks) Run() {
	_, err := t.cron.AddFunc(t.cnfg.EnergyPrice.RunAt, t.Fetch.Run)
	if err != nil {
		panic(err)
	}
	_, err = t.cron.AddFunc(fmt.Sprintf("@every %s", t.cnfg.Tick.GetInterval()), t.Tick)
	if err != nil {
		panic(err)
	}

	// Without a cached series there is nothing to publish until the
	// next scheduled fetch, which may be almost a day away.
	if t.store.IsEmpty() {
		t.Fetch.Run()
		t.Tick()
	}

	t.cron.Start()
}

func (t *Tasks) Stop() context.Context {
	t.Fetch.Stop()
	return t.cron.Stop()
}
