package task_test

import (
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angas/spotprice-go/config"
	"github.com/angas/spotprice-go/prices"
	"github.com/angas/spotprice-go/task"
)

type fakePublisher struct {
	mu        sync.Mutex
	err       error
	published []string
}

func (f *fakePublisher) PublishValue(nodeId, propertyId, payload string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, payload)
	return nil
}

func (f *fakePublisher) payloads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.published...)
}

func (f *fakePublisher) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// seriesAround returns a one-interval series containing t, with
// enough headroom that the test cannot race an interval boundary.
func seriesAround(t time.Time, price float64) prices.Day {
	start := t.Truncate(15 * time.Minute)
	return prices.Day{{
		Start: start,
		End:   start.Add(30 * time.Minute),
		Price: decimal.NewFromFloat(price),
	}}
}

func newTickFixture(t *testing.T) (*prices.Store, *task.PublishedState, *fakePublisher, func()) {
	t.Helper()
	store := prices.NewStore()
	state := &task.PublishedState{}
	pub := &fakePublisher{}
	tick := task.NewTickTask(slog.Default(), store, state, pub,
		config.AppConfigEnergyPrice{Area: "FI", Currency: "EUR", Vat: 25.5})
	return store, state, pub, tick
}

func TestTickTaskPublishesOnlyOnChange(t *testing.T) {
	store, _, pub, tick := newTickFixture(t)

	// 50 EUR/MWh -> 6.275 c/kWh incl VAT -> rounded 6.28
	store.Replace(seriesAround(time.Now(), 50.0))

	tick()
	tick()
	tick()
	require.Equal(t, []string{"6.28"}, pub.payloads(),
		"identical price must be published exactly once")

	store.Replace(seriesAround(time.Now(), 80.0))
	tick()
	assert.Equal(t, []string{"6.28", "10.04"}, pub.payloads())
}

func TestTickTaskNoSeriesCached(t *testing.T) {
	_, state, pub, tick := newTickFixture(t)

	tick()
	assert.Empty(t, pub.payloads())
	_, _, published := state.Last()
	assert.False(t, published)
}

func TestTickTaskOutsideSeries(t *testing.T) {
	store, state, pub, tick := newTickFixture(t)

	// Yesterday's series, never refreshed.
	store.Replace(seriesAround(time.Now().Add(-24*time.Hour), 50.0))

	tick()
	assert.Empty(t, pub.payloads(), "stale interval must not be published")
	_, _, published := state.Last()
	assert.False(t, published)
}

func TestTickTaskRetriesAfterPublishError(t *testing.T) {
	store, state, pub, tick := newTickFixture(t)
	store.Replace(seriesAround(time.Now(), 50.0))

	pub.setErr(errors.New("broker gone"))
	tick()
	require.Empty(t, pub.payloads())
	_, _, published := state.Last()
	require.False(t, published, "state must not advance without a broker ack")

	pub.setErr(nil)
	tick()
	assert.Equal(t, []string{"6.28"}, pub.payloads())
}

func TestTickTaskRepublishesAfterReset(t *testing.T) {
	store, state, pub, tick := newTickFixture(t)
	store.Replace(seriesAround(time.Now(), 50.0))

	tick()
	require.Equal(t, []string{"6.28"}, pub.payloads())

	// Broker reconnect: retained value may be stale, force republish.
	state.Reset()
	tick()
	tick()
	assert.Equal(t, []string{"6.28", "6.28"}, pub.payloads(),
		"exactly one publish of the latest value after a reconnect")
}
