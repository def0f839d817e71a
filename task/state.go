package task

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// PublishedState remembers the last value acknowledged by the broker
// so the tick task can suppress duplicate publishes. Comparison is
// exact on the rounded published value, so representation noise in the
// raw market price can never trigger a false change.
type PublishedState struct {
	mu        sync.Mutex
	price     decimal.Decimal
	at        time.Time
	published bool
}

// ShouldPublish reports whether price differs from the last published
// value, or whether nothing has been published yet.
func (s *PublishedState) ShouldPublish(price decimal.Decimal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.published || !s.price.Equal(price)
}

// MarkPublished must only be called after a successful broker ack.
func (s *PublishedState) MarkPublished(price decimal.Decimal, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.price = price
	s.at = at
	s.published = true
}

// Reset forces the next tick to publish. Used after a reconnect, when
// the retained value on the broker may be stale.
func (s *PublishedState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = false
}

// Last returns the last published price and when it was acked.
func (s *PublishedState) Last() (decimal.Decimal, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.price, s.at, s.published
}
