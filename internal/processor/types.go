package processor

import (
	"sync"
	"time"

	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/pubsub"
)

// Processor runs the periodic housekeeping pass. It only reads the facility
// and announces what it sees; it never starts or ends games.
type Processor struct {
	facility Facility
	pubsub   pubsub.PubSubClient
	metrics  metrics.Metrics
	now      func() time.Time

	mu       sync.Mutex
	notified map[string]bool
}

// Option configures a Processor.
type Option func(*Processor)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// Result summarises one housekeeping pass.
type Result struct {
	RentalWarnings int      `json:"rental_warnings"`
	UpNext         []string `json:"up_next"`
}
