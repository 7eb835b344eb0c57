package processor

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/pubsub"
)

// New creates a new Processor.
func New(facility Facility, metrics metrics.Metrics, pubsub pubsub.PubSubClient, opts ...Option) *Processor {
	p := &Processor{
		facility: facility,
		pubsub:   pubsub,
		metrics:  metrics,
		now:      time.Now,
		notified: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run calls RunHousekeeping every interval until ctx is done.
func (p *Processor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Info("Housekeeping started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			log.Info("Housekeeping stopped")
			return
		case <-ticker.C:
			p.RunHousekeeping(false)
		}
	}
}

// RunHousekeeping warns about rentals that are about to end and announces the
// players whose game can start right now.
func (p *Processor) RunHousekeeping(dryRun bool) Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	log.Debug("Starting housekeeping pass", "dry_run", dryRun)
	result := Result{
		RentalWarnings: p.checkRentals(dryRun),
		UpNext:         p.announceUpNext(dryRun),
	}
	log.Debug("Housekeeping pass finished", "rental_warnings", result.RentalWarnings, "up_next", result.UpNext)
	return result
}

func (p *Processor) checkRentals(dryRun bool) int {
	if dryRun {
		warnings := p.facility.Snapshot().RentalWarnings(p.now())
		for _, w := range warnings {
			log.Info("[Dry Run] Would warn about rental ending", "court", w.CourtID, "rented_by", w.RentedBy, "remaining", w.Remaining)
		}
		return len(warnings)
	}
	// the facility publishes the rental-ending events itself
	return len(p.facility.RentalWarnings())
}

// announceUpNext publishes a players-up-next event once per player. A player
// becomes eligible again after leaving the queue. Nothing is sent while
// notifications are turned off.
func (p *Processor) announceUpNext(dryRun bool) []string {
	snap := p.facility.Snapshot()
	queued := make(map[string]bool)
	for _, e := range snap.Queue {
		for _, name := range e.Members() {
			queued[name] = true
		}
	}
	for name := range p.notified {
		if !queued[name] {
			delete(p.notified, name)
		}
	}

	if !snap.Settings.EnableNotifications {
		if dryRun {
			log.Info("[Dry Run] Notifications disabled, would skip up-next announcement")
		} else {
			log.Debug("Notifications disabled, skipping up-next announcement")
		}
		return nil
	}

	preview, err := p.facility.NextGamePreview()
	if err != nil {
		log.Debug("No game ready", "reason", err)
		return nil
	}
	if preview.CourtID == nil {
		log.Debug("Game ready but no court is free", "players", preview.Players)
		return nil
	}

	var fresh []string
	for _, name := range preview.Players {
		if !p.notified[name] {
			fresh = append(fresh, name)
		}
	}
	if len(fresh) == 0 {
		return nil
	}
	if dryRun {
		log.Info("[Dry Run] Would announce players up next", "players", preview.Players, "court", *preview.CourtID)
		return fresh
	}

	event := pubsub.PlayersUpNextEvent{
		ID:      uuid.NewString(),
		Players: preview.Players,
		CourtID: preview.CourtID,
		Quality: preview.Quality,
	}
	if err := p.pubsub.SendMessage(pubsub.EventPlayersUpNext, event); err != nil {
		p.metrics.IncEventsFailed()
		log.Error("Failed to announce players up next", "error", err, "players", preview.Players)
		return nil
	}
	p.metrics.IncEventsPublished()
	for _, name := range preview.Players {
		p.notified[name] = true
	}
	log.Info("Announced players up next", "players", preview.Players, "court", *preview.CourtID)
	return fresh
}
