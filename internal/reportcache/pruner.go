package reportcache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/mailposture/internal/logfields"
)

// Pruner runs Store.Prune on a fixed schedule.
type Pruner struct {
	scheduler gocron.Scheduler
	store     *Store
}

// NewPruner creates a scheduler that prunes the store every interval.
func NewPruner(store *Store, interval time.Duration) (*Pruner, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	p := &Pruner{scheduler: s, store: store}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(p.run),
		gocron.WithName("reportcache-prune"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prune job: %w", err)
	}
	return p, nil
}

// Start begins the schedule.
func (p *Pruner) Start() {
	slog.Info("Starting report cache pruner")
	p.scheduler.Start()
}

// Stop gracefully shuts the schedule down.
func (p *Pruner) Stop() error {
	slog.Info("Stopping report cache pruner")
	return p.scheduler.Shutdown()
}

func (p *Pruner) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := p.store.Prune(ctx)
	if err != nil {
		slog.Error("Report cache prune failed", logfields.Error(err))
		return
	}
	if n > 0 {
		slog.Info("Pruned stale cached reports", slog.Int64("removed", n))
	}
}
