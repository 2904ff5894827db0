package expiry

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/webHikari/telegram-word-cloud/pkg/data"
)

// Window is the length of the rolling frequency horizon.
const Window = 24 * time.Hour

// Store is the slice of the database the sweeper needs.
type Store interface {
	StaleEvents(ctx context.Context, before time.Time) ([]data.ChangeEvent, error)
	ExpireEvent(ctx context.Context, ev data.ChangeEvent) error
}

// Sweeper periodically reverses change events that have aged out of the
// rolling window. Failures are isolated per event, one bad event never
// aborts the rest of a sweep.
type Sweeper struct {
	store    Store
	window   time.Duration
	interval time.Duration
	running  int32
}

func NewSweeper(store Store, interval time.Duration) *Sweeper {
	if interval <= 0 {
		log.Println("non-positive sweep interval, using one minute")
		interval = time.Minute
	}
	return &Sweeper{store: store, window: Window, interval: interval}
}

// Run triggers a sweep every interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep expires every event older than the window. If the previous sweep is
// still running the trigger is skipped, overlapping sweeps would double up
// the decrements.
func (s *Sweeper) Sweep(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		log.Println("previous sweep still running, skipping this trigger")
		return
	}
	defer atomic.StoreInt32(&s.running, 0)

	events, err := s.store.StaleEvents(ctx, time.Now().Add(-s.window))
	if nil != err {
		log.Println("unable to select stale events", err)
		return
	}

	for _, ev := range events {
		if err := s.store.ExpireEvent(ctx, ev); nil != err {
			log.Println("unable to expire change event", ev.ID, err)
		}
	}
}
