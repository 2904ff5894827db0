package expiry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webHikari/telegram-word-cloud/pkg/data"
)

type fakeStore struct {
	mu        sync.Mutex
	events    []data.ChangeEvent
	expired   []int64
	failID    int64
	selects   int
	hold      chan struct{}
	reversals map[int64][]data.WordCount
}

func newFakeStore(events ...data.ChangeEvent) *fakeStore {
	return &fakeStore{events: events, reversals: map[int64][]data.WordCount{}}
}

func (f *fakeStore) StaleEvents(ctx context.Context, before time.Time) ([]data.ChangeEvent, error) {
	f.mu.Lock()
	f.selects++
	stale := make([]data.ChangeEvent, 0, len(f.events))
	for _, ev := range f.events {
		if ev.OccurredAt.Before(before) {
			stale = append(stale, ev)
		}
	}
	hold := f.hold
	f.mu.Unlock()

	if nil != hold {
		<-hold
	}
	return stale, nil
}

func (f *fakeStore) ExpireEvent(ctx context.Context, ev data.ChangeEvent) error {
	if ev.ID == f.failID {
		return errors.New("malformed event")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired = append(f.expired, ev.ID)
	f.reversals[ev.ID] = ev.WordCounts
	for i, e := range f.events {
		if e.ID == ev.ID {
			f.events = append(f.events[:i], f.events[i+1:]...)
			break
		}
	}
	return nil
}

func staleEvent(id int64, age time.Duration) data.ChangeEvent {
	return data.ChangeEvent{
		ID:         id,
		WordCounts: []data.WordCount{{Word: "hello", Freq: 2}, {Word: "world", Freq: 1}},
		UserID:     100,
		ChatID:     -200,
		OccurredAt: time.Now().Add(-age),
	}
}

func TestSweepExpiresOnlyAgedEvents(t *testing.T) {
	store := newFakeStore(
		staleEvent(1, Window+time.Minute),
		staleEvent(2, Window+time.Hour),
		staleEvent(3, time.Hour),
	)
	s := NewSweeper(store, time.Minute)

	s.Sweep(context.Background())

	assert.ElementsMatch(t, []int64{1, 2}, store.expired)
	require.Len(t, store.events, 1)
	assert.Equal(t, int64(3), store.events[0].ID)
	assert.Equal(t, []data.WordCount{{Word: "hello", Freq: 2}, {Word: "world", Freq: 1}},
		store.reversals[1])
}

func TestSweepTwiceIsNoOp(t *testing.T) {
	store := newFakeStore(staleEvent(1, Window+time.Minute))
	s := NewSweeper(store, time.Minute)

	s.Sweep(context.Background())
	require.Equal(t, []int64{1}, store.expired)

	s.Sweep(context.Background())
	assert.Equal(t, []int64{1}, store.expired, "event expired twice")
}

func TestSweepContinuesPastFailingEvent(t *testing.T) {
	store := newFakeStore(
		staleEvent(1, Window+time.Minute),
		staleEvent(2, Window+time.Minute),
		staleEvent(3, Window+time.Minute),
	)
	store.failID = 2
	s := NewSweeper(store, time.Minute)

	s.Sweep(context.Background())

	assert.ElementsMatch(t, []int64{1, 3}, store.expired)
}

func TestRunSurvivesNonPositiveInterval(t *testing.T) {
	s := NewSweeper(newFakeStore(), 0)
	require.Equal(t, time.Minute, s.interval)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run did not return after cancellation")
	}
}

func TestSweepSkipsWhilePreviousSweepRuns(t *testing.T) {
	store := newFakeStore(staleEvent(1, Window+time.Minute))
	store.hold = make(chan struct{})
	s := NewSweeper(store, time.Minute)

	done := make(chan struct{})
	go func() {
		s.Sweep(context.Background())
		close(done)
	}()

	// wait for the first sweep to reach the store
	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.selects == 1
	}, time.Second, time.Millisecond)

	// overlapping trigger must be skipped without touching the store
	s.Sweep(context.Background())
	store.mu.Lock()
	assert.Equal(t, 1, store.selects)
	store.mu.Unlock()

	close(store.hold)
	<-done
	assert.Equal(t, []int64{1}, store.expired)
}
