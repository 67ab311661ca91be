package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/grical/overlay-service/internal/core/domain"
	"github.com/grical/overlay-service/internal/core/ports"
)

type stubSkipRepo struct {
	mu        sync.Mutex
	insertErr error
	inserted  [][]domain.SkipAudit
	done      chan struct{}
}

func newStubSkipRepo(expected int) *stubSkipRepo {
	return &stubSkipRepo{done: make(chan struct{}, expected)}
}

func (r *stubSkipRepo) InsertSkips(_ context.Context, entries []domain.SkipAudit) error {
	defer func() { r.done <- struct{}{} }()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	r.inserted = append(r.inserted, entries)
	r.mu.Unlock()
	return nil
}

func (r *stubSkipRepo) ListRecent(context.Context, int) ([]domain.SkipAudit, error) {
	return nil, nil
}

func waitFor(t *testing.T, done <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %d writes (got %d)", n, i)
		}
	}
}

func batch(source string, indexes ...int) ports.SkipBatch {
	entries := make([]domain.SkipAudit, 0, len(indexes))
	for _, i := range indexes {
		entries = append(entries, domain.SkipAudit{Source: source, Index: i, Reason: domain.SkipMissingField})
	}
	return ports.SkipBatch{Source: source, Entries: entries}
}

func TestDispatcher_WritesBatchesInOrderPerSource(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newStubSkipRepo(3)
	d := NewDispatcher(2, repo, zerolog.Nop())
	d.Start(ctx)

	d.Enqueue(batch("@1,2,4,3/50", 0))
	d.Enqueue(batch("@1,2,4,3/50", 1))
	d.Enqueue(batch("@1,2,4,3/50", 2))
	waitFor(t, repo.done, 3)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.inserted) != 3 {
		t.Fatalf("expected 3 batches written, got %d", len(repo.inserted))
	}
	for i, entries := range repo.inserted {
		if entries[0].Index != i {
			t.Errorf("batch %d written out of order: %+v", i, entries)
		}
	}
}

func TestDispatcher_WriteFailureKeepsWorkerAlive(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newStubSkipRepo(2)
	repo.insertErr = errors.New("mongo unavailable")
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(ctx)

	d.Enqueue(batch("payload", 0))
	d.Enqueue(batch("payload", 1))
	waitFor(t, repo.done, 2)
}

func TestDispatcher_EnqueueDropsWhenFull(t *testing.T) {
	repo := newStubSkipRepo(0)
	d := NewDispatcher(1, repo, zerolog.Nop())
	// Workers are not started, so the channel fills up.
	for i := 0; i < channelBuffer+5; i++ {
		d.Enqueue(batch("payload", i))
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected %d queued batches, got %d", channelBuffer, got)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, newStubSkipRepo(0), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	a := d.shardIndex("@13,14,53,52/50")
	for i := 0; i < 10; i++ {
		if d.shardIndex("@13,14,53,52/50") != a {
			t.Fatal("shard index changed between calls")
		}
	}
}
