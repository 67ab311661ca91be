package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/grical/overlay-service/internal/core/domain"
	"github.com/grical/overlay-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubFetcher struct {
	payload string
	err     error
	calls   []domain.Viewport
}

func (f *stubFetcher) Retrieve(_ context.Context, vp domain.Viewport) (json.RawMessage, error) {
	f.calls = append(f.calls, vp)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.payload), nil
}

type stubCache struct {
	entries map[string]*ports.BuildResult
	getErr  error
	setErr  error
	sets    []string
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*ports.BuildResult)}
}

func (c *stubCache) Get(_ context.Context, key string) (*ports.BuildResult, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	res, ok := c.entries[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	clone := *res
	return &clone, nil
}

func (c *stubCache) Set(_ context.Context, key string, res *ports.BuildResult) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.sets = append(c.sets, key)
	c.entries[key] = res
	return nil
}

type stubAuditor struct {
	batches []ports.SkipBatch
}

func (a *stubAuditor) Enqueue(batch ports.SkipBatch) {
	a.batches = append(a.batches, batch)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

const mixedPayload = `[
	{"fields": {"coordinates": "POINT (13.4 52.5)", "title": "Meetup", "upcoming": "2024-01-01", "tags": "social"}},
	{"fields": {"coordinates": "POINT (13.4 52.5)", "title": "Meetup"}}
]`

var berlin = domain.Viewport{West: 13.0, East: 14.0, North: 53.0, South: 52.0}

func newOverlaySvc(fetcher ports.EventFetcher, cache ports.OverlayCache, auditor SkipAuditor) ports.OverlayService {
	return NewOverlayService(fetcher, newTestBuilder(), cache, auditor, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestOverlayService_CreateOverlay_HappyPath(t *testing.T) {
	fetcher := &stubFetcher{payload: mixedPayload}
	cache := newStubCache()
	auditor := &stubAuditor{}

	svc := newOverlaySvc(fetcher, cache, auditor)
	res, err := svc.CreateOverlay(context.Background(), berlin)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if res.Overlay.Len() != 1 || len(res.Skipped) != 1 {
		t.Fatalf("expected 1 marker and 1 skip, got %d/%d", res.Overlay.Len(), len(res.Skipped))
	}
	if len(fetcher.calls) != 1 || fetcher.calls[0].Limit != domain.DefaultLimit {
		t.Errorf("expected one fetch with the default limit, got %+v", fetcher.calls)
	}
	if len(cache.sets) != 1 || cache.sets[0] != "@13,14,53,52/50" {
		t.Errorf("expected result cached under viewport key, got %v", cache.sets)
	}
	if len(auditor.batches) != 1 {
		t.Fatalf("expected one audit batch, got %d", len(auditor.batches))
	}
	entry := auditor.batches[0].Entries[0]
	if entry.Source != "@13,14,53,52/50" || entry.Reason != domain.SkipMissingField || entry.Index != 1 {
		t.Errorf("unexpected audit entry: %+v", entry)
	}
	if entry.OverlayID != res.Overlay.ID.String() {
		t.Errorf("audit entry not linked to overlay")
	}
}

func TestOverlayService_CreateOverlay_CacheHit(t *testing.T) {
	fetcher := &stubFetcher{payload: mixedPayload}
	cache := newStubCache()
	auditor := &stubAuditor{}
	svc := newOverlaySvc(fetcher, cache, auditor)

	first, err := svc.CreateOverlay(context.Background(), berlin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.CreateOverlay(context.Background(), berlin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fetcher.calls) != 1 {
		t.Errorf("expected a single upstream fetch, got %d", len(fetcher.calls))
	}
	if !second.FromCache || first.FromCache {
		t.Errorf("expected only the second result to come from cache")
	}
	if second.Overlay.ID != first.Overlay.ID {
		t.Errorf("expected the cached overlay to be returned")
	}
	if len(auditor.batches) != 1 {
		t.Errorf("cache hits must not be audited again, got %d batches", len(auditor.batches))
	}
}

func TestOverlayService_CreateOverlay_CacheErrorIsNonFatal(t *testing.T) {
	fetcher := &stubFetcher{payload: mixedPayload}
	cache := newStubCache()
	cache.getErr = errors.New("redis timeout")
	cache.setErr = errors.New("redis timeout")

	svc := newOverlaySvc(fetcher, cache, nil)
	res, err := svc.CreateOverlay(context.Background(), berlin)
	if err != nil {
		t.Fatalf("expected cache failures to be non-fatal, got: %v", err)
	}
	if res.Overlay.Len() != 1 {
		t.Errorf("expected overlay to be built")
	}
}

func TestOverlayService_CreateOverlay_InvalidViewport(t *testing.T) {
	fetcher := &stubFetcher{payload: mixedPayload}
	svc := newOverlaySvc(fetcher, nil, nil)

	_, err := svc.CreateOverlay(context.Background(), domain.Viewport{West: 20, East: 10, North: 1, South: 0})
	if !errors.Is(err, domain.ErrInvalidViewport) {
		t.Fatalf("expected ErrInvalidViewport, got: %v", err)
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("expected no fetch for an invalid viewport")
	}
}

func TestOverlayService_CreateOverlay_NaNBoundNeverFetched(t *testing.T) {
	fetcher := &stubFetcher{payload: mixedPayload}
	svc := newOverlaySvc(fetcher, nil, nil)

	_, err := svc.CreateOverlay(context.Background(), domain.Viewport{West: math.NaN(), East: 10, North: 10, South: 0})
	if !errors.Is(err, domain.ErrInvalidViewport) {
		t.Fatalf("expected ErrInvalidViewport, got: %v", err)
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("expected no fetch for a NaN bound, got %+v", fetcher.calls)
	}
}

func TestOverlayService_CreateOverlay_UpstreamError(t *testing.T) {
	fetcher := &stubFetcher{err: fmt.Errorf("%w: status 503", domain.ErrUpstream)}
	cache := newStubCache()
	svc := newOverlaySvc(fetcher, cache, nil)

	_, err := svc.CreateOverlay(context.Background(), berlin)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got: %v", err)
	}
	if len(cache.sets) != 0 {
		t.Errorf("nothing should be cached on failure")
	}
}

func TestOverlayService_CreateOverlay_MalformedUpstreamPayload(t *testing.T) {
	fetcher := &stubFetcher{payload: `{"error": "boom"}`}
	svc := newOverlaySvc(fetcher, nil, nil)

	_, err := svc.CreateOverlay(context.Background(), berlin)
	if !errors.Is(err, domain.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got: %v", err)
	}
}

func TestOverlayService_BuildFromPayload(t *testing.T) {
	auditor := &stubAuditor{}
	svc := newOverlaySvc(&stubFetcher{}, nil, auditor)

	res, err := svc.BuildFromPayload(context.Background(), []byte(mixedPayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Overlay.Len() != 1 {
		t.Errorf("expected one marker, got %d", res.Overlay.Len())
	}
	if len(auditor.batches) != 1 || auditor.batches[0].Source != PayloadSource {
		t.Errorf("expected payload audit batch, got %+v", auditor.batches)
	}
}

func TestOverlayService_BuildFromPayload_NothingSkippedNoAudit(t *testing.T) {
	auditor := &stubAuditor{}
	svc := newOverlaySvc(&stubFetcher{}, nil, auditor)

	_, err := svc.BuildFromPayload(context.Background(), []byte(`[]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(auditor.batches) != 0 {
		t.Errorf("expected no audit batch")
	}
}
