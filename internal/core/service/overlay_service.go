package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/grical/overlay-service/internal/core/domain"
	"github.com/grical/overlay-service/internal/core/ports"
)

// PayloadSource is the audit source recorded for caller-supplied payloads.
const PayloadSource = "payload"

// SkipAuditor abstracts the asynchronous audit trail (dispatcher + Mongo).
type SkipAuditor interface {
	Enqueue(batch ports.SkipBatch)
}

type overlayService struct {
	fetcher ports.EventFetcher
	builder *OverlayBuilder
	cache   ports.OverlayCache
	auditor SkipAuditor
	log     zerolog.Logger
}

// NewOverlayService returns an OverlayService implementation. cache and
// auditor are optional and may be nil.
func NewOverlayService(
	fetcher ports.EventFetcher,
	builder *OverlayBuilder,
	cache ports.OverlayCache,
	auditor SkipAuditor,
	log zerolog.Logger,
) ports.OverlayService {
	return &overlayService{
		fetcher: fetcher,
		builder: builder,
		cache:   cache,
		auditor: auditor,
		log:     log,
	}
}

// CreateOverlay fetches the events inside vp and builds their overlay.
func (s *overlayService) CreateOverlay(ctx context.Context, vp domain.Viewport) (*ports.BuildResult, error) {
	if err := vp.Validate(); err != nil {
		return nil, fmt.Errorf("create overlay: %w", err)
	}
	vp = vp.Normalized()
	key := vp.Key()

	// 1. Recently built overlay for the same viewport.
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			cached.FromCache = true
			s.log.Debug().Str("viewport", key).Msg("overlay served from cache")
			return cached, nil
		case !errors.Is(err, domain.ErrCacheMiss):
			s.log.Warn().Err(err).Str("viewport", key).Msg("overlay cache lookup failed")
		}
	}

	// 2. Retrieve events; upstream failures are never masked by stale data.
	payload, err := s.fetcher.Retrieve(ctx, vp)
	if err != nil {
		return nil, fmt.Errorf("create overlay: %w", err)
	}

	// 3. Build.
	result, err := s.builder.BuildPayload(payload)
	if err != nil {
		return nil, fmt.Errorf("create overlay: %w", err)
	}

	// 4. Audit skipped records (non-fatal, asynchronous).
	s.audit(key, result)

	// 5. Cache for the next request on this viewport (non-fatal).
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result); err != nil {
			s.log.Warn().Err(err).Str("viewport", key).Msg("failed to cache overlay")
		}
	}

	return result, nil
}

// BuildFromPayload builds an overlay from an event array supplied by the caller.
func (s *overlayService) BuildFromPayload(_ context.Context, payload []byte) (*ports.BuildResult, error) {
	result, err := s.builder.BuildPayload(payload)
	if err != nil {
		return nil, fmt.Errorf("build overlay: %w", err)
	}
	s.audit(PayloadSource, result)
	return result, nil
}

func (s *overlayService) audit(source string, result *ports.BuildResult) {
	if s.auditor == nil || len(result.Skipped) == 0 {
		return
	}

	now := time.Now().UTC()
	entries := make([]domain.SkipAudit, 0, len(result.Skipped))
	for _, sk := range result.Skipped {
		entries = append(entries, domain.SkipAudit{
			OverlayID:  result.Overlay.ID.String(),
			Source:     source,
			Index:      sk.Index,
			Reason:     sk.Reason,
			Detail:     sk.Detail,
			Missing:    sk.Missing,
			Record:     string(sk.Record),
			RecordedAt: now,
		})
	}
	s.auditor.Enqueue(ports.SkipBatch{Source: source, Entries: entries})
}
