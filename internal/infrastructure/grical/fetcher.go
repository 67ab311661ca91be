package grical

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/grical/overlay-service/internal/core/domain"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "grical-overlay/1.0"
	maxPayloadBytes  = 8 << 20
)

// Config captures the settings for talking to a GriCal server.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Fetcher retrieves events from the GriCal search endpoint:
//
//	GET {base}/s/?query=@west,east,north,south&view=json&limit=n
//
// Requests are made once; there is no retry.
type Fetcher struct {
	client    *http.Client
	searchURL string
	userAgent string
	log       zerolog.Logger
}

// NewFetcher validates cfg and returns a Fetcher. Zero timeout and user agent
// fall back to defaults.
func NewFetcher(cfg Config, log zerolog.Logger) (*Fetcher, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("grical: invalid base url %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		searchURL: strings.TrimRight(base.String(), "/") + "/s/",
		userAgent: ua,
		log:       log,
	}, nil
}

// Retrieve returns the raw JSON event array for vp.
func (f *Fetcher) Retrieve(ctx context.Context, vp domain.Viewport) (json.RawMessage, error) {
	vp = vp.Normalized()

	q := url.Values{}
	q.Set("query", vp.Query())
	q.Set("view", "json")
	q.Set("limit", strconv.Itoa(vp.Limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.searchURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("grical: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %s", domain.ErrUpstream, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrUpstream, err)
	}
	if len(body) > maxPayloadBytes {
		return nil, fmt.Errorf("%w: payload exceeds %d bytes", domain.ErrUpstream, maxPayloadBytes)
	}

	f.log.Debug().
		Str("query", vp.Query()).
		Int("limit", vp.Limit).
		Int("bytes", len(body)).
		Dur("took", time.Since(start)).
		Msg("events retrieved")

	return json.RawMessage(body), nil
}
