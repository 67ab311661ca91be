// Command overlayd serves GriCal event overlays over HTTP, or builds one map
// view and prints it when run with -once.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/grical/overlay-service/internal/api"
	"github.com/grical/overlay-service/internal/core/domain"
	"github.com/grical/overlay-service/internal/core/ports"
	"github.com/grical/overlay-service/internal/core/service"
	"github.com/grical/overlay-service/internal/infrastructure/db/mongo"
	"github.com/grical/overlay-service/internal/infrastructure/db/redis"
	"github.com/grical/overlay-service/internal/infrastructure/grical"
	"github.com/grical/overlay-service/internal/infrastructure/queue"
	"github.com/grical/overlay-service/internal/mapview"
	"github.com/grical/overlay-service/internal/pkg/config"
	"github.com/grical/overlay-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type flagConfig struct {
	listen string
	once   bool
	input  string

	west, east, north, south float64
	limit                    int
}

func main() {
	flags := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if flags.listen != "" {
		cfg.Port = flags.listen
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty || cfg.IsDevelopment(),
		Service: "overlayd",
	})

	if flags.once {
		err = runOnce(ctx, cfg, flags)
	} else {
		err = serve(ctx, cfg)
	}
	if err != nil {
		log.Error().Err(err).Msg("overlayd failed")
		os.Exit(1)
	}
}

func parseFlags() flagConfig {
	var f flagConfig

	flag.StringVar(&f.listen, "listen", "", "HTTP listen port (overrides PORT)")
	flag.BoolVar(&f.once, "once", false, "Build one map view, print it as JSON and exit")
	flag.StringVar(&f.input, "input", "", "With -once: read the event array from this file (- for stdin) instead of GriCal")
	flag.Float64Var(&f.west, "west", -180, "With -once: western longitude")
	flag.Float64Var(&f.east, "east", 180, "With -once: eastern longitude")
	flag.Float64Var(&f.north, "north", 90, "With -once: northern latitude")
	flag.Float64Var(&f.south, "south", -90, "With -once: southern latitude")
	flag.IntVar(&f.limit, "limit", domain.DefaultLimit, "With -once: maximum number of events")

	flag.Parse()

	return f
}

// app is the wired overlay service together with its optional backends.
type app struct {
	service ports.OverlayService
	mongoDB *mongodriver.Database
	redis   *goredis.Client
	skips   ports.SkipRepository
	close   func()
}

func build(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.Get()
	a := &app{close: func() {}}
	var closers []func()

	markers, err := config.LoadMarkers(cfg.MarkersFile)
	if err != nil {
		return nil, err
	}

	fetcher, err := grical.NewFetcher(grical.Config{
		BaseURL:   cfg.Grical.BaseURL,
		Timeout:   cfg.Grical.Timeout,
		UserAgent: cfg.Grical.UserAgent,
	}, logger.Component("grical"))
	if err != nil {
		return nil, err
	}

	var cache ports.OverlayCache
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		a.redis = rdb
		cache = redis.NewOverlayCache(rdb, cfg.Redis.TTL)
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.TTL).Msg("overlay cache enabled")
	}

	var auditor service.SkipAuditor
	if cfg.Mongo.URI != "" {
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "overlayd",
		})
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, err
		}
		closers = append(closers, func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Disconnect(dctx)
		})

		repo := mongo.NewSkipRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure skip audit indexes")
		}
		dispatcher := queue.NewDispatcher(cfg.Audit.Workers, repo, logger.Component("audit"))
		dispatcher.Start(ctx)

		a.mongoDB = db
		a.skips = repo
		auditor = dispatcher
		log.Info().Str("database", cfg.Mongo.Database).Int("workers", cfg.Audit.Workers).Msg("skip audit enabled")
	}

	builder := service.NewOverlayBuilder(markers.Overlay, markers.Markers, logger.Component("builder"))
	a.service = service.NewOverlayService(fetcher, builder, cache, auditor, logger.Component("overlay"))
	a.close = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return a, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	a, err := build(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set, skip audit API disabled")
	}

	e := api.NewRouter(api.Deps{
		Overlays:  a.service,
		Skips:     a.skips,
		JWTSecret: cfg.JWTSecret,
		Mongo:     a.mongoDB,
		Redis:     a.redis,
		Log:       logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("overlayd listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}

// onceResult is what -once prints.
type onceResult struct {
	Viewport domain.Viewport        `json:"viewport"`
	Overlays []*domain.Overlay      `json:"overlays"`
	Skipped  []domain.SkippedRecord `json:"skipped"`
}

func runOnce(ctx context.Context, cfg *config.Config, f flagConfig) error {
	a, err := build(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	vp := domain.Viewport{West: f.west, East: f.east, North: f.north, South: f.south, Limit: f.limit}

	var source ports.OverlaySource = a.service
	if f.input != "" {
		payload, err := readInput(f.input)
		if err != nil {
			return err
		}
		source = mapview.NewPayloadSource(payload, a.service)
	}

	viewer := mapview.NewViewer(mapview.New(vp), logger.Component("mapview"), source)
	skipped, err := viewer.Create(ctx)
	if err != nil {
		return err
	}
	if len(viewer.View().Overlays()) == 0 {
		return errors.New("no overlay could be built")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(onceResult{
		Viewport: vp,
		Overlays: viewer.View().Overlays(),
		Skipped:  skipped,
	})
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}
