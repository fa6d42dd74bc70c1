package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/md-rashed-zaman/bookingdesk/libs/config"
	otelx "github.com/md-rashed-zaman/bookingdesk/libs/otel"
	"github.com/md-rashed-zaman/bookingdesk/libs/runtime"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/actions"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/hooks"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/invalidation"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/query"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/settings"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/view"
)

const serviceName = "console"

type globalFlags struct {
	apiURL  string
	token   string
	output  string
	verbose bool
}

// listener applies invalidations published by other consoles until ctx ends.
type listener interface {
	Run(ctx context.Context, target invalidation.Invalidator)
}

// lister prints the default page of one collection. watch looks them up by
// collection name.
type lister func(ctx context.Context, refresh bool) error

type app struct {
	stdout io.Writer
	stderr io.Writer
	flags  globalFlags

	settings settings.Settings
	logger   *slog.Logger
	out      *view.Renderer
	api      *actions.Client
	queries  *query.Client
	hooks    *hooks.Hooks
	rdb      *redis.Client
	bus      listener

	listers map[string]lister
	closers []func(context.Context) error
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr, listers: make(map[string]lister)}
}

func (a *app) setup(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}
	s, err := settings.Load()
	if err != nil {
		return err
	}
	if a.flags.apiURL != "" {
		s.APIURL = a.flags.apiURL
	}
	if a.flags.token != "" {
		s.Token = a.flags.token
	}
	a.settings = s

	level := s.LogLevel
	if a.flags.verbose {
		level = "debug"
	}
	a.logger = runtime.NewLogger(serviceName, a.stderr, level)

	format, err := view.ParseFormat(a.flags.output)
	if err != nil {
		return err
	}
	a.out = view.New(a.stdout, format)

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(serviceName))
	if err != nil {
		a.logger.Warn("otel setup failed", "err", err)
	} else {
		a.closers = append(a.closers, otelShutdown)
	}

	a.api, err = actions.New(actions.Config{
		BaseURL:   s.APIURL,
		Token:     s.Token,
		Timeout:   s.Timeout,
		RateLimit: s.RateLimit,
		Logger:    a.logger,
	})
	if err != nil {
		return err
	}

	opts := []query.ClientOption{query.WithLogger(a.logger), query.WithScope(a.api.CacheScope)}
	if s.RedisAddr != "" {
		a.rdb = redis.NewClient(&redis.Options{
			Addr:     s.RedisAddr,
			Password: s.RedisPassword,
			DB:       s.RedisDB,
		})
		a.closers = append(a.closers, func(context.Context) error { return a.rdb.Close() })
		opts = append(opts, query.WithStore(query.NewRedisStore(a.rdb, "")))
	}
	if len(s.KafkaBrokers) > 0 {
		bus, err := invalidation.NewKafkaBus(a.logger, invalidation.Config{
			Brokers: s.KafkaBrokers,
			Topic:   s.KafkaTopic,
		})
		if err != nil {
			return err
		}
		a.bus = bus
		a.closers = append(a.closers, func(context.Context) error { return bus.Close() })
		opts = append(opts, query.WithNotifier(bus))
	}
	a.queries = query.NewClient(s.Query, opts...)
	a.hooks = hooks.New(a.api, a.queries)

	a.logger.Debug("console ready", "api_url", s.APIURL, "redis", s.RedisAddr != "", "kafka", len(s.KafkaBrokers) > 0)
	return nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && a.logger != nil {
			a.logger.Warn("shutdown step failed", "err", err)
		}
	}
	a.closers = nil
}

// show renders a query result. Cached data that could not be refreshed is
// still shown, with a warning on stderr.
func show[T any](a *app, res query.Result[T], render func(T) error) error {
	if res.Err != nil {
		if !res.FromCache {
			return res.Err
		}
		a.logger.Warn("showing cached data", "updated_at", res.UpdatedAt, "err", res.Err)
	}
	return render(res.Data)
}
