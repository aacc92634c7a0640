package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"mystic_market/internal/config"
	service "mystic_market/internal/domain/service/appraisal"
	"mystic_market/internal/domain/service/pricing"
	"mystic_market/internal/infrastructure/metrics"
	"mystic_market/internal/infrastructure/notifier"
	"mystic_market/internal/infrastructure/persistence"
	"mystic_market/internal/server"
	"mystic_market/internal/transport/bot"
	"mystic_market/internal/transport/bot/handler"
	"mystic_market/internal/worker"
	"mystic_market/pkg/application/connectors"
	"mystic_market/pkg/application/modules"
	"mystic_market/pkg/logx"
	"mystic_market/pkg/probe"
)

const saleWriteTimeout = 5 * time.Second

type sessionStore interface {
	service.SessionStore
	Ping(ctx context.Context) error
}

// Run wires the service and blocks until ctx is done or a module fails.
func Run(ctx context.Context, cfg config.Config) error {
	policy, err := cfg.Pricing.Policy()
	if err != nil {
		return fmt.Errorf("cfg.Pricing.Policy: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	checks := map[string]probe.ReadinessCheck{}

	redisConnector := &connectors.Redis{
		Username:       cfg.Redis.Username,
		Password:       cfg.Redis.Password,
		Address:        cfg.Redis.Address,
		DatabaseNumber: cfg.Redis.DB,
		PoolSize:       cfg.Redis.PoolSize,
	}
	defer redisConnector.Close(ctx)

	store, err := newSessionStore(ctx, cfg, redisConnector)
	if err != nil {
		return err
	}

	checks["session-store"] = store.Ping

	if cfg.Worker.Transport == config.TransportAsynq {
		checks["redis"] = redisConnector.Ping
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	recorder := metrics.NewRecorder()
	recorder.MustRegister(registry)

	bus := service.NewBus()
	recorder.Subscribe(bus)

	appraisal := service.NewAppraisalService(store, bus, pricing.NewRandomSource(cfg.Pricing.Seed), policy).
		WithNameGate(cfg.Pricing.RequireNames)

	dispatcher, err := newDispatcher(ctx, g, cfg, recorder)
	if err != nil {
		return err
	}

	if dispatcher != nil {
		if cfg.NotifyOn(config.NotifyOnFinalize) {
			appraisal = appraisal.WithDispatcher(dispatcher)
		}

		if cfg.NotifyOn(config.NotifyOnRoll) {
			bus.Subscribe(notifyRolls(dispatcher, time.Now), service.EventRolled)
		}
	}

	srv := server.NewServer(
		server.NewCatalogServer(appraisal),
		server.NewSessionServer(appraisal, cfg.HTTP.FinalizeAwaitTimeout),
	)

	if cfg.Postgres.Enabled() {
		pg := &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}
		defer pg.Close(ctx)

		db, err := pg.Client(ctx)
		if err != nil {
			return fmt.Errorf("pg.Client: %w", err)
		}

		sales := persistence.NewSaleRepository(db)
		bus.Subscribe(recordSales(sales, saleWriteTimeout), service.EventFinalized)
		srv = srv.WithSales(server.NewSaleServer(sales))

		checks["postgres"] = pg.Ping
	}

	if cfg.Bot.Commands {
		chatBot, err := bot.New(cfg.Bot.Token, handler.New(appraisal), cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("bot.New: %w", err)
		}

		g.Go(func() error {
			return chatBot.Run(ctx)
		})
	}

	modules.HTTPServer{
		ListenAddress:     cfg.HTTP.ListenAddress,
		Handler:           srv.Handler(cfg.HTTP.LogFieldMaxLen),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g)

	modules.OpsServer{
		Name:                 cfg.App.Name,
		Version:              cfg.App.Version,
		ProbeListenAddress:   cfg.HTTP.ProbeListenAddress,
		MetricsListenAddress: cfg.HTTP.MetricsListenAddress,
		Gatherer:             registry,
		Checks:               checks,
	}.Run(ctx, g)

	logger(ctx).Info("application started",
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
		slog.String("pricing-table", policy.Table.Name),
		slog.Bool("notifications", dispatcher != nil),
		slog.Bool("sales-ledger", cfg.Postgres.Enabled()),
	)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}

func newSessionStore(ctx context.Context, cfg config.Config, redisConnector *connectors.Redis) (sessionStore, error) {
	switch cfg.Session.Store {
	case config.SessionStoreMemory:
		return persistence.NewMemorySessionStore(cfg.Session.TTL, cfg.Session.CleanupInterval), nil
	case config.SessionStoreRedis:
		return persistence.NewRedisSessionStore(redisConnector.Client(ctx), cfg.Session.TTL), nil
	default:
		return nil, fmt.Errorf("%w: session store %q", config.ErrInvalidConfig, cfg.Session.Store)
	}
}

// newDispatcher returns nil when no sink is configured.
func newDispatcher(
	ctx context.Context,
	g *errgroup.Group,
	cfg config.Config,
	recorder *metrics.Recorder,
) (service.Dispatcher, error) {
	if !cfg.NotificationsEnabled() {
		return nil, nil //nolint:nilnil
	}

	var senders notifier.Fanout

	if cfg.Webhook.Enabled() {
		senders = append(senders, notifier.NewWebhook(cfg.Webhook.Notifier(cfg.HTTP.LogFieldMaxLen)))
	}

	if cfg.Bot.Enabled() {
		telegram, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return nil, fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		senders = append(senders, telegram)
	}

	switch cfg.Worker.Transport {
	case config.TransportAsynq:
		redisConnection := asynq.RedisClientOpt{
			Addr:     cfg.Redis.Address,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}

		client := asynq.NewClient(redisConnection)

		g.Go(func() error {
			<-ctx.Done()

			if err := client.Close(); err != nil {
				logger(ctx).Error("asynqClient.Close", logx.Error(err))
			}

			return nil
		})

		modules.AsynqServer{
			RedisUsername:   cfg.Redis.Username,
			RedisPassword:   cfg.Redis.Password,
			RedisAddress:    cfg.Redis.Address,
			RedisDB:         cfg.Redis.DB,
			Concurrency:     cfg.Worker.Count,
			ShutdownTimeout: cfg.Worker.ShutdownTimeout,
		}.Run(ctx, g, modules.AsynqQueues{cfg.Worker.QueueName: 1}, modules.AsynqHandler{
			Pattern: worker.TypeNotification,
			Handle:  worker.NotificationHandler(senders),
		})

		return worker.NewAsynqDispatcher(client, cfg.Worker.QueueName, cfg.Webhook.Timeout).
			WithResultHook(recorder.NotificationResult), nil
	default:
		pool := worker.NewNotificationPool(senders, cfg.Worker.Count, cfg.Worker.QueueSize).
			WithTimeout(cfg.Webhook.Timeout).
			WithResultHook(recorder.NotificationResult)

		g.Go(func() error {
			if err := pool.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("pool.Run: %w", err)
			}

			return nil
		})

		return pool, nil
	}
}
