package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Gunvolt24/wc_order_export/config"
	cachemem "github.com/Gunvolt24/wc_order_export/internal/cache/memory"
	cacheredis "github.com/Gunvolt24/wc_order_export/internal/cache/redis"
	"github.com/Gunvolt24/wc_order_export/internal/kafka"
	"github.com/Gunvolt24/wc_order_export/internal/ports"
	"github.com/Gunvolt24/wc_order_export/internal/repo/postgres"
	"github.com/Gunvolt24/wc_order_export/internal/storage/localfs"
	rest "github.com/Gunvolt24/wc_order_export/internal/transport/http"
	"github.com/Gunvolt24/wc_order_export/internal/usecase"
	"github.com/Gunvolt24/wc_order_export/pkg/logger"
	"github.com/Gunvolt24/wc_order_export/pkg/metrics"
	"github.com/Gunvolt24/wc_order_export/pkg/telemetry"
)

// App — собранное приложение: HTTP-сервер и сервис выгрузки.
type App struct {
	Logger          ports.Logger             // логгер
	HTTPServer      *http.Server             // HTTP-сервер
	Service         ports.OrderExportService // сервис выгрузки (для очистки каталога при остановке)
	Events          ports.EventPublisher     // публикатор событий
	SweepOnShutdown bool                     // удалять файлы выгрузки при остановке
	gracefulTimeout time.Duration            // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// Core — сервис выгрузки со всеми зависимостями (общий для сервера и CLI).
type Core struct {
	Service *usecase.ExportService
	Events  ports.EventPublisher
	Pool    *pgxpool.Pool
	closers []func() error
}

// Close — освобождает ресурсы ядра в обратном порядке.
func (c *Core) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// NewCore — пул Postgres, стратегии выборки, хранилище файлов, токены и события.
func NewCore(ctx context.Context, cfg *config.Config, log ports.Logger) (*Core, error) {
	core := &Core{}

	tables, err := postgres.NewTables(cfg.Store.TablePrefix)
	if err != nil {
		return nil, err
	}

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DSN:              cfg.Postgres.DSN,
		MaxConns:         cfg.Postgres.MaxConns,
		StatementTimeout: cfg.Postgres.StatementTimeout,
		ApplicationName:  cfg.Tracing.ServiceName,
	})
	if err != nil {
		return nil, err
	}
	core.Pool = pool
	core.closers = append(core.closers, func() error { pool.Close(); return nil })

	probe, err := postgres.NewBackendProbe(pool, tables, cfg.Store.Backend)
	if err != nil {
		_ = core.Close()
		return nil, err
	}
	engine := usecase.NewQueryEngine(probe, postgres.NewHPOSSource(pool, tables), postgres.NewLegacySource(pool, tables))

	tokens, err := newTokenStore(ctx, cfg.Tokens, core)
	if err != nil {
		_ = core.Close()
		return nil, err
	}

	var events ports.EventPublisher = kafka.Noop{}
	if cfg.Kafka.Enabled {
		events = kafka.NewPublisher(&kafka.PublisherConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: cfg.Kafka.WriteTimeout,
		}, log)
		log.Infof(ctx, "kafka export events enabled topic=%s brokers=%v", cfg.Kafka.Topic, cfg.Kafka.Brokers)
	}
	core.Events = events
	core.closers = append(core.closers, events.Close)

	core.Service = usecase.NewExportService(engine, localfs.New(cfg.Export.Dir), tokens, events, log,
		usecase.Options{PreviewRows: cfg.Export.PreviewRows})

	log.Infof(ctx, "order export ready backend=%s prefix=%s dir=%s tokens=%s",
		cfg.Store.Backend, cfg.Store.TablePrefix, cfg.Export.Dir, cfg.Tokens.Driver)
	return core, nil
}

// newTokenStore — хранилище токенов по настройке драйвера.
func newTokenStore(ctx context.Context, cfg config.Tokens, core *Core) (ports.ArtifactStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "memory":
		return cachemem.NewTokenStore(cfg.Capacity, cfg.TTL), nil
	case "redis":
		client, err := cacheredis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		core.closers = append(core.closers, client.Close)
		return cacheredis.NewTokenStore(client, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown token store driver %q", cfg.Driver)
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd, cfg.Logger.Level)
	if err != nil {
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	if !cfg.Auth.Disabled && cfg.Auth.JWTSecret == "" {
		_ = cleanupLogger()
		return nil, func() {}, errors.New("auth: JWT secret is required unless auth is disabled")
	}

	core, err := NewCore(ctx, cfg, logg)
	if err != nil {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, telemetry.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
			Attributes: []attribute.KeyValue{
				attribute.String("store.backend", cfg.Store.Backend),
				attribute.String("tokens.driver", cfg.Tokens.Driver),
			},
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}
	if cfg.Auth.Disabled {
		logg.Warnf(ctx, "auth disabled: /api is open to everyone")
	}

	// Роутер и HTTP-сервер.
	httpHandler := rest.NewHandler(core.Service, logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(httpHandler, rest.AuthConfig{
		Disabled:   cfg.Auth.Disabled,
		Secret:     cfg.Auth.JWTSecret,
		Capability: cfg.Auth.Capability,
	}, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		Service:         core.Service,
		Events:          core.Events,
		SweepOnShutdown: cfg.Export.SweepOnShutdown,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		if err := core.Close(); err != nil {
			logg.Warnf(ctx, "close core: %v", err)
		}
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

// Run — запускает HTTP-сервер; ждёт отмены контекста или ошибки и останавливает его.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	// Запуск HTTP-сервера.
	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или ошибки сервера.
	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case runErr = <-errCh:
		a.Logger.Errorf(ctx, "http server failed: %v", runErr)
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	// Очистка каталога выгрузки (аналог деактивации плагина).
	if a.SweepOnShutdown && a.Service != nil {
		if _, err := a.Service.Sweep(shutdownCtx); err != nil {
			a.Logger.Warnf(ctx, "sweep on shutdown failed: %v", err)
		}
	}

	// Досылаем буфер событий.
	if a.Events != nil {
		if err := a.Events.Close(); err != nil {
			a.Logger.Warnf(ctx, "event publisher close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return runErr
}
