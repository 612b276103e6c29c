package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectologger"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"

	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/pkg/dedup"
	"github.com/Ramsey-B/fern/pkg/gaps"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/models"
	deduproutes "github.com/Ramsey-B/fern/pkg/routes/dedup"
	gaproutes "github.com/Ramsey-B/fern/pkg/routes/gaps"
	"github.com/Ramsey-B/fern/pkg/routes/health"
	"github.com/Ramsey-B/fern/pkg/startup"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/tracing/exporters"
)

var version = "dev"

func main() {
	// Missing .env is fine; containers set real env vars.
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		panic(fmt.Errorf("failed to load config: %w", err))
	}

	zlog := newZapLogger(cfg)
	defer func() { _ = zlog.Sync() }()

	log := ectologger.NewEctoLogger(func(m ectologger.EctoLogMessage) {
		b, err := json.Marshal(m)
		if err != nil {
			zlog.Error("failed to encode log message", zap.Error(err))
			return
		}
		zlog.Info(string(b))
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	boot := startup.New(log, cfg.StartupMaxAttempts)

	if cfg.TracingEnabled {
		boot.Add(tracerDependency(cfg))
	}

	processor := dedup.NewProcessor(dedup.Config{
		SimilarityThreshold: cfg.SimilarityThreshold,
		DefaultResolution:   models.ResolutionMode(cfg.DefaultResolution),
		MergeWorkerCount:    cfg.MergeWorkerCount,
	}, log)

	checker := health.NewChecker(nil, nil, version)
	if cfg.KafkaConsumerEnabled {
		producer := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, log)

		pipeline := dedup.NewPipeline(log, processor, producer)
		consumer := kafka.NewConsumer(cfg, log, pipeline.HandleMessage)
		checker = health.NewChecker(consumer, producer, version)

		boot.Add(&dependency{
			name:  "kafka-producer",
			start: func(ctx context.Context) error { return nil },
			stop:  func(ctx context.Context) error { return producer.Close() },
		})
		boot.Add(&dependency{
			name:  "kafka-consumer",
			start: consumer.Start,
			stop:  func(ctx context.Context) error { return consumer.Stop() },
		})
	}

	e := newServer(cfg, log, processor, checker)
	boot.Add(&dependency{
		name: "http-server",
		start: func(ctx context.Context) error {
			go func() {
				addr := fmt.Sprintf(":%d", cfg.Port)
				if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
					log.WithError(err).Error("HTTP server stopped unexpectedly")
					stop()
				}
			}()
			return nil
		},
		stop: func(ctx context.Context) error { return e.Shutdown(ctx) },
	})

	if err := boot.Start(ctx); err != nil {
		log.WithError(err).Error("Startup failed")
		os.Exit(1)
	}
	checker.SetReady(true)
	log.WithField("port", cfg.Port).Infof("%s listening on port %d", cfg.AppName, cfg.Port)

	<-ctx.Done()
	checker.SetReady(false)
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := boot.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("Shutdown finished with errors")
		os.Exit(1)
	}
}

func newZapLogger(cfg config.Config) *zap.Logger {
	var zlog *zap.Logger
	var err error
	if cfg.PrettyLogs {
		zlog, err = zap.NewDevelopment()
	} else {
		zlog, err = zap.NewProduction()
	}
	if err != nil {
		panic(fmt.Errorf("failed to build logger: %w", err))
	}
	return zlog
}

func newServer(cfg config.Config, log ectologger.Logger, processor *dedup.Processor, checker *health.Checker) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(log)

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.ReadHeaderTimeout = time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(log))
	if cfg.TracingEnabled {
		e.Use(otelecho.Middleware(cfg.AppName))
	}
	e.Use(middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst).Middleware())

	checker.RegisterRoutes(e)

	dedupHandler := deduproutes.NewHandler(log, processor)
	dedupHandler.Register(e.Group("/api/v1/dedup"))

	gapHandler := gaproutes.NewHandler(log, gaps.Config{
		GapThresholdHours:  cfg.GapThresholdHours,
		ExpectedFrequency:  models.FrequencyTier(cfg.ExpectedFrequency),
		AnalysisPeriodDays: cfg.AnalysisPeriodDays,
	})
	gapHandler.Register(e.Group("/api/v1/gaps"))

	return e
}

func tracerDependency(cfg config.Config) *dependency {
	var provider *sdktrace.TracerProvider
	return &dependency{
		name: "tracing",
		start: func(ctx context.Context) error {
			exporter, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
				Endpoint: cfg.TracingEndpoint,
				Insecure: cfg.TracingInsecure,
				Timeout:  10 * time.Second,
			})
			if err != nil {
				return err
			}

			res, err := resource.New(ctx,
				resource.WithAttributes(
					semconv.ServiceName(cfg.AppName),
					semconv.ServiceVersion(version),
				),
			)
			if err != nil {
				return err
			}

			provider = sdktrace.NewTracerProvider(
				sdktrace.WithBatcher(exporter),
				sdktrace.WithResource(res),
			)
			otel.SetTracerProvider(provider)
			tracing.SetTracer(provider.Tracer(cfg.AppName))
			return nil
		},
		stop: func(ctx context.Context) error {
			if provider == nil {
				return nil
			}
			return provider.Shutdown(ctx)
		},
	}
}

// dependency adapts plain start/stop funcs to the startup interface
type dependency struct {
	name  string
	start func(ctx context.Context) error
	stop  func(ctx context.Context) error
}

func (d *dependency) GetName() string                 { return d.name }
func (d *dependency) Start(ctx context.Context) error { return d.start(ctx) }
func (d *dependency) Stop(ctx context.Context) error  { return d.stop(ctx) }
