package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/go-playground/validator/v10"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/internal/database"
	"github.com/Ramsey-B/fern/internal/repositories"
	servicerepo "github.com/Ramsey-B/fern/internal/repositories/service"
	"github.com/Ramsey-B/fern/internal/repositories/servicenode"
	unitrepo "github.com/Ramsey-B/fern/internal/repositories/unit"
	"github.com/Ramsey-B/fern/internal/repositories/unitconnection"
	"github.com/Ramsey-B/fern/internal/repositories/unitidentifier"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/graph"
	"github.com/Ramsey-B/fern/pkg/importer"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/ptv"
	"github.com/Ramsey-B/fern/pkg/routes/health"
	"github.com/Ramsey-B/fern/pkg/routes/importrun"
	serviceroute "github.com/Ramsey-B/fern/pkg/routes/service"
	unitroute "github.com/Ramsey-B/fern/pkg/routes/unit"
	"github.com/Ramsey-B/fern/pkg/runner"
	"github.com/Ramsey-B/fern/pkg/startup"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/tracing/exporters"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to read config: %v\n", err)
		os.Exit(1)
	}
	if err := validator.New().Struct(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{cfg: cfg, logger: logger}

	deps := startup.New(logger, cfg.StartupMaxAttempts)
	if cfg.TracingEnabled {
		deps.AddDependency(&dependency{name: "tracing", start: a.startTracing, stop: a.stopTracing})
	}
	deps.AddDependency(&dependency{name: "database", start: a.startDatabase, stop: a.stopDatabase})
	deps.AddDependency(&dependency{name: "kafka-producer", start: a.startProducer, stop: a.stopProducer})

	catalogDeps := []string{"database", "kafka-producer"}
	if cfg.GraphEnabled {
		deps.AddDependency(&dependency{name: "graph", dependsOn: []string{"database"}, start: a.startGraph, stop: a.stopGraph})
		catalogDeps = append(catalogDeps, "graph")
	}
	deps.AddDependency(&dependency{name: "catalog", dependsOn: catalogDeps, start: a.startCatalog})

	if cfg.KafkaConsumerEnabled {
		deps.AddDependency(&dependency{name: "kafka-consumer", dependsOn: []string{"catalog"}, start: a.startConsumer, stop: a.stopConsumer})
	}
	deps.AddDependency(&dependency{name: "http-server", dependsOn: []string{"catalog"}, start: a.startServer, stop: a.stopServer})

	if err := deps.Start(ctx); err != nil {
		logger.WithError(err).Error("Startup failed")
		os.Exit(1)
	}
	a.checker.SetReady(true)
	logger.Infof("%s started on port %d", cfg.AppName, cfg.Port)

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := deps.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Shutdown did not complete cleanly")
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) (ectologger.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.PrettyLogs {
		zapCfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil), nil
}

// app holds the wired components. Fields are populated by the startup
// dependencies in order, so later dependencies can rely on earlier ones.
type app struct {
	cfg    config.Config
	logger ectologger.Logger

	tracerProvider *sdktrace.TracerProvider
	sqlDB          *sqlx.DB
	db             database.DB
	producer       *kafka.Producer
	graphClient    *graph.Client
	runner         *runner.Runner
	consumer       *kafka.Consumer
	checker        *health.Checker
	echo           *echo.Echo
}

func (a *app) startTracing(ctx context.Context) error {
	var exporter sdktrace.SpanExporter
	switch a.cfg.TracingExporter {
	case "otlp":
		otlp, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
			Endpoint: a.cfg.TracingOTLPEndpoint,
			Protocol: a.cfg.TracingOTLPProtocol,
			Insecure: true,
			Timeout:  10 * time.Second,
		})
		if err != nil {
			return err
		}
		exporter = otlp
	default:
		exporter = &exporters.ConsoleExporter{}
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(a.cfg.AppName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	tracing.SetTracer(tp.Tracer(a.cfg.AppName))
	a.tracerProvider = tp
	return nil
}

func (a *app) stopTracing(ctx context.Context) error {
	return a.tracerProvider.Shutdown(ctx)
}

func (a *app) startDatabase(ctx context.Context) error {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		a.cfg.DatabaseHost, a.cfg.DatabasePort, a.cfg.DatabaseUserName,
		a.cfg.DatabasePassword, a.cfg.DatabaseName, a.cfg.DatabaseSSLMode,
	)
	sqlDB, err := sqlx.ConnectContext(ctx, a.cfg.DatabaseDriver, dsn)
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(a.cfg.DatabaseMaxOpenConns)
	sqlDB.SetMaxIdleConns(a.cfg.DatabaseMaxIdleConns)
	sqlDB.SetConnMaxLifetime(a.cfg.DatabaseConnMaxLifetime)

	driver, err := migratepg.WithInstance(sqlDB.DB, &migratepg.Config{})
	if err != nil {
		sqlDB.Close()
		return err
	}
	migrations := database.NewMigrationService(a.logger, &database.MigrationConfig{
		MigrationFolderPath: a.cfg.DatabaseMigrationFolderPath,
		Version:             uint(a.cfg.DatabaseMigrationVersion),
		Force:               a.cfg.DatabaseMigrationForce,
		AutoRollback:        a.cfg.DatabaseMigrationAutoRollback,
	})
	if err := migrations.Migrate(a.cfg.DatabaseName, driver); err != nil {
		sqlDB.Close()
		return err
	}

	a.sqlDB = sqlDB
	a.db = database.NewDatabaseInstance(sqlDB, a.logger)
	return nil
}

func (a *app) stopDatabase(context.Context) error {
	return a.sqlDB.Close()
}

func (a *app) startProducer(context.Context) error {
	a.producer = kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      a.cfg.KafkaBrokers,
		Topic:        a.cfg.KafkaOutputTopic,
		BatchSize:    a.cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(a.cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: a.cfg.KafkaRequiredAcks,
		Compression:  a.cfg.KafkaCompression,
	}, a.logger)
	return nil
}

func (a *app) stopProducer(context.Context) error {
	return a.producer.Close()
}

func (a *app) startGraph(ctx context.Context) error {
	client, err := graph.NewClient(graph.Config{
		Host:     a.cfg.GraphDBHost,
		Port:     a.cfg.GraphDBPort,
		Username: a.cfg.GraphDBUser,
		Password: a.cfg.GraphDBPassword,
	}, a.logger)
	if err != nil {
		return err
	}
	if err := client.VerifyConnectivity(ctx); err != nil {
		client.Close(ctx)
		return err
	}
	a.graphClient = client
	return nil
}

func (a *app) stopGraph(ctx context.Context) error {
	return a.graphClient.Close(ctx)
}

func (a *app) startCatalog(context.Context) error {
	source := ptv.NewClient(ptv.ClientConfig{
		BaseURL: a.cfg.PTVBaseURL,
		Timeout: a.cfg.PTVRequestTimeout,
	}, a.logger)

	imp := importer.New(a.db, source, repositories.NewStoreFactory(a.logger), a.logger)
	emitter := events.NewEmitter(a.producer, a.logger)

	var projector *graph.Projector
	if a.graphClient != nil {
		units := unitrepo.NewRepository(a.db, a.logger)
		services := servicerepo.NewRepository(a.db, a.logger)
		nodes := servicenode.NewRepository(a.db, a.logger)
		projector = graph.NewProjector(a.graphClient, units, services, nodes, a.logger)
	}

	a.runner = runner.New(imp, emitter, projector, a.logger)
	return nil
}

func (a *app) startConsumer(ctx context.Context) error {
	a.consumer = kafka.NewConsumer(a.cfg, a.logger, func(ctx context.Context, msg *kafka.IncomingMessage) error {
		areaCode := msg.Request.AreaCode
		if areaCode == "" {
			areaCode = a.cfg.PTVAreaCode
		}
		_, err := a.runner.Execute(ctx, areaCode)
		if err == runner.ErrRunInProgress {
			a.logger.WithContext(ctx).Warnf("Import already running, skipping request for area %s", areaCode)
			return nil
		}
		return err
	})
	return a.consumer.Start(ctx)
}

func (a *app) stopConsumer(context.Context) error {
	return a.consumer.Stop()
}

func (a *app) startServer(context.Context) error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = time.Duration(a.cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(a.cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(a.cfg.HttpServerIdleTimeoutSeconds) * time.Second

	e.Use(otelecho.Middleware(a.cfg.AppName))
	e.Use(middleware.Logger(a.logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: a.cfg.AllowOrigins,
		AllowMethods: a.cfg.AllowMethods,
	}))
	e.HTTPErrorHandler = middleware.Error(a.logger)

	var consumerHealth interface{ Health() bool }
	if a.consumer != nil {
		consumerHealth = a.consumer
	}
	a.checker = health.NewChecker(a.db, consumerHealth, version)
	a.checker.RegisterRoutes(e)

	units := unitrepo.NewRepository(a.db, a.logger)
	services := servicerepo.NewRepository(a.db, a.logger)
	connections := unitconnection.NewRepository(a.db, a.logger)
	identifiers := unitidentifier.NewRepository(a.db, a.logger)
	nodes := servicenode.NewRepository(a.db, a.logger)

	importrun.NewHandler(a.runner, a.cfg.PTVAreaCode, a.logger).RegisterRoutes(e)
	unitroute.NewHandler(units, services, connections, identifiers, a.logger).RegisterRoutes(e)
	serviceroute.NewHandler(services, nodes, a.logger).RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", a.cfg.Port)); err != nil && err != http.ErrServerClosed {
			a.logger.WithError(err).Error("HTTP server stopped unexpectedly")
		}
	}()
	a.echo = e
	return nil
}

func (a *app) stopServer(ctx context.Context) error {
	a.checker.SetReady(false)
	return a.echo.Shutdown(ctx)
}

// dependency adapts start/stop funcs to the startup.Dependency interface.
type dependency struct {
	name      string
	dependsOn []string
	start     func(ctx context.Context) error
	stop      func(ctx context.Context) error
}

func (d *dependency) GetName() string     { return d.name }
func (d *dependency) DependsOn() []string { return d.dependsOn }

func (d *dependency) Start(ctx context.Context) error {
	if d.start == nil {
		return nil
	}
	return d.start(ctx)
}

func (d *dependency) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	return d.stop(ctx)
}
