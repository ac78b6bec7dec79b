package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/loggo/v2"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/totegamma/familyone/internal/config"
	"github.com/totegamma/familyone/internal/infra/archive"
	"github.com/totegamma/familyone/internal/infra/cache"
	"github.com/totegamma/familyone/internal/infra/database"
	"github.com/totegamma/familyone/internal/infra/repository"
	"github.com/totegamma/familyone/internal/interface/rest"
	authmw "github.com/totegamma/familyone/internal/interface/rest/middleware"
	"github.com/totegamma/familyone/internal/service"
	"github.com/totegamma/familyone/internal/usecase"
)

const serviceName = "familyone"

var logger = loggo.GetLogger(serviceName)

func setupLogging(level string) error {
	writer := loggo.NewSimpleWriter(os.Stderr, logFormatter)
	if _, err := loggo.ReplaceDefaultWriter(writer); err != nil {
		return err
	}
	return loggo.ConfigureLoggers(fmt.Sprintf("<root>=%s", level))
}

func logFormatter(entry loggo.Entry) string {
	ts := entry.Timestamp.In(time.UTC).Format("2006-01-02 15:04:05")
	return fmt.Sprintf("%s %s %s %s", ts, entry.Level, entry.Module, entry.Message)
}

func setupTraceProvider(ctx context.Context, endpoint string) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}

// bodyLimit allows an upload of four max-size entries, and never less than 1M.
func bodyLimit(maxEntryBytes int64) string {
	kib := maxEntryBytes * 4 >> 10
	if kib < 1024 {
		kib = 1024
	}
	return fmt.Sprintf("%dK", kib)
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := setupLogging(conf.Server.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to configure logging: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if conf.Server.EnableTrace {
		tp, err := setupTraceProvider(ctx, conf.Server.TraceEndpoint)
		if err != nil {
			logger.Criticalf("failed to set up tracing: %v", err)
			os.Exit(1)
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Errorf("trace provider shutdown: %v", err)
			}
		}()
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		logger.Criticalf("failed to connect database: %v", err)
		os.Exit(1)
	}
	if err := database.MigratePostgres(db); err != nil {
		logger.Criticalf("failed to migrate database: %v", err)
		os.Exit(1)
	}

	rdb, err := database.NewRedis(ctx, conf.Server.RedisAddr, conf.Server.RedisDB)
	if err != nil {
		logger.Warningf("audit events will not be published: %v", err)
	}
	mc := database.NewMemcached(conf.Server.MemcachedAddr)

	memberRepo := repository.NewMemberRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	var publisher usecase.EventPublisher
	if rdb != nil {
		publisher = service.NewSignalService(rdb)
	}

	backupUC := usecase.NewBackupUsecase(memberRepo, photoRepo, archive.NewZipCodec(conf.Backup.MaxEntryBytes), conf.Backup)
	memberUC := usecase.NewMemberUsecase(memberRepo, photoRepo, cache.NewPerceptualHashCache(mc))
	auditUC := usecase.NewAuditUsecase(auditRepo, publisher)

	handler := rest.NewHandler(backupUC, memberUC, auditUC)
	auth := authmw.NewAuthMiddleware(conf.Server.APIToken)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(bodyLimit(conf.Backup.MaxEntryBytes)))
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware(serviceName))
	}
	handler.RegisterRoutes(e, auth.RequireToken)

	go func() {
		logger.Infof("listening on %s", conf.Server.Listen)
		if err := e.Start(conf.Server.Listen); err != nil && err != http.ErrServerClosed {
			logger.Criticalf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	if rdb != nil {
		rdb.Close()
	}
}
