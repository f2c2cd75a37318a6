package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/anbar-api/internal/bootstrap"
	httpRouter "github.com/jhoicas/anbar-api/internal/interfaces/http"
	"github.com/jhoicas/anbar-api/pkg/config"
	"github.com/jhoicas/anbar-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("backend", cfg.Store.Backend).
		Bool("auth", cfg.JWT.Enabled()).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, log.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error().Err(err).Msg("cerrar almacenamiento")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	svc := bootstrap.NewServices(store, cfg, log.Zerolog(), reg)

	app := httpRouter.NewApp(cfg.App.Name, httpRouter.RouterDeps{
		Catalog:   svc.Catalog,
		Ledger:    svc.Ledger,
		Importer:  svc.Importer,
		History:   svc.History,
		Dashboard: svc.Dashboard,
		Shopping:  svc.Shopping,
		Sequencer: svc.Sequencer,
		Changes:   svc.Adapter,
		Gatherer:  reg,
		JWTSecret: cfg.JWT.Secret,
		Logger:    log.Zerolog(),
	})

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Anbar API",
		}))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("servidor HTTP finalizado")
	}
	log.Info().Msg("aplicación detenida")
}
