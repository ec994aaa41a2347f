package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/kylycht/apex/controller/converter"
	"github.com/kylycht/apex/controller/limiter"
	_ "github.com/kylycht/apex/docs"
	"github.com/kylycht/apex/metrics"
	"github.com/kylycht/apex/model"
	"github.com/kylycht/apex/service"
	"github.com/kylycht/apex/service/exrate"
	"github.com/kylycht/apex/storage"
	"github.com/kylycht/apex/storage/cache"
	"github.com/kylycht/apex/storage/catalog"
	"github.com/kylycht/apex/storage/persistence"
	"github.com/kylycht/apex/widget"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

//	@title			Apex currency widget
//	@version		1.0
//	@description	Live exchange-rate converter widget

// @host		localhost:3000
func main() {
	cfg, err := LoadConfig(os.Getenv("APEX_CONFIG"))
	if err != nil {
		log.Error().Err(err).Msg("unable to read configuration")
		os.Exit(1)
	}

	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := New(cfg).Run(ctx); err != nil {
		log.Error().Err(err).Msg("application stopped with error")
		os.Exit(1)
	}
}

func setupLogger(cfg Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func New(cfg Config) *Application {
	return &Application{cfg: cfg}
}

type Application struct {
	cfg        Config                     // application configuration
	fiberApp   *fiber.App                 // underlying fiber application
	dbConn     *sql.DB                    // optional catalog connection
	currencies []model.CurrencyDescriptor // selectable currencies
	rates      service.RateSource         // exchange rates provider
	registry   storage.Registry           // mounted widget sessions
	metrics    *metrics.WidgetMetrics     // prometheus collectors
}

// Run serves HTTP until ctx is cancelled, then shuts down
func (a *Application) Run(ctx context.Context) error {
	if err := a.init(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", a.cfg.HTTPPort).Msg("starting http server")
		return a.fiberApp.Listen(a.cfg.HTTPPort)
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.stop()
	})

	return g.Wait()
}

func (a *Application) init(ctx context.Context) error {
	base, err := model.ParseCurrencyCode(a.cfg.RateAPI.Base)
	if err != nil {
		return err
	}

	if err := a.loadCurrencies(ctx); err != nil {
		return err
	}

	opts := []exrate.Option{
		exrate.WithBaseURL(a.cfg.RateAPI.BaseURL),
		exrate.WithHTTPClient(exrate.NewHTTPClient(a.cfg.RateAPI.Timeout, a.cfg.RateAPI.UserAgent)),
	}
	if a.cfg.RateAPI.APIKey != "" {
		opts = append(opts, exrate.WithAPIKey(a.cfg.RateAPI.APIKey))
	}

	rates, err := exrate.New(opts...)
	if err != nil {
		log.Error().Err(err).Msg("unable to create exchange rate client")
		return err
	}
	a.rates = rates

	log.Debug().
		Str("base_url", a.cfg.RateAPI.BaseURL).
		Str("api_key", maskAPIKey(a.cfg.RateAPI.APIKey)).
		Str("base", base.String()).
		Msg("exchange rate client ready")

	a.metrics = metrics.New(prometheus.DefaultRegisterer)
	a.registry = cache.New(
		a.cfg.Session.IdleTTL,
		a.cfg.Session.SweepInterval,
		cache.WithSizeObserver(a.metrics.SetMounted),
	)

	a.fiberApp = fiber.New(fiber.Config{
		ErrorHandler:          converter.ErrorHandler,
		DisableStartupMessage: true,
	})
	a.buildRoutes(base)

	return nil
}

// loadCurrencies reads the optional currency table, falling back
// to the built-in list when no database is configured or it fails
func (a *Application) loadCurrencies(ctx context.Context) error {
	static := catalog.New()

	var source storage.Catalog = static
	if a.cfg.CatalogDB.Enabled() {
		log.Debug().Str("host", a.cfg.CatalogDB.DBHost).Msg("initialize catalog db connection")

		dbConn, err := sql.Open("postgres", a.cfg.CatalogDB.ConnString())
		if err != nil {
			log.Error().Err(err).Msg("unable to connect to db")
			return err
		}

		a.dbConn = dbConn
		source = persistence.New(dbConn, static)
	}

	loadCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	currencies, err := source.Load(loadCtx)
	if err != nil {
		log.Warn().Err(err).Msg("unable to load currency catalog, using built-in list")
		currencies, err = static.Load(ctx)
		if err != nil {
			return err
		}
	}

	a.currencies = currencies
	return nil
}

func (a *Application) buildRoutes(base model.CurrencyCode) {
	newWidget := func() *widget.Controller {
		return widget.New(a.rates, a.currencies,
			widget.WithBase(base),
			widget.WithFetchTimeout(a.cfg.RateAPI.Timeout),
			widget.WithObserver(a.metrics.ObserveFetch),
		)
	}

	a.fiberApp.Get("/healthz", func(ctx *fiber.Ctx) error { return ctx.SendString("ok") })
	a.fiberApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	a.fiberApp.Get("/swagger/*", swagger.HandlerDefault)

	api := a.fiberApp.Group("/api", limiter.New(a.cfg.Limit.RequestsPerSecond, a.cfg.Limit.Burst))
	converter.New(a.registry, newWidget, a.currencies).Register(api)
}

func (a *Application) stop() error {
	log.Info().Msg("shutting down")

	err := a.fiberApp.ShutdownWithTimeout(5 * time.Second)
	a.registry.Close()

	if a.dbConn != nil {
		err = errors.Join(err, a.dbConn.Close())
	}

	return err
}
