package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/zamato/zamato/internal/auth"
	"github.com/zamato/zamato/internal/cart"
	"github.com/zamato/zamato/internal/catalog"
	"github.com/zamato/zamato/internal/config"
	"github.com/zamato/zamato/internal/db"
	"github.com/zamato/zamato/internal/events"
	"github.com/zamato/zamato/internal/httpserver"
	"github.com/zamato/zamato/internal/logging"
	loggingmw "github.com/zamato/zamato/internal/middleware/logging"
	"github.com/zamato/zamato/internal/search"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
	} else {
		log.Println("KAFKA_BROKERS not set, events disabled")
	}

	catalogSvc := &catalog.Service{Repo: &catalog.GormRepo{DB: database}}
	cartSvc := cart.NewService(&cart.GormRepo{DB: database}, catalogSvc)
	authSvc := &auth.Service{Repo: &auth.GormRepo{
		DB:            database,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
	}}

	catalogHandler := &httpserver.CatalogHTTP{Svc: catalogSvc}
	var searchHandler *httpserver.SearchHTTP
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Printf("warning: elasticsearch unavailable: %v", err)
		} else {
			catalogHandler.ES = esClient
			searchHandler = &httpserver.SearchHTTP{ES: esClient}
		}
	}

	var pub events.Publisher
	if producer != nil {
		pub = producer
	}
	catalogHandler.Producer = pub

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc, Producer: pub},
		CatalogHandler: catalogHandler,
		CartHandler:    &httpserver.CartHTTP{Svc: cartSvc, Producer: pub},
		SearchHandler:  searchHandler,
		JWTSecret:      cfg.JWTAccessSecret,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close: %v", err)
		}
	}

	log.Println("shutdown complete")
}
