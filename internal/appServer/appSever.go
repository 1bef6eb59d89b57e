package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"showscrape/config"
	repository "showscrape/internal/database/sqlite"
	"showscrape/internal/musicbrainz"
	"showscrape/internal/scraper"
	"showscrape/internal/service"
	"showscrape/internal/transport"
	"showscrape/internal/worker"
	"showscrape/pkg/ratelimit"
	"showscrape/pkg/sqlite"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	db, err := sqlite.NewSqliteDB(cfg.Database.Path)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	loc, err := time.LoadLocation(cfg.Scraper.Timezone)
	if err != nil {
		logrus.Fatalf("Unknown scraper timezone %q: %v", cfg.Scraper.Timezone, err)
	}

	// Repositories
	eventRepo := repository.NewEventRepository(db)
	profileCacheRepo := repository.NewProfileCacheRepository(db)

	// Scrapers
	fetcher := scraper.NewFetcher(cfg.Scraper.Timeout, cfg.Scraper.UserAgent)
	registry := scraper.NewRegistry(fetcher, loc)

	// Enrichment
	mbClient := musicbrainz.NewClient(cfg.MusicBrainz.BaseURL, cfg.MusicBrainz.UserAgent, cfg.MusicBrainz.Timeout)
	gate := ratelimit.NewGate(cfg.MusicBrainz.MinInterval)

	// Services
	ingestService := service.NewIngestService(registry, eventRepo)
	enrichService := service.NewEnrichService(profileCacheRepo, mbClient, gate)
	eventService := service.NewEventService(eventRepo, enrichService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background re-scraping
	scrapeWorker := worker.NewScrapeWorker(ingestService, cfg.Scraper.Interval)
	go scrapeWorker.Start(ctx)

	// Handlers
	ingestHandler := transport.NewIngestHandler(ingestService)
	eventHandler := transport.NewEventHandler(eventService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(ingestHandler, eventHandler)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
