package main

import (
	"context"
	stderrors "errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"edgestats/adapters/postgres"
	"edgestats/internal"
	"edgestats/internal/api"
	"edgestats/internal/config"
	"edgestats/internal/database"
	"edgestats/internal/metrics"
	"edgestats/ports"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewDefaultLogger().WithComponent("Server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The edge store is optional; without it only the stateless routes work
	var edges ports.EdgeRepository
	if appConfig.Database.Enabled() {
		db, err := database.Open(ctx, appConfig.Database)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		edges = postgres.NewEdgeRepository(db)
		logger.Info("edge store connected")
	} else {
		logger.Warn("DATABASE_URL not set, stored-answer routes will answer 503")
	}

	server := api.NewServer(api.Options{
		Config:   appConfig,
		Edges:    edges,
		Metrics:  metrics.NewMetrics(prometheus.DefaultRegisterer),
		Gatherer: prometheus.DefaultGatherer,
		Logger:   internal.NewDefaultLogger(),
	})

	httpServer := &http.Server{
		Addr:        ":" + appConfig.Server.Port,
		Handler:     server.Handler(),
		ReadTimeout: appConfig.Server.ReadTimeout,
	}

	go func() {
		logger.Info("listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed: %v", err)
	}
}
