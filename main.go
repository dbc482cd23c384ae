package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-store/internal/database"
	"media-store/internal/handlers"
	"media-store/internal/indexer"
	"media-store/internal/logging"
	"media-store/internal/media"
	"media-store/internal/middleware"
	"media-store/internal/startup"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	config, err := startup.LoadConfig()
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}

	// Probe the fast renderer once; the thumbnail generator picks its
	// strategy from the probe result at construction.
	if config.FastRenderer {
		if err := media.InitVips(); err != nil {
			logging.Warn("libvips unavailable, falling back to pure-Go renderer: %v", err)
		}
		defer media.ShutdownVips()
	}

	db, err := database.New(context.Background(), config.DatabasePath)
	if err != nil {
		logging.Fatal("Failed to initialize media index: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn("Media index close error: %v", err)
		}
	}()

	idx := indexer.New(db, config.MediaDir, config.ScanInterval)
	go func() {
		if err := idx.Start(); err != nil {
			logging.Error("Failed to start media scanner: %v", err)
		}
	}()

	gen := media.NewThumbnailGenerator(config.ThumbnailDir, db)
	library := media.NewLibrary(db)
	store := media.NewStore(library, gen, media.GrantAll{})

	h := handlers.New(store, gen, db, idx)

	router := mux.NewRouter()
	h.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	handler := middleware.Logging(middleware.Metrics(router))

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv, idx)

	logging.Info("media-store listening on :%s (startup took %v)", config.Port, time.Since(startTime))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logging.Fatal("Server error: %v", err)
	}
}

func handleShutdown(srv *http.Server, idx *indexer.Indexer) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logging.Info("Shutdown initiated (%s)", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	idx.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	}

	logging.Info("Shutdown complete")
}
