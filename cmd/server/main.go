package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todofast/internal/config"
	"todofast/internal/serverapp"
)

func main() {
	configPath := flag.String("config", "todofast.yml", "path to config file")
	diskStatic := flag.Bool("disk-static", false, "serve static assets from disk instead of the embedded copies")
	flag.Parse()

	logger := log.Default()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	handler, _, err := serverapp.NewHandler(serverapp.Options{
		Config:        cfg,
		Logger:        logger,
		UseDiskStatic: *diskStatic,
	})
	if err != nil {
		logger.Fatalf("build server: %v", err)
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Printf("todofast listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("forced shutdown: %v", err)
	}
}
