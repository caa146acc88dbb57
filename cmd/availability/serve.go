package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openclaw/availability/config"
	"github.com/openclaw/availability/meetings"
	"github.com/openclaw/availability/server"
	"github.com/openclaw/availability/utils"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the availability HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	logger := utils.GetLogger()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s, errStore := openStore()
	if errStore != nil {
		return errStore
	}
	defer s.Close()

	ctx := context.Background()

	src, booker, errSources := buildSources(ctx, s)
	if errSources != nil {
		return errSources
	}

	var scheduler *meetings.Scheduler

	if booker != nil {
		var errScheduler error

		scheduler, errScheduler = meetings.NewScheduler(
			&meetings.ParamsNewScheduler{
				Source: src,
				Booker: booker,
				Store:  s,
				Logger: logger,
			},
		)
		if errScheduler != nil {
			return errScheduler
		}
	}

	var cache *server.BusyCache

	if len(config.AppConfig.RedisAddr) > 0 {
		var errCache error

		cache, errCache = server.NewBusyCache(
			&server.ParamsNewBusyCache{
				Addr:     config.AppConfig.RedisAddr,
				Password: config.AppConfig.RedisPassword,
				DB:       config.AppConfig.RedisCacheDB,
				TTL:      time.Duration(config.AppConfig.CacheTTLSeconds) * time.Second,
				Logger:   logger,
			},
		)
		if errCache != nil {
			return errCache
		}
		defer cache.Close()
	}

	srv, errServer := server.New(
		&server.ParamsNewServer{
			Store:     s,
			Source:    src,
			Scheduler: scheduler,
			Cache:     cache,
			Logger:    logger,
		},
	)
	if errServer != nil {
		return errServer
	}

	httpServer := &http.Server{
		Addr:    "0.0.0.0:" + config.AppConfig.AppPort,
		Handler: srv.Router(),
	}

	logger.Sugar().Infof("Starting server on %s...", httpServer.Addr)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("serve: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("serve: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Sugar().Info("serve: server stopped gracefully")

	return nil
}
