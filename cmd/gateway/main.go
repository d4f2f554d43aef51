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

	"github.com/gin-gonic/gin"

	"github.com/relaygate/gateway/internal/app"
	"github.com/relaygate/gateway/internal/config"
)

func main() {
	dotenvPtr := flag.String("env-file", ".env", "path to an optional .env file to preload")
	flag.Parse()

	settings, err := config.Cached(*dotenvPtr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot load configuration: %v\n", err)
		os.Exit(1)
	}

	if !settings.DevelopmentMode {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := app.New(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot build gateway: %v\n", err)
		os.Exit(1)
	}

	if settings.DevelopmentMode {
		stopWatch, err := config.WatchDotenv(*dotenvPtr, func() {
			a.Logger.Infow("configuration file changed; restart the process to pick up new values")
		})
		if err != nil {
			a.Logger.Warnw("failed to start dotenv watcher", "error", err.Error())
		} else {
			defer stopWatch()
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", settings.ServiceHost, settings.ServicePort),
		Handler: a.Engine,
	}

	go func() {
		a.Logger.Infow("gateway listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.Logger.Infow("shutting down gateway")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		a.Logger.Errorw("graceful shutdown failed", "error", err.Error())
	}

	_ = a.Metrics.Close()
	_ = a.Logger.Sync()
}
