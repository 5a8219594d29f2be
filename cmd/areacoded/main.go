// Command areacoded serves area code lookups over HTTP.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	areacodes "github.com/paulstuart/go-areacodes"
	"github.com/paulstuart/go-areacodes/internal/config"
	"github.com/paulstuart/go-areacodes/internal/logger"
	"github.com/paulstuart/go-areacodes/internal/server"
)

func main() {
	_ = godotenv.Load()
	cfgPath := flag.String("config", "areacodes.yaml", "YAML configuration file")
	flag.Parse()

	cfg := config.LoadOrEnv(*cfgPath)
	l := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	now := time.Now()
	loc, err := areacodes.NewLocator(cfg.Data.Path)
	if err != nil {
		l.Error("locator_load_error", "source", cfg.Data.Path, "err", err)
		os.Exit(1)
	}
	l.Info("locator_load_ok", "source", cfg.Data.Path, "area_codes", loc.Len(), "elapsed", time.Since(now))

	svc := areacodes.NewService(loc, cfg.Cache.Size)
	srv := server.New(cfg.Server.Addr, svc, l)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			l.Error("server_shutdown_error", "err", err)
		}
	}()

	if err := srv.Start(); err != nil {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
}
