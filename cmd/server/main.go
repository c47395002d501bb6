package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"spellcheck/internal/api"
	"spellcheck/internal/app"
)

func main() {
	settings := app.FromEnv()
	addr := flag.String("addr", getenv("HTTP_ADDR", ":8080"), "listen address")
	timeout := flag.Duration("timeout", api.DefaultTimeout, "default request timeout")
	reload := flag.Duration("reload", getEnvDuration("RELOAD_INTERVAL", time.Minute), "custom word reload interval, 0 to disable")
	debug := flag.Bool("debug", getEnvInt("DEBUG", 0) > 0, "debug logging")
	settings.RegisterFlags(flag.CommandLine)
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checker, err := app.Build(ctx, settings, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("init error")
	}
	defer checker.Close()

	if settings.RedisAddr != "" && *reload > 0 {
		go reloadCustomWords(ctx, checker, *reload)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           api.New(checker, log.Logger, *timeout).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", *addr).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("shut down")
}

// reloadCustomWords picks up words added by other instances.
func reloadCustomWords(ctx context.Context, checker *app.Checker, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := checker.ReloadCustomWords(ctx); err != nil {
				log.Warn().Err(err).Msg("reload custom words")
			}
		}
	}
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}
