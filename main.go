package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/raine/reddit-oauth/config"
	"github.com/raine/reddit-oauth/internal/reddit/auth"
	"github.com/raine/reddit-oauth/internal/renewal"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const logFileName = "reddit-oauth.log"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	config.LoadEnvFile()

	// JOURNAL_STREAM is set by systemd when running as a service.
	if _, underSystemd := os.LookupEnv("JOURNAL_STREAM"); underSystemd {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open log file")
		}
		defer logFile.Close()

		consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr}
		fileWriter := zerolog.ConsoleWriter{Out: logFile, NoColor: true}
		log.Logger = log.Output(io.MultiWriter(consoleWriter, fileWriter))

		log.Info().Str("logFile", logFileName).Msg("logging to file")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	// Create context that cancels on SIGINT or SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	manager := auth.NewManager(auth.ManagerOpts{
		BaseURL: cfg.AuthBaseURL,
		Timeout: cfg.HTTPTimeout,
	})
	// A failed first login is not fatal: the daemon retries shortly.
	if err := manager.Login(ctx); err != nil {
		log.Error().Err(err).Msg("initial oauth login failed")
	}
	holder := auth.NewHolder(manager)

	daemon := renewal.NewDaemon(holder, renewal.Config{
		Margin:   cfg.RenewalMargin,
		RetryMin: cfg.RenewalRetryMin,
		RetryMax: cfg.RenewalRetryMax,
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return daemon.Run(ctx)
	})

	g.Go(func() error {
		return reportStatus(ctx, holder, daemon, statusInterval)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("shutdown with error")
	} else {
		log.Info().Msg("shutdown complete")
	}
}
