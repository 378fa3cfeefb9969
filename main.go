/* main.go
 * The "main" method for running the confidence pool service. Starts the HTTP API and, when enabled, the discord bot
 * Usage: go run . -config="config.yaml" -bot="true"
 * Authors: Zachary Bower
 */

package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"confidence-pool/api/api"
	"confidence-pool/api/events"
	"confidence-pool/bot"
	"confidence-pool/config"
	"confidence-pool/web"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	//Flags
	configPtr := flag.String("config", "", "Path to a yaml config file. Environment variables and .env override it")
	botPtr := flag.String("bot", "", "Run the discord bot: takes true or false as argument, defaults to discord.enabled")
	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *botPtr != "" {
		enabled, err := convertStrToBool(*botPtr)
		if err != nil {
			log.Fatal().Str("bot", *botPtr).Msg("Invalid \"bot\" flag. Should be true or false")
		}
		cfg.Discord.Enabled = enabled
		if err = cfg.Validate(); err != nil {
			log.Fatal().Err(err).Msg("invalid config")
		}
	}
	log.Logger = newLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus, err := newBus(cfg.NATS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to NATS")
	}

	a, err := api.NewAPI(ctx, cfg.Mongo.Database, cfg.Mongo.URI, bus)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize API")
	}
	a.DefaultTotalGames = cfg.Pool.DefaultTotalGames
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to close API")
		}
	}()

	server := web.NewServer(web.Config{
		Addr:           cfg.HTTP.Addr,
		API:            a,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		RateLimit:      cfg.HTTP.RateLimit,
		RateBurst:      cfg.HTTP.RateBurst,
		RateIdle:       cfg.HTTP.RateIdle,
		TrustProxy:     cfg.HTTP.TrustProxy,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	if cfg.Discord.Enabled {
		b, err := bot.NewBot(cfg.Discord.Token, a)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create bot")
		}
		g.Go(func() error {
			return b.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("confidence pool stopped with an error")
	}
}

// newLogger builds the process logger. Pretty output writes a human readable console format, otherwise JSON lines
// Preconditions: Receives the log config and the writer to log to
// Postconditions: Returns a timestamped logger at the configured level
func newLogger(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// newBus connects to NATS when a URL is configured. A nil bus makes the API fall back to an in-process bus
// Preconditions: Receives the NATS config
// Postconditions: Returns the bus (nil when NATS is not configured), or an error if the connection fails
func newBus(cfg config.NATSConfig) (events.Bus, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	natsCfg := events.DefaultNATSConfig()
	natsCfg.URL = cfg.URL
	if cfg.Subject != "" {
		natsCfg.Subject = cfg.Subject
	}
	bus, err := events.NewNATSBus(natsCfg)
	if err != nil {
		return nil, err
	}
	return bus, nil
}
