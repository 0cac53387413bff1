package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/tz-journal/internal/cli"
	"github.com/tz-journal/internal/config"
	"github.com/tz-journal/internal/repository"
	"github.com/tz-journal/internal/service"
	"github.com/tz-journal/internal/store"
)

var (
	configPath = flag.String("config", "config.yaml", "Path to the configuration file.")
	currency   = flag.String("currency", "USD", "ISO currency code used to display amounts.")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cli.Register(commander)

	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()

	var closeRepo func() error
	env := &cli.Env{
		Out:      os.Stdout,
		Err:      os.Stderr,
		Currency: *currency,
		Open: func(ctx context.Context) (*service.JournalService, error) {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return nil, fmt.Errorf("loading config: %w", err)
			}
			loc, err := cfg.Journal.Location()
			if err != nil {
				return nil, err
			}
			repo, closer, err := repository.Open(ctx, cfg)
			if err != nil {
				return nil, err
			}
			closeRepo = closer
			st := store.New(repo, logger)
			if err := st.Load(ctx); err != nil {
				return nil, err
			}
			return service.NewJournalService(st, service.Options{
				Location:      loc,
				MaxImageBytes: cfg.Journal.MaxImageBytes,
			}, logger), nil
		},
	}

	status := commander.Execute(context.Background(), env)
	if closeRepo != nil {
		if err := closeRepo(); err != nil {
			logger.Error().Err(err).Msg("closing storage")
		}
	}
	os.Exit(int(status))
}
