package serve

import (
	"context"
	"flag"
	"fmt"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/fxquotes/cmd/env"
	"github.com/sig-0/fxquotes/storage/sqlite"
)

const defaultDBPath = "quotes.db"

type serveSQLiteCfg struct {
	rootCfg *serveCfg

	dbPath string
}

// newServeSQLiteCmd creates the serve sqlite command
func newServeSQLiteCmd(rootCfg *serveCfg) *ffcli.Command {
	cfg := &serveSQLiteCfg{
		rootCfg: rootCfg,
	}

	fs := flag.NewFlagSet("sqlite", flag.ExitOnError)
	cfg.rootCfg.registerFlags(fs)

	fs.StringVar(
		&cfg.dbPath,
		"db-path",
		defaultDBPath,
		"the path to the SQLite observation log",
	)

	return &ffcli.Command{
		Name:       "sqlite",
		ShortUsage: "serve sqlite [flags]",
		LongHelp:   "Serves the fxquotes backend, logging observations to a local SQLite file",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *serveSQLiteCfg) exec(ctx context.Context, _ []string) error {
	logger, err := c.rootCfg.prepare()
	if err != nil {
		return err
	}

	store, err := sqlite.Open(ctx, c.dbPath)
	if err != nil {
		return fmt.Errorf("unable to open SQLite DB: %w", err)
	}

	defer func() {
		if err := store.Close(); err != nil {
			logger.Error(
				"unable to gracefully close SQLite DB",
				"err", err,
			)
		}
	}()

	logger.Info("SQLite DB ready", "path", c.dbPath)

	return c.rootCfg.run(ctx, store, logger)
}
