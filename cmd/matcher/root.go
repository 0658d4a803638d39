package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/example/talent-matching/internal/config"
	"github.com/example/talent-matching/internal/logging"
	"github.com/example/talent-matching/internal/matching"
	"github.com/example/talent-matching/internal/persistence"
	"github.com/example/talent-matching/internal/persistence/memory"
	"github.com/example/talent-matching/internal/persistence/sqlite"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const app = "matcher"

// cli carries the state shared by every subcommand.
type cli struct {
	cfgFile  string
	envFile  string
	jsonLogs bool
	debug    bool

	// ephemeral keeps state in memory for the lifetime of the process.
	ephemeral bool

	in     io.ReadCloser
	out    io.Writer
	errOut io.Writer

	// Overridable in tests.
	now        func() time.Time
	secretHash matching.Argon2idParams
	loadDotEnv bool
	cfg        config.Config
	logger     *slog.Logger
}

func newCLI(in io.ReadCloser, out, errOut io.Writer) *cli {
	return &cli{
		in:         in,
		out:        out,
		errOut:     errOut,
		secretHash: matching.DefaultArgon2idParams,
		loadDotEnv: true,
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           app,
		Short:         "matcher matches students and alumni with internship, apprenticeship and thesis offers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}
	root.SetIn(c.in)
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (yaml, json or toml); MATCHING_* variables override it")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before configuration")
	root.PersistentFlags().BoolVarP(&c.debug, "debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolVarP(&c.jsonLogs, "json", "j", false, "json format for logging")

	root.AddCommand(
		newServeCmd(c),
		newImportCmd(c),
		newRecommendCmd(c),
		newApplyCmd(c),
		newWithdrawCmd(c),
		newRemoveOfferCmd(c),
		newWishlistCmd(c),
		newStatsCmd(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	if c.loadDotEnv && c.envFile != "" {
		if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", c.envFile, err)
		}
	}

	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("json") {
		cfg.LogFormat = logging.FormatText
		if c.jsonLogs {
			cfg.LogFormat = logging.FormatJSON
		}
	}
	if c.debug {
		cfg.LogLevel = "debug"
	}

	logger, err := logging.New(c.errOut, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logger.With("app", app)
	return nil
}

// session is an engine restored from a snapshot store.
type session struct {
	engine *matching.Engine
	store  persistence.SnapshotStore
	closer io.Closer
}

// open restores the engine from the configured database, or from an empty in-memory
// store when ephemeral is set.
func (c *cli) open(ctx context.Context) (*session, error) {
	if c.ephemeral {
		return c.restore(ctx, memory.NewStore(), nil)
	}
	store, err := sqlite.Open(ctx, sqlite.DefaultConfig(c.cfg.SQLiteDSN), c.logger)
	if err != nil {
		return nil, err
	}
	s, err := c.restore(ctx, store, store)
	if err != nil {
		store.Close()
		return nil, err
	}
	return s, nil
}

func (c *cli) restore(ctx context.Context, store persistence.SnapshotStore, closer io.Closer) (*session, error) {
	snap, err := store.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	opts := []matching.Option{
		matching.WithLogger(c.logger),
		matching.WithScoringConfig(c.cfg.Scoring),
	}
	if c.now != nil {
		opts = append(opts, matching.WithClock(c.now))
	}
	engine, err := matching.RestoreEngine(snap, opts...)
	if err != nil {
		return nil, fmt.Errorf("restore state: %w", err)
	}
	return &session{engine: engine, store: store, closer: closer}, nil
}

func (s *session) save(ctx context.Context) error {
	return s.store.SaveSnapshot(ctx, s.engine.Snapshot())
}

func (s *session) close() {
	if s.closer != nil {
		_ = s.closer.Close()
	}
}

// withSession opens the database, runs fn and persists the state when fn succeeds
// and mutates it.
func (c *cli) withSession(ctx context.Context, mutates bool, fn func(*matching.Engine) error) error {
	s, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	if err := fn(s.engine); err != nil {
		return err
	}
	if mutates {
		return s.save(ctx)
	}
	return nil
}
