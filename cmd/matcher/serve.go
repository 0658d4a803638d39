package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	httptransport "github.com/example/talent-matching/internal/http"
	"github.com/spf13/cobra"
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		port     int
		seedPath string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the matching API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				c.cfg.HTTPPort = port
			}
			return c.serve(cmd.Context(), seedPath)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides MATCHING_HTTP_PORT)")
	cmd.Flags().BoolVar(&c.ephemeral, "ephemeral", false, "keep state in memory only, nothing is written to the database")
	cmd.Flags().StringVar(&seedPath, "seed", "", "import this seed file before serving")
	return cmd
}

func (c *cli) serve(ctx context.Context, seedPath string) error {
	s, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	if seedPath != "" {
		seed, err := readSeedFile(seedPath)
		if err != nil {
			return err
		}
		summary, err := c.importSeed(ctx, s.engine, seed)
		if err != nil {
			return fmt.Errorf("import %s: %w", seedPath, err)
		}
		c.logger.Info("seed imported", "path", seedPath,
			"companies", summary.companies, "candidates", summary.candidates, "offers", summary.offers)
	}

	var saveMu sync.Mutex
	save := func(ctx context.Context) error {
		saveMu.Lock()
		defer saveMu.Unlock()
		return s.save(ctx)
	}

	logger := c.logger
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Candidates: httptransport.NewCandidateHandler(s.engine, c.cfg.DefaultRecommendations, logger),
		Offers:     httptransport.NewOfferHandler(s.engine, logger),
		Wishlists:  httptransport.NewWishlistHandler(s.engine, logger),
		Sessions:   httptransport.NewSessionHandler(s.engine, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.Recoverer(logger),
			httptransport.RequestLogger(logger),
			httptransport.PersistChanges(save, logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", c.cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("matching API listening", "addr", server.Addr, "database", c.cfg.SQLiteDSN, "ephemeral", c.ephemeral)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	<-done

	if err := save(context.Background()); err != nil {
		return fmt.Errorf("persist state on shutdown: %w", err)
	}
	logger.Info("state persisted, server stopped")
	return nil
}
