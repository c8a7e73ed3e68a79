package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvroute/server"
)

var (
	serveAddr  string
	serveFlags routeFlags
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve routing over HTTP",
	Long: `Start an HTTP service that routes designs posted as JSON.

Endpoints:
  POST /api/route    {"design": "...", "timing_driven": true}
  GET  /api/health

The router flags set the defaults each request may override.

Examples:
  lvroute serve --addr :8080
  lvroute serve --addr 127.0.0.1:9000 --max-iterations 30`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	bindRouteFlags(serveCmd, &serveFlags)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := newLogger(cmd)
	opts, err := serveFlags.options()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           server.New(log, opts...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", serveAddr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err = <-errc:
	case <-cmd.Context().Done():
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = srv.Shutdown(ctx)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}

	return nil
}
