package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lvroute",
	Short: "Timing-driven PathFinder router for FPGA routing-resource graphs",
	Long: `Route netlists on routing-resource graphs with negotiated congestion,
generate synthetic island-style fabrics, and serve routing over HTTP.

Examples:
  lvroute grid --nx 6 --ny 6 --width 8 --nets ring > fabric.rr   # Generate a design
  lvroute route fabric.rr --timing --routes fabric.route          # Route it
  lvroute serve --addr :8080                                      # Start the HTTP service`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. An interrupt cancels a routing run in
// progress.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger writes text records to stderr, at Debug level with --verbose.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
