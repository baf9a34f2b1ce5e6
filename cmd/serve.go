package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwbudde/framegrid/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveAddr     string
	serveDir      string
	serveCols     int
	serveCell     int
	serveInterval time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP viewer",
	Long: `Starts an HTTP server that renders contact sheets for watched frame
directories and pushes rescan events to the browser while frames are
still being written.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&serveDir, "dir", "", "Frame directory to watch at startup")
	serveCmd.Flags().IntVar(&serveCols, "cols", 5, "Number of columns in the grid")
	serveCmd.Flags().IntVar(&serveCell, "cell", 256, "Cell size in pixels")
	serveCmd.Flags().DurationVar(&serveInterval, "interval", 2*time.Second, "Directory poll interval")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	s := server.NewServer(serveAddr, serveInterval)

	if serveDir != "" {
		if _, err := s.AddSheet(server.SheetConfig{
			Dir:      serveDir,
			Cols:     serveCols,
			CellSize: serveCell,
		}); err != nil {
			return fmt.Errorf("failed to add sheet: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}
