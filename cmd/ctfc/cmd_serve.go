package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Wyatt-Stanke/ctf/internal/server"
)

var (
	servePort int
	serveBind string
)

// serveCmd runs the development server
var serveCmd = &cobra.Command{
	Use:   "serve <source>",
	Short: "Serve a challenge with live directive processing",
	Long: `Serves a challenge source directory on a local port, applying compiler
directives on the fly for every request so you always see the latest
version without an explicit build step. Transformed responses are never
cached; plain files are served with standard caching semantics.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to listen on")
	serveCmd.Flags().StringVar(&serveBind, "bind", "0.0.0.0", "Address to bind to")
}

func runServe(cmd *cobra.Command, args []string) error {
	source, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	if !isDir(source) {
		return fmt.Errorf("source directory %s does not exist", source)
	}

	srv, err := server.New(source, fmt.Sprintf("%s:%d", serveBind, servePort), logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	fmt.Printf("Serving %s at http://%s:%d  (Ctrl+C to stop)\n", srv.Root(), serveBind, servePort)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		fmt.Println("\nShutting down.")
		logger.Debug("signal received", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
