package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marden/carscout/internal/server"
)

// serveShutdownGrace bounds in-flight request draining on shutdown.
const serveShutdownGrace = 10 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recommendations over HTTP",
		Long: `Load the dataset once and expose the recommendation pipeline as a
JSON API.

Endpoints:
  GET  /healthz                 liveness and pool size
  POST /api/v1/recommendations  run the pipeline for a preference profile
  GET  /api/v1/stats            dataset summary

Examples:
  carscout serve
  carscout serve --addr :9090 --dataset cars.db`,
		Args: cobra.NoArgs,
		RunE: serveCommand,
	}

	addSharedFlags(cmd)
	cmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	cmd.Flags().String("evaluator", "", "Rule evaluator: embedded or swipl")
	return cmd
}

func serveCommand(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.Server.Addr = v
	}

	evaluatorKind := cfg.Evaluator.Kind
	if v, _ := cmd.Flags().GetString("evaluator"); v != "" {
		evaluatorKind = v
	}

	eng, err := buildEngine(cfg, evaluatorKind, log)
	if err != nil {
		return err
	}

	srv := server.New(eng, log).HTTPServer(cfg.Server)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s (%d vehicles loaded)", cfg.Server.Addr, eng.PoolSize())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
