// Command hybridplan serves hybrid A* plans over HTTP for a map described in a
// JSON config file.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"hybrid-planner/internal/config"
	"hybrid-planner/internal/hybridastar"
	"hybrid-planner/internal/logging"
)

const (
	flagConfig = "config"
	flagAddr   = "addr"
	flagDebug  = "debug"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "hybridplan",
		Usage: "plan drivable paths for a car-like vehicle",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "path to the JSON config file; built-in defaults when empty",
			},
			&cli.StringFlag{
				Name:  flagAddr,
				Usage: "listen address, overrides server.addr from the config",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	logger, err := logging.New("hybridplan", c.Bool(flagDebug))
	if err != nil {
		return errors.Wrap(err, "failed to build logger")
	}
	//nolint:errcheck
	defer logger.Sync()

	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		logger.Info("loaded config", zap.String("path", path))
	}
	if addr := c.String(flagAddr); addr != "" {
		cfg.Server.Addr = addr
	}

	grid, err := cfg.BuildGrid()
	if err != nil {
		return errors.Wrap(err, "failed to build occupancy grid")
	}
	logger.Info("occupancy grid ready",
		zap.Int("width", grid.Width()),
		zap.Int("height", grid.Height()),
		zap.Float64("resolution", grid.Resolution()),
		zap.Int("free_cells", grid.FreeCells()))

	planner, err := hybridastar.New(cfg.Planner, grid, hybridastar.WithLogger(logger.Named("planner")))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      newServer(planner, grid, logger).routes(),
		ReadTimeout:  cfg.Server.GetReadTimeout(),
		WriteTimeout: cfg.Server.GetWriteTimeout(),
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Server.Addr),
			zap.Strings("endpoints", []string{"POST /plan", "GET /health", "GET /metrics"}))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server failed")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
