package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hyperjump/vta/internal/server"
	"github.com/hyperjump/vta/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServerCmd(opts *rootOptions) *cobra.Command {
	var noArchive bool
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(opts, noArchive)
		},
	}
	cmd.Flags().BoolVar(&noArchive, "no-archive", false, "serve answers only, without the post archive")
	return cmd
}

func runServer(opts *rootOptions, noArchive bool) error {
	cfg, resolvedConfigPath, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	debugMode := cfg.Debug || opts.debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
		zap.Duration("simulated_latency", cfg.Assistant.SimulatedLatency),
	)

	withArchive := !noArchive && !cfg.Storage.Disabled
	components, err := initializeComponents(cfg, logger, withArchive)
	if err != nil {
		return err
	}
	defer components.Close()

	srvOpts := []server.Option{server.WithVersion(server.DefaultVersion)}
	if components.ArchiveEnabled() {
		srvOpts = append(srvOpts, server.WithArchive(components.Engine, components.Storage))
	}
	srv := server.NewServer(components.Assistant, cfg, logger, srvOpts...)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errCh:
		logger.Error("Server failed", zap.Error(err))
		return err
	case <-sigChan:
	}

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(ctx)
}
