package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crypto-analyst/src/config"
	pb "crypto-analyst/src/grpc_control"
	"crypto-analyst/src/logger"
	"crypto-analyst/src/models"
	"crypto-analyst/src/server"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

var (
	watchConfig bool

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP/WebSocket dashboard API and the gRPC control server",
		RunE:  runServe,
	}
)

// -----------------------------------------------------------------------------

func init() {
	serveCmd.Flags().BoolVar(&watchConfig, "watch-config", true, "reload default report options when the config file changes")
}

// -----------------------------------------------------------------------------

func runServe(cmd *cobra.Command, _ []string) error {
	conf, appLogger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = appLogger.Sync() }()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	comps, err := setupComponents(ctx, conf, appLogger)
	if err != nil {
		appLogger.Error("Failed to set up components: %v", err)
		return err
	}

	srv := server.NewAPIServer(conf.MConfig, comps.Analyst, logger.NewLogger(conf, "APIServer"))
	grpcServer := grpc.NewServer()
	controlService := pb.NewControlService(srv, comps.Sources, logger.NewLogger(conf, "ControlService"))
	pb.RegisterAnalystControlServer(grpcServer, controlService)

	serveErrs := startServers(srv, grpcServer, conf.MConfig, appLogger)

	if watchConfig {
		watcher, err := watchDefaults(ctx, comps, logger.NewLogger(conf, "ConfigWatcher"))
		if err != nil {
			appLogger.Warning("Config watching disabled: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	var serveErr error
	select {
	case <-quit:
	case <-ctx.Done():
	case serveErr = <-serveErrs:
	}

	appLogger.Info("Shutting down...")
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		appLogger.Error("Server shutdown failed: %v", err)
		return err
	}
	appLogger.Info("Shutdown complete.")
	return serveErr
}

// -----------------------------------------------------------------------------

// startServers starts the API server and the gRPC control server in the
// background. A server that stops with an error reports it on the channel.
func startServers(srv *server.APIServer, grpcServer *grpc.Server, cfg *models.MConfig, appLogger *logger.Logger) <-chan error {
	errs := make(chan error, 2)

	// 1. HTTP + WebSocket
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Error("Server failed: %v", err)
			errs <- fmt.Errorf("http server: %w", err)
		}
	}()

	// 2. gRPC Control Server
	go func() {
		if err := pb.Serve(cfg, grpcServer, appLogger); err != nil {
			appLogger.Error("failed to serve gRPC: %v", err)
			errs <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	return errs
}

// -----------------------------------------------------------------------------

// watchDefaults pushes edited default report options into the running analyst.
func watchDefaults(ctx context.Context, comps *components, log *logger.Logger) (*config.Watcher, error) {
	watcher, err := config.NewWatcher(configPath, func(c *config.Config) {
		if err := comps.Analyst.SetDefaults(c.Report.DefaultOptions); err != nil {
			log.Warning("Ignoring default options: %v", err)
		}
	}, log)
	if err != nil {
		return nil, err
	}
	if err := watcher.Start(ctx); err != nil {
		watcher.Stop()
		return nil, err
	}
	return watcher, nil
}
