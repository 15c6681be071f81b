package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fekuna/omnipos-storefront-service/internal/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func newServeCmd(rt *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, gRPC health server, notification poller and stock listener",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, rt)
		},
	}
}

func serve(ctx context.Context, rt *cliEnv) error {
	appLogger := rt.logger

	a, err := rt.open(ctx)
	if err != nil {
		appLogger.Error("Could not start storefront", zap.Error(err))
		return err
	}
	defer a.Close()

	// Background workers
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	go a.Poller.Start(workerCtx)
	if a.Listener != nil {
		go a.Listener.Start(workerCtx)
	}

	// HTTP
	httpServer := &http.Server{
		Addr:    listenAddr(rt.cfg.Server.HTTPPort),
		Handler: a.Router(),
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// gRPC health
	grpcAddr := listenAddr(rt.cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		appLogger.Error("failed to listen", zap.String("addr", grpcAddr), zap.Error(err))
		return err
	}
	grpcServer, healthServer := app.NewGRPCServer(appLogger)
	go func() {
		appLogger.Info("Starting gRPC server", zap.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()

	appLogger.Info("Server stopped")
	return nil
}

func listenAddr(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
