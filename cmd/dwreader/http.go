package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/milad/dwreader/internal/config"
	"github.com/milad/dwreader/internal/logger"
	"github.com/milad/dwreader/internal/tracing"
	grpcserver "github.com/milad/dwreader/internal/transport/grpc"
	httpserver "github.com/milad/dwreader/internal/transport/http"
)

var (
	httpAddr   string
	httpTarget string
)

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "Serve the HTTP/JSON gateway",
	Long: `Serves the JSON API. With a gRPC target configured the gateway forwards to
the reader service; otherwise it queries the warehouse in-process.`,
	RunE: runHTTP,
}

func init() {
	httpCmd.Flags().StringVar(&httpAddr, "addr", "", "listen address (overrides http.addr)")
	httpCmd.Flags().StringVar(&httpTarget, "grpc", "", "gRPC target host:port (overrides http.grpc_target)")
	rootCmd.AddCommand(httpCmd)
}

func runHTTP(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()
	if httpAddr != "" {
		cfg.HTTP.Addr = httpAddr
	}
	if httpTarget != "" {
		cfg.HTTP.GRPCTarget = httpTarget
	}
	if strings.EqualFold(cfg.Log.Mode, "prod") || strings.EqualFold(cfg.Log.Mode, "production") {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signalContext()
	defer stop()

	reader, closeReader, err := gatewayReader(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeReader()

	tp, err := tracing.New(ctx, cfg.Tracing, log)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	if tp != nil {
		shutdownTracing := tracing.Install(tp)
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := shutdownTracing(flushCtx); err != nil {
				log.Warn("flushing traces", "error", err)
			}
		}()
	}

	srv := httpserver.New(reader, log, httpserver.Options{
		RequestTimeout: cfg.HTTP.RequestTimeout,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
	})
	h := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          log.StdLog(zapcore.WarnLevel),
	}

	ln, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %q: %w", cfg.HTTP.Addr, err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info("HTTP listening", "addr", cfg.HTTP.Addr, "grpc_target", cfg.HTTP.GRPCTarget)
		if err := h.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down HTTP")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return h.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

// gatewayReader returns a gRPC client when a target is configured and the
// in-process reader otherwise.
func gatewayReader(ctx context.Context, cfg *config.Config, log *logger.Logger) (httpserver.Reader, func(), error) {
	if cfg.HTTP.GRPCTarget == "" {
		return openReader(cfg.Warehouse, log)
	}

	conn, err := grpc.NewClient(cfg.HTTP.GRPCTarget, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("dial gRPC %q: %w", cfg.HTTP.GRPCTarget, err)
	}
	waitForGRPC(ctx, conn, cfg.HTTP.GRPCWait,
		func() { log.Info("gRPC is ready", "target", cfg.HTTP.GRPCTarget) },
		func(err error) {
			log.Warn("gRPC not ready; continuing anyway", "target", cfg.HTTP.GRPCTarget, "wait", cfg.HTTP.GRPCWait.String(), "error", err)
		},
	)
	return grpcserver.NewClient(conn), func() { _ = conn.Close() }, nil
}
