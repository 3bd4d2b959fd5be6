package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcserver "github.com/milad/dwreader/internal/transport/grpc"
)

const shutdownTimeout = 5 * time.Second

var grpcAddr string

var grpcCmd = &cobra.Command{
	Use:   "grpc",
	Short: "Serve the reader API over gRPC",
	RunE:  runGRPC,
}

func init() {
	grpcCmd.Flags().StringVar(&grpcAddr, "addr", "", "listen address (overrides grpc.addr)")
	rootCmd.AddCommand(grpcCmd)
}

func runGRPC(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()
	if grpcAddr != "" {
		cfg.GRPC.Addr = grpcAddr
	}

	reader, closeReader, err := openReader(cfg.Warehouse, log)
	if err != nil {
		return err
	}
	defer closeReader()

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		return fmt.Errorf("listen %q: %w", cfg.GRPC.Addr, err)
	}

	g := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.UnaryInterceptor(log)))
	grpcserver.RegisterWarehouseReaderServer(g, grpcserver.New(reader, log))

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(g, hs)

	ctx, stop := signalContext()
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info("gRPC listening", "addr", cfg.GRPC.Addr, "driver", cfg.Warehouse.Driver)
		return g.Serve(lis)
	})
	eg.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down gRPC")
		hs.Shutdown()
		gracefulStop(g, shutdownTimeout)
		return nil
	})
	return eg.Wait()
}

// gracefulStop waits for in-flight calls up to timeout, then forces the stop.
func gracefulStop(g *grpc.Server, timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		g.GracefulStop()
		close(done)
	}()
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-done:
	case <-t.C:
		g.Stop()
	}
}

// waitForGRPC polls the health service until it reports serving or maxWait
// elapses. It never fails; the gateway starts either way.
func waitForGRPC(ctx context.Context, conn *grpc.ClientConn, maxWait time.Duration, onReady func(), onTimeout func(error)) {
	if maxWait <= 0 {
		return
	}

	hc := healthpb.NewHealthClient(conn)
	deadline := time.Now().Add(maxWait)

	backoff := 100 * time.Millisecond
	for {
		if ctx.Err() != nil {
			return
		}

		reqCtx, cancel := context.WithTimeout(ctx, time.Second)
		_, err := hc.Check(reqCtx, &healthpb.HealthCheckRequest{})
		cancel()
		if err == nil {
			onReady()
			return
		}
		if time.Now().After(deadline) {
			onTimeout(err)
			return
		}

		time.Sleep(backoff)
		if backoff < time.Second {
			backoff = min(backoff*2, time.Second)
		}
	}
}
