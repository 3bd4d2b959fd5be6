package grpcserver

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/milad/dwreader/internal/logger"
)

var (
	grpcServerHandledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grpc_server_handled_total",
			Help: "Total number of gRPC calls handled by the reader service.",
		},
		[]string{"method", "code"},
	)
	grpcServerDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grpc_server_duration_seconds",
			Help:    "gRPC call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	grpcUpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grpc_upstream_requests_total",
			Help: "Total number of upstream gRPC calls made by the gateway.",
		},
		[]string{"method", "code"},
	)
	grpcUpstreamDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grpc_upstream_duration_seconds",
			Help:    "Upstream gRPC call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func observeUpstreamGRPC(method, code string, dur time.Duration) {
	grpcUpstreamRequestsTotal.WithLabelValues(method, code).Inc()
	grpcUpstreamDurationSeconds.WithLabelValues(method).Observe(dur.Seconds())
}

// UnaryInterceptor recovers panics, records metrics and logs every call.
func UnaryInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic handling gRPC call", "method", info.FullMethod, "panic", rec, "stack", string(debug.Stack()))
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}

			dur := time.Since(start)
			code := status.Code(err)
			grpcServerHandledTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
			grpcServerDurationSeconds.WithLabelValues(info.FullMethod).Observe(dur.Seconds())

			fields := []interface{}{"method", info.FullMethod, "code", code.String(), "duration_ms", dur.Milliseconds()}
			if code == codes.Internal || code == codes.Unknown {
				log.Error("gRPC call", fields...)
			} else {
				log.Debug("gRPC call", fields...)
			}
		}()
		return handler(ctx, req)
	}
}
