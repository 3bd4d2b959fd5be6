package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"github.com/milad/dwreader/internal/domain"
	"github.com/milad/dwreader/internal/logger"
)

const (
	defaultRequestTimeout = 5 * time.Second
	tracingServiceName    = "dwreader-http"
)

// Reader is the query API behind the gateway: the local service or a gRPC
// client talking to a remote one.
type Reader interface {
	GetMeasurements(ctx context.Context, q domain.MeasurementQuery) (*domain.MeasurementResponse, error)
	GetAgreements(ctx context.Context, p domain.AgreementParameters) (*domain.AgreementResponse, error)
	GetCustomers(ctx context.Context, p domain.CustomerParameters) (*domain.CustomerResponse, error)
	GetInvoices(ctx context.Context, p domain.InvoiceParameters) (*domain.InvoiceResponse, error)
}

type Options struct {
	// RequestTimeout bounds each reader call. Zero means 5s.
	RequestTimeout time.Duration
	// CORSOrigins enables CORS for the listed origins. Empty disables it.
	CORSOrigins []string
	// TracerProvider receives request spans. Nil means the global provider.
	TracerProvider trace.TracerProvider
}

type Server struct {
	reader  Reader
	log     *logger.Logger
	timeout time.Duration
	engine  *gin.Engine
}

func New(reader Reader, log *logger.Logger, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	s := &Server{
		reader:  reader,
		log:     log,
		timeout: opts.RequestTimeout,
		engine:  gin.New(),
	}
	s.engine.HandleMethodNotAllowed = true

	var tracing []otelgin.Option
	if opts.TracerProvider != nil {
		tracing = append(tracing, otelgin.WithTracerProvider(opts.TracerProvider))
	}
	s.engine.Use(
		otelgin.Middleware(tracingServiceName, tracing...),
		requestID(),
		observeRequests(),
		accessLog(log),
		recoverer(log),
	)
	if len(opts.CORSOrigins) > 0 {
		s.engine.Use(cors.New(cors.Config{
			AllowOrigins:  opts.CORSOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodOptions},
			AllowHeaders:  []string{"Content-Type", requestIDHeader},
			ExposeHeaders: []string{requestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.handleHealthz)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")
	api.GET("/measurements/:category/:aggregation", s.handleMeasurements)
	api.GET("/agreements", s.handleAgreements)
	api.GET("/customers", s.handleCustomers)
	api.GET("/invoices", s.handleInvoices)

	s.engine.NoRoute(s.handleNotFound)
	s.engine.NoMethod(s.handleMethodNotAllowed)
}
