package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/milad/dwreader/internal/domain"
	"github.com/milad/dwreader/internal/logger"
)

// Reader is what the server exposes over gRPC. *service.Reader implements it.
type Reader interface {
	GetMeasurements(ctx context.Context, q domain.MeasurementQuery) (*domain.MeasurementResponse, error)
	GetAgreements(ctx context.Context, p domain.AgreementParameters) (*domain.AgreementResponse, error)
	GetCustomers(ctx context.Context, p domain.CustomerParameters) (*domain.CustomerResponse, error)
	GetInvoices(ctx context.Context, p domain.InvoiceParameters) (*domain.InvoiceResponse, error)
}

type Server struct {
	reader Reader
	log    *logger.Logger
}

var _ WarehouseReaderServer = (*Server)(nil)

func New(reader Reader, log *logger.Logger) *Server {
	return &Server{reader: reader, log: log}
}

func (s *Server) GetMeasurements(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, s, "GetMeasurements", req, func(ctx context.Context, q domain.MeasurementQuery) (*domain.MeasurementResponse, error) {
		// Enums arrive as free-form strings.
		var err error
		if q.Category, err = domain.ParseCategory(string(q.Category)); err != nil {
			return nil, err
		}
		if q.Aggregation, err = domain.ParseAggregation(string(q.Aggregation)); err != nil {
			return nil, err
		}
		return s.reader.GetMeasurements(ctx, q)
	})
}

func (s *Server) GetAgreements(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, s, "GetAgreements", req, s.reader.GetAgreements)
}

func (s *Server) GetCustomers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, s, "GetCustomers", req, s.reader.GetCustomers)
}

func (s *Server) GetInvoices(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return serve(ctx, s, "GetInvoices", req, s.reader.GetInvoices)
}

// serve decodes the request into P, runs call and encodes its result.
func serve[P, R any](
	ctx context.Context,
	s *Server,
	method string,
	req *structpb.Struct,
	call func(context.Context, P) (R, error),
) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	var params P
	if err := fromStruct(req, &params); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	resp, err := call(ctx, params)
	if err != nil {
		return nil, s.toStatus(method, err)
	}
	out, err := toStruct(resp)
	if err != nil {
		return nil, s.toStatus(method, err)
	}
	return out, nil
}

// toStatus maps domain errors onto gRPC codes. Anything unexpected is logged
// and hidden behind a generic Internal status.
func (s *Server) toStatus(method string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotImplemented):
		return status.Error(codes.Unimplemented, err.Error())
	case errors.Is(err, domain.ErrInvalidParameters):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	}
	s.log.Error("reader call failed", "method", method, "error", err)
	return status.Error(codes.Internal, "internal error")
}
