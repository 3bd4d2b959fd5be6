package grpcserver

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/milad/dwreader/internal/domain"
)

// Client calls a remote reader service. It implements the same Reader
// interface as the local service so the HTTP gateway can use either.
type Client struct {
	cc grpc.ClientConnInterface
}

var _ Reader = (*Client)(nil)

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) GetMeasurements(ctx context.Context, q domain.MeasurementQuery) (*domain.MeasurementResponse, error) {
	var resp domain.MeasurementResponse
	if err := c.invoke(ctx, "GetMeasurements", GetMeasurementsMethod, q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetAgreements(ctx context.Context, p domain.AgreementParameters) (*domain.AgreementResponse, error) {
	var resp domain.AgreementResponse
	if err := c.invoke(ctx, "GetAgreements", GetAgreementsMethod, p, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetCustomers(ctx context.Context, p domain.CustomerParameters) (*domain.CustomerResponse, error) {
	var resp domain.CustomerResponse
	if err := c.invoke(ctx, "GetCustomers", GetCustomersMethod, p, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetInvoices(ctx context.Context, p domain.InvoiceParameters) (*domain.InvoiceResponse, error) {
	var resp domain.InvoiceResponse
	if err := c.invoke(ctx, "GetInvoices", GetInvoicesMethod, p, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) invoke(ctx context.Context, name, method string, req, resp any) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)

	start := time.Now()
	err = c.cc.Invoke(ctx, method, in, out)
	observeUpstreamGRPC(name, status.Code(err).String(), time.Since(start))
	if err != nil {
		return fromStatus(err)
	}
	return fromStruct(out, resp)
}

// statusError keeps the gRPC status (status.FromError still works) while
// letting errors.Is match the domain sentinel it stands for.
type statusError struct {
	kind error
	st   *status.Status
}

func (e *statusError) Error() string              { return e.st.Message() }
func (e *statusError) Unwrap() error              { return e.kind }
func (e *statusError) GRPCStatus() *status.Status { return e.st }

func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unimplemented:
		return &statusError{kind: domain.ErrNotImplemented, st: st}
	case codes.InvalidArgument:
		return &statusError{kind: domain.ErrInvalidParameters, st: st}
	case codes.DeadlineExceeded:
		return &statusError{kind: context.DeadlineExceeded, st: st}
	case codes.Canceled:
		return &statusError{kind: context.Canceled, st: st}
	}
	return err
}
