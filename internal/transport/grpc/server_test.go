package grpcserver

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/milad/dwreader/internal/domain"
	"github.com/milad/dwreader/internal/logger"
	"github.com/milad/dwreader/internal/repo/csvrepo"
	"github.com/milad/dwreader/internal/service"
	"github.com/milad/dwreader/internal/warehouse"
)

func newReader(t *testing.T) *service.Reader {
	t.Helper()

	day := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	elDay := csvrepo.NewMeasurements(warehouse.ElectricityDay, []warehouse.MeasurementRecord{
		{CustomerOrgID: "c1", FacilityID: "f1", MeasurementTimestamp: day.Add(2 * time.Hour), Unit: "kWh", Usage: decimal.RequireFromString("0.11")},
		{CustomerOrgID: "c1", FacilityID: "f1", MeasurementTimestamp: day, Unit: "kWh", Usage: decimal.RequireFromString("12.0000000001")},
		{CustomerOrgID: "c1", FacilityID: "f2", MeasurementTimestamp: day.Add(time.Hour), Unit: "kWh", Usage: decimal.RequireFromString("19")},
	})
	agreements := csvrepo.NewAgreements([]warehouse.AgreementRecord{
		{CustomerOrgID: "c1", AgreementID: 10, Category: "Elnät", FromDate: day},
	})
	customers := csvrepo.NewCustomers([]warehouse.CustomerRecord{
		{CustomerOrgID: "c1", CustomerID: 1, CustomerType: "Företag", OrganizationName: "Alpha"},
		{CustomerOrgID: "c2", CustomerID: 2, CustomerType: "Privat"},
	})
	invoices := csvrepo.NewInvoices([]warehouse.InvoiceRecord{
		{CustomerID: 1, InvoiceNumber: 900100200300, InvoiceDate: day, OCRNumber: 45678901234567, TotalAmount: decimal.RequireFromString("1250.40")},
		{CustomerID: 2, InvoiceNumber: 900100200301, InvoiceDate: day.AddDate(0, 0, 1), TotalAmount: decimal.RequireFromString("1")},
	})
	return service.NewReader(
		service.NewMeasurementService(service.Repositories{ElectricityDay: elDay}),
		service.NewAgreementService(agreements),
		service.NewCustomerService(customers),
		service.NewInvoiceService(invoices),
	)
}

// dial starts an in-memory server for reader and returns a client for it.
func dial(t *testing.T, reader Reader) *Client {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	g := grpc.NewServer(grpc.UnaryInterceptor(UnaryInterceptor(logger.Nop())))
	RegisterWarehouseReaderServer(g, New(reader, logger.Nop()))
	go func() { _ = g.Serve(lis) }()
	t.Cleanup(g.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn)
}

func TestServer_GetMeasurements_PreservesOrderAndPrecision(t *testing.T) {
	t.Parallel()

	client := dial(t, newReader(t))
	facility := "f1"
	resp, err := client.GetMeasurements(context.Background(), domain.MeasurementQuery{
		Category:    domain.CategoryElectricity,
		Aggregation: domain.AggregationDay,
		Parameters:  domain.MeasurementParameters{PartyID: "p1", FacilityID: &facility},
	})
	if err != nil {
		t.Fatalf("GetMeasurements: %v", err)
	}
	if got, want := len(resp.Measurements), 2; got != want {
		t.Fatalf("len(measurements)=%d want %d", got, want)
	}
	if !resp.Measurements[0].Timestamp.Before(resp.Measurements[1].Timestamp) {
		t.Fatalf("expected ascending timestamps, got %v, %v", resp.Measurements[0].Timestamp, resp.Measurements[1].Timestamp)
	}
	if got, want := resp.Measurements[0].Usage, decimal.RequireFromString("12.0000000001"); !got.Equal(want) {
		t.Fatalf("usage=%s want %s", got, want)
	}
	if m := resp.Measurements[0]; m.PartyID != "p1" || m.Category != domain.CategoryElectricity || m.Aggregation != domain.AggregationDay {
		t.Fatalf("unexpected decoration: %+v", m)
	}
	want := domain.PageMetaData{Count: 2, Limit: 100, Page: 1, TotalPages: 1, TotalRecords: 2}
	if resp.MetaData != want {
		t.Fatalf("meta=%+v want %+v", resp.MetaData, want)
	}
}

func TestServer_GetMeasurements_NotImplemented(t *testing.T) {
	t.Parallel()

	client := dial(t, newReader(t))
	_, err := client.GetMeasurements(context.Background(), domain.MeasurementQuery{
		Category:    domain.CategoryElectricity,
		Aggregation: domain.AggregationHour,
	})
	if !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("err=%v want ErrNotImplemented", err)
	}
	if got, want := status.Code(err), codes.Unimplemented; got != want {
		t.Fatalf("code=%s want %s", got, want)
	}
	if got, want := err.Error(), "Not Implemented: aggregation 'HOUR' and category 'ELECTRICITY'"; got != want {
		t.Fatalf("message=%q want %q", got, want)
	}
}

func TestServer_GetMeasurements_InvalidArgument(t *testing.T) {
	t.Parallel()

	client := dial(t, newReader(t))
	_, err := client.GetMeasurements(context.Background(), domain.MeasurementQuery{
		Category:    domain.CategoryElectricity,
		Aggregation: domain.AggregationDay,
		Parameters:  domain.MeasurementParameters{Paging: domain.Paging{Limit: 5000}},
	})
	if !errors.Is(err, domain.ErrInvalidParameters) {
		t.Fatalf("err=%v want ErrInvalidParameters", err)
	}
}

func TestServer_GetMeasurements_UnknownEnumsAreInvalid(t *testing.T) {
	t.Parallel()

	client := dial(t, newReader(t))
	tests := map[string]domain.MeasurementQuery{
		"unknown category":    {Category: "GAS", Aggregation: domain.AggregationDay},
		"unknown aggregation": {Category: domain.CategoryElectricity, Aggregation: "WEEK"},
		"missing category":    {Aggregation: domain.AggregationDay},
	}
	for name, q := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := client.GetMeasurements(context.Background(), q)
			if got, want := status.Code(err), codes.InvalidArgument; got != want {
				t.Fatalf("code=%s want %s (err=%v)", got, want, err)
			}
			if !errors.Is(err, domain.ErrInvalidParameters) {
				t.Fatalf("err=%v want ErrInvalidParameters", err)
			}
		})
	}
}

func TestServer_GetMeasurements_NormalizesEnumCase(t *testing.T) {
	t.Parallel()

	client := dial(t, newReader(t))
	resp, err := client.GetMeasurements(context.Background(), domain.MeasurementQuery{Category: "electricity", Aggregation: "day"})
	if err != nil {
		t.Fatalf("GetMeasurements: %v", err)
	}
	if len(resp.Measurements) != 3 || resp.Measurements[0].Category != domain.CategoryElectricity {
		t.Fatalf("unexpected measurements: %+v", resp.Measurements)
	}
}

type failingReader struct{ err error }

func (f failingReader) GetMeasurements(context.Context, domain.MeasurementQuery) (*domain.MeasurementResponse, error) {
	return nil, f.err
}

func (f failingReader) GetAgreements(context.Context, domain.AgreementParameters) (*domain.AgreementResponse, error) {
	return nil, f.err
}

func (f failingReader) GetCustomers(context.Context, domain.CustomerParameters) (*domain.CustomerResponse, error) {
	return nil, f.err
}

func (f failingReader) GetInvoices(context.Context, domain.InvoiceParameters) (*domain.InvoiceResponse, error) {
	return nil, f.err
}

func TestServer_HidesStorageErrors(t *testing.T) {
	t.Parallel()

	client := dial(t, failingReader{err: errors.New("pq: password authentication failed")})
	_, err := client.GetAgreements(context.Background(), domain.AgreementParameters{})
	if got, want := status.Code(err), codes.Internal; got != want {
		t.Fatalf("code=%s want %s", got, want)
	}
	if st, _ := status.FromError(err); st.Message() != "internal error" {
		t.Fatalf("message=%q leaks storage details", st.Message())
	}
}

type panickingReader struct{ failingReader }

func (panickingReader) GetMeasurements(context.Context, domain.MeasurementQuery) (*domain.MeasurementResponse, error) {
	panic("boom")
}

func TestServer_RecoversPanics(t *testing.T) {
	t.Parallel()

	client := dial(t, panickingReader{})
	_, err := client.GetMeasurements(context.Background(), domain.MeasurementQuery{
		Category:    domain.CategoryElectricity,
		Aggregation: domain.AggregationDay,
	})
	if got, want := status.Code(err), codes.Internal; got != want {
		t.Fatalf("code=%s want %s", got, want)
	}
}

func TestServer_GetAgreements(t *testing.T) {
	t.Parallel()

	client := dial(t, newReader(t))
	resp, err := client.GetAgreements(context.Background(), domain.AgreementParameters{
		Categories: []domain.Category{domain.CategoryElectricity},
	})
	if err != nil {
		t.Fatalf("GetAgreements: %v", err)
	}
	if len(resp.Agreements) != 1 || resp.Agreements[0].AgreementID != 10 || resp.Agreements[0].Category != domain.CategoryElectricity {
		t.Fatalf("unexpected agreements: %+v", resp.Agreements)
	}
	if resp.Agreements[0].ToDate != nil {
		t.Fatalf("toDate=%v want nil", resp.Agreements[0].ToDate)
	}
}

func TestServer_GetCustomers(t *testing.T) {
	t.Parallel()

	client := dial(t, newReader(t))
	resp, err := client.GetCustomers(context.Background(), domain.CustomerParameters{CustomerOrgIDs: []string{"c1"}})
	if err != nil {
		t.Fatalf("GetCustomers: %v", err)
	}
	if len(resp.Customers) != 1 || resp.Customers[0].CustomerType != domain.CustomerTypeEnterprise || resp.Customers[0].OrganizationName != "Alpha" {
		t.Fatalf("unexpected customers: %+v", resp.Customers)
	}
}

func TestServer_GetInvoices_PreservesNumbersAndAmounts(t *testing.T) {
	t.Parallel()

	client := dial(t, newReader(t))
	resp, err := client.GetInvoices(context.Background(), domain.InvoiceParameters{CustomerIDs: []int{1}})
	if err != nil {
		t.Fatalf("GetInvoices: %v", err)
	}
	if len(resp.Invoices) != 1 {
		t.Fatalf("len(invoices)=%d want 1", len(resp.Invoices))
	}
	inv := resp.Invoices[0]
	if inv.InvoiceNumber != 900100200300 || inv.OCRNumber != 45678901234567 {
		t.Fatalf("numbers=%d/%d", inv.InvoiceNumber, inv.OCRNumber)
	}
	if !inv.TotalAmount.Equal(decimal.RequireFromString("1250.4")) {
		t.Fatalf("totalAmount=%s", inv.TotalAmount)
	}
}

func TestServer_GetInvoices_UnknownCustomerType(t *testing.T) {
	t.Parallel()

	client := dial(t, newReader(t))
	gov := domain.CustomerType("GOVERNMENT")
	_, err := client.GetInvoices(context.Background(), domain.InvoiceParameters{CustomerType: &gov})
	if got, want := status.Code(err), codes.InvalidArgument; got != want {
		t.Fatalf("code=%s want %s", got, want)
	}
}
