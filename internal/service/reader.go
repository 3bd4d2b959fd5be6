package service

import (
	"context"

	"github.com/milad/dwreader/internal/domain"
)

// Reader exposes every lookup behind the query shapes the transports use.
type Reader struct {
	Measurements *MeasurementService
	Agreements   *AgreementService
	Customers    *CustomerService
	Invoices     *InvoiceService
}

func NewReader(m *MeasurementService, a *AgreementService, c *CustomerService, i *InvoiceService) *Reader {
	return &Reader{Measurements: m, Agreements: a, Customers: c, Invoices: i}
}

func (r *Reader) GetMeasurements(ctx context.Context, q domain.MeasurementQuery) (*domain.MeasurementResponse, error) {
	return r.Measurements.GetMeasurements(ctx, q.LegalID, q.Category, q.Aggregation, q.FromDateTime, q.ToDateTime, q.Parameters)
}

func (r *Reader) GetAgreements(ctx context.Context, p domain.AgreementParameters) (*domain.AgreementResponse, error) {
	return r.Agreements.GetAgreements(ctx, p)
}

func (r *Reader) GetCustomers(ctx context.Context, p domain.CustomerParameters) (*domain.CustomerResponse, error) {
	return r.Customers.GetCustomers(ctx, p)
}

func (r *Reader) GetInvoices(ctx context.Context, p domain.InvoiceParameters) (*domain.InvoiceResponse, error) {
	return r.Invoices.GetInvoices(ctx, p)
}
