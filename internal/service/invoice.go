package service

import (
	"context"
	"fmt"

	"github.com/milad/dwreader/internal/domain"
	"github.com/milad/dwreader/internal/repo"
	"github.com/milad/dwreader/internal/warehouse"
)

const defaultInvoiceSort = "invoiceDate"

type InvoiceService struct {
	repo repo.InvoiceRepository
}

func NewInvoiceService(r repo.InvoiceRepository) *InvoiceService {
	return &InvoiceService{repo: r}
}

func (s *InvoiceService) GetInvoices(ctx context.Context, params domain.InvoiceParameters) (*domain.InvoiceResponse, error) {
	params.Paging = params.Paging.WithDefaults(defaultInvoiceSort)
	pageable, err := toPageable(params.Paging, warehouse.InvoiceOrderings)
	if err != nil {
		return nil, err
	}
	filter, err := invoiceFilter(params)
	if err != nil {
		return nil, err
	}

	page, err := s.repo.FindAllMatching(ctx, filter, pageable)
	if err != nil {
		return nil, err
	}

	invoices := []domain.Invoice{}
	if !beyondLastPage(params.Page, page.TotalPages) {
		invoices = toInvoices(page.Content)
	}
	return &domain.InvoiceResponse{
		Invoices: invoices,
		MetaData: toPageMetaData(params.Paging, page.TotalPages, page.TotalElements, len(invoices)),
	}, nil
}

func invoiceFilter(p domain.InvoiceParameters) (warehouse.Predicate[warehouse.InvoiceRecord], error) {
	var customerType *string
	if p.CustomerType != nil {
		label := p.CustomerType.WarehouseLabel()
		if label == "" {
			return warehouse.Predicate[warehouse.InvoiceRecord]{}, fmt.Errorf("%w: unknown customer type %q", domain.ErrInvalidParameters, *p.CustomerType)
		}
		customerType = &label
	}

	return warehouse.And(
		warehouse.InOrAlways(warehouse.InvoiceCustomerID, p.CustomerIDs),
		warehouse.EqualOrAlways(warehouse.InvoiceCustomerType, customerType),
		warehouse.InOrAlways(warehouse.InvoiceFacilityID, p.FacilityIDs),
		warehouse.EqualOrAlways(warehouse.InvoiceAdministration, p.Administration),
		warehouse.EqualOrAlways(warehouse.InvoiceOCRNumber, p.OCRNumber),
		warehouse.DateRangeOrAlways(warehouse.InvoiceInvoiceDate, p.InvoiceDateFrom, p.InvoiceDateTo),
		warehouse.EqualOrAlways(warehouse.InvoiceInvoiceName, p.InvoiceName),
		warehouse.EqualOrAlways(warehouse.InvoiceInvoiceNumber, p.InvoiceNumber),
		warehouse.EqualOrAlways(warehouse.InvoiceInvoiceType, p.InvoiceType),
		warehouse.EqualOrAlways(warehouse.InvoiceInvoiceStatus, p.InvoiceStatus),
		warehouse.DateRangeOrAlways(warehouse.InvoiceDueDate, p.DueDateFrom, p.DueDateTo),
		warehouse.EqualOrAlways(warehouse.InvoiceOrganizationGroup, p.OrganizationGroup),
		warehouse.EqualOrAlways(warehouse.InvoiceOrganizationID, p.OrganizationID),
	), nil
}

func toInvoices(records []*warehouse.InvoiceRecord) []domain.Invoice {
	out := make([]domain.Invoice, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		out = append(out, domain.Invoice{
			CustomerID:         rec.CustomerID,
			CustomerType:       domain.CustomerTypeFromWarehouseLabel(rec.CustomerType),
			FacilityID:         rec.FacilityID,
			InvoiceNumber:      rec.InvoiceNumber,
			InvoiceDate:        rec.InvoiceDate,
			InvoiceName:        rec.InvoiceName,
			InvoiceType:        rec.InvoiceType,
			InvoiceDescription: rec.InvoiceDescription,
			InvoiceStatus:      rec.InvoiceStatus,
			OCRNumber:          rec.OCRNumber,
			DueDate:            rec.DueDate,
			TotalAmount:        rec.TotalAmount,
			AmountVatIncluded:  rec.AmountVatIncluded,
			AmountVatExcluded:  rec.AmountVatExcluded,
			VatEligibleAmount:  rec.VatEligibleAmount,
			Rounding:           rec.Rounding,
			OrganizationGroup:  rec.OrganizationGroup,
			OrganizationID:     rec.OrganizationID,
			Administration:     rec.Administration,
			PDFAvailable:       rec.PDFAvailable,
		})
	}
	return out
}
