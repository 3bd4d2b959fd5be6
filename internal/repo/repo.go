package repo

import (
	"context"
	"time"

	"github.com/milad/dwreader/internal/warehouse"
)

// MeasurementRepository provides paged access to one measurement view.
type MeasurementRepository interface {
	// FindAllMatching returns the requested page of rows matching the optional
	// customer/facility filters and the inclusive [from, to] timestamp window.
	// Nil arguments do not restrict the result. The page content may contain
	// nil entries and must be treated as read-only by callers.
	FindAllMatching(
		ctx context.Context,
		customerOrgID *string,
		facilityID *string,
		from *time.Time,
		to *time.Time,
		pageable warehouse.Pageable,
	) (warehouse.Page[*warehouse.MeasurementRecord], error)
}

// ViewRepository provides paged, filtered access to one warehouse view of
// records R.
type ViewRepository[R any] interface {
	FindAllMatching(
		ctx context.Context,
		filter warehouse.Predicate[R],
		pageable warehouse.Pageable,
	) (warehouse.Page[*R], error)
}

type (
	AgreementRepository = ViewRepository[warehouse.AgreementRecord]
	CustomerRepository  = ViewRepository[warehouse.CustomerRecord]
	InvoiceRepository   = ViewRepository[warehouse.InvoiceRecord]
)
