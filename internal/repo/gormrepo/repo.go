package gormrepo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/milad/dwreader/internal/repo"
	"github.com/milad/dwreader/internal/warehouse"
)

var (
	_ repo.MeasurementRepository = (*MeasurementRepo)(nil)
	_ repo.AgreementRepository   = (*AgreementRepo)(nil)
	_ repo.CustomerRepository    = (*CustomerRepo)(nil)
	_ repo.InvoiceRepository     = (*InvoiceRepo)(nil)
)

// MeasurementRepo reads one measurement view.
type MeasurementRepo struct {
	store  *Store
	schema warehouse.MeasurementSchema
}

func (s *Store) Measurements(schema warehouse.MeasurementSchema) *MeasurementRepo {
	return &MeasurementRepo{store: s, schema: schema}
}

func (r *MeasurementRepo) FindAllMatching(
	ctx context.Context,
	customerOrgID *string,
	facilityID *string,
	from *time.Time,
	to *time.Time,
	pageable warehouse.Pageable,
) (warehouse.Page[*warehouse.MeasurementRecord], error) {
	filter := warehouse.MeasurementFilter(customerOrgID, facilityID, from, to)
	return findPage(ctx, r.store, r.schema.Table, r.schema.Columns(), filter, warehouse.MeasurementOrderings, pageable)
}

// View reads one warehouse view of records R, selecting every column.
type View[R any] struct {
	store     *Store
	table     string
	orderings warehouse.Orderings[R]
}

type (
	AgreementRepo = View[warehouse.AgreementRecord]
	CustomerRepo  = View[warehouse.CustomerRecord]
	InvoiceRepo   = View[warehouse.InvoiceRecord]
)

func (s *Store) Agreements() *AgreementRepo {
	return &AgreementRepo{store: s, table: warehouse.AgreementTable, orderings: warehouse.AgreementOrderings}
}

func (s *Store) Customers() *CustomerRepo {
	return &CustomerRepo{store: s, table: warehouse.CustomerTable, orderings: warehouse.CustomerOrderings}
}

func (s *Store) Invoices() *InvoiceRepo {
	return &InvoiceRepo{store: s, table: warehouse.InvoiceTable, orderings: warehouse.InvoiceOrderings}
}

func (v *View[R]) FindAllMatching(
	ctx context.Context,
	filter warehouse.Predicate[R],
	pageable warehouse.Pageable,
) (warehouse.Page[*R], error) {
	return findPage(ctx, v.store, v.table, nil, filter, v.orderings, pageable)
}

// findPage runs the count and, when the page is within range, the content
// query for one view. A nil columns list selects every column.
func findPage[R any](
	ctx context.Context,
	s *Store,
	table string,
	columns []string,
	filter warehouse.Predicate[R],
	orderings warehouse.Orderings[R],
	pageable warehouse.Pageable,
) (warehouse.Page[*R], error) {
	if pageable.Size <= 0 || pageable.Page < 0 {
		return warehouse.Page[*R]{}, fmt.Errorf("invalid pageable page=%d size=%d", pageable.Page, pageable.Size)
	}
	if err := orderings.Validate(pageable.Sort); err != nil {
		return warehouse.Page[*R]{}, err
	}

	start := time.Now()
	page, err := queryPage(ctx, s.db, s.table(table), columns, filter, orderings, pageable)
	s.observe(table, start, err)
	return page, err
}

func queryPage[R any](
	ctx context.Context,
	db *gorm.DB,
	table string,
	columns []string,
	filter warehouse.Predicate[R],
	orderings warehouse.Orderings[R],
	pageable warehouse.Pageable,
) (warehouse.Page[*R], error) {
	base := func() *gorm.DB {
		return db.WithContext(ctx).Table(table).Scopes(filter.Scope)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return warehouse.Page[*R]{}, fmt.Errorf("count %s: %w", table, err)
	}

	content := []*R{}
	if int64(pageable.Offset()) < total {
		q := base()
		if len(columns) > 0 {
			q = q.Select(columns)
		}
		err := q.Scopes(orderings.Scope(pageable.Sort)).
			Offset(pageable.Offset()).
			Limit(pageable.Size).
			Find(&content).Error
		if err != nil {
			return warehouse.Page[*R]{}, fmt.Errorf("query %s: %w", table, err)
		}
	}
	return warehouse.NewPage(content, pageable, total), nil
}
