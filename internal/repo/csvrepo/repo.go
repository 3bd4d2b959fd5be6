package csvrepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/milad/dwreader/internal/repo"
	"github.com/milad/dwreader/internal/warehouse"
)

var (
	_ repo.MeasurementRepository = (*MeasurementRepo)(nil)
	_ repo.AgreementRepository   = (*AgreementRepo)(nil)
	_ repo.CustomerRepository    = (*CustomerRepo)(nil)
	_ repo.InvoiceRepository     = (*InvoiceRepo)(nil)
)

// MeasurementRepo is an in-memory measurement view loaded at startup. Rows
// keep the order they were loaded in; sorting follows the pageable.
type MeasurementRepo struct {
	schema  warehouse.MeasurementSchema
	records []warehouse.MeasurementRecord
}

func NewMeasurements(schema warehouse.MeasurementSchema, records []warehouse.MeasurementRecord) *MeasurementRepo {
	cp := append([]warehouse.MeasurementRecord(nil), records...)
	for i := range cp {
		// A view only exposes the extras its schema declares.
		if !schema.HasExtra(warehouse.ExtraReadingSequence) {
			cp[i].ReadingSequence = nil
		}
		if !schema.HasExtra(warehouse.ExtraFeedTypeID) {
			cp[i].FeedTypeID = nil
		}
	}
	return &MeasurementRepo{schema: schema, records: cp}
}

// NewMeasurementsFromFile loads a view from CSV. Parsing can be partially
// successful: the repo is returned together with the row errors as long as
// the file could be read.
func NewMeasurementsFromFile(schema warehouse.MeasurementSchema, path string) (*MeasurementRepo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %q: %w", path, err)
	}
	defer f.Close()

	records, parseErr := ParseMeasurementsCSV(f)
	r := NewMeasurements(schema, records)
	if parseErr != nil {
		if len(records) == 0 {
			return nil, fmt.Errorf("parse csv %q: %w", path, parseErr)
		}
		return r, fmt.Errorf("parse csv %q: %w", path, parseErr)
	}
	return r, nil
}

func (r *MeasurementRepo) FindAllMatching(
	ctx context.Context,
	customerOrgID *string,
	facilityID *string,
	from *time.Time,
	to *time.Time,
	pageable warehouse.Pageable,
) (warehouse.Page[*warehouse.MeasurementRecord], error) {
	if err := ctx.Err(); err != nil {
		return warehouse.Page[*warehouse.MeasurementRecord]{}, err
	}
	filter := warehouse.MeasurementFilter(customerOrgID, facilityID, from, to)
	return findPage(r.records, filter, warehouse.MeasurementOrderings, pageable)
}

// View is an in-memory, read-only view over records R.
type View[R any] struct {
	records   []R
	orderings warehouse.Orderings[R]
}

type (
	AgreementRepo = View[warehouse.AgreementRecord]
	CustomerRepo  = View[warehouse.CustomerRecord]
	InvoiceRepo   = View[warehouse.InvoiceRecord]
)

func newView[R any](records []R, orderings warehouse.Orderings[R]) *View[R] {
	return &View[R]{records: append([]R(nil), records...), orderings: orderings}
}

func NewAgreements(records []warehouse.AgreementRecord) *AgreementRepo {
	return newView(records, warehouse.AgreementOrderings)
}

func NewCustomers(records []warehouse.CustomerRecord) *CustomerRepo {
	return newView(records, warehouse.CustomerOrderings)
}

func NewInvoices(records []warehouse.InvoiceRecord) *InvoiceRepo {
	return newView(records, warehouse.InvoiceOrderings)
}

func NewAgreementsFromFile(path string) (*AgreementRepo, error) {
	return viewFromFile(path, ParseAgreementsCSV, NewAgreements)
}

func NewCustomersFromFile(path string) (*CustomerRepo, error) {
	return viewFromFile(path, ParseCustomersCSV, NewCustomers)
}

func NewInvoicesFromFile(path string) (*InvoiceRepo, error) {
	return viewFromFile(path, ParseInvoicesCSV, NewInvoices)
}

// viewFromFile follows NewMeasurementsFromFile: rows that parsed are kept
// alongside the row errors.
func viewFromFile[R any](path string, parse func(io.Reader) ([]R, error), build func([]R) *View[R]) (*View[R], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %q: %w", path, err)
	}
	defer f.Close()

	records, parseErr := parse(f)
	if parseErr != nil {
		if len(records) == 0 {
			return nil, fmt.Errorf("parse csv %q: %w", path, parseErr)
		}
		return build(records), fmt.Errorf("parse csv %q: %w", path, parseErr)
	}
	return build(records), nil
}

func (v *View[R]) FindAllMatching(
	ctx context.Context,
	filter warehouse.Predicate[R],
	pageable warehouse.Pageable,
) (warehouse.Page[*R], error) {
	if err := ctx.Err(); err != nil {
		return warehouse.Page[*R]{}, err
	}
	return findPage(v.records, filter, v.orderings, pageable)
}

func findPage[R any](
	records []R,
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

	var matches []R
	if filter.IsAlways() {
		matches = append(matches, records...)
	} else {
		matches = make([]R, 0, len(records))
		for _, rec := range records {
			if filter.Match(rec) {
				matches = append(matches, rec)
			}
		}
	}
	orderings.Sort(matches, pageable.Sort)

	total := int64(len(matches))
	start := pageable.Offset()
	if start > len(matches) {
		start = len(matches)
	}
	end := start + pageable.Size
	if end > len(matches) {
		end = len(matches)
	}

	content := make([]*R, 0, end-start)
	for i := start; i < end; i++ {
		rec := matches[i]
		content = append(content, &rec)
	}
	return warehouse.NewPage(content, pageable, total), nil
}

// Store holds every view loaded from a CSV directory.
type Store struct {
	DistrictHeatingMonth *MeasurementRepo
	ElectricityDay       *MeasurementRepo
	ElectricityMonth     *MeasurementRepo
	Agreements           *AgreementRepo
	Customers            *CustomerRepo
	Invoices             *InvoiceRepo
}

// LoadDir loads <dir>/<table>.csv for every view. Missing files yield empty
// views. Row-level parse problems are returned joined alongside a usable
// store.
func LoadDir(dir string) (*Store, error) {
	var warnings []error

	loadMeasurements := func(schema warehouse.MeasurementSchema) (*MeasurementRepo, error) {
		path := filepath.Join(dir, schema.Table+".csv")
		r, err := NewMeasurementsFromFile(schema, path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			return NewMeasurements(schema, nil), nil
		case r == nil:
			return nil, err
		case err != nil:
			warnings = append(warnings, err)
		}
		return r, nil
	}

	s := &Store{}
	var err error
	if s.DistrictHeatingMonth, err = loadMeasurements(warehouse.DistrictHeatingMonth); err != nil {
		return nil, err
	}
	if s.ElectricityDay, err = loadMeasurements(warehouse.ElectricityDay); err != nil {
		return nil, err
	}
	if s.ElectricityMonth, err = loadMeasurements(warehouse.ElectricityMonth); err != nil {
		return nil, err
	}
	if s.Agreements, err = loadView(dir, warehouse.AgreementTable, NewAgreementsFromFile, NewAgreements, &warnings); err != nil {
		return nil, err
	}
	if s.Customers, err = loadView(dir, warehouse.CustomerTable, NewCustomersFromFile, NewCustomers, &warnings); err != nil {
		return nil, err
	}
	if s.Invoices, err = loadView(dir, warehouse.InvoiceTable, NewInvoicesFromFile, NewInvoices, &warnings); err != nil {
		return nil, err
	}
	return s, errors.Join(warnings...)
}

func loadView[R any](
	dir, table string,
	fromFile func(string) (*View[R], error),
	empty func([]R) *View[R],
	warnings *[]error,
) (*View[R], error) {
	v, err := fromFile(filepath.Join(dir, table+".csv"))
	switch {
	case errors.Is(err, os.ErrNotExist):
		return empty(nil), nil
	case v == nil:
		return nil, err
	case err != nil:
		*warnings = append(*warnings, err)
	}
	return v, nil
}
