package gormrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/milad/dwreader/internal/logger"
	"github.com/milad/dwreader/internal/warehouse"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	cfg := Config{DSN: ":memory:", TablePrefix: "dw_"}
	db, err := OpenSQLite(cfg, logger.Nop())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	s := NewStore(db, cfg, logger.Nop())
	t.Cleanup(func() { _ = s.Close() })

	if err := db.Table(s.table(warehouse.ElectricityDay.Table)).AutoMigrate(&warehouse.MeasurementRecord{}); err != nil {
		t.Fatalf("migrate measurements: %v", err)
	}
	if err := db.Table(s.table(warehouse.AgreementTable)).AutoMigrate(&warehouse.AgreementRecord{}); err != nil {
		t.Fatalf("migrate agreements: %v", err)
	}
	if err := db.Table(s.table(warehouse.CustomerTable)).AutoMigrate(&warehouse.CustomerRecord{}); err != nil {
		t.Fatalf("migrate customers: %v", err)
	}
	if err := db.Table(s.table(warehouse.InvoiceTable)).AutoMigrate(&warehouse.InvoiceRecord{}); err != nil {
		t.Fatalf("migrate invoices: %v", err)
	}
	return s
}

func seedMeasurements(t *testing.T, s *Store, rows []warehouse.MeasurementRecord) {
	t.Helper()
	if err := s.db.Table(s.table(warehouse.ElectricityDay.Table)).Create(&rows).Error; err != nil {
		t.Fatalf("seed measurements: %v", err)
	}
}

func TestMeasurementRepo_FiltersSortsAndPages(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	day := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	seedMeasurements(t, s, []warehouse.MeasurementRecord{
		{CustomerOrgID: "c1", FacilityID: "f1", MeasurementTimestamp: day.AddDate(0, 0, -1), Usage: decimal.NewFromInt(7)},
		{CustomerOrgID: "c1", FacilityID: "f1", MeasurementTimestamp: day, Usage: decimal.NewFromInt(1)},
		{CustomerOrgID: "c1", FacilityID: "f1", MeasurementTimestamp: day, Usage: decimal.NewFromInt(19)},
		{CustomerOrgID: "c1", FacilityID: "f1", MeasurementTimestamp: day, Usage: decimal.NewFromInt(12)},
		{CustomerOrgID: "c1", FacilityID: "f2", MeasurementTimestamp: day, Usage: decimal.NewFromInt(5)},
		{CustomerOrgID: "c2", FacilityID: "f1", MeasurementTimestamp: day, Usage: decimal.NewFromInt(3)},
	})

	repo := s.Measurements(warehouse.ElectricityDay)
	org, facility := "c1", "f1"
	pageable := warehouse.Pageable{Page: 0, Size: 2, Sort: []warehouse.Order{{Property: "usage", Direction: warehouse.Desc}}}

	page, err := repo.FindAllMatching(context.Background(), &org, &facility, &day, &day, pageable)
	if err != nil {
		t.Fatalf("FindAllMatching: %v", err)
	}
	if got, want := page.TotalElements, int64(3); got != want {
		t.Fatalf("total=%d want %d", got, want)
	}
	if got, want := page.TotalPages, 2; got != want {
		t.Fatalf("totalPages=%d want %d", got, want)
	}
	if got := len(page.Content); got != 2 {
		t.Fatalf("len(content)=%d want 2", got)
	}
	if !page.Content[0].Usage.Equal(decimal.NewFromInt(19)) || !page.Content[1].Usage.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("unexpected order: %s, %s", page.Content[0].Usage, page.Content[1].Usage)
	}
}

func TestMeasurementRepo_NilFiltersMatchEverything(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	day := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	seedMeasurements(t, s, []warehouse.MeasurementRecord{
		{FacilityID: "f1", MeasurementTimestamp: day, Usage: decimal.NewFromInt(1)},
		{FacilityID: "f2", MeasurementTimestamp: day.Add(time.Hour), Usage: decimal.NewFromInt(2)},
	})

	page, err := s.Measurements(warehouse.ElectricityDay).FindAllMatching(context.Background(), nil, nil, nil, nil, warehouse.Pageable{Size: 10})
	if err != nil {
		t.Fatalf("FindAllMatching: %v", err)
	}
	if got, want := page.TotalElements, int64(2); got != want {
		t.Fatalf("total=%d want %d", got, want)
	}
}

func TestMeasurementRepo_PageBeyondEndSkipsContentQuery(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	seedMeasurements(t, s, []warehouse.MeasurementRecord{
		{FacilityID: "f1", MeasurementTimestamp: time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC), Usage: decimal.NewFromInt(1)},
	})

	page, err := s.Measurements(warehouse.ElectricityDay).FindAllMatching(context.Background(), nil, nil, nil, nil, warehouse.Pageable{Page: 3, Size: 10})
	if err != nil {
		t.Fatalf("FindAllMatching: %v", err)
	}
	if page.Content == nil || len(page.Content) != 0 {
		t.Fatalf("content=%v want empty", page.Content)
	}
	if got, want := page.TotalPages, 1; got != want {
		t.Fatalf("totalPages=%d want %d", got, want)
	}
}

func TestMeasurementRepo_RejectsUnknownSort(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	pageable := warehouse.Pageable{Size: 10, Sort: []warehouse.Order{{Property: "colour"}}}
	_, err := s.Measurements(warehouse.ElectricityDay).FindAllMatching(context.Background(), nil, nil, nil, nil, pageable)
	if !errors.Is(err, warehouse.ErrUnknownSortProperty) {
		t.Fatalf("err=%v want ErrUnknownSortProperty", err)
	}
}

func TestMeasurementRepo_MissingViewIsAnError(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.Measurements(warehouse.ElectricityMonth).FindAllMatching(context.Background(), nil, nil, nil, nil, warehouse.Pageable{Size: 10})
	if err == nil {
		t.Fatalf("expected error for missing table")
	}
}

func TestAgreementRepo_InFilter(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	rows := []warehouse.AgreementRecord{
		{CustomerOrgID: "c1", AgreementID: 1, Category: "Elnät"},
		{CustomerOrgID: "c1", AgreementID: 2, Category: "Vatten"},
		{CustomerOrgID: "c2", AgreementID: 3, Category: "Fjärrvärme"},
	}
	if err := s.db.Table(s.table(warehouse.AgreementTable)).Create(&rows).Error; err != nil {
		t.Fatalf("seed agreements: %v", err)
	}

	filter := warehouse.InOrAlways(warehouse.AgreementCategory, []string{"Elnät", "Fjärrvärme"})
	pageable := warehouse.Pageable{Size: 10, Sort: []warehouse.Order{{Property: "agreementId", Direction: warehouse.Asc}}}
	page, err := s.Agreements().FindAllMatching(context.Background(), filter, pageable)
	if err != nil {
		t.Fatalf("FindAllMatching: %v", err)
	}
	if len(page.Content) != 2 || page.Content[0].AgreementID != 1 || page.Content[1].AgreementID != 3 {
		t.Fatalf("unexpected agreements: %+v", page.Content)
	}
}

func TestCustomerRepo_OrgIDListAndEquality(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	rows := []warehouse.CustomerRecord{
		{CustomerOrgID: "c1", CustomerID: 1, CustomerType: "Företag", OrganizationName: "Alpha"},
		{CustomerOrgID: "c2", CustomerID: 2, CustomerType: "Privat"},
		{CustomerOrgID: "c3", CustomerID: 3, CustomerType: "Företag", OrganizationName: "Alpha"},
	}
	if err := s.db.Table(s.table(warehouse.CustomerTable)).Create(&rows).Error; err != nil {
		t.Fatalf("seed customers: %v", err)
	}

	name := "Alpha"
	filter := warehouse.And(
		warehouse.InOrAlways(warehouse.CustomerCustomerOrgID, []string{"c1", "c2", "c3"}),
		warehouse.EqualOrAlways(warehouse.CustomerOrganizationName, &name),
	)
	pageable := warehouse.Pageable{Size: 10, Sort: []warehouse.Order{{Property: "customerId", Direction: warehouse.Desc}}}
	page, err := s.Customers().FindAllMatching(context.Background(), filter, pageable)
	if err != nil {
		t.Fatalf("FindAllMatching: %v", err)
	}
	if len(page.Content) != 2 || page.Content[0].CustomerID != 3 || page.Content[1].CustomerID != 1 {
		t.Fatalf("unexpected customers: %+v", page.Content)
	}
}

func TestInvoiceRepo_CustomerIDsAndDateRanges(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	date := func(m time.Month, d int) time.Time { return time.Date(2023, m, d, 0, 0, 0, 0, time.UTC) }
	rows := []warehouse.InvoiceRecord{
		{CustomerID: 7, InvoiceNumber: 1, InvoiceDate: date(1, 4), DueDate: date(2, 4), TotalAmount: decimal.RequireFromString("10.50")},
		{CustomerID: 7, InvoiceNumber: 2, InvoiceDate: date(1, 5), DueDate: date(2, 5), TotalAmount: decimal.RequireFromString("1250.40")},
		{CustomerID: 8, InvoiceNumber: 3, InvoiceDate: date(1, 10), DueDate: date(2, 10), TotalAmount: decimal.RequireFromString("99")},
		{CustomerID: 9, InvoiceNumber: 4, InvoiceDate: date(1, 10), DueDate: date(2, 10), TotalAmount: decimal.RequireFromString("1")},
		{CustomerID: 8, InvoiceNumber: 5, InvoiceDate: date(1, 11), DueDate: date(3, 1), TotalAmount: decimal.RequireFromString("2")},
	}
	if err := s.db.Table(s.table(warehouse.InvoiceTable)).Create(&rows).Error; err != nil {
		t.Fatalf("seed invoices: %v", err)
	}

	from, to := date(1, 5), date(1, 10)
	dueTo := date(2, 28)
	filter := warehouse.And(
		warehouse.InOrAlways(warehouse.InvoiceCustomerID, []int{7, 8}),
		warehouse.DateRangeOrAlways(warehouse.InvoiceInvoiceDate, &from, &to),
		warehouse.DateRangeOrAlways(warehouse.InvoiceDueDate, nil, &dueTo),
	)
	pageable := warehouse.Pageable{Size: 10, Sort: []warehouse.Order{{Property: "invoiceNumber", Direction: warehouse.Asc}}}
	page, err := s.Invoices().FindAllMatching(context.Background(), filter, pageable)
	if err != nil {
		t.Fatalf("FindAllMatching: %v", err)
	}
	if len(page.Content) != 2 || page.Content[0].InvoiceNumber != 2 || page.Content[1].InvoiceNumber != 3 {
		t.Fatalf("unexpected invoices: %+v", page.Content)
	}
	if !page.Content[0].TotalAmount.Equal(decimal.RequireFromString("1250.4")) {
		t.Fatalf("totalAmount=%s want 1250.4", page.Content[0].TotalAmount)
	}
}
