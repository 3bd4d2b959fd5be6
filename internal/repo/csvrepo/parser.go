package csvrepo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/milad/dwreader/internal/warehouse"
	"github.com/shopspring/decimal"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"
)

// row gives header-addressed access to one CSV record.
type row struct {
	cols   map[string]int
	fields []string
}

func (r row) get(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r row) optionalInt(name string) (*int, error) {
	v := r.get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("parse %s %q: %w", name, v, err)
	}
	return &n, nil
}

func (r row) intValue(name string) (int, error) {
	n, err := r.optionalInt(name)
	if err != nil || n == nil {
		return 0, err
	}
	return *n, nil
}

func (r row) int64Value(name string) (int64, error) {
	v := r.get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", name, v, err)
	}
	return n, nil
}

func (r row) decimalValue(name string) (decimal.Decimal, error) {
	v := r.get(name)
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %s %q: %w", name, v, err)
	}
	return d, nil
}

func (r row) boolValue(name string) (bool, error) {
	v := r.get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s %q: %w", name, v, err)
	}
	return b, nil
}

func (r row) timeValue(name, layout string) (time.Time, error) {
	v := r.get(name)
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s %q: %w", name, v, err)
	}
	return t.UTC(), nil
}

// readRows parses a CSV stream whose first line names the columns. Column
// names are matched case-insensitively. Rows that fail in fn are skipped and
// reported through the joined error.
func readRows(r io.Reader, required []string, fn func(row) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // be permissive; validate ourselves
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return fmt.Errorf("unexpected header %q (missing %q)", strings.Join(header, ","), name)
		}
	}

	var (
		rowErrs []error
		rowNum  = 1 // header
	)
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: read: %w", rowNum, err))
			continue
		}
		if err := fn(row{cols: cols, fields: fields}); err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: %w", rowNum, err))
		}
	}
	return errors.Join(rowErrs...)
}

// ParseMeasurementsCSV parses measurement rows.
//
// Required columns: facility_id, measurement_timestamp, usage. Optional:
// customer_org_id, uuid, feed_type, is_interpolated, unit, reading_sequence,
// feed_type_id. Timestamps use "2006-01-02 15:04:05" (UTC) or RFC3339.
// Invalid rows are skipped and returned as a joined error.
func ParseMeasurementsCSV(r io.Reader) ([]warehouse.MeasurementRecord, error) {
	records := []warehouse.MeasurementRecord{}
	err := readRows(r, []string{"facility_id", "measurement_timestamp", "usage"}, func(rw row) error {
		ts, err := rw.timeValue("measurement_timestamp", timeLayout)
		if err != nil {
			return err
		}
		if ts.IsZero() {
			return errors.New("missing measurement_timestamp")
		}
		usage, err := decimal.NewFromString(rw.get("usage"))
		if err != nil {
			return fmt.Errorf("parse usage %q: %w", rw.get("usage"), err)
		}
		interpolation, err := rw.intValue("is_interpolated")
		if err != nil {
			return err
		}
		readingSequence, err := rw.optionalInt("reading_sequence")
		if err != nil {
			return err
		}
		feedTypeID, err := rw.optionalInt("feed_type_id")
		if err != nil {
			return err
		}
		var id *uuid.UUID
		if v := rw.get("uuid"); v != "" {
			u, err := uuid.Parse(v)
			if err != nil {
				return fmt.Errorf("parse uuid %q: %w", v, err)
			}
			id = &u
		}

		records = append(records, warehouse.MeasurementRecord{
			CustomerOrgID:        rw.get("customer_org_id"),
			UUID:                 id,
			FacilityID:           rw.get("facility_id"),
			FeedType:             rw.get("feed_type"),
			Interpolation:        interpolation,
			MeasurementTimestamp: ts,
			Unit:                 rw.get("unit"),
			Usage:                usage,
			ReadingSequence:      readingSequence,
			FeedTypeID:           feedTypeID,
		})
		return nil
	})
	return records, err
}

// ParseAgreementsCSV parses agreement rows. Required columns: customer_org_id,
// agreement_id. Dates use "2006-01-02"; an empty to_date means open-ended.
func ParseAgreementsCSV(r io.Reader) ([]warehouse.AgreementRecord, error) {
	records := []warehouse.AgreementRecord{}
	err := readRows(r, []string{"customer_org_id", "agreement_id"}, func(rw row) error {
		var (
			rec warehouse.AgreementRecord
			err error
		)
		rec.CustomerOrgID = rw.get("customer_org_id")
		rec.FacilityID = rw.get("facility_id")
		rec.Category = rw.get("category")
		rec.Description = rw.get("description")
		rec.BindingRule = rw.get("binding_rule")
		if rec.CustomerID, err = rw.intValue("customer_id"); err != nil {
			return err
		}
		if rec.AgreementID, err = rw.intValue("agreement_id"); err != nil {
			return err
		}
		if rec.BillingID, err = rw.intValue("billing_id"); err != nil {
			return err
		}
		if rec.MainAgreement, err = rw.boolValue("main_agreement"); err != nil {
			return err
		}
		if rec.Binding, err = rw.boolValue("binding"); err != nil {
			return err
		}
		if rec.FromDate, err = rw.timeValue("from_date", dateLayout); err != nil {
			return err
		}
		if rec.ToDate, err = rw.timeValue("to_date", dateLayout); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}

// ParseCustomersCSV parses customer rows. Required columns: customer_org_id,
// customer_id.
func ParseCustomersCSV(r io.Reader) ([]warehouse.CustomerRecord, error) {
	records := []warehouse.CustomerRecord{}
	err := readRows(r, []string{"customer_org_id", "customer_id"}, func(rw row) error {
		rec := warehouse.CustomerRecord{
			CustomerOrgID:    rw.get("customer_org_id"),
			CustomerType:     rw.get("customer_type"),
			OrganizationID:   rw.get("organization_id"),
			OrganizationName: rw.get("organization_name"),
		}
		var err error
		if rec.CustomerID, err = rw.intValue("customer_id"); err != nil {
			return err
		}
		if rec.Active, err = rw.boolValue("active"); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}

// ParseInvoicesCSV parses invoice rows. Required columns: customer_id,
// invoice_number, invoice_date. Dates use "2006-01-02" and amounts are
// decimal strings.
func ParseInvoicesCSV(r io.Reader) ([]warehouse.InvoiceRecord, error) {
	records := []warehouse.InvoiceRecord{}
	err := readRows(r, []string{"customer_id", "invoice_number", "invoice_date"}, func(rw row) error {
		rec := warehouse.InvoiceRecord{
			CustomerType:       rw.get("customer_type"),
			FacilityID:         rw.get("facility_id"),
			InvoiceName:        rw.get("invoice_name"),
			InvoiceType:        rw.get("invoice_type"),
			InvoiceDescription: rw.get("invoice_description"),
			InvoiceStatus:      rw.get("invoice_status"),
			OrganizationGroup:  rw.get("organization_group"),
			OrganizationID:     rw.get("organization_id"),
			Administration:     rw.get("administration"),
		}
		var err error
		if rec.CustomerID, err = rw.intValue("customer_id"); err != nil {
			return err
		}
		if rec.InvoiceNumber, err = rw.int64Value("invoice_number"); err != nil {
			return err
		}
		if rec.OCRNumber, err = rw.int64Value("ocr_number"); err != nil {
			return err
		}
		if rec.InvoiceDate, err = rw.timeValue("invoice_date", dateLayout); err != nil {
			return err
		}
		if rec.InvoiceDate.IsZero() {
			return errors.New("missing invoice_date")
		}
		if rec.DueDate, err = rw.timeValue("due_date", dateLayout); err != nil {
			return err
		}
		amounts := []struct {
			name string
			dst  *decimal.Decimal
		}{
			{"total_amount", &rec.TotalAmount},
			{"amount_vat_included", &rec.AmountVatIncluded},
			{"amount_vat_excluded", &rec.AmountVatExcluded},
			{"vat_eligible_amount", &rec.VatEligibleAmount},
			{"rounding", &rec.Rounding},
		}
		for _, a := range amounts {
			if *a.dst, err = rw.decimalValue(a.name); err != nil {
				return err
			}
		}
		if rec.PDFAvailable, err = rw.boolValue("pdf_available"); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}
