package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/milad/dwreader/internal/domain"
	"github.com/milad/dwreader/internal/repo/csvrepo"
	"github.com/milad/dwreader/internal/warehouse"
)

func invoiceDate(m time.Month, d int) time.Time {
	return time.Date(2023, m, d, 0, 0, 0, 0, time.UTC)
}

func invoiceRecords() []warehouse.InvoiceRecord {
	return []warehouse.InvoiceRecord{
		{CustomerID: 7, CustomerType: "Privat", FacilityID: "f1", InvoiceNumber: 1, InvoiceDate: invoiceDate(1, 4), DueDate: invoiceDate(2, 4), OCRNumber: 45678901234567, InvoiceStatus: "Betald", TotalAmount: decimal.RequireFromString("10.50")},
		{CustomerID: 7, CustomerType: "Privat", FacilityID: "f2", InvoiceNumber: 2, InvoiceDate: invoiceDate(1, 5), DueDate: invoiceDate(2, 5), InvoiceStatus: "Obetald", TotalAmount: decimal.RequireFromString("1250.40")},
		{CustomerID: 8, CustomerType: "Företag", FacilityID: "f3", InvoiceNumber: 3, InvoiceDate: invoiceDate(1, 10), DueDate: invoiceDate(2, 10), InvoiceStatus: "Betald", TotalAmount: decimal.RequireFromString("99")},
		{CustomerID: 9, CustomerType: "Företag", FacilityID: "f4", InvoiceNumber: 4, InvoiceDate: invoiceDate(1, 11), DueDate: invoiceDate(3, 1), InvoiceStatus: "Betald", TotalAmount: decimal.RequireFromString("1")},
	}
}

func TestInvoiceService_DefaultsSortByInvoiceDate(t *testing.T) {
	t.Parallel()

	svc := NewInvoiceService(csvrepo.NewInvoices(invoiceRecords()))
	resp, err := svc.GetInvoices(context.Background(), domain.InvoiceParameters{
		Paging: domain.Paging{SortDirection: "DESC"},
	})
	if err != nil {
		t.Fatalf("GetInvoices: %v", err)
	}
	if got := resp.Invoices[0].InvoiceNumber; got != 4 {
		t.Fatalf("first invoice=%d want 4", got)
	}
	want := domain.PageMetaData{Count: 4, Limit: 100, Page: 1, TotalPages: 1, TotalRecords: 4}
	if resp.MetaData != want {
		t.Fatalf("meta=%+v want %+v", resp.MetaData, want)
	}
}

func TestInvoiceService_Filters(t *testing.T) {
	t.Parallel()

	svc := NewInvoiceService(csvrepo.NewInvoices(invoiceRecords()))
	enterprise := domain.CustomerTypeEnterprise
	from, to := invoiceDate(1, 5), invoiceDate(1, 10)
	dueTo := invoiceDate(2, 28)
	ocr := int64(45678901234567)

	tests := map[string]struct {
		params domain.InvoiceParameters
		want   []int64
	}{
		"customer id list": {
			params: domain.InvoiceParameters{CustomerIDs: []int{7, 8}},
			want:   []int64{1, 2, 3},
		},
		"facility id list": {
			params: domain.InvoiceParameters{FacilityIDs: []string{"f2", "f4"}},
			want:   []int64{2, 4},
		},
		"customer type": {
			params: domain.InvoiceParameters{CustomerType: &enterprise},
			want:   []int64{3, 4},
		},
		"invoice date range is inclusive": {
			params: domain.InvoiceParameters{InvoiceDateFrom: &from, InvoiceDateTo: &to},
			want:   []int64{2, 3},
		},
		"due date upper bound only": {
			params: domain.InvoiceParameters{DueDateTo: &dueTo, InvoiceStatus: ptr("Betald")},
			want:   []int64{1, 3},
		},
		"ocr number": {
			params: domain.InvoiceParameters{OCRNumber: &ocr},
			want:   []int64{1},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			resp, err := svc.GetInvoices(context.Background(), tc.params)
			if err != nil {
				t.Fatalf("GetInvoices: %v", err)
			}
			if len(resp.Invoices) != len(tc.want) {
				t.Fatalf("got %d invoices want %d: %+v", len(resp.Invoices), len(tc.want), resp.Invoices)
			}
			for i, n := range tc.want {
				if got := resp.Invoices[i].InvoiceNumber; got != n {
					t.Fatalf("invoices[%d].InvoiceNumber=%d want %d", i, got, n)
				}
			}
		})
	}
}

func TestInvoiceService_MapsRecord(t *testing.T) {
	t.Parallel()

	svc := NewInvoiceService(csvrepo.NewInvoices(invoiceRecords()))
	resp, err := svc.GetInvoices(context.Background(), domain.InvoiceParameters{InvoiceNumber: ptr(int64(2))})
	if err != nil {
		t.Fatalf("GetInvoices: %v", err)
	}
	got := resp.Invoices[0]
	if got.CustomerType != domain.CustomerTypePrivate || got.FacilityID != "f2" || !got.DueDate.Equal(invoiceDate(2, 5)) {
		t.Fatalf("invoice=%+v", got)
	}
	if !got.TotalAmount.Equal(decimal.RequireFromString("1250.4")) {
		t.Fatalf("totalAmount=%s", got.TotalAmount)
	}
}

func TestInvoiceService_UnknownCustomerTypeIsInvalid(t *testing.T) {
	t.Parallel()

	svc := NewInvoiceService(csvrepo.NewInvoices(nil))
	gov := domain.CustomerType("GOVERNMENT")
	_, err := svc.GetInvoices(context.Background(), domain.InvoiceParameters{CustomerType: &gov})
	if !errors.Is(err, domain.ErrInvalidParameters) {
		t.Fatalf("err=%v want ErrInvalidParameters", err)
	}
}
