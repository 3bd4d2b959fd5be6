package warehouse

import (
	"cmp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const InvoiceTable = "invoice"

// InvoiceRecord is one row of the invoice view. InvoiceDate and DueDate are
// calendar dates stored at midnight UTC.
type InvoiceRecord struct {
	CustomerID         int             `gorm:"column:customer_id"`
	CustomerType       string          `gorm:"column:customer_type"`
	FacilityID         string          `gorm:"column:facility_id"`
	InvoiceNumber      int64           `gorm:"column:invoice_number"`
	InvoiceDate        time.Time       `gorm:"column:invoice_date"`
	InvoiceName        string          `gorm:"column:invoice_name"`
	InvoiceType        string          `gorm:"column:invoice_type"`
	InvoiceDescription string          `gorm:"column:invoice_description"`
	InvoiceStatus      string          `gorm:"column:invoice_status"`
	OCRNumber          int64           `gorm:"column:ocr_number"`
	DueDate            time.Time       `gorm:"column:due_date"`
	TotalAmount        decimal.Decimal `gorm:"column:total_amount;type:decimal(18,2)"`
	AmountVatIncluded  decimal.Decimal `gorm:"column:amount_vat_included;type:decimal(18,2)"`
	AmountVatExcluded  decimal.Decimal `gorm:"column:amount_vat_excluded;type:decimal(18,2)"`
	VatEligibleAmount  decimal.Decimal `gorm:"column:vat_eligible_amount;type:decimal(18,2)"`
	Rounding           decimal.Decimal `gorm:"column:rounding;type:decimal(18,2)"`
	OrganizationGroup  string          `gorm:"column:organization_group"`
	OrganizationID     string          `gorm:"column:organization_id"`
	Administration     string          `gorm:"column:administration"`
	PDFAvailable       bool            `gorm:"column:pdf_available"`
}

var (
	InvoiceCustomerID        = NewColumn("customer_id", func(r InvoiceRecord) int { return r.CustomerID })
	InvoiceCustomerType      = NewColumn("customer_type", func(r InvoiceRecord) string { return r.CustomerType })
	InvoiceFacilityID        = NewColumn("facility_id", func(r InvoiceRecord) string { return r.FacilityID })
	InvoiceAdministration    = NewColumn("administration", func(r InvoiceRecord) string { return r.Administration })
	InvoiceOCRNumber         = NewColumn("ocr_number", func(r InvoiceRecord) int64 { return r.OCRNumber })
	InvoiceInvoiceDate       = NewColumn("invoice_date", func(r InvoiceRecord) time.Time { return r.InvoiceDate })
	InvoiceInvoiceName       = NewColumn("invoice_name", func(r InvoiceRecord) string { return r.InvoiceName })
	InvoiceInvoiceNumber     = NewColumn("invoice_number", func(r InvoiceRecord) int64 { return r.InvoiceNumber })
	InvoiceInvoiceType       = NewColumn("invoice_type", func(r InvoiceRecord) string { return r.InvoiceType })
	InvoiceInvoiceStatus     = NewColumn("invoice_status", func(r InvoiceRecord) string { return r.InvoiceStatus })
	InvoiceDueDate           = NewColumn("due_date", func(r InvoiceRecord) time.Time { return r.DueDate })
	InvoiceOrganizationGroup = NewColumn("organization_group", func(r InvoiceRecord) string { return r.OrganizationGroup })
	InvoiceOrganizationID    = NewColumn("organization_id", func(r InvoiceRecord) string { return r.OrganizationID })
)

var InvoiceOrderings = Orderings[InvoiceRecord]{
	"invoiceDate": {
		Column:  "invoice_date",
		Compare: func(a, b InvoiceRecord) int { return a.InvoiceDate.Compare(b.InvoiceDate) },
	},
	"dueDate": {
		Column:  "due_date",
		Compare: func(a, b InvoiceRecord) int { return a.DueDate.Compare(b.DueDate) },
	},
	"invoiceNumber": {
		Column:  "invoice_number",
		Compare: func(a, b InvoiceRecord) int { return cmp.Compare(a.InvoiceNumber, b.InvoiceNumber) },
	},
	"ocrNumber": {
		Column:  "ocr_number",
		Compare: func(a, b InvoiceRecord) int { return cmp.Compare(a.OCRNumber, b.OCRNumber) },
	},
	"customerId": {
		Column:  "customer_id",
		Compare: func(a, b InvoiceRecord) int { return cmp.Compare(a.CustomerID, b.CustomerID) },
	},
	"facilityId": {
		Column:  "facility_id",
		Compare: func(a, b InvoiceRecord) int { return strings.Compare(a.FacilityID, b.FacilityID) },
	},
	"invoiceStatus": {
		Column:  "invoice_status",
		Compare: func(a, b InvoiceRecord) int { return strings.Compare(a.InvoiceStatus, b.InvoiceStatus) },
	},
	"totalAmount": {
		Column:  "total_amount",
		Compare: func(a, b InvoiceRecord) int { return a.TotalAmount.Cmp(b.TotalAmount) },
	},
}
