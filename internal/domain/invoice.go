package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Invoice struct {
	CustomerID         int             `json:"customerId"`
	CustomerType       CustomerType    `json:"customerType"`
	FacilityID         string          `json:"facilityId"`
	InvoiceNumber      int64           `json:"invoiceNumber"`
	InvoiceDate        time.Time       `json:"invoiceDate"`
	InvoiceName        string          `json:"invoiceName,omitempty"`
	InvoiceType        string          `json:"invoiceType,omitempty"`
	InvoiceDescription string          `json:"invoiceDescription,omitempty"`
	InvoiceStatus      string          `json:"invoiceStatus,omitempty"`
	OCRNumber          int64           `json:"ocrNumber"`
	DueDate            time.Time       `json:"dueDate"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	AmountVatIncluded  decimal.Decimal `json:"amountVatIncluded"`
	AmountVatExcluded  decimal.Decimal `json:"amountVatExcluded"`
	VatEligibleAmount  decimal.Decimal `json:"vatEligibleAmount"`
	Rounding           decimal.Decimal `json:"rounding"`
	OrganizationGroup  string          `json:"organizationGroup,omitempty"`
	OrganizationID     string          `json:"organizationId,omitempty"`
	Administration     string          `json:"administration,omitempty"`
	PDFAvailable       bool            `json:"pdfAvailable"`
}

// InvoiceParameters filters invoices. The date ranges cover whole calendar
// days and either end may be open.
type InvoiceParameters struct {
	CustomerIDs       []int         `json:"customerIds,omitempty"`
	CustomerType      *CustomerType `json:"customerType,omitempty"`
	FacilityIDs       []string      `json:"facilityIds,omitempty"`
	Administration    *string       `json:"administration,omitempty"`
	OCRNumber         *int64        `json:"ocrNumber,omitempty"`
	InvoiceDateFrom   *time.Time    `json:"invoiceDateFrom,omitempty"`
	InvoiceDateTo     *time.Time    `json:"invoiceDateTo,omitempty"`
	InvoiceName       *string       `json:"invoiceName,omitempty"`
	InvoiceNumber     *int64        `json:"invoiceNumber,omitempty"`
	InvoiceType       *string       `json:"invoiceType,omitempty"`
	InvoiceStatus     *string       `json:"invoiceStatus,omitempty"`
	DueDateFrom       *time.Time    `json:"dueDateFrom,omitempty"`
	DueDateTo         *time.Time    `json:"dueDateTo,omitempty"`
	OrganizationGroup *string       `json:"organizationGroup,omitempty"`
	OrganizationID    *string       `json:"organizationId,omitempty"`
	Paging
}

type InvoiceResponse struct {
	Invoices []Invoice    `json:"invoices"`
	MetaData PageMetaData `json:"_meta"`
}
