package warehouse

import (
	"cmp"
	"strings"
	"time"
)

const AgreementTable = "agreement"

// AgreementRecord is one row of the agreement view. Category holds the
// warehouse's own label (e.g. "Fjärrvärme"), not the API enum. A zero ToDate
// means the agreement is open-ended.
type AgreementRecord struct {
	CustomerOrgID string    `gorm:"column:customer_org_id"`
	CustomerID    int       `gorm:"column:customer_id"`
	FacilityID    string    `gorm:"column:facility_id"`
	AgreementID   int       `gorm:"column:agreement_id"`
	BillingID     int       `gorm:"column:billing_id"`
	Category      string    `gorm:"column:category"`
	Description   string    `gorm:"column:description"`
	MainAgreement bool      `gorm:"column:main_agreement"`
	Binding       bool      `gorm:"column:binding"`
	BindingRule   string    `gorm:"column:binding_rule"`
	FromDate      time.Time `gorm:"column:from_date"`
	ToDate        time.Time `gorm:"column:to_date"`
}

var (
	AgreementCustomerOrgID = NewColumn("customer_org_id", func(r AgreementRecord) string { return r.CustomerOrgID })
	AgreementCustomerID    = NewColumn("customer_id", func(r AgreementRecord) int { return r.CustomerID })
	AgreementFacilityID    = NewColumn("facility_id", func(r AgreementRecord) string { return r.FacilityID })
	AgreementAgreementID   = NewColumn("agreement_id", func(r AgreementRecord) int { return r.AgreementID })
	AgreementBillingID     = NewColumn("billing_id", func(r AgreementRecord) int { return r.BillingID })
	AgreementCategory      = NewColumn("category", func(r AgreementRecord) string { return r.Category })
	AgreementDescription   = NewColumn("description", func(r AgreementRecord) string { return r.Description })
	AgreementMainAgreement = NewColumn("main_agreement", func(r AgreementRecord) bool { return r.MainAgreement })
	AgreementBinding       = NewColumn("binding", func(r AgreementRecord) bool { return r.Binding })
	AgreementBindingRule   = NewColumn("binding_rule", func(r AgreementRecord) string { return r.BindingRule })
	AgreementFromDate      = NewColumn("from_date", func(r AgreementRecord) time.Time { return r.FromDate })
	AgreementToDate        = NewColumn("to_date", func(r AgreementRecord) time.Time { return r.ToDate })
)

var AgreementOrderings = Orderings[AgreementRecord]{
	"customerOrgId": {
		Column:  "customer_org_id",
		Compare: func(a, b AgreementRecord) int { return strings.Compare(a.CustomerOrgID, b.CustomerOrgID) },
	},
	"customerId": {
		Column:  "customer_id",
		Compare: func(a, b AgreementRecord) int { return cmp.Compare(a.CustomerID, b.CustomerID) },
	},
	"facilityId": {
		Column:  "facility_id",
		Compare: func(a, b AgreementRecord) int { return strings.Compare(a.FacilityID, b.FacilityID) },
	},
	"agreementId": {
		Column:  "agreement_id",
		Compare: func(a, b AgreementRecord) int { return cmp.Compare(a.AgreementID, b.AgreementID) },
	},
	"billingId": {
		Column:  "billing_id",
		Compare: func(a, b AgreementRecord) int { return cmp.Compare(a.BillingID, b.BillingID) },
	},
	"category": {
		Column:  "category",
		Compare: func(a, b AgreementRecord) int { return strings.Compare(a.Category, b.Category) },
	},
	"fromDate": {
		Column:  "from_date",
		Compare: func(a, b AgreementRecord) int { return a.FromDate.Compare(b.FromDate) },
	},
	"toDate": {
		Column:  "to_date",
		Compare: func(a, b AgreementRecord) int { return a.ToDate.Compare(b.ToDate) },
	},
}
