package domain

import "time"

type Agreement struct {
	CustomerOrgID string     `json:"customerOrgId"`
	CustomerID    int        `json:"customerId"`
	FacilityID    string     `json:"facilityId"`
	AgreementID   int        `json:"agreementId"`
	BillingID     int        `json:"billingId"`
	Category      Category   `json:"category"`
	Description   string     `json:"description,omitempty"`
	MainAgreement bool       `json:"mainAgreement"`
	Binding       bool       `json:"binding"`
	BindingRule   string     `json:"bindingRule,omitempty"`
	FromDate      time.Time  `json:"fromDate"`
	ToDate        *time.Time `json:"toDate,omitempty"`
}

// AgreementParameters filters agreements. Nil pointers and empty slices do
// not restrict the result. FromDate and ToDate select a whole calendar day.
type AgreementParameters struct {
	AgreementID   *int       `json:"agreementId,omitempty"`
	BillingID     *int       `json:"billingId,omitempty"`
	CustomerOrgID *string    `json:"customerOrgId,omitempty"`
	CustomerID    *int       `json:"customerId,omitempty"`
	FacilityID    *string    `json:"facilityId,omitempty"`
	Categories    []Category `json:"categories,omitempty"`
	Description   *string    `json:"description,omitempty"`
	MainAgreement *bool      `json:"mainAgreement,omitempty"`
	Binding       *bool      `json:"binding,omitempty"`
	BindingRule   *string    `json:"bindingRule,omitempty"`
	FromDate      *time.Time `json:"fromDate,omitempty"`
	ToDate        *time.Time `json:"toDate,omitempty"`
	Paging
}

type AgreementResponse struct {
	Agreements []Agreement  `json:"agreements"`
	MetaData   PageMetaData `json:"_meta"`
}
