package warehouse

import (
	"cmp"
	"strings"
)

const CustomerTable = "customer"

// CustomerRecord is one row of the customer view. CustomerType holds the
// warehouse label ("Privat", "Företag").
type CustomerRecord struct {
	CustomerOrgID    string `gorm:"column:customer_org_id"`
	CustomerID       int    `gorm:"column:customer_id"`
	CustomerType     string `gorm:"column:customer_type"`
	OrganizationID   string `gorm:"column:organization_id"`
	OrganizationName string `gorm:"column:organization_name"`
	Active           bool   `gorm:"column:active"`
}

var (
	CustomerCustomerOrgID    = NewColumn("customer_org_id", func(r CustomerRecord) string { return r.CustomerOrgID })
	CustomerCustomerID       = NewColumn("customer_id", func(r CustomerRecord) int { return r.CustomerID })
	CustomerOrganizationID   = NewColumn("organization_id", func(r CustomerRecord) string { return r.OrganizationID })
	CustomerOrganizationName = NewColumn("organization_name", func(r CustomerRecord) string { return r.OrganizationName })
)

var CustomerOrderings = Orderings[CustomerRecord]{
	"customerOrgId": {
		Column:  "customer_org_id",
		Compare: func(a, b CustomerRecord) int { return strings.Compare(a.CustomerOrgID, b.CustomerOrgID) },
	},
	"customerId": {
		Column:  "customer_id",
		Compare: func(a, b CustomerRecord) int { return cmp.Compare(a.CustomerID, b.CustomerID) },
	},
	"customerType": {
		Column:  "customer_type",
		Compare: func(a, b CustomerRecord) int { return strings.Compare(a.CustomerType, b.CustomerType) },
	},
	"organizationId": {
		Column:  "organization_id",
		Compare: func(a, b CustomerRecord) int { return strings.Compare(a.OrganizationID, b.OrganizationID) },
	},
	"organizationName": {
		Column:  "organization_name",
		Compare: func(a, b CustomerRecord) int { return strings.Compare(a.OrganizationName, b.OrganizationName) },
	},
}
