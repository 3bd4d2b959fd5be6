package domain

import (
	"fmt"
	"strings"
)

type CustomerType string

const (
	CustomerTypePrivate    CustomerType = "PRIVATE"
	CustomerTypeEnterprise CustomerType = "ENTERPRISE"
)

var customerTypeLabels = map[CustomerType]string{
	CustomerTypePrivate:    "Privat",
	CustomerTypeEnterprise: "Företag",
}

func ParseCustomerType(s string) (CustomerType, error) {
	t := CustomerType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := customerTypeLabels[t]; !ok {
		return "", fmt.Errorf("%w: unknown customer type %q", ErrInvalidParameters, s)
	}
	return t, nil
}

func (t CustomerType) WarehouseLabel() string {
	return customerTypeLabels[t]
}

// CustomerTypeFromWarehouseLabel reverses WarehouseLabel. Unknown labels are
// returned as-is.
func CustomerTypeFromWarehouseLabel(label string) CustomerType {
	for t, l := range customerTypeLabels {
		if strings.EqualFold(l, label) {
			return t
		}
	}
	return CustomerType(label)
}

type Customer struct {
	CustomerOrgID    string       `json:"customerOrgId"`
	CustomerID       int          `json:"customerId"`
	CustomerType     CustomerType `json:"customerType"`
	OrganizationID   string       `json:"organizationId,omitempty"`
	OrganizationName string       `json:"organizationName,omitempty"`
	Active           bool         `json:"active"`
}

// CustomerParameters filters customers. Nil pointers and empty slices do not
// restrict the result.
type CustomerParameters struct {
	CustomerOrgIDs   []string `json:"customerOrgIds,omitempty"`
	OrganizationID   *string  `json:"organizationId,omitempty"`
	OrganizationName *string  `json:"organizationName,omitempty"`
	CustomerID       *int     `json:"customerId,omitempty"`
	Paging
}

type CustomerResponse struct {
	Customers []Customer   `json:"customers"`
	MetaData  PageMetaData `json:"_meta"`
}
