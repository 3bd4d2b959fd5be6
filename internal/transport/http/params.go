package httpserver

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/milad/dwreader/internal/domain"
)

func parseMeasurementQuery(c *gin.Context) (domain.MeasurementQuery, error) {
	var (
		q   domain.MeasurementQuery
		err error
	)
	if q.Category, err = domain.ParseCategory(c.Param("category")); err != nil {
		return q, err
	}
	if q.Aggregation, err = domain.ParseAggregation(c.Param("aggregation")); err != nil {
		return q, err
	}
	q.LegalID = optionalString(c, "legalId")
	if q.FromDateTime, err = optionalDateTime(c, "fromDateTime"); err != nil {
		return q, err
	}
	if q.ToDateTime, err = optionalDateTime(c, "toDateTime"); err != nil {
		return q, err
	}

	q.Parameters.PartyID = c.Query("partyId")
	q.Parameters.FacilityID = optionalString(c, "facilityId")
	if q.Parameters.Paging, err = parsePaging(c); err != nil {
		return q, err
	}
	return q, nil
}

func parseAgreementParameters(c *gin.Context) (domain.AgreementParameters, error) {
	var (
		p   domain.AgreementParameters
		err error
	)
	if p.AgreementID, err = optionalInt(c, "agreementId"); err != nil {
		return p, err
	}
	if p.BillingID, err = optionalInt(c, "billingId"); err != nil {
		return p, err
	}
	if p.CustomerID, err = optionalInt(c, "customerId"); err != nil {
		return p, err
	}
	p.CustomerOrgID = optionalString(c, "customerOrgId")
	p.FacilityID = optionalString(c, "facilityId")
	p.Description = optionalString(c, "description")
	p.BindingRule = optionalString(c, "bindingRule")
	if p.MainAgreement, err = optionalBool(c, "mainAgreement"); err != nil {
		return p, err
	}
	if p.Binding, err = optionalBool(c, "binding"); err != nil {
		return p, err
	}
	if p.FromDate, err = optionalDateTime(c, "fromDate"); err != nil {
		return p, err
	}
	if p.ToDate, err = optionalDateTime(c, "toDate"); err != nil {
		return p, err
	}
	for _, v := range multiValue(c, "category") {
		cat, err := domain.ParseCategory(v)
		if err != nil {
			return p, err
		}
		p.Categories = append(p.Categories, cat)
	}
	if p.Paging, err = parsePaging(c); err != nil {
		return p, err
	}
	return p, nil
}

func parseCustomerParameters(c *gin.Context) (domain.CustomerParameters, error) {
	var (
		p   domain.CustomerParameters
		err error
	)
	p.CustomerOrgIDs = multiValue(c, "customerOrgId")
	p.OrganizationID = optionalString(c, "organizationId")
	p.OrganizationName = optionalString(c, "organizationName")
	if p.CustomerID, err = optionalInt(c, "customerId"); err != nil {
		return p, err
	}
	if p.Paging, err = parsePaging(c); err != nil {
		return p, err
	}
	return p, nil
}

func parseInvoiceParameters(c *gin.Context) (domain.InvoiceParameters, error) {
	var (
		p   domain.InvoiceParameters
		err error
	)
	for _, v := range multiValue(c, "customerId") {
		id, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("%w: invalid customerId", domain.ErrInvalidParameters)
		}
		p.CustomerIDs = append(p.CustomerIDs, id)
	}
	if v := c.Query("customerType"); v != "" {
		ct, err := domain.ParseCustomerType(v)
		if err != nil {
			return p, err
		}
		p.CustomerType = &ct
	}
	p.FacilityIDs = multiValue(c, "facilityId")
	p.Administration = optionalString(c, "administration")
	if p.OCRNumber, err = optionalInt64(c, "ocrNumber"); err != nil {
		return p, err
	}
	if p.InvoiceDateFrom, err = optionalDateTime(c, "invoiceDateFrom"); err != nil {
		return p, err
	}
	if p.InvoiceDateTo, err = optionalDateTime(c, "invoiceDateTo"); err != nil {
		return p, err
	}
	p.InvoiceName = optionalString(c, "invoiceName")
	if p.InvoiceNumber, err = optionalInt64(c, "invoiceNumber"); err != nil {
		return p, err
	}
	p.InvoiceType = optionalString(c, "invoiceType")
	p.InvoiceStatus = optionalString(c, "invoiceStatus")
	if p.DueDateFrom, err = optionalDateTime(c, "dueDateFrom"); err != nil {
		return p, err
	}
	if p.DueDateTo, err = optionalDateTime(c, "dueDateTo"); err != nil {
		return p, err
	}
	p.OrganizationGroup = optionalString(c, "organizationGroup")
	p.OrganizationID = optionalString(c, "organizationId")
	if p.Paging, err = parsePaging(c); err != nil {
		return p, err
	}
	return p, nil
}

// parsePaging reads page, limit, sortBy and sortDirection. Absent values are
// left zero so the service applies its defaults; a supplied page or limit
// must be at least 1.
func parsePaging(c *gin.Context) (domain.Paging, error) {
	var p domain.Paging
	page, err := optionalInt(c, "page")
	if err != nil {
		return p, err
	}
	if page != nil {
		if *page < 1 {
			return p, fmt.Errorf("%w: page must be at least 1", domain.ErrInvalidParameters)
		}
		p.Page = *page
	}
	limit, err := optionalInt(c, "limit")
	if err != nil {
		return p, err
	}
	if limit != nil {
		if *limit < 1 {
			return p, fmt.Errorf("%w: limit must be at least 1", domain.ErrInvalidParameters)
		}
		p.Limit = *limit
	}
	p.SortBy = multiValue(c, "sortBy")
	p.SortDirection = strings.ToUpper(c.Query("sortDirection"))
	return p, nil
}

func optionalString(c *gin.Context, name string) *string {
	v, ok := c.GetQuery(name)
	if !ok || v == "" {
		return nil
	}
	return &v
}

func optionalInt(c *gin.Context, name string) (*int, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s", domain.ErrInvalidParameters, name)
	}
	return &n, nil
}

func optionalInt64(c *gin.Context, name string) (*int64, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s", domain.ErrInvalidParameters, name)
	}
	return &n, nil
}

func optionalBool(c *gin.Context, name string) (*bool, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s", domain.ErrInvalidParameters, name)
	}
	return &b, nil
}

// multiValue accepts both repeated parameters and comma-separated lists.
func multiValue(c *gin.Context, name string) []string {
	var out []string
	for _, v := range c.QueryArray(name) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func optionalDateTime(c *gin.Context, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	t, err := domain.ParseDateTime(v)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s", domain.ErrInvalidParameters, name)
	}
	return &t, nil
}
