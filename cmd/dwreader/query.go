package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/milad/dwreader/internal/domain"
	"github.com/milad/dwreader/internal/service"
)

var (
	queryLegalID       string
	queryPartyID       string
	queryFacilityID    string
	queryFrom          string
	queryTo            string
	queryCustomerOrgID string
	queryCategories    []string
	queryCustomerIDs   []int
	queryCustomerType  string
	queryOrgName       string
	queryInvoiceStatus string
	queryPage          int
	queryLimit         int
	querySortBy        []string
	querySortDirection string
	queryTimeout       time.Duration
)

var measurementsCmd = &cobra.Command{
	Use:   "measurements CATEGORY AGGREGATION",
	Short: "Print one page of measurements as JSON",
	Example: `  dwreader measurements ELECTRICITY DAY --facility-id 735999109112501170 \
    --from 2019-06-01 --to 2019-06-01`,
	Args: cobra.ExactArgs(2),
	RunE: runMeasurements,
}

var agreementsCmd = &cobra.Command{
	Use:   "agreements",
	Short: "Print one page of agreements as JSON",
	Args:  cobra.NoArgs,
	RunE:  runAgreements,
}

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Print one page of customers as JSON",
	Args:  cobra.NoArgs,
	RunE:  runCustomers,
}

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Print one page of invoices as JSON",
	Example: `  dwreader invoices --customer-id 7 --customer-type ENTERPRISE \
    --from 2023-01-01 --to 2023-03-31`,
	Args: cobra.NoArgs,
	RunE: runInvoices,
}

func init() {
	for _, c := range []*cobra.Command{measurementsCmd, agreementsCmd, customersCmd, invoicesCmd} {
		c.Flags().IntVar(&queryPage, "page", 0, "page number, 1-based (default 1)")
		c.Flags().IntVar(&queryLimit, "limit", 0, "page size (default 100, max 1000)")
		c.Flags().StringSliceVar(&querySortBy, "sort-by", nil, "sort properties")
		c.Flags().StringVar(&querySortDirection, "sort-direction", "", "ASC or DESC")
		c.Flags().DurationVar(&queryTimeout, "timeout", 30*time.Second, "query timeout")
		rootCmd.AddCommand(c)
	}

	measurementsCmd.Flags().StringVar(&queryLegalID, "legal-id", "", "customer organisation id")
	measurementsCmd.Flags().StringVar(&queryPartyID, "party-id", "", "party id echoed on each measurement")
	measurementsCmd.Flags().StringVar(&queryFacilityID, "facility-id", "", "facility id")
	measurementsCmd.Flags().StringVar(&queryFrom, "from", "", "window start, inclusive (RFC3339 or 2006-01-02)")
	measurementsCmd.Flags().StringVar(&queryTo, "to", "", "window end, inclusive (RFC3339 or 2006-01-02)")

	agreementsCmd.Flags().StringVar(&queryCustomerOrgID, "customer-org-id", "", "customer organisation id")
	agreementsCmd.Flags().StringVar(&queryFacilityID, "facility-id", "", "facility id")
	agreementsCmd.Flags().StringSliceVar(&queryCategories, "category", nil, "categories to include")

	customersCmd.Flags().StringVar(&queryCustomerOrgID, "customer-org-id", "", "customer organisation id")
	customersCmd.Flags().StringVar(&queryOrgName, "organization-name", "", "organisation name")

	invoicesCmd.Flags().IntSliceVar(&queryCustomerIDs, "customer-id", nil, "customer ids to include")
	invoicesCmd.Flags().StringVar(&queryCustomerType, "customer-type", "", "PRIVATE or ENTERPRISE")
	invoicesCmd.Flags().StringVar(&queryFacilityID, "facility-id", "", "facility id")
	invoicesCmd.Flags().StringVar(&queryInvoiceStatus, "status", "", "invoice status")
	invoicesCmd.Flags().StringVar(&queryFrom, "from", "", "first invoice date, inclusive")
	invoicesCmd.Flags().StringVar(&queryTo, "to", "", "last invoice date, inclusive")
}

func runMeasurements(cmd *cobra.Command, args []string) error {
	q, err := measurementQueryFromFlags(args[0], args[1])
	if err != nil {
		return err
	}
	return runQuery(cmd, q, (*service.Reader).GetMeasurements)
}

func runAgreements(cmd *cobra.Command, args []string) error {
	p := domain.AgreementParameters{
		CustomerOrgID: optional(queryCustomerOrgID),
		FacilityID:    optional(queryFacilityID),
		Paging:        pagingFromFlags(),
	}
	for _, v := range queryCategories {
		c, err := domain.ParseCategory(v)
		if err != nil {
			return err
		}
		p.Categories = append(p.Categories, c)
	}
	return runQuery(cmd, p, (*service.Reader).GetAgreements)
}

func runCustomers(cmd *cobra.Command, args []string) error {
	p := domain.CustomerParameters{
		OrganizationName: optional(queryOrgName),
		Paging:           pagingFromFlags(),
	}
	if queryCustomerOrgID != "" {
		p.CustomerOrgIDs = []string{queryCustomerOrgID}
	}
	return runQuery(cmd, p, (*service.Reader).GetCustomers)
}

func runInvoices(cmd *cobra.Command, args []string) error {
	p, err := invoiceParametersFromFlags()
	if err != nil {
		return err
	}
	return runQuery(cmd, p, (*service.Reader).GetInvoices)
}

// runQuery opens the configured warehouse, runs one query and prints the
// response.
func runQuery[P, R any](cmd *cobra.Command, params P, call func(*service.Reader, context.Context, P) (R, error)) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()
	reader, closeReader, err := openReader(cfg.Warehouse, log)
	if err != nil {
		return err
	}
	defer closeReader()

	ctx, cancel := context.WithTimeout(cmd.Context(), queryTimeout)
	defer cancel()
	resp, err := call(reader, ctx, params)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func invoiceParametersFromFlags() (domain.InvoiceParameters, error) {
	var (
		p   domain.InvoiceParameters
		err error
	)
	p.CustomerIDs = queryCustomerIDs
	if queryCustomerType != "" {
		ct, err := domain.ParseCustomerType(queryCustomerType)
		if err != nil {
			return p, err
		}
		p.CustomerType = &ct
	}
	if queryFacilityID != "" {
		p.FacilityIDs = []string{queryFacilityID}
	}
	p.InvoiceStatus = optional(queryInvoiceStatus)
	if p.InvoiceDateFrom, err = optionalTime("from", queryFrom); err != nil {
		return p, err
	}
	if p.InvoiceDateTo, err = optionalTime("to", queryTo); err != nil {
		return p, err
	}
	p.Paging = pagingFromFlags()
	return p, nil
}

func measurementQueryFromFlags(category, aggregation string) (domain.MeasurementQuery, error) {
	var (
		q   domain.MeasurementQuery
		err error
	)
	if q.Category, err = domain.ParseCategory(category); err != nil {
		return q, err
	}
	if q.Aggregation, err = domain.ParseAggregation(aggregation); err != nil {
		return q, err
	}
	if q.FromDateTime, err = optionalTime("from", queryFrom); err != nil {
		return q, err
	}
	if q.ToDateTime, err = optionalTime("to", queryTo); err != nil {
		return q, err
	}
	q.LegalID = optional(queryLegalID)
	q.Parameters = domain.MeasurementParameters{
		PartyID:    queryPartyID,
		FacilityID: optional(queryFacilityID),
		Paging:     pagingFromFlags(),
	}
	return q, nil
}

func pagingFromFlags() domain.Paging {
	return domain.Paging{
		Page:          queryPage,
		Limit:         queryLimit,
		SortBy:        querySortBy,
		SortDirection: querySortDirection,
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func optionalTime(name, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := domain.ParseDateTime(v)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid --%s %q", domain.ErrInvalidParameters, name, v)
	}
	return &t, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
