package service

import (
	"context"

	"github.com/milad/dwreader/internal/domain"
	"github.com/milad/dwreader/internal/repo"
	"github.com/milad/dwreader/internal/warehouse"
)

const defaultCustomerSort = "customerOrgId"

type CustomerService struct {
	repo repo.CustomerRepository
}

func NewCustomerService(r repo.CustomerRepository) *CustomerService {
	return &CustomerService{repo: r}
}

func (s *CustomerService) GetCustomers(ctx context.Context, params domain.CustomerParameters) (*domain.CustomerResponse, error) {
	params.Paging = params.Paging.WithDefaults(defaultCustomerSort)
	pageable, err := toPageable(params.Paging, warehouse.CustomerOrderings)
	if err != nil {
		return nil, err
	}

	filter := warehouse.And(
		warehouse.InOrAlways(warehouse.CustomerCustomerOrgID, params.CustomerOrgIDs),
		warehouse.EqualOrAlways(warehouse.CustomerOrganizationID, params.OrganizationID),
		warehouse.EqualOrAlways(warehouse.CustomerOrganizationName, params.OrganizationName),
		warehouse.EqualOrAlways(warehouse.CustomerCustomerID, params.CustomerID),
	)
	page, err := s.repo.FindAllMatching(ctx, filter, pageable)
	if err != nil {
		return nil, err
	}

	customers := []domain.Customer{}
	if !beyondLastPage(params.Page, page.TotalPages) {
		customers = toCustomers(page.Content)
	}
	return &domain.CustomerResponse{
		Customers: customers,
		MetaData:  toPageMetaData(params.Paging, page.TotalPages, page.TotalElements, len(customers)),
	}, nil
}

func toCustomers(records []*warehouse.CustomerRecord) []domain.Customer {
	out := make([]domain.Customer, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		out = append(out, domain.Customer{
			CustomerOrgID:    rec.CustomerOrgID,
			CustomerID:       rec.CustomerID,
			CustomerType:     domain.CustomerTypeFromWarehouseLabel(rec.CustomerType),
			OrganizationID:   rec.OrganizationID,
			OrganizationName: rec.OrganizationName,
			Active:           rec.Active,
		})
	}
	return out
}
