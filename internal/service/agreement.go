package service

import (
	"context"
	"fmt"

	"github.com/milad/dwreader/internal/domain"
	"github.com/milad/dwreader/internal/repo"
	"github.com/milad/dwreader/internal/warehouse"
)

const defaultAgreementSort = "customerOrgId"

type AgreementService struct {
	repo repo.AgreementRepository
}

func NewAgreementService(r repo.AgreementRepository) *AgreementService {
	return &AgreementService{repo: r}
}

func (s *AgreementService) GetAgreements(ctx context.Context, params domain.AgreementParameters) (*domain.AgreementResponse, error) {
	params.Paging = params.Paging.WithDefaults(defaultAgreementSort)
	pageable, err := toPageable(params.Paging, warehouse.AgreementOrderings)
	if err != nil {
		return nil, err
	}
	filter, err := agreementFilter(params)
	if err != nil {
		return nil, err
	}

	page, err := s.repo.FindAllMatching(ctx, filter, pageable)
	if err != nil {
		return nil, err
	}

	agreements := []domain.Agreement{}
	if !beyondLastPage(params.Page, page.TotalPages) {
		agreements = toAgreements(page.Content)
	}
	resp := toAgreementResponse(params.Paging, page.TotalPages, page.TotalElements, agreements)
	return &resp, nil
}

func agreementFilter(p domain.AgreementParameters) (warehouse.Predicate[warehouse.AgreementRecord], error) {
	labels := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		label := c.WarehouseLabel()
		if label == "" {
			return warehouse.Predicate[warehouse.AgreementRecord]{}, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidParameters, c)
		}
		labels = append(labels, label)
	}

	return warehouse.And(
		warehouse.EqualOrAlways(warehouse.AgreementAgreementID, p.AgreementID),
		warehouse.EqualOrAlways(warehouse.AgreementBillingID, p.BillingID),
		warehouse.EqualOrAlways(warehouse.AgreementCustomerOrgID, p.CustomerOrgID),
		warehouse.EqualOrAlways(warehouse.AgreementCustomerID, p.CustomerID),
		warehouse.EqualOrAlways(warehouse.AgreementFacilityID, p.FacilityID),
		warehouse.InOrAlways(warehouse.AgreementCategory, labels),
		warehouse.EqualOrAlways(warehouse.AgreementDescription, p.Description),
		warehouse.EqualOrAlways(warehouse.AgreementMainAgreement, p.MainAgreement),
		warehouse.EqualOrAlways(warehouse.AgreementBinding, p.Binding),
		warehouse.EqualOrAlways(warehouse.AgreementBindingRule, p.BindingRule),
		warehouse.DayOrAlways(warehouse.AgreementFromDate, p.FromDate),
		warehouse.DayOrAlways(warehouse.AgreementToDate, p.ToDate),
	), nil
}

func toAgreements(records []*warehouse.AgreementRecord) []domain.Agreement {
	out := make([]domain.Agreement, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		a := domain.Agreement{
			CustomerOrgID: rec.CustomerOrgID,
			CustomerID:    rec.CustomerID,
			FacilityID:    rec.FacilityID,
			AgreementID:   rec.AgreementID,
			BillingID:     rec.BillingID,
			Category:      domain.CategoryFromWarehouseLabel(rec.Category),
			Description:   rec.Description,
			MainAgreement: rec.MainAgreement,
			Binding:       rec.Binding,
			BindingRule:   rec.BindingRule,
			FromDate:      rec.FromDate,
		}
		if !rec.ToDate.IsZero() {
			to := rec.ToDate
			a.ToDate = &to
		}
		out = append(out, a)
	}
	return out
}
