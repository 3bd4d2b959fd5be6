package service

import (
	"context"
	"time"

	"github.com/milad/dwreader/internal/domain"
	"github.com/milad/dwreader/internal/repo"
	"github.com/milad/dwreader/internal/warehouse"
)

const defaultMeasurementSort = "measurementTimestamp"

// Repositories are the measurement views the service can dispatch to. A nil
// repository leaves its aggregation unsupported.
type Repositories struct {
	DistrictHeatingMonth repo.MeasurementRepository
	ElectricityDay       repo.MeasurementRepository
	ElectricityMonth     repo.MeasurementRepository
}

// categoryConfig lists, per category, the view backing each supported
// aggregation and the metadata attached to its measurements.
type categoryConfig struct {
	views    map[domain.Aggregation]repo.MeasurementRepository
	metaData []metaField
}

// MeasurementService answers measurement queries. It holds no mutable state
// and is safe for concurrent use.
type MeasurementService struct {
	categories map[domain.Category]categoryConfig
}

func NewMeasurementService(r Repositories) *MeasurementService {
	views := func(m map[domain.Aggregation]repo.MeasurementRepository) map[domain.Aggregation]repo.MeasurementRepository {
		for a, v := range m {
			if v == nil {
				delete(m, a)
			}
		}
		return m
	}
	return &MeasurementService{
		categories: map[domain.Category]categoryConfig{
			domain.CategoryDistrictHeating: {
				views: views(map[domain.Aggregation]repo.MeasurementRepository{
					domain.AggregationMonth: r.DistrictHeatingMonth,
				}),
				metaData: districtHeatingMetaData,
			},
			domain.CategoryElectricity: {
				views: views(map[domain.Aggregation]repo.MeasurementRepository{
					domain.AggregationDay:   r.ElectricityDay,
					domain.AggregationMonth: r.ElectricityMonth,
				}),
			},
		},
	}
}

// dispatch picks the view for a category/aggregation pair, or reports the
// pair as not implemented.
func (s *MeasurementService) dispatch(category domain.Category, aggregation domain.Aggregation) (categoryConfig, repo.MeasurementRepository, error) {
	cfg, ok := s.categories[category]
	if !ok {
		return categoryConfig{}, nil, &domain.NotImplementedError{Aggregation: aggregation, Category: category}
	}
	view, ok := cfg.views[aggregation]
	if !ok {
		return categoryConfig{}, nil, &domain.NotImplementedError{Aggregation: aggregation, Category: category}
	}
	return cfg, view, nil
}

// GetMeasurements returns one page of measurements for legalID (nil means any
// customer) within the inclusive [from, to] window. Unsupported
// category/aggregation pairs fail with *domain.NotImplementedError before any
// storage access; storage errors are returned unchanged.
func (s *MeasurementService) GetMeasurements(
	ctx context.Context,
	legalID *string,
	category domain.Category,
	aggregation domain.Aggregation,
	from *time.Time,
	to *time.Time,
	params domain.MeasurementParameters,
) (*domain.MeasurementResponse, error) {
	cfg, view, err := s.dispatch(category, aggregation)
	if err != nil {
		return nil, err
	}

	params.Paging = params.Paging.WithDefaults(defaultMeasurementSort)
	pageable, err := toPageable(params.Paging, warehouse.MeasurementOrderings)
	if err != nil {
		return nil, err
	}

	page, err := view.FindAllMatching(ctx, legalID, params.FacilityID, from, to, pageable)
	if err != nil {
		return nil, err
	}

	measurements := []domain.Measurement{}
	if !beyondLastPage(params.Page, page.TotalPages) {
		measurements = toMeasurements(page.Content, params, aggregation, category, cfg.metaData)
	}
	resp := toMeasurementResponse(params.Paging, page.TotalPages, page.TotalElements, measurements)
	return &resp, nil
}
