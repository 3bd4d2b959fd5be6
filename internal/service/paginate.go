package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milad/dwreader/internal/domain"
	"github.com/milad/dwreader/internal/warehouse"
)

// toPageable validates caller paging (1-based) and converts it to the
// zero-based form the repositories take.
func toPageable[R any](p domain.Paging, orderings warehouse.Orderings[R]) (warehouse.Pageable, error) {
	if p.Page < 1 {
		return warehouse.Pageable{}, fmt.Errorf("%w: page must be >= 1", domain.ErrInvalidParameters)
	}
	if p.Limit < 1 || p.Limit > domain.MaxLimit {
		return warehouse.Pageable{}, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidParameters, domain.MaxLimit)
	}

	var dir warehouse.Direction
	switch strings.ToUpper(p.SortDirection) {
	case "", domain.DirectionAsc:
		dir = warehouse.Asc
	case domain.DirectionDesc:
		dir = warehouse.Desc
	default:
		return warehouse.Pageable{}, fmt.Errorf("%w: sortDirection must be ASC or DESC", domain.ErrInvalidParameters)
	}

	sort := make([]warehouse.Order, 0, len(p.SortBy))
	for _, prop := range p.SortBy {
		sort = append(sort, warehouse.Order{Property: prop, Direction: dir})
	}
	if err := orderings.Validate(sort); err != nil {
		if errors.Is(err, warehouse.ErrUnknownSortProperty) {
			return warehouse.Pageable{}, fmt.Errorf("%w: %v", domain.ErrInvalidParameters, err)
		}
		return warehouse.Pageable{}, err
	}

	return warehouse.Pageable{Page: p.Page - 1, Size: p.Limit, Sort: sort}, nil
}

// beyondLastPage reports whether the caller asked for a page past the end of
// the result set; such requests get an empty list rather than an error.
func beyondLastPage(requestedPage, totalPages int) bool {
	return totalPages < requestedPage
}

// toPageMetaData echoes the requested page and limit even when the page is out
// of range; totals always come from the repository.
func toPageMetaData(p domain.Paging, totalPages int, totalRecords int64, count int) domain.PageMetaData {
	return domain.PageMetaData{
		Count:        count,
		Limit:        p.Limit,
		Page:         p.Page,
		TotalPages:   totalPages,
		TotalRecords: totalRecords,
	}
}

func toMeasurementResponse(p domain.Paging, totalPages int, totalRecords int64, measurements []domain.Measurement) domain.MeasurementResponse {
	if measurements == nil {
		measurements = []domain.Measurement{}
	}
	return domain.MeasurementResponse{
		Measurements: measurements,
		MetaData:     toPageMetaData(p, totalPages, totalRecords, len(measurements)),
	}
}

func toAgreementResponse(p domain.Paging, totalPages int, totalRecords int64, agreements []domain.Agreement) domain.AgreementResponse {
	if agreements == nil {
		agreements = []domain.Agreement{}
	}
	return domain.AgreementResponse{
		Agreements: agreements,
		MetaData:   toPageMetaData(p, totalPages, totalRecords, len(agreements)),
	}
}
