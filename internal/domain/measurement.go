package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
	MaxLimit     = 1000

	DirectionAsc  = "ASC"
	DirectionDesc = "DESC"
)

// MetaData is one category-specific key/value attached to a Measurement.
type MetaData struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

type Measurement struct {
	Category    Category        `json:"category"`
	Aggregation Aggregation     `json:"aggregation"`
	PartyID     string          `json:"partyId,omitempty"`
	FacilityID  string          `json:"facilityId"`
	Usage       decimal.Decimal `json:"usage"`
	Timestamp   time.Time       `json:"timestamp"`
	Unit        string          `json:"unit"`
	MetaData    []MetaData      `json:"metaData"`
}

type PageMetaData struct {
	Count        int   `json:"count"`
	Limit        int   `json:"limit"`
	Page         int   `json:"page"`
	TotalPages   int   `json:"totalPages"`
	TotalRecords int64 `json:"totalRecords"`
}

type MeasurementResponse struct {
	Measurements []Measurement `json:"measurements"`
	MetaData     PageMetaData  `json:"_meta"`
}

// Paging is the caller-visible page selection. Page is 1-based.
type Paging struct {
	Page          int      `json:"page"`
	Limit         int      `json:"limit"`
	SortBy        []string `json:"sortBy,omitempty"`
	SortDirection string   `json:"sortDirection,omitempty"`
}

// WithDefaults fills unset fields: page 1, limit 100, the given sort
// properties and ascending direction.
func (p Paging) WithDefaults(sortBy ...string) Paging {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if len(p.SortBy) == 0 {
		p.SortBy = sortBy
	}
	if p.SortDirection == "" {
		p.SortDirection = DirectionAsc
	}
	return p
}

type MeasurementParameters struct {
	PartyID    string  `json:"partyId,omitempty"`
	FacilityID *string `json:"facilityId,omitempty"`
	Paging
}

// MeasurementQuery carries everything one measurement lookup needs; it is the
// unit passed across the gRPC boundary.
type MeasurementQuery struct {
	LegalID      *string               `json:"legalId,omitempty"`
	Category     Category              `json:"category"`
	Aggregation  Aggregation           `json:"aggregation"`
	FromDateTime *time.Time            `json:"fromDateTime,omitempty"`
	ToDateTime   *time.Time            `json:"toDateTime,omitempty"`
	Parameters   MeasurementParameters `json:"parameters"`
}
