package warehouse

import (
	"cmp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MeasurementRecord is one row of a measurement view. The natural key is the
// combination of all non-extra columns; UUID is informational and often null.
type MeasurementRecord struct {
	CustomerOrgID        string          `gorm:"column:customer_org_id"`
	UUID                 *uuid.UUID      `gorm:"column:uuid;type:uuid"`
	FacilityID           string          `gorm:"column:facility_id"`
	FeedType             string          `gorm:"column:feed_type"`
	Interpolation        int             `gorm:"column:is_interpolated"`
	MeasurementTimestamp time.Time       `gorm:"column:measurement_timestamp"`
	Unit                 string          `gorm:"column:unit"`
	Usage                decimal.Decimal `gorm:"column:usage;type:decimal(28,10)"`

	// Only present in views whose schema lists them as extras.
	ReadingSequence *int `gorm:"column:reading_sequence"`
	FeedTypeID      *int `gorm:"column:feed_type_id"`
}

type MeasurementExtra string

const (
	ExtraReadingSequence MeasurementExtra = "reading_sequence"
	ExtraFeedTypeID      MeasurementExtra = "feed_type_id"
)

// MeasurementSchema describes one category/granularity view.
type MeasurementSchema struct {
	Table  string
	Extras []MeasurementExtra
}

var (
	DistrictHeatingMonth = MeasurementSchema{
		Table:  "measurement_district_heating_month",
		Extras: []MeasurementExtra{ExtraReadingSequence, ExtraFeedTypeID},
	}
	ElectricityDay = MeasurementSchema{
		Table: "measurement_electricity_day",
	}
	ElectricityMonth = MeasurementSchema{
		Table: "measurement_electricity_month",
	}
)

var measurementBaseColumns = []string{
	"customer_org_id",
	"uuid",
	"facility_id",
	"feed_type",
	"is_interpolated",
	"measurement_timestamp",
	"unit",
	"usage",
}

// Columns lists the columns to select from the schema's view.
func (s MeasurementSchema) Columns() []string {
	cols := append([]string(nil), measurementBaseColumns...)
	for _, e := range s.Extras {
		cols = append(cols, string(e))
	}
	return cols
}

func (s MeasurementSchema) HasExtra(e MeasurementExtra) bool {
	for _, x := range s.Extras {
		if x == e {
			return true
		}
	}
	return false
}

var (
	MeasurementCustomerOrgID = NewColumn("customer_org_id", func(r MeasurementRecord) string { return r.CustomerOrgID })
	MeasurementFacilityID    = NewColumn("facility_id", func(r MeasurementRecord) string { return r.FacilityID })
	MeasurementTimestamp     = NewColumn("measurement_timestamp", func(r MeasurementRecord) time.Time { return r.MeasurementTimestamp })
)

// MeasurementFilter is the filter every measurement store applies: optional
// customer and facility equality plus an inclusive timestamp window.
func MeasurementFilter(customerOrgID, facilityID *string, from, to *time.Time) Predicate[MeasurementRecord] {
	return And(
		EqualOrAlways(MeasurementCustomerOrgID, customerOrgID),
		EqualOrAlways(MeasurementFacilityID, facilityID),
		RangeOrAlways(MeasurementTimestamp, from, to),
	)
}

var MeasurementOrderings = Orderings[MeasurementRecord]{
	"measurementTimestamp": {
		Column:  "measurement_timestamp",
		Compare: func(a, b MeasurementRecord) int { return a.MeasurementTimestamp.Compare(b.MeasurementTimestamp) },
	},
	"customerOrgId": {
		Column:  "customer_org_id",
		Compare: func(a, b MeasurementRecord) int { return strings.Compare(a.CustomerOrgID, b.CustomerOrgID) },
	},
	"facilityId": {
		Column:  "facility_id",
		Compare: func(a, b MeasurementRecord) int { return strings.Compare(a.FacilityID, b.FacilityID) },
	},
	"feedType": {
		Column:  "feed_type",
		Compare: func(a, b MeasurementRecord) int { return strings.Compare(a.FeedType, b.FeedType) },
	},
	"interpolation": {
		Column:  "is_interpolated",
		Compare: func(a, b MeasurementRecord) int { return cmp.Compare(a.Interpolation, b.Interpolation) },
	},
	"unit": {
		Column:  "unit",
		Compare: func(a, b MeasurementRecord) int { return strings.Compare(a.Unit, b.Unit) },
	},
	"usage": {
		Column:  "usage",
		Compare: func(a, b MeasurementRecord) int { return a.Usage.Cmp(b.Usage) },
	},
}
