package service

import (
	"strconv"

	"github.com/milad/dwreader/internal/domain"
	"github.com/milad/dwreader/internal/warehouse"
)

const (
	readingSequenceKey = "readingSequence"
	feedTypeIDKey      = "feedTypeId"
)

// metaField extracts one category-specific metadata entry from a record.
type metaField struct {
	key   string
	value func(*warehouse.MeasurementRecord) *int
}

var districtHeatingMetaData = []metaField{
	{key: readingSequenceKey, value: func(r *warehouse.MeasurementRecord) *int { return r.ReadingSequence }},
	{key: feedTypeIDKey, value: func(r *warehouse.MeasurementRecord) *int { return r.FeedTypeID }},
}

// toMeasurements maps records in storage order, skipping nil entries.
func toMeasurements(
	records []*warehouse.MeasurementRecord,
	params domain.MeasurementParameters,
	aggregation domain.Aggregation,
	category domain.Category,
	fields []metaField,
) []domain.Measurement {
	out := make([]domain.Measurement, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		m := toMeasurement(rec, fields)
		out = append(out, decorateMeasurement(m, params.PartyID, aggregation, category))
	}
	return out
}

func toMeasurement(rec *warehouse.MeasurementRecord, fields []metaField) domain.Measurement {
	return domain.Measurement{
		FacilityID: rec.FacilityID,
		Usage:      rec.Usage,
		Timestamp:  rec.MeasurementTimestamp,
		Unit:       rec.Unit,
		MetaData:   toMetaData(rec, fields),
	}
}

// toMetaData never returns nil: categories without extras get an empty list.
func toMetaData(rec *warehouse.MeasurementRecord, fields []metaField) []domain.MetaData {
	out := make([]domain.MetaData, 0, len(fields))
	for _, f := range fields {
		md := domain.MetaData{Key: f.key}
		if v := f.value(rec); v != nil {
			md.Value = strconv.Itoa(*v)
		}
		out = append(out, md)
	}
	return out
}

// decorateMeasurement adds request context; it leaves mapped fields alone.
func decorateMeasurement(m domain.Measurement, partyID string, aggregation domain.Aggregation, category domain.Category) domain.Measurement {
	m.PartyID = partyID
	m.Aggregation = aggregation
	m.Category = category
	return m
}
