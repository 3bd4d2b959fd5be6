package domain

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryCommunication    Category = "COMMUNICATION"
	CategoryDistrictHeating  Category = "DISTRICT_HEATING"
	CategoryElectricity      Category = "ELECTRICITY"
	CategoryElectricityTrade Category = "ELECTRICITY_TRADE"
	CategoryWasteManagement  Category = "WASTE_MANAGEMENT"
	CategoryWater            Category = "WATER"
)

// warehouseLabels maps categories onto the labels the warehouse stores.
var warehouseLabels = map[Category]string{
	CategoryCommunication:    "Stadsnät",
	CategoryDistrictHeating:  "Fjärrvärme",
	CategoryElectricity:      "Elnät",
	CategoryElectricityTrade: "Elhandel",
	CategoryWasteManagement:  "Avfall",
	CategoryWater:            "Vatten",
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := warehouseLabels[c]; !ok {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidParameters, s)
	}
	return c, nil
}

func (c Category) WarehouseLabel() string {
	return warehouseLabels[c]
}

// CategoryFromWarehouseLabel reverses WarehouseLabel. Labels without a
// matching category are returned as-is.
func CategoryFromWarehouseLabel(label string) Category {
	for c, l := range warehouseLabels {
		if strings.EqualFold(l, label) {
			return c
		}
	}
	return Category(label)
}

type Aggregation string

const (
	AggregationQuarter Aggregation = "QUARTER"
	AggregationHour    Aggregation = "HOUR"
	AggregationDay     Aggregation = "DAY"
	AggregationMonth   Aggregation = "MONTH"
	AggregationYear    Aggregation = "YEAR"
)

func ParseAggregation(s string) (Aggregation, error) {
	a := Aggregation(strings.ToUpper(strings.TrimSpace(s)))
	switch a {
	case AggregationQuarter, AggregationHour, AggregationDay, AggregationMonth, AggregationYear:
		return a, nil
	}
	return "", fmt.Errorf("%w: unknown aggregation %q", ErrInvalidParameters, s)
}
