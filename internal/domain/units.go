package domain

import (
	"fmt"
	"strings"
)

// WeightUnit is the display unit chosen by the user. Stored weights are always kilograms.
type WeightUnit string

const (
	WeightUnitMetric   WeightUnit = "metric"
	WeightUnitImperial WeightUnit = "imperial"
)

const kilogramsPerPound = 0.45359237

// ParseWeightUnit accepts "metric"/"kg" and "imperial"/"lb", defaulting to metric.
func ParseWeightUnit(value string) WeightUnit {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "imperial", "lb", "lbs":
		return WeightUnitImperial
	default:
		return WeightUnitMetric
	}
}

// Abbreviation is the short unit label.
func (u WeightUnit) Abbreviation() string {
	if u == WeightUnitImperial {
		return "lb"
	}
	return "kg"
}

// FromKilograms converts a canonical weight into this unit.
func (u WeightUnit) FromKilograms(kg float64) float64 {
	if u == WeightUnitImperial {
		return kg / kilogramsPerPound
	}
	return kg
}

// ToKilograms converts a weight in this unit into kilograms.
func (u WeightUnit) ToKilograms(value float64) float64 {
	if u == WeightUnitImperial {
		return value * kilogramsPerPound
	}
	return value
}

// Format renders a canonical weight in this unit, dropping needless decimals.
func (u WeightUnit) Format(kg float64) string {
	value := u.FromKilograms(kg)
	text := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", value), "0"), ".")
	if text == "-0" {
		text = "0"
	}
	return text + " " + u.Abbreviation()
}
