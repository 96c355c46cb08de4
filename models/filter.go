package models

import "time"

// All disables an exact-match or region predicate.
const All = "all"

type DateRange string

const (
	DateRange1h     DateRange = "1h"
	DateRange24h    DateRange = "24h"
	DateRange7d     DateRange = "7d"
	DateRange30d    DateRange = "30d"
	DateRange90d    DateRange = "90d"
	DateRangeCustom DateRange = "custom"
)

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type CustomDateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

type Proximity struct {
	Enabled  bool    `json:"enabled"`
	Center   *Point  `json:"center,omitempty"`
	RadiusKm float64 `json:"radiusKm"`
}

// FilterSpec describes the conjunctive report filter shown on the dashboard.
type FilterSpec struct {
	Type            string          `json:"type"`
	Severity        string          `json:"severity"`
	Status          string          `json:"status"`
	DateRange       DateRange       `json:"dateRange"`
	CustomDateRange CustomDateRange `json:"customDateRange"`
	Proximity       Proximity       `json:"proximity"`
	Region          string          `json:"region"`
}

// DefaultFilterSpec matches the dashboard's initial state.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{
		Type:      All,
		Severity:  All,
		Status:    All,
		DateRange: DateRange24h,
		Proximity: Proximity{RadiusKm: 50},
		Region:    All,
	}
}
