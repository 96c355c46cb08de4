package models

import "time"

// SeverityBreakdown is the fixed four-bucket severity count.
type SeverityBreakdown struct {
	Low      int `json:"low"`
	Medium   int `json:"medium"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

// Add counts s; unknown severities are not bucketed.
func (b *SeverityBreakdown) Add(s Severity) {
	switch s {
	case SeverityLow:
		b.Low++
	case SeverityMedium:
		b.Medium++
	case SeverityHigh:
		b.High++
	case SeverityCritical:
		b.Critical++
	}
}

type RegionStats struct {
	Region              string            `json:"region"`
	Count               int               `json:"count"`
	Severity            SeverityBreakdown `json:"severity"`
	Types               map[string]int    `json:"types"`
	TotalResponseTime   float64           `json:"totalResponseTime"`
	AvgResponseTime     float64           `json:"avgResponseTime"`
	TotalEconomicImpact float64           `json:"totalEconomicImpact"`
}

type LocationStats struct {
	Name                string            `json:"name"`
	Count               int               `json:"count"`
	Severity            SeverityBreakdown `json:"severity"`
	Types               map[string]int    `json:"types"`
	TotalResponseTime   float64           `json:"totalResponseTime"`
	AvgResponseTime     float64           `json:"avgResponseTime"`
	TotalEconomicImpact float64           `json:"totalEconomicImpact"`
	AffectedPopulation  int               `json:"affectedPopulation"`
}

type TrendPoint struct {
	Date     string `json:"date"`
	Label    string `json:"label"`
	Reports  int    `json:"reports"`
	Critical int    `json:"critical"`
	High     int    `json:"high"`
	Medium   int    `json:"medium"`
	Low      int    `json:"low"`
	Verified int    `json:"verified"`
	Resolved int    `json:"resolved"`
}

type ResponseTimeStats struct {
	Total       int     `json:"total"`
	Count       int     `json:"count"`
	Under1h     int     `json:"under1h"`
	From1to4h   int     `json:"from1to4h"`
	Over4h      int     `json:"over4h"`
	Average     float64 `json:"average"`
	AverageText string  `json:"averageText"`
}

// Summary is the full analytics view over the report collection.
type Summary struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Total       int       `json:"total"`

	ByType     map[string]int `json:"byType"`
	BySeverity map[string]int `json:"bySeverity"`
	ByStatus   map[string]int `json:"byStatus"`

	Regions   []RegionStats   `json:"regions"`
	Locations []LocationStats `json:"locations"`
	Trend     []TrendPoint    `json:"trend"`

	ResponseTime ResponseTimeStats `json:"responseTime"`

	VerificationRate     float64 `json:"verificationRate"`
	VerificationRateText string  `json:"verificationRateText"`
	ResolutionRate       float64 `json:"resolutionRate"`
	ResolutionRateText   string  `json:"resolutionRateText"`

	TotalAffectedPopulation int     `json:"totalAffectedPopulation"`
	TotalEconomicImpact     float64 `json:"totalEconomicImpact"`
	EconomicImpactText      string  `json:"economicImpactText"`
	CriticalCount           int     `json:"criticalCount"`
	HighRiskCount           int     `json:"highRiskCount"`
	ActiveCount             int     `json:"activeCount"`
	TodayCount              int     `json:"todayCount"`
}
