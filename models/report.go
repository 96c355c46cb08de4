package models

import (
	"strings"
	"time"
)

type HazardType string

const (
	HazardTsunami         HazardType = "tsunami"
	HazardStormSurge      HazardType = "storm_surge"
	HazardHighWaves       HazardType = "high_waves"
	HazardSwellSurge      HazardType = "swell_surge"
	HazardCoastalErosion  HazardType = "coastal_erosion"
	HazardAbnormalTide    HazardType = "abnormal_tide"
	HazardRipCurrent      HazardType = "rip_current"
	HazardMarineDebris    HazardType = "marine_debris"
	HazardOilSpill        HazardType = "oil_spill"
	HazardAlgalBloom      HazardType = "algal_bloom"
	HazardSeismicActivity HazardType = "seismic_activity"
)

// HazardTypes lists the built-in categories. Any other non-empty value is a custom type.
var HazardTypes = []HazardType{
	HazardTsunami, HazardStormSurge, HazardHighWaves, HazardSwellSurge,
	HazardCoastalErosion, HazardAbnormalTide, HazardRipCurrent, HazardMarineDebris,
	HazardOilSpill, HazardAlgalBloom, HazardSeismicActivity,
}

// NormalizeHazardType trims t and lowercases it only when it names a
// built-in category. Custom types keep their spelling.
func NormalizeHazardType(t HazardType) HazardType {
	t = HazardType(strings.TrimSpace(string(t)))
	lower := HazardType(strings.ToLower(string(t)))
	for _, h := range HazardTypes {
		if h == lower {
			return h
		}
	}
	return t
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Rank orders severities for risk ranking. Unknown values rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

func (s Severity) Valid() bool { return s.Rank() > 0 }

type Status string

const (
	StatusPending       Status = "pending"
	StatusInvestigating Status = "investigating"
	StatusVerified      Status = "verified"
	StatusConfirmed     Status = "confirmed"
	StatusResolved      Status = "resolved"
	StatusRejected      Status = "rejected"
)

var Statuses = []Status{
	StatusPending, StatusInvestigating, StatusVerified,
	StatusConfirmed, StatusResolved, StatusRejected,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Terminal reports whether the status closes the report. Terminal reports are kept, never removed.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusRejected
}

type Priority string

const (
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// PriorityFor derives the initial priority of a submitted report.
// The mapping bumps high and medium by one step and leaves everything else at
// medium. It is kept as-is for compatibility; the business rule is unreviewed.
func PriorityFor(s Severity) Priority {
	switch s {
	case SeverityHigh:
		return PriorityCritical
	case SeverityMedium:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

type Location struct {
	Latitude  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"lng" validate:"gte=-180,lte=180"`
	Name      string  `json:"name" conform:"trim"`
	Region    string  `json:"region,omitempty" conform:"trim,lower"`
	Address   string  `json:"address,omitempty" conform:"trim"`
	Landmark  string  `json:"landmark,omitempty" conform:"trim"`
}

// Report is a single ocean hazard report.
type Report struct {
	ID                  string       `json:"id"`
	Type                HazardType   `json:"type"`
	Severity            Severity     `json:"severity"`
	Status              Status       `json:"status"`
	Priority            Priority     `json:"priority"`
	Location            Location     `json:"location"`
	Description         string       `json:"description"`
	Timestamp           time.Time    `json:"timestamp"`
	Reporter            string       `json:"reporter"`
	Comments            []Comment    `json:"comments"`
	AuditTrail          []AuditEntry `json:"auditTrail"`
	AffectedPopulation  int          `json:"affectedPopulation,omitempty"`
	EconomicImpact      float64      `json:"economicImpact,omitempty"`
	EnvironmentalImpact string       `json:"environmentalImpact,omitempty"`
	ResponseTime        *int         `json:"responseTime,omitempty"`
	Tags                []string     `json:"tags,omitempty"`
}

// Clone returns a deep copy so callers can never alias the store's slices.
func (r Report) Clone() Report {
	out := r
	out.Comments = make([]Comment, len(r.Comments))
	copy(out.Comments, r.Comments)
	out.AuditTrail = make([]AuditEntry, len(r.AuditTrail))
	copy(out.AuditTrail, r.AuditTrail)
	if r.Tags != nil {
		out.Tags = append([]string(nil), r.Tags...)
	}
	if r.ResponseTime != nil {
		v := *r.ResponseTime
		out.ResponseTime = &v
	}
	return out
}

// ReportDraft is the submission payload. Missing fields default sensibly.
type ReportDraft struct {
	Type                HazardType `json:"type" conform:"trim" validate:"required"`
	Severity            Severity   `json:"severity" conform:"trim,lower" validate:"omitempty,oneof=low medium high critical"`
	Location            Location   `json:"location"`
	Description         string     `json:"description" conform:"trim" validate:"max=2000"`
	Reporter            string     `json:"reporter" conform:"trim"`
	AffectedPopulation  int        `json:"affectedPopulation" validate:"gte=0"`
	EconomicImpact      float64    `json:"economicImpact" validate:"gte=0"`
	EnvironmentalImpact string     `json:"environmentalImpact" conform:"trim,lower"`
	ResponseTime        *int       `json:"responseTime" validate:"omitempty,gte=0"`
	Tags                []string   `json:"tags"`
}

const AnonymousReporter = "Anonymous"

// StatusRequest is the payload of a status change.
type StatusRequest struct {
	Status Status `json:"status" conform:"trim,lower" validate:"required,oneof=pending investigating verified confirmed resolved rejected"`
}

// CommentRequest is the payload of a new comment.
type CommentRequest struct {
	Content string `json:"content" conform:"trim" validate:"required,max=1000"`
	Role    string `json:"role" conform:"trim,lower"`
}
