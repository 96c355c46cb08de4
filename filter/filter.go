// Package filter projects a report snapshot down to the reports matching a
// dashboard FilterSpec. Every active predicate must pass.
package filter

import (
	"strings"
	"time"

	"github.com/techagentng/oceanwatch/geo"
	"github.com/techagentng/oceanwatch/models"
)

// Window returns the look-back duration for a named date range.
// Unknown ranges, including "custom" without both bounds, fall back to 24 hours.
func Window(r models.DateRange) time.Duration {
	switch r {
	case models.DateRange1h:
		return time.Hour
	case models.DateRange24h:
		return 24 * time.Hour
	case models.DateRange7d:
		return 7 * 24 * time.Hour
	case models.DateRange30d:
		return 30 * 24 * time.Hour
	case models.DateRange90d:
		return 90 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Apply returns the reports that satisfy spec, preserving input order.
// userLocation may be nil; the proximity predicate is skipped without it.
func Apply(reports []models.Report, spec models.FilterSpec, userLocation *models.Point, now time.Time) []models.Report {
	m := newMatcher(spec, userLocation, now)
	out := make([]models.Report, 0, len(reports))
	for i := range reports {
		if m.match(&reports[i]) {
			out = append(out, reports[i])
		}
	}
	return out
}

// Match reports whether a single report passes spec.
func Match(r models.Report, spec models.FilterSpec, userLocation *models.Point, now time.Time) bool {
	return newMatcher(spec, userLocation, now).match(&r)
}

type matcher struct {
	spec      models.FilterSpec
	custom    bool
	start     time.Time
	end       time.Time
	threshold time.Time
	proximity bool
	region    string
}

func newMatcher(spec models.FilterSpec, userLocation *models.Point, now time.Time) matcher {
	m := matcher{spec: spec}
	cr := spec.CustomDateRange
	if spec.DateRange == models.DateRangeCustom && cr.Start != nil && cr.End != nil {
		m.custom = true
		m.start, m.end = *cr.Start, *cr.End
	} else {
		m.threshold = now.Add(-Window(spec.DateRange))
	}
	m.proximity = spec.Proximity.Enabled && userLocation != nil && spec.Proximity.Center != nil
	if spec.Region != "" && spec.Region != models.All {
		m.region = strings.ToLower(spec.Region)
	}
	return m
}

func active(v string) bool { return v != "" && v != models.All }

func (m matcher) match(r *models.Report) bool {
	if active(m.spec.Type) && string(r.Type) != m.spec.Type {
		return false
	}
	if active(m.spec.Severity) && string(r.Severity) != m.spec.Severity {
		return false
	}
	if active(m.spec.Status) && string(r.Status) != m.spec.Status {
		return false
	}

	if m.custom {
		if r.Timestamp.Before(m.start) || r.Timestamp.After(m.end) {
			return false
		}
	} else if r.Timestamp.Before(m.threshold) {
		return false
	}

	if m.proximity {
		c := m.spec.Proximity.Center
		if geo.Distance(c.Lat, c.Lng, r.Location.Latitude, r.Location.Longitude) > m.spec.Proximity.RadiusKm {
			return false
		}
	}

	if m.region != "" && !strings.Contains(strings.ToLower(r.Location.Name), m.region) {
		return false
	}
	return true
}
