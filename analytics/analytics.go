// Package analytics computes the dashboard's read-only aggregate statistics
// over the full report collection. Compute never panics and every ratio has a
// zero fallback, so an empty collection yields an all-zero Summary.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/techagentng/oceanwatch/models"
)

const (
	DefaultTrendDays = 30
	// UnknownRegion keys reports that carry no region tag.
	UnknownRegion = "unknown"
	crore         = 10_000_000
)

type Options struct {
	Now time.Time
	// Location decides calendar-day boundaries for the trend series. Defaults to Now's location.
	Location  *time.Location
	TrendDays int
}

func (o Options) withDefaults() Options {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Location == nil {
		o.Location = o.Now.Location()
	}
	if o.TrendDays <= 0 {
		o.TrendDays = DefaultTrendDays
	}
	return o
}

// Compute builds the Summary for reports.
func Compute(reports []models.Report, opts Options) models.Summary {
	opts = opts.withDefaults()

	byType, bySeverity, byStatus := Frequencies(reports)
	s := models.Summary{
		GeneratedAt:  opts.Now,
		Total:        len(reports),
		ByType:       byType,
		BySeverity:   bySeverity,
		ByStatus:     byStatus,
		Regions:      Regions(reports),
		Locations:    Locations(reports),
		Trend:        Trend(reports, opts.Now, opts.Location, opts.TrendDays),
		ResponseTime: ResponseTimes(reports),
	}

	s.VerificationRate, s.VerificationRateText = Rate(byStatus[string(models.StatusVerified)], s.Total)
	s.ResolutionRate, s.ResolutionRateText = Rate(byStatus[string(models.StatusResolved)], s.Total)

	today := dayKey(opts.Now, opts.Location)
	for _, r := range reports {
		s.TotalAffectedPopulation += r.AffectedPopulation
		s.TotalEconomicImpact += r.EconomicImpact
		if r.Severity == models.SeverityCritical {
			s.CriticalCount++
		}
		if r.Severity.Rank() >= models.SeverityHigh.Rank() {
			s.HighRiskCount++
		}
		if !r.Status.Terminal() {
			s.ActiveCount++
		}
		if dayKey(r.Timestamp, opts.Location) == today {
			s.TodayCount++
		}
	}
	s.EconomicImpactText = FormatCrore(s.TotalEconomicImpact)
	return s
}

// Frequencies counts reports per type, severity and status. Only observed keys appear.
func Frequencies(reports []models.Report) (byType, bySeverity, byStatus map[string]int) {
	byType = map[string]int{}
	bySeverity = map[string]int{}
	byStatus = map[string]int{}
	for _, r := range reports {
		byType[string(r.Type)]++
		bySeverity[string(r.Severity)]++
		byStatus[string(r.Status)]++
	}
	return byType, bySeverity, byStatus
}

// Rate returns 100*count/total rounded to one decimal, plus its text form.
// A zero total yields 0.
func Rate(count, total int) (float64, string) {
	if total == 0 {
		return 0, "0.0"
	}
	v := math.Round(float64(count)*1000/float64(total)) / 10
	return v, fmt.Sprintf("%.1f", v)
}

// FormatCrore renders a rupee amount in crores with one decimal.
func FormatCrore(amount float64) string {
	return fmt.Sprintf("₹%.1f Cr", amount/crore)
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// Regions rolls reports up by region tag, ordered by count then name.
func Regions(reports []models.Report) []models.RegionStats {
	index := map[string]*models.RegionStats{}
	for _, r := range reports {
		key := r.Location.Region
		if key == "" {
			key = UnknownRegion
		}
		st, ok := index[key]
		if !ok {
			st = &models.RegionStats{Region: key, Types: map[string]int{}}
			index[key] = st
		}
		st.Count++
		st.Severity.Add(r.Severity)
		st.Types[string(r.Type)]++
		if r.ResponseTime != nil {
			st.TotalResponseTime += float64(*r.ResponseTime)
		}
		st.TotalEconomicImpact += r.EconomicImpact
	}

	out := make([]models.RegionStats, 0, len(index))
	for _, st := range index {
		st.AvgResponseTime = st.TotalResponseTime / float64(st.Count)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Region < out[j].Region
	})
	return out
}

// Locations rolls reports up by exact location name, ordered by count then name.
func Locations(reports []models.Report) []models.LocationStats {
	index := map[string]*models.LocationStats{}
	for _, r := range reports {
		st, ok := index[r.Location.Name]
		if !ok {
			st = &models.LocationStats{Name: r.Location.Name, Types: map[string]int{}}
			index[r.Location.Name] = st
		}
		st.Count++
		st.Severity.Add(r.Severity)
		st.Types[string(r.Type)]++
		if r.ResponseTime != nil {
			st.TotalResponseTime += float64(*r.ResponseTime)
		}
		st.TotalEconomicImpact += r.EconomicImpact
		st.AffectedPopulation += r.AffectedPopulation
	}

	out := make([]models.LocationStats, 0, len(index))
	for _, st := range index {
		st.AvgResponseTime = st.TotalResponseTime / float64(st.Count)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
