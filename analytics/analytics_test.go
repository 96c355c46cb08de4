package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techagentng/oceanwatch/models"
)

var ist = time.FixedZone("IST", 5*3600+1800)

var now = time.Date(2025, 3, 14, 18, 0, 0, 0, ist)

func minutes(v int) *int { return &v }

func sample() []models.Report {
	return []models.Report{
		{
			ID: "1", Type: models.HazardTsunami, Severity: models.SeverityCritical, Status: models.StatusVerified,
			Timestamp: now.Add(-time.Hour),
			Location:  models.Location{Name: "Marina Beach", Region: "Tamil Nadu"},
			AffectedPopulation: 5000, EconomicImpact: 25_000_000, ResponseTime: minutes(30),
		},
		{
			ID: "2", Type: models.HazardTsunami, Severity: models.SeverityHigh, Status: models.StatusResolved,
			Timestamp: now.Add(-2 * time.Hour),
			Location:  models.Location{Name: "Marina Beach", Region: "Tamil Nadu"},
			AffectedPopulation: 1000, EconomicImpact: 5_000_000, ResponseTime: minutes(90),
		},
		{
			ID: "3", Type: models.HazardOilSpill, Severity: models.SeverityLow, Status: models.StatusPending,
			Timestamp: now.Add(-3 * 24 * time.Hour),
			Location:  models.Location{Name: "Juhu Beach"},
			ResponseTime: minutes(300),
		},
		{
			ID: "4", Type: models.HazardType("jellyfish_swarm"), Severity: models.SeverityMedium, Status: models.StatusRejected,
			Timestamp: now.Add(-45 * 24 * time.Hour),
			Location:  models.Location{Name: "Kovalam", Region: "Kerala"},
		},
	}
}

func TestCompute_EmptyCollection(t *testing.T) {
	var s models.Summary
	require.NotPanics(t, func() { s = Compute(nil, Options{Now: now}) })

	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0.0, s.VerificationRate)
	assert.Equal(t, 0.0, s.ResolutionRate)
	assert.Equal(t, "0.0", s.VerificationRateText)
	assert.Equal(t, "0h 0m", s.ResponseTime.AverageText)
	assert.Equal(t, "₹0.0 Cr", s.EconomicImpactText)
	assert.Empty(t, s.ByType)
	assert.Empty(t, s.Regions)
	assert.Len(t, s.Trend, DefaultTrendDays)

	_, err := json.Marshal(s)
	assert.NoError(t, err)
}

func TestCompute_Conservation(t *testing.T) {
	reports := sample()
	s := Compute(reports, Options{Now: now})

	sum := func(m map[string]int) int {
		n := 0
		for _, v := range m {
			n += v
		}
		return n
	}
	assert.Equal(t, len(reports), sum(s.ByType))
	assert.Equal(t, len(reports), sum(s.BySeverity))
	assert.Equal(t, len(reports), sum(s.ByStatus))

	regionTotal := 0
	for _, r := range s.Regions {
		regionTotal += r.Count
		assert.Equal(t, r.Count, r.Severity.Low+r.Severity.Medium+r.Severity.High+r.Severity.Critical)
	}
	assert.Equal(t, len(reports), regionTotal)
}

func TestCompute_FrequenciesOnlyObservedKeys(t *testing.T) {
	s := Compute(sample(), Options{Now: now})
	assert.Equal(t, map[string]int{"tsunami": 2, "oil_spill": 1, "jellyfish_swarm": 1}, s.ByType)
	assert.NotContains(t, s.ByStatus, "investigating")
}

func TestCompute_RatesAndTotals(t *testing.T) {
	s := Compute(sample(), Options{Now: now})

	assert.Equal(t, 25.0, s.VerificationRate)
	assert.Equal(t, "25.0", s.VerificationRateText)
	assert.Equal(t, 25.0, s.ResolutionRate)
	assert.Equal(t, 6000, s.TotalAffectedPopulation)
	assert.Equal(t, 30_000_000.0, s.TotalEconomicImpact)
	assert.Equal(t, "₹3.0 Cr", s.EconomicImpactText)
	assert.Equal(t, 1, s.CriticalCount)
	assert.Equal(t, 2, s.HighRiskCount)
	assert.Equal(t, 2, s.ActiveCount)
	assert.Equal(t, 2, s.TodayCount)
}

func TestRate_OneDecimal(t *testing.T) {
	v, text := Rate(1, 3)
	assert.Equal(t, 33.3, v)
	assert.Equal(t, "33.3", text)

	v, text = Rate(2, 3)
	assert.Equal(t, 66.7, v)
	assert.Equal(t, "66.7", text)
}

func TestRegions(t *testing.T) {
	regions := Regions(sample())
	require.Len(t, regions, 3)

	tn := regions[0]
	assert.Equal(t, "Tamil Nadu", tn.Region)
	assert.Equal(t, 2, tn.Count)
	assert.Equal(t, models.SeverityBreakdown{High: 1, Critical: 1}, tn.Severity)
	assert.Equal(t, map[string]int{"tsunami": 2}, tn.Types)
	assert.Equal(t, 60.0, tn.AvgResponseTime)
	assert.Equal(t, 30_000_000.0, tn.TotalEconomicImpact)

	var names []string
	for _, r := range regions {
		names = append(names, r.Region)
	}
	assert.Contains(t, names, UnknownRegion)
}

func TestLocations(t *testing.T) {
	locs := Locations(sample())
	require.Len(t, locs, 3)
	assert.Equal(t, "Marina Beach", locs[0].Name)
	assert.Equal(t, 6000, locs[0].AffectedPopulation)
	assert.Equal(t, 2, locs[0].Count)
}

func TestTrend_SameDayBucket(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, ist)
	reports := []models.Report{
		{ID: "a", Severity: models.SeverityHigh, Status: models.StatusVerified, Timestamp: day.Add(1 * time.Hour)},
		{ID: "b", Severity: models.SeverityLow, Status: models.StatusResolved, Timestamp: day.Add(12 * time.Hour)},
		{ID: "c", Severity: models.SeverityHigh, Status: models.StatusPending, Timestamp: day.Add(23*time.Hour + 59*time.Minute)},
	}

	trend := Trend(reports, now, ist, 30)
	require.Len(t, trend, 30)
	assert.Equal(t, "2025-02-13", trend[0].Date)
	assert.Equal(t, "2025-03-14", trend[29].Date)

	var hit []models.TrendPoint
	for _, p := range trend {
		if p.Reports > 0 {
			hit = append(hit, p)
		}
	}
	require.Len(t, hit, 1)
	assert.Equal(t, "2025-03-10", hit[0].Date)
	assert.Equal(t, "Mar 10", hit[0].Label)
	assert.Equal(t, 3, hit[0].Reports)
	assert.Equal(t, 2, hit[0].High)
	assert.Equal(t, 1, hit[0].Low)
	assert.Equal(t, 1, hit[0].Verified)
	assert.Equal(t, 1, hit[0].Resolved)
}

func TestTrend_UsesLocalCalendarDate(t *testing.T) {
	// 20:00 UTC on Mar 13 is already Mar 14 in IST.
	r := models.Report{ID: "late", Timestamp: time.Date(2025, 3, 13, 20, 0, 0, 0, time.UTC)}
	trend := Trend([]models.Report{r}, now, ist, 30)
	assert.Equal(t, 1, trend[29].Reports)
	assert.Equal(t, 0, trend[28].Reports)
}

func TestTrend_OutsideWindowIgnored(t *testing.T) {
	r := models.Report{ID: "old", Timestamp: now.AddDate(0, 0, -30)}
	for _, p := range Trend([]models.Report{r}, now, ist, 30) {
		assert.Zero(t, p.Reports)
	}
}

func TestResponseTimes(t *testing.T) {
	st := ResponseTimes(sample())
	assert.Equal(t, 3, st.Count)
	assert.Equal(t, 420, st.Total)
	assert.Equal(t, 1, st.Under1h)
	assert.Equal(t, 1, st.From1to4h)
	assert.Equal(t, 1, st.Over4h)
	assert.Equal(t, 140.0, st.Average)
	assert.Equal(t, "2h 20m", st.AverageText)
}

func TestResponseTimes_BandEdges(t *testing.T) {
	reports := []models.Report{
		{ResponseTime: minutes(59)},
		{ResponseTime: minutes(60)},
		{ResponseTime: minutes(239)},
		{ResponseTime: minutes(240)},
	}
	st := ResponseTimes(reports)
	assert.Equal(t, 1, st.Under1h)
	assert.Equal(t, 2, st.From1to4h)
	assert.Equal(t, 1, st.Over4h)
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0h 0m", FormatMinutes(0))
	assert.Equal(t, "0h 45m", FormatMinutes(45))
	assert.Equal(t, "1h 0m", FormatMinutes(59.6))
	assert.Equal(t, "4h 5m", FormatMinutes(245))
}
