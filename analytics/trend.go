package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/techagentng/oceanwatch/models"
)

// Trend returns one bucket per calendar day for the last days days ending
// today, oldest first. Reports outside the window are ignored.
func Trend(reports []models.Report, now time.Time, loc *time.Location, days int) []models.TrendPoint {
	if days <= 0 {
		days = DefaultTrendDays
	}
	if loc == nil {
		loc = now.Location()
	}
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	points := make([]models.TrendPoint, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, i-(days-1))
		key := day.Format("2006-01-02")
		points[i] = models.TrendPoint{Date: key, Label: day.Format("Jan 2")}
		index[key] = i
	}

	for _, r := range reports {
		i, ok := index[dayKey(r.Timestamp, loc)]
		if !ok {
			continue
		}
		p := &points[i]
		p.Reports++
		switch r.Severity {
		case models.SeverityCritical:
			p.Critical++
		case models.SeverityHigh:
			p.High++
		case models.SeverityMedium:
			p.Medium++
		case models.SeverityLow:
			p.Low++
		}
		switch r.Status {
		case models.StatusVerified:
			p.Verified++
		case models.StatusResolved:
			p.Resolved++
		}
	}
	return points
}

// ResponseTimes aggregates reports that carry a response time, in minutes.
func ResponseTimes(reports []models.Report) models.ResponseTimeStats {
	var st models.ResponseTimeStats
	for _, r := range reports {
		if r.ResponseTime == nil {
			continue
		}
		m := *r.ResponseTime
		st.Total += m
		st.Count++
		switch {
		case m < 60:
			st.Under1h++
		case m < 240:
			st.From1to4h++
		default:
			st.Over4h++
		}
	}
	if st.Count > 0 {
		st.Average = float64(st.Total) / float64(st.Count)
	}
	st.AverageText = FormatMinutes(st.Average)
	return st
}

// FormatMinutes renders a minute count as "<hours>h <minutes>m".
func FormatMinutes(minutes float64) string {
	if minutes <= 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return "0h 0m"
	}
	total := int(math.Round(minutes))
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}
