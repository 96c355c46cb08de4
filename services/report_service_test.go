package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/oceanwatch/db"
	"github.com/techagentng/oceanwatch/geo"
	"github.com/techagentng/oceanwatch/models"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService() (*HazardReportService, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)}
	svc := NewReportService(db.NewMemoryReportRepo(), nil).WithClock(clock.Now)
	return svc, clock
}

func chennaiDraft() models.ReportDraft {
	return models.ReportDraft{
		Type:        models.HazardHighWaves,
		Severity:    models.SeverityHigh,
		Location:    models.Location{Latitude: 13.08, Longitude: 80.27, Name: "Chennai Marina", Region: "tamil_nadu"},
		Description: "Waves breaching the promenade",
		Reporter:    "bob",
	}
}

func TestAddReport(t *testing.T) {
	svc, clock := newTestService()

	r, err := svc.AddReport(chennaiDraft())
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, models.StatusPending, r.Status)
	assert.Equal(t, models.PriorityCritical, r.Priority)
	assert.Equal(t, clock.Now(), r.Timestamp)
	assert.Empty(t, r.Comments)
	require.Len(t, r.AuditTrail, 1)
	assert.Equal(t, models.AuditEntry{
		Action:    models.ActionCreated,
		User:      "bob",
		Timestamp: clock.Now(),
		Details:   "Report submitted",
	}, r.AuditTrail[0])
}

func TestAddReport_Defaults(t *testing.T) {
	svc, _ := newTestService()

	r, err := svc.AddReport(models.ReportDraft{Type: "sea_foam"})
	require.NoError(t, err)
	assert.Equal(t, models.AnonymousReporter, r.Reporter)
	assert.Equal(t, models.SeverityMedium, r.Severity)
	assert.Equal(t, models.PriorityHigh, r.Priority)
	assert.Equal(t, models.HazardType("sea_foam"), r.Type)

	_, err = svc.AddReport(models.ReportDraft{})
	assert.ErrorIs(t, err, ErrMissingType)
}

func TestAddReport_PriorityMapping(t *testing.T) {
	svc, _ := newTestService()
	cases := map[models.Severity]models.Priority{
		models.SeverityLow:      models.PriorityMedium,
		models.SeverityMedium:   models.PriorityHigh,
		models.SeverityHigh:     models.PriorityCritical,
		models.SeverityCritical: models.PriorityMedium,
	}
	for severity, want := range cases {
		d := chennaiDraft()
		d.Severity = severity
		r, err := svc.AddReport(d)
		require.NoError(t, err)
		assert.Equal(t, want, r.Priority, "severity %s", severity)
	}
}

func TestAddReport_UniqueIDs(t *testing.T) {
	svc, _ := newTestService()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		r, err := svc.AddReport(chennaiDraft())
		require.NoError(t, err)
		require.False(t, seen[r.ID])
		seen[r.ID] = true
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, clock := newTestService()
	r, err := svc.AddReport(chennaiDraft())
	require.NoError(t, err)

	clock.Advance(time.Minute)
	updated, err := svc.UpdateStatus(r.ID, models.StatusVerified, "alice")
	require.NoError(t, err)

	assert.Equal(t, models.StatusVerified, updated.Status)
	require.Len(t, updated.AuditTrail, 2)
	last := updated.AuditTrail[1]
	assert.Equal(t, models.ActionStatusChanged, last.Action)
	assert.Equal(t, "alice", last.User)
	assert.Equal(t, "Status changed to verified", last.Details)
	assert.Equal(t, clock.Now(), last.Timestamp)

	// same status is permitted and still logged
	updated, err = svc.UpdateStatus(r.ID, models.StatusVerified, "alice")
	require.NoError(t, err)
	assert.Len(t, updated.AuditTrail, 3)
}

func TestUpdateStatus_Errors(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.UpdateStatus("missing", models.StatusVerified, "alice")
	assert.ErrorIs(t, err, ErrReportNotFound)

	r, err := svc.AddReport(chennaiDraft())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(r.ID, "archived", "alice")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	got, err := svc.GetReport(r.ID)
	require.NoError(t, err)
	assert.Len(t, got.AuditTrail, 1)
}

func TestAddComment(t *testing.T) {
	svc, _ := newTestService()
	r, err := svc.AddReport(chennaiDraft())
	require.NoError(t, err)

	updated, err := svc.AddComment(r.ID, "Team dispatched", "carol", "official")
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, "Team dispatched", updated.Comments[0].Content)
	assert.Equal(t, "official", updated.Comments[0].Role)
	assert.Equal(t, models.ActionCommentAdded, updated.AuditTrail[len(updated.AuditTrail)-1].Action)

	_, err = svc.AddComment(r.ID, "   ", "carol", "official")
	assert.ErrorIs(t, err, ErrEmptyComment)
	_, err = svc.AddComment("missing", "hello", "carol", "official")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestUpdateReport_FieldOrder(t *testing.T) {
	svc, _ := newTestService()
	r, err := svc.AddReport(chennaiDraft())
	require.NoError(t, err)

	var patch models.ReportPatch
	require.NoError(t, json.Unmarshal([]byte(`{"severity":"critical","description":"Surge receding","affectedPopulation":120}`), &patch))

	updated, err := svc.UpdateReport(r.ID, patch, "dave")
	require.NoError(t, err)
	assert.Equal(t, models.SeverityCritical, updated.Severity)
	assert.Equal(t, "Surge receding", updated.Description)
	assert.Equal(t, 120, updated.AffectedPopulation)
	assert.Equal(t, r.Location, updated.Location)

	last := updated.AuditTrail[len(updated.AuditTrail)-1]
	assert.Equal(t, models.ActionUpdated, last.Action)
	assert.Equal(t, "dave", last.User)
	assert.Equal(t, "Updated fields: severity, description, affectedPopulation", last.Details)

	_, err = svc.UpdateReport(r.ID, models.ReportPatch{}, "dave")
	assert.ErrorIs(t, err, ErrEmptyPatch)
}

func TestAuditTrail_GrowsByOnePerMutation(t *testing.T) {
	svc, _ := newTestService()
	r, err := svc.AddReport(chennaiDraft())
	require.NoError(t, err)

	var patch models.ReportPatch
	require.NoError(t, patch.Set(models.FieldDescription, json.RawMessage(`"updated"`)))

	mutations := []func() error{
		func() error { _, err := svc.UpdateStatus(r.ID, models.StatusInvestigating, "alice"); return err },
		func() error { _, err := svc.AddComment(r.ID, "on it", "alice", "official"); return err },
		func() error { _, err := svc.UpdateReport(r.ID, patch, "alice"); return err },
		func() error { _, err := svc.UpdateStatus(r.ID, models.StatusResolved, "alice"); return err },
	}
	prev, err := svc.GetReport(r.ID)
	require.NoError(t, err)
	for i, m := range mutations {
		require.NoError(t, m())
		got, err := svc.GetReport(r.ID)
		require.NoError(t, err)
		require.Len(t, got.AuditTrail, i+2)
		assert.Equal(t, prev.AuditTrail, got.AuditTrail[:len(prev.AuditTrail)])
		prev = got
	}
}

func TestMutationsTouchOnlyTheAddressedReport(t *testing.T) {
	svc, _ := newTestService()
	a, err := svc.AddReport(chennaiDraft())
	require.NoError(t, err)
	b, err := svc.AddReport(chennaiDraft())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(a.ID, models.StatusRejected, "alice")
	require.NoError(t, err)

	got, err := svc.GetReport(b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestSnapshotIsPrivate(t *testing.T) {
	svc, _ := newTestService()
	r, err := svc.AddReport(chennaiDraft())
	require.NoError(t, err)

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	snap[0].AuditTrail[0].Details = "tampered"
	snap[0].Status = models.StatusResolved

	got, err := svc.GetReport(r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Report submitted", got.AuditTrail[0].Details)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestFilter_Proximity(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.AddReport(chennaiDraft())
	require.NoError(t, err)
	mumbai := chennaiDraft()
	mumbai.Location = models.Location{Latitude: 19.07, Longitude: 72.87, Name: "Mumbai"}
	_, err = svc.AddReport(mumbai)
	require.NoError(t, err)

	spec := models.DefaultFilterSpec()
	spec.Proximity = models.Proximity{Enabled: true, Center: &models.Point{Lat: 13.0827, Lng: 80.2707}, RadiusKm: 50}
	user := &models.Point{Lat: 13.0, Lng: 80.2}

	got, err := svc.Filter(context.Background(), spec, geo.StaticLocationProvider{Point: user})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Chennai Marina", got[0].Location.Name)

	// without a user location the proximity predicate is skipped
	got, err = svc.Filter(context.Background(), spec, geo.StaticLocationProvider{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAnalytics(t *testing.T) {
	svc, _ := newTestService()
	for i := 0; i < 3; i++ {
		_, err := svc.AddReport(chennaiDraft())
		require.NoError(t, err)
	}
	summary, err := svc.Analytics()
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 3, summary.BySeverity["high"])
	assert.Equal(t, 3, summary.Trend[len(summary.Trend)-1].Reports)
}

func TestUpdateReport_NullResponseTimeLeavesAnalytics(t *testing.T) {
	svc, _ := newTestService()
	d := chennaiDraft()
	rt := 300
	d.ResponseTime = &rt
	r, err := svc.AddReport(d)
	require.NoError(t, err)

	var patch models.ReportPatch
	require.NoError(t, json.Unmarshal([]byte(`{"responseTime":null}`), &patch))
	updated, err := svc.UpdateReport(r.ID, patch, "dave")
	require.NoError(t, err)
	assert.Nil(t, updated.ResponseTime)
	assert.Equal(t, "Updated fields: responseTime", updated.AuditTrail[len(updated.AuditTrail)-1].Details)

	summary, err := svc.Analytics()
	require.NoError(t, err)
	assert.Equal(t, 0, summary.ResponseTime.Count)
	assert.Equal(t, 0, summary.ResponseTime.Under1h)
}

func TestUpdateReport_InvalidValuesNeverReachTheStore(t *testing.T) {
	svc, _ := newTestService()
	r, err := svc.AddReport(chennaiDraft())
	require.NoError(t, err)

	for _, body := range []string{`{"type":""}`, `{"location":{"lat":999,"lng":80}}`} {
		var patch models.ReportPatch
		var invalid *models.InvalidValueError
		require.ErrorAs(t, json.Unmarshal([]byte(body), &patch), &invalid, body)
	}

	got, err := svc.GetReport(r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.HazardHighWaves, got.Type)
	assert.Equal(t, 13.08, got.Location.Latitude)
	assert.Len(t, got.AuditTrail, 1)
}

func TestAddReport_CustomTypeKeepsSpelling(t *testing.T) {
	svc, _ := newTestService()

	custom, err := svc.AddReport(models.ReportDraft{Type: " Jellyfish Bloom "})
	require.NoError(t, err)
	assert.Equal(t, models.HazardType("Jellyfish Bloom"), custom.Type)

	builtin, err := svc.AddReport(models.ReportDraft{Type: "TSUNAMI"})
	require.NoError(t, err)
	assert.Equal(t, models.HazardTsunami, builtin.Type)

	spec := models.DefaultFilterSpec()
	spec.Type = "Jellyfish Bloom"
	got, err := svc.Filter(context.Background(), spec, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, custom.ID, got[0].ID)
}
