package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/oceanwatch/models"
)

func fullReport() *models.Report {
	r := report("0190b3d2-7c1e-7000-8000-000000000001")
	ts := r.Timestamp
	rt := 45
	r.Priority = models.PriorityHigh
	r.Location = models.Location{Latitude: 13.08, Longitude: 80.27, Name: "Chennai Marina", Region: "tamil_nadu", Address: "Beach Rd", Landmark: "Lighthouse"}
	r.Description = "waves breaching the promenade"
	r.Reporter = "bob"
	r.AffectedPopulation = 1200
	r.EconomicImpact = 2.5e6
	r.EnvironmentalImpact = "moderate"
	r.ResponseTime = &rt
	r.Tags = []string{"coastal", "night"}
	r.Comments = []models.Comment{
		{Author: "alice", Content: "team dispatched", Role: "official", Timestamp: ts.Add(time.Minute)},
		{Author: "carol", Content: "water receding", Role: "citizen", Timestamp: ts.Add(2 * time.Minute)},
	}
	r.AuditTrail = append(r.AuditTrail,
		models.AuditEntry{Action: models.ActionCommentAdded, User: "alice", Details: "Comment added", Timestamp: ts.Add(time.Minute)},
		models.AuditEntry{Action: models.ActionCommentAdded, User: "carol", Details: "Comment added", Timestamp: ts.Add(2 * time.Minute)},
	)
	return r
}

func TestReportRow_RoundTrip(t *testing.T) {
	r := fullReport()
	row := toRow(r)

	assert.Equal(t, r.ID, row.ID)
	assert.Equal(t, "tsunami", row.Type)
	require.Len(t, row.Comments, 2)
	require.Len(t, row.AuditTrail, 3)
	for i, c := range row.Comments {
		assert.Equal(t, r.ID, c.ReportID)
		assert.Equal(t, i, c.Seq)
	}

	assert.Equal(t, *r, row.toModel())
}

func TestReportRow_EmptyCollections(t *testing.T) {
	r := report("a")
	r.AuditTrail = nil
	row := toRow(r)
	assert.Empty(t, row.Comments)
	assert.Empty(t, row.AuditTrail)

	got := row.toModel()
	assert.NotNil(t, got.Comments)
	assert.NotNil(t, got.AuditTrail)
	assert.Empty(t, got.Comments)
	assert.Nil(t, got.ResponseTime)
	assert.Nil(t, got.Tags)
}

func TestCommentRows_From(t *testing.T) {
	r := fullReport()

	rows := commentRows(r.ID, r.Comments, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Seq)
	assert.Equal(t, "carol", rows[0].Author)
	assert.Equal(t, "water receding", rows[0].Content)
	assert.Equal(t, r.ID, rows[0].ReportID)

	assert.Empty(t, commentRows(r.ID, r.Comments, len(r.Comments)))
}

func TestAuditRows_From(t *testing.T) {
	r := fullReport()

	rows := auditRows(r.ID, r.AuditTrail, 1)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Seq)
	assert.Equal(t, 2, rows[1].Seq)
	assert.Equal(t, "alice", rows[0].User)
	assert.Equal(t, "carol", rows[1].User)
	assert.Equal(t, models.ActionCommentAdded, rows[1].Action)

	assert.Empty(t, auditRows(r.ID, r.AuditTrail, len(r.AuditTrail)))
}
