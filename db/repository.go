package db

import (
	"github.com/pkg/errors"
	"github.com/techagentng/oceanwatch/models"
)

var (
	ErrRecordNotFound = errors.New("report not found")
	ErrDuplicateID    = errors.New("report id already exists")
	// ErrHistoryRewritten is returned when an update would drop or alter
	// existing comments or audit entries.
	ErrHistoryRewritten = errors.New("comments and audit trail are append-only")
)

// ReportRepository owns the report collection. Update runs fn against a
// private copy of one report and commits the result atomically, so a field
// change and its audit entry are never visible apart.
type ReportRepository interface {
	Create(report *models.Report) error
	Get(id string) (*models.Report, error)
	List() ([]models.Report, error)
	Update(id string, fn func(r *models.Report) error) (*models.Report, error)
	Count() (int, error)
}

// checkAppendOnly verifies that after is before plus zero or more new entries.
func checkAppendOnly(before, after *models.Report) error {
	if len(after.AuditTrail) < len(before.AuditTrail) || len(after.Comments) < len(before.Comments) {
		return ErrHistoryRewritten
	}
	for i := range before.AuditTrail {
		if !sameAudit(before.AuditTrail[i], after.AuditTrail[i]) {
			return ErrHistoryRewritten
		}
	}
	for i := range before.Comments {
		if !sameComment(before.Comments[i], after.Comments[i]) {
			return ErrHistoryRewritten
		}
	}
	if after.ID != before.ID || !after.Timestamp.Equal(before.Timestamp) {
		return errors.New("report id and timestamp are immutable")
	}
	return nil
}

func sameAudit(a, b models.AuditEntry) bool {
	return a.Action == b.Action && a.User == b.User && a.Details == b.Details && a.Timestamp.Equal(b.Timestamp)
}

func sameComment(a, b models.Comment) bool {
	return a.Author == b.Author && a.Content == b.Content && a.Role == b.Role && a.Timestamp.Equal(b.Timestamp)
}
