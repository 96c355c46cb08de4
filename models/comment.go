package models

import "time"

// Comment is a note left on a report. Comments are append-only.
type Comment struct {
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Role      string    `json:"role"`
}

// Audit actions
const (
	ActionCreated       = "created"
	ActionStatusChanged = "status_changed"
	ActionCommentAdded  = "comment_added"
	ActionUpdated       = "updated"
)

// AuditEntry records one mutation of a report.
type AuditEntry struct {
	Action    string    `json:"action"`
	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details"`
}
