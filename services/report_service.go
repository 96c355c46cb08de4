package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/techagentng/oceanwatch/analytics"
	"github.com/techagentng/oceanwatch/config"
	"github.com/techagentng/oceanwatch/db"
	"github.com/techagentng/oceanwatch/filter"
	"github.com/techagentng/oceanwatch/geo"
	"github.com/techagentng/oceanwatch/metrics"
	"github.com/techagentng/oceanwatch/models"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrEmptyComment   = errors.New("comment content is empty")
	ErrEmptyPatch     = errors.New("no fields to update")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrMissingType    = errors.New("hazard type is required")
)

const DefaultCommentRole = "citizen"

type ReportService interface {
	AddReport(draft models.ReportDraft) (*models.Report, error)
	UpdateStatus(id string, status models.Status, user string) (*models.Report, error)
	AddComment(id, content, author, role string) (*models.Report, error)
	UpdateReport(id string, patch models.ReportPatch, user string) (*models.Report, error)
	GetReport(id string) (*models.Report, error)
	Snapshot() ([]models.Report, error)
	Filter(ctx context.Context, spec models.FilterSpec, location geo.LocationProvider) ([]models.Report, error)
	Analytics() (models.Summary, error)
}

// HazardReportService is the report store: every mutation changes one report
// and appends its audit entry in a single repository update.
type HazardReportService struct {
	Config     *config.Config
	reportRepo db.ReportRepository
	location   *time.Location
	trendDays  int
	now        func() time.Time
}

// NewReportService instantiates a HazardReportService
func NewReportService(reportRepo db.ReportRepository, conf *config.Config) *HazardReportService {
	s := &HazardReportService{
		Config:     conf,
		reportRepo: reportRepo,
		location:   time.Local,
		trendDays:  analytics.DefaultTrendDays,
		now:        time.Now,
	}
	if conf != nil {
		s.location = conf.Location()
		if conf.TrendDays > 0 {
			s.trendDays = conf.TrendDays
		}
	}
	return s
}

// WithClock replaces the time source.
func (s *HazardReportService) WithClock(now func() time.Time) *HazardReportService {
	s.now = now
	return s
}

func (s *HazardReportService) AddReport(draft models.ReportDraft) (*models.Report, error) {
	draft.Type = models.NormalizeHazardType(draft.Type)
	if draft.Type == "" {
		return nil, ErrMissingType
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate report id: %w", err)
	}
	severity := draft.Severity
	if severity == "" {
		severity = models.SeverityMedium
	}
	reporter := strings.TrimSpace(draft.Reporter)
	if reporter == "" {
		reporter = models.AnonymousReporter
	}
	now := s.now()

	report := &models.Report{
		ID:                  id.String(),
		Type:                draft.Type,
		Severity:            severity,
		Status:              models.StatusPending,
		Priority:            models.PriorityFor(severity),
		Location:            draft.Location,
		Description:         draft.Description,
		Timestamp:           now,
		Reporter:            reporter,
		Comments:            []models.Comment{},
		AffectedPopulation:  draft.AffectedPopulation,
		EconomicImpact:      draft.EconomicImpact,
		EnvironmentalImpact: draft.EnvironmentalImpact,
		ResponseTime:        draft.ResponseTime,
		Tags:                draft.Tags,
		AuditTrail: []models.AuditEntry{{
			Action:    models.ActionCreated,
			User:      reporter,
			Timestamp: now,
			Details:   "Report submitted",
		}},
	}

	if err := s.reportRepo.Create(report); err != nil {
		metrics.ReportMutations.WithLabelValues(models.ActionCreated, metrics.Outcome(err)).Inc()
		return nil, err
	}
	metrics.ReportsCreated.Inc()
	metrics.ReportMutations.WithLabelValues(models.ActionCreated, "ok").Inc()
	out := report.Clone()
	return &out, nil
}

func (s *HazardReportService) UpdateStatus(id string, status models.Status, user string) (*models.Report, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.mutate(id, models.ActionStatusChanged, func(r *models.Report, now time.Time) error {
		r.Status = status
		r.AuditTrail = append(r.AuditTrail, models.AuditEntry{
			Action:    models.ActionStatusChanged,
			User:      user,
			Timestamp: now,
			Details:   fmt.Sprintf("Status changed to %s", status),
		})
		return nil
	})
}

func (s *HazardReportService) AddComment(id, content, author, role string) (*models.Report, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyComment
	}
	if role == "" {
		role = DefaultCommentRole
	}
	return s.mutate(id, models.ActionCommentAdded, func(r *models.Report, now time.Time) error {
		r.Comments = append(r.Comments, models.Comment{
			Author:    author,
			Content:   content,
			Timestamp: now,
			Role:      role,
		})
		r.AuditTrail = append(r.AuditTrail, models.AuditEntry{
			Action:    models.ActionCommentAdded,
			User:      author,
			Timestamp: now,
			Details:   "Comment added",
		})
		return nil
	})
}

func (s *HazardReportService) UpdateReport(id string, patch models.ReportPatch, user string) (*models.Report, error) {
	if patch.Empty() {
		return nil, ErrEmptyPatch
	}
	return s.mutate(id, models.ActionUpdated, func(r *models.Report, now time.Time) error {
		patch.Apply(r)
		r.AuditTrail = append(r.AuditTrail, models.AuditEntry{
			Action:    models.ActionUpdated,
			User:      user,
			Timestamp: now,
			Details:   fmt.Sprintf("Updated fields: %s", strings.Join(patch.Fields, ", ")),
		})
		return nil
	})
}

func (s *HazardReportService) mutate(id, action string, fn func(r *models.Report, now time.Time) error) (*models.Report, error) {
	now := s.now()
	report, err := s.reportRepo.Update(id, func(r *models.Report) error {
		return fn(r, now)
	})
	metrics.ReportMutations.WithLabelValues(action, metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, mapRepoError(err)
	}
	return report, nil
}

func (s *HazardReportService) GetReport(id string) (*models.Report, error) {
	report, err := s.reportRepo.Get(id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return report, nil
}

// Snapshot returns a private copy of the whole collection in insertion order.
func (s *HazardReportService) Snapshot() ([]models.Report, error) {
	return s.reportRepo.List()
}

func (s *HazardReportService) Filter(ctx context.Context, spec models.FilterSpec, location geo.LocationProvider) ([]models.Report, error) {
	reports, err := s.reportRepo.List()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	out := filter.Apply(reports, spec, geo.Resolve(ctx, location), s.now())
	metrics.FilterDuration.Observe(time.Since(start).Seconds())
	return out, nil
}

func (s *HazardReportService) Analytics() (models.Summary, error) {
	reports, err := s.reportRepo.List()
	if err != nil {
		return models.Summary{}, err
	}
	return s.Summarize(reports), nil
}

// Summarize computes analytics over an already taken snapshot.
func (s *HazardReportService) Summarize(reports []models.Report) models.Summary {
	return analytics.Compute(reports, analytics.Options{
		Now:       s.now(),
		Location:  s.location,
		TrendDays: s.trendDays,
	})
}

func mapRepoError(err error) error {
	if errors.Is(err, db.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrReportNotFound, err)
	}
	return err
}
