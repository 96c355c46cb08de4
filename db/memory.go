package db

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/techagentng/oceanwatch/models"
)

type memoryReportRepo struct {
	mu      sync.RWMutex
	order   []string
	reports map[string]*models.Report
}

// NewMemoryReportRepo returns an in-memory ReportRepository. List returns
// reports in insertion order.
func NewMemoryReportRepo() ReportRepository {
	return &memoryReportRepo{reports: map[string]*models.Report{}}
}

func (m *memoryReportRepo) Create(report *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reports[report.ID]; ok {
		return errors.Wrapf(ErrDuplicateID, "create %s", report.ID)
	}
	stored := report.Clone()
	m.reports[report.ID] = &stored
	m.order = append(m.order, report.ID)
	return nil
}

func (m *memoryReportRepo) Get(id string) (*models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reports[id]
	if !ok {
		return nil, errors.Wrapf(ErrRecordNotFound, "get %s", id)
	}
	out := r.Clone()
	return &out, nil
}

func (m *memoryReportRepo) List() ([]models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Report, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.reports[id].Clone())
	}
	return out, nil
}

func (m *memoryReportRepo) Update(id string, fn func(r *models.Report) error) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.reports[id]
	if !ok {
		return nil, errors.Wrapf(ErrRecordNotFound, "update %s", id)
	}
	working := current.Clone()
	if err := fn(&working); err != nil {
		return nil, err
	}
	if err := checkAppendOnly(current, &working); err != nil {
		return nil, errors.Wrapf(err, "update %s", id)
	}
	m.reports[id] = &working
	out := working.Clone()
	return &out, nil
}

func (m *memoryReportRepo) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order), nil
}
