package db

import (
	"time"

	"github.com/pkg/errors"
	"github.com/techagentng/oceanwatch/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reportRow struct {
	ID                  string `gorm:"primaryKey;type:varchar(36)"`
	Type                string `gorm:"index;not null"`
	Severity            string `gorm:"index;not null"`
	Status              string `gorm:"index;not null"`
	Priority            string
	Latitude            float64
	Longitude           float64
	LocationName        string `gorm:"index"`
	Region              string `gorm:"index"`
	Address             string
	Landmark            string
	Description         string `gorm:"type:text"`
	Timestamp           time.Time `gorm:"index;not null"`
	Reporter            string
	AffectedPopulation  int
	EconomicImpact      float64
	EnvironmentalImpact string
	ResponseTime        *int
	Tags                []string     `gorm:"serializer:json"`
	Comments            []commentRow `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
	AuditTrail          []auditRow   `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
	InsertedAt          int64        `gorm:"autoCreateTime:nano;index"`
}

func (reportRow) TableName() string { return "hazard_reports" }

type commentRow struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	ReportID  string `gorm:"type:varchar(36);index;not null"`
	Seq       int    `gorm:"not null"`
	Author    string
	Content   string `gorm:"type:text"`
	Role      string
	Timestamp time.Time
}

func (commentRow) TableName() string { return "report_comments" }

type auditRow struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	ReportID  string `gorm:"type:varchar(36);index;not null"`
	Seq       int    `gorm:"not null"`
	Action    string `gorm:"index;not null"`
	User      string
	Details   string
	Timestamp time.Time
}

func (auditRow) TableName() string { return "report_audit_trail" }

func toRow(r *models.Report) reportRow {
	row := reportRow{
		ID:                  r.ID,
		Type:                string(r.Type),
		Severity:            string(r.Severity),
		Status:              string(r.Status),
		Priority:            string(r.Priority),
		Latitude:            r.Location.Latitude,
		Longitude:           r.Location.Longitude,
		LocationName:        r.Location.Name,
		Region:              r.Location.Region,
		Address:             r.Location.Address,
		Landmark:            r.Location.Landmark,
		Description:         r.Description,
		Timestamp:           r.Timestamp,
		Reporter:            r.Reporter,
		AffectedPopulation:  r.AffectedPopulation,
		EconomicImpact:      r.EconomicImpact,
		EnvironmentalImpact: r.EnvironmentalImpact,
		ResponseTime:        r.ResponseTime,
		Tags:                r.Tags,
	}
	row.Comments = commentRows(r.ID, r.Comments, 0)
	row.AuditTrail = auditRows(r.ID, r.AuditTrail, 0)
	return row
}

func commentRows(reportID string, comments []models.Comment, from int) []commentRow {
	rows := make([]commentRow, 0, len(comments)-from)
	for i := from; i < len(comments); i++ {
		c := comments[i]
		rows = append(rows, commentRow{ReportID: reportID, Seq: i, Author: c.Author, Content: c.Content, Role: c.Role, Timestamp: c.Timestamp})
	}
	return rows
}

func auditRows(reportID string, entries []models.AuditEntry, from int) []auditRow {
	rows := make([]auditRow, 0, len(entries)-from)
	for i := from; i < len(entries); i++ {
		e := entries[i]
		rows = append(rows, auditRow{ReportID: reportID, Seq: i, Action: e.Action, User: e.User, Details: e.Details, Timestamp: e.Timestamp})
	}
	return rows
}

func (row *reportRow) toModel() models.Report {
	r := models.Report{
		ID:       row.ID,
		Type:     models.HazardType(row.Type),
		Severity: models.Severity(row.Severity),
		Status:   models.Status(row.Status),
		Priority: models.Priority(row.Priority),
		Location: models.Location{
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
			Name:      row.LocationName,
			Region:    row.Region,
			Address:   row.Address,
			Landmark:  row.Landmark,
		},
		Description:         row.Description,
		Timestamp:           row.Timestamp,
		Reporter:            row.Reporter,
		AffectedPopulation:  row.AffectedPopulation,
		EconomicImpact:      row.EconomicImpact,
		EnvironmentalImpact: row.EnvironmentalImpact,
		ResponseTime:        row.ResponseTime,
		Tags:                row.Tags,
		Comments:            make([]models.Comment, 0, len(row.Comments)),
		AuditTrail:          make([]models.AuditEntry, 0, len(row.AuditTrail)),
	}
	for _, c := range row.Comments {
		r.Comments = append(r.Comments, models.Comment{Author: c.Author, Content: c.Content, Role: c.Role, Timestamp: c.Timestamp})
	}
	for _, a := range row.AuditTrail {
		r.AuditTrail = append(r.AuditTrail, models.AuditEntry{Action: a.Action, User: a.User, Details: a.Details, Timestamp: a.Timestamp})
	}
	return r
}

type reportRepo struct {
	DB *gorm.DB
}

// NewReportRepo returns a postgres-backed ReportRepository.
func NewReportRepo(db *GormDB) ReportRepository {
	return &reportRepo{db.DB}
}

func withHistory(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Preload("AuditTrail", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
}

func (repo *reportRepo) Create(report *models.Report) error {
	row := toRow(report)
	err := repo.DB.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&reportRow{}).Where("id = ?", report.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateID
		}
		return tx.Create(&row).Error
	})
	return errors.Wrapf(err, "create %s", report.ID)
}

func (repo *reportRepo) Get(id string) (*models.Report, error) {
	var row reportRow
	if err := withHistory(repo.DB).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrRecordNotFound, "get %s", id)
		}
		return nil, errors.Wrapf(err, "get %s", id)
	}
	r := row.toModel()
	return &r, nil
}

func (repo *reportRepo) List() ([]models.Report, error) {
	var rows []reportRow
	if err := withHistory(repo.DB).Order("inserted_at, id").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list reports")
	}
	out := make([]models.Report, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

func (repo *reportRepo) Update(id string, fn func(r *models.Report) error) (*models.Report, error) {
	var updated models.Report
	err := repo.DB.Transaction(func(tx *gorm.DB) error {
		var row reportRow
		err := withHistory(tx.Clauses(clause.Locking{Strength: "UPDATE"})).First(&row, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		if err != nil {
			return err
		}

		before := row.toModel()
		working := before.Clone()
		if err := fn(&working); err != nil {
			return err
		}
		if err := checkAppendOnly(&before, &working); err != nil {
			return err
		}

		next := toRow(&working)
		if err := tx.Model(&reportRow{ID: id}).
			Select("*").
			Omit(clause.Associations, "ID", "InsertedAt").
			Updates(&next).Error; err != nil {
			return err
		}
		if rows := commentRows(id, working.Comments, len(before.Comments)); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		if rows := auditRows(id, working.AuditTrail, len(before.AuditTrail)); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		updated = working
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "update %s", id)
	}
	return &updated, nil
}

func (repo *reportRepo) Count() (int, error) {
	var count int64
	if err := repo.DB.Model(&reportRow{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "count reports")
	}
	return int(count), nil
}
