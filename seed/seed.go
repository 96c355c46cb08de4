// Package seed generates synthetic hazard reports for demos and the CLI.
package seed

import (
	_ "embed"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/techagentng/oceanwatch/db"
	"github.com/techagentng/oceanwatch/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Spread is how far back generated reports reach.
const Spread = 30 * 24 * time.Hour

type Place struct {
	Name   string  `yaml:"name"`
	Region string  `yaml:"region"`
	Lat    float64 `yaml:"lat"`
	Lng    float64 `yaml:"lng"`
}

type Catalog struct {
	Locations []Place `yaml:"locations"`
}

// DefaultCatalog parses the embedded coastal catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Locations) == 0 {
		return nil, fmt.Errorf("catalog has no locations")
	}
	return &c, nil
}

var (
	reporters = []string{"Fisherman Association", "Coast Guard", "Local Resident", "Tourist", models.AnonymousReporter, "Port Authority"}
	officials = []string{"INCOIS Duty Officer", "District Collector", "Coastal Police"}
	impacts   = []string{"low", "moderate", "high", "severe"}
	tagPool   = []string{"fishing", "tourism", "infrastructure", "evacuation", "navigation", "wildlife"}
)

// Generate returns n reports with timestamps spread over the Spread before now.
// Non-pending reports carry the status_changed entries that led to their status.
func Generate(n int, rng *rand.Rand, now time.Time, catalog *Catalog) []models.Report {
	reports := make([]models.Report, 0, n)
	for i := 0; i < n; i++ {
		reports = append(reports, generateOne(rng, now, catalog))
	}
	return reports
}

func generateOne(rng *rand.Rand, now time.Time, catalog *Catalog) models.Report {
	place := catalog.Locations[rng.Intn(len(catalog.Locations))]
	hazard := models.HazardTypes[rng.Intn(len(models.HazardTypes))]
	severity := models.Severities[rng.Intn(len(models.Severities))]
	status := models.Statuses[rng.Intn(len(models.Statuses))]
	reporter := reporters[rng.Intn(len(reporters))]
	created := now.Add(-time.Duration(rng.Int63n(int64(Spread))))

	r := models.Report{
		ID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%d-%d", created.UnixNano(), rng.Int63()))).String(),
		Type:     hazard,
		Severity: severity,
		Status:   models.StatusPending,
		Priority: models.PriorityFor(severity),
		Location: models.Location{
			// jitter keeps generated points within a few km of the reference point
			Latitude:  place.Lat + (rng.Float64()-0.5)*0.05,
			Longitude: place.Lng + (rng.Float64()-0.5)*0.05,
			Name:      place.Name,
			Region:    place.Region,
		},
		Description:         fmt.Sprintf("%s observed near %s", hazard, place.Name),
		Timestamp:           created,
		Reporter:            reporter,
		Comments:            []models.Comment{},
		AffectedPopulation:  rng.Intn(5000),
		EconomicImpact:      float64(rng.Intn(50_000_000)),
		EnvironmentalImpact: impacts[rng.Intn(len(impacts))],
		Tags:                []string{tagPool[rng.Intn(len(tagPool))]},
		AuditTrail: []models.AuditEntry{{
			Action:    models.ActionCreated,
			User:      reporter,
			Timestamp: created,
			Details:   "Report submitted",
		}},
	}
	if rng.Intn(3) > 0 {
		v := 15 + rng.Intn(600)
		r.ResponseTime = &v
	}
	if status != models.StatusPending {
		at := created.Add(time.Duration(1+rng.Intn(180)) * time.Minute)
		if at.After(now) {
			at = now
		}
		r.Status = status
		r.AuditTrail = append(r.AuditTrail, models.AuditEntry{
			Action:    models.ActionStatusChanged,
			User:      officials[rng.Intn(len(officials))],
			Timestamp: at,
			Details:   fmt.Sprintf("Status changed to %s", status),
		})
	}
	return r
}

// Load stores generated reports as-is, keeping their timestamps and history.
func Load(repo db.ReportRepository, reports []models.Report) error {
	for i := range reports {
		if err := repo.Create(&reports[i]); err != nil {
			return fmt.Errorf("seed report %d: %w", i, err)
		}
	}
	return nil
}
