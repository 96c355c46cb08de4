// Package cmd wires the oceanwatch command line.
package cmd

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/techagentng/oceanwatch/config"
	"github.com/techagentng/oceanwatch/db"
	"github.com/techagentng/oceanwatch/seed"
	"github.com/techagentng/oceanwatch/services"
)

// --- Global Command Variables ---
var (
	seedReports int
	seedRandom  int64
	timezone    string

	rootCmd = &cobra.Command{
		Use:   "oceanwatch",
		Short: "Ocean hazard report filtering and analytics",
		Long: `oceanwatch stores citizen ocean hazard reports, filters them for the
dashboard and rolls them up into analytics.`,
		SilenceUsage: true,
	}
)

func init() {
	for _, c := range []*cobra.Command{summaryCmd, filterCmd} {
		c.Flags().IntVar(&seedReports, "reports", 50, "number of synthetic reports to generate")
		c.Flags().Int64Var(&seedRandom, "seed", 1, "random seed for the generator")
		c.Flags().StringVar(&timezone, "timezone", "Asia/Kolkata", "zone for calendar-day bucketing")
	}
	rootCmd.AddCommand(serveCmd, summaryCmd, filterCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRepository picks the store named by the configuration.
func newRepository(conf *config.Config) (db.ReportRepository, error) {
	switch conf.Store {
	case "", "memory":
		return db.NewMemoryReportRepo(), nil
	case "postgres":
		return db.NewReportRepo(db.GetDB(conf)), nil
	default:
		return nil, fmt.Errorf("unknown store %q", conf.Store)
	}
}

// seededService builds an in-memory service holding n generated reports.
func seededService(n int, seedValue int64, tz string, now time.Time) (*services.HazardReportService, error) {
	conf := &config.Config{Timezone: tz, TrendDays: 30}
	repo := db.NewMemoryReportRepo()
	catalog, err := seed.DefaultCatalog()
	if err != nil {
		return nil, err
	}
	reports := seed.Generate(n, rand.New(rand.NewSource(seedValue)), now, catalog)
	if err := seed.Load(repo, reports); err != nil {
		return nil, err
	}
	log.Printf("seeded %d reports", len(reports))
	return services.NewReportService(repo, conf).WithClock(func() time.Time { return now }), nil
}
