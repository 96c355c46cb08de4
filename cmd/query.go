package cmd

import (
	"encoding/json"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/techagentng/oceanwatch/geo"
	"github.com/techagentng/oceanwatch/models"
)

var (
	filterFlags struct {
		hazardType string
		severity   string
		status     string
		dateRange  string
		region     string
		proximity  bool
		centerLat  float64
		centerLng  float64
		radiusKm   float64
		userLat    float64
		userLng    float64
	}

	summaryCmd = &cobra.Command{
		Use:   "summary",
		Short: "Generate synthetic reports and print their analytics as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := seededService(seedReports, seedRandom, timezone, time.Now())
			if err != nil {
				return err
			}
			summary, err := svc.Analytics()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), summary)
		},
	}

	filterCmd = &cobra.Command{
		Use:   "filter",
		Short: "Generate synthetic reports and print the ones matching the flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := seededService(seedReports, seedRandom, timezone, time.Now())
			if err != nil {
				return err
			}
			spec, user := filterSpecFromFlags(cmd)
			reports, err := svc.Filter(cmd.Context(), spec, geo.StaticLocationProvider{Point: user})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), reports)
		},
	}
)

func init() {
	f := filterCmd.Flags()
	f.StringVar(&filterFlags.hazardType, "type", models.All, "hazard type")
	f.StringVar(&filterFlags.severity, "severity", models.All, "severity")
	f.StringVar(&filterFlags.status, "status", models.All, "status")
	f.StringVar(&filterFlags.dateRange, "date-range", string(models.DateRange30d), "1h, 24h, 7d, 30d or 90d")
	f.StringVar(&filterFlags.region, "region", models.All, "case-insensitive location name substring")
	f.BoolVar(&filterFlags.proximity, "proximity", false, "only reports within --radius of the center")
	f.Float64Var(&filterFlags.centerLat, "center-lat", 0, "proximity center latitude")
	f.Float64Var(&filterFlags.centerLng, "center-lng", 0, "proximity center longitude")
	f.Float64Var(&filterFlags.radiusKm, "radius", 50, "proximity radius in km")
	f.Float64Var(&filterFlags.userLat, "user-lat", 0, "user latitude")
	f.Float64Var(&filterFlags.userLng, "user-lng", 0, "user longitude")
}

func filterSpecFromFlags(cmd *cobra.Command) (models.FilterSpec, *models.Point) {
	spec := models.DefaultFilterSpec()
	spec.Type = filterFlags.hazardType
	spec.Severity = filterFlags.severity
	spec.Status = filterFlags.status
	spec.DateRange = models.DateRange(filterFlags.dateRange)
	spec.Region = filterFlags.region
	spec.Proximity.Enabled = filterFlags.proximity
	spec.Proximity.RadiusKm = filterFlags.radiusKm

	flags := cmd.Flags()
	var user *models.Point
	if flags.Changed("user-lat") && flags.Changed("user-lng") {
		user = &models.Point{Lat: filterFlags.userLat, Lng: filterFlags.userLng}
	}
	if flags.Changed("center-lat") && flags.Changed("center-lng") {
		spec.Proximity.Center = &models.Point{Lat: filterFlags.centerLat, Lng: filterFlags.centerLng}
	} else {
		spec.Proximity.Center = user
	}
	return spec, user
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
