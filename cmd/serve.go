package cmd

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/techagentng/oceanwatch/archive"
	"github.com/techagentng/oceanwatch/config"
	"github.com/techagentng/oceanwatch/geo"
	"github.com/techagentng/oceanwatch/seed"
	"github.com/techagentng/oceanwatch/server"
	"github.com/techagentng/oceanwatch/services"
	"github.com/techagentng/oceanwatch/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.Load()
		if err != nil {
			return err
		}
		s, err := buildServer(cmd.Context(), conf)
		if err != nil {
			return err
		}
		s.Start()
		return nil
	},
}

func buildServer(ctx context.Context, conf *config.Config) (*server.Server, error) {
	repo, err := newRepository(conf)
	if err != nil {
		return nil, err
	}

	count, err := repo.Count()
	if err != nil {
		return nil, err
	}
	if count == 0 && conf.SeedReports > 0 {
		catalog, err := seed.DefaultCatalog()
		if err != nil {
			return nil, err
		}
		reports := seed.Generate(conf.SeedReports, rand.New(rand.NewSource(conf.SeedRandom)), time.Now(), catalog)
		if err := seed.Load(repo, reports); err != nil {
			return nil, err
		}
		log.Printf("seeded %d reports", len(reports))
	}

	reportService := services.NewReportService(repo, conf)

	var sinks []services.SummarySink
	sink, err := archive.NewS3SinkFromConfig(ctx, conf)
	if err != nil {
		return nil, err
	}
	if sink != nil {
		sinks = append(sinks, sink)
		log.Printf("archiving analytics to s3://%s/%s", conf.S3Bucket, conf.S3Prefix)
	}

	secret := conf.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Println("jwt secret not configured, sessions will not survive a restart")
	}

	s := &server.Server{
		Config:        conf,
		ReportService: reportService,
		Refresher:     services.NewRefresher(reportService, conf.RefreshInterval, sinks...),
		Sessions:      session.NewJWTStore(secret, conf.SessionTTL),
	}
	if conf.DefaultUserLocation != "" {
		pt, err := geo.ParsePoint(conf.DefaultUserLocation)
		if err != nil {
			return nil, fmt.Errorf("default user location: %w", err)
		}
		s.Locations = geo.StaticLocationProvider{Point: pt}
	}
	return s, nil
}
