package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug                    bool          `envconfig:"debug"`
	Port                     int           `envconfig:"port" default:"8080"`
	Env                      string        `envconfig:"env" default:"dev"`
	Store                    string        `envconfig:"store" default:"memory"`
	PostgresHost             string        `envconfig:"postgres_host"`
	PostgresPort             int           `envconfig:"postgres_port" default:"5432"`
	PostgresUser             string        `envconfig:"postgres_user"`
	PostgresPassword         string        `envconfig:"postgres_password"`
	PostgresDB               string        `envconfig:"postgres_db"`
	PostgresSSLMode          string        `envconfig:"postgres_sslmode" default:"disable"`
	Timezone                 string        `envconfig:"timezone" default:"Asia/Kolkata"`
	JWTSecret                string        `envconfig:"jwt_secret"`
	SessionTTL               time.Duration `envconfig:"session_ttl" default:"12h"`
	RequireSession           bool          `envconfig:"require_session" default:"true"`
	RefreshInterval          time.Duration `envconfig:"refresh_interval" default:"30s"`
	TrendDays                int           `envconfig:"trend_days" default:"30"`
	SeedReports              int           `envconfig:"seed_reports" default:"50"`
	SeedRandom               int64         `envconfig:"seed_random" default:"1"`
	DefaultUserLocation      string        `envconfig:"default_user_location"`
	RateLimitPerMinute       uint          `envconfig:"rate_limit_per_minute" default:"120"`
	AccessControlAllowOrigin string        `envconfig:"access_control_allow_origin" default:"*"`
	S3Bucket                 string        `envconfig:"s3_bucket"`
	S3Region                 string        `envconfig:"s3_region" default:"ap-south-1"`
	S3Prefix                 string        `envconfig:"s3_prefix" default:"analytics"`
	AWSAccessKeyID           string        `envconfig:"aws_access_key_id"`
	AWSSecretAccessKey       string        `envconfig:"aws_secret_access_key"`
}

// Location resolves Timezone, falling back to UTC when the zone is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("unknown timezone %q, using UTC: %v", c.Timezone, err)
		return time.UTC
	}
	return loc
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("oceanwatch", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
