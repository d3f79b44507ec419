// Package config loads the server configuration: built-in defaults, then an
// optional YAML file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"pipelinetracker/internal/blob"
)

// Environment variables recognised by Load.
const (
	EnvDatabaseURL    = "DATABASE_URL"
	EnvListen         = "PIPELINE_LISTEN"
	EnvPublicBaseURL  = "PIPELINE_PUBLIC_BASE_URL"
	EnvLogLevel       = "PIPELINE_LOG_LEVEL"
	EnvCORSOrigins    = "PIPELINE_CORS_ORIGINS"
	EnvStrictActorIDs = "PIPELINE_STRICT_ACTOR_IDS"
	EnvTraceSpans     = "PIPELINE_TRACE_SPANS"
	EnvBlobDriver     = "PIPELINE_BLOB_DRIVER"
	EnvUploadDir      = "PIPELINE_UPLOAD_DIR"
	EnvS3Bucket       = "PIPELINE_BLOB_S3_BUCKET"
	EnvS3Region       = "PIPELINE_BLOB_S3_REGION"
	EnvS3Endpoint     = "PIPELINE_BLOB_S3_ENDPOINT"
	EnvS3PathStyle    = "PIPELINE_BLOB_S3_PATH_STYLE"
	EnvOrphanFileAge  = "PIPELINE_ORPHAN_FILE_AGE"
)

// ErrMissingDatabaseURL is returned by Validate when no database is configured.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

// Config is the complete server configuration. OrphanFileAge is the minimum
// age of an unreferenced upload removed at startup; zero disables the sweep.
type Config struct {
	Listen         string        `yaml:"listen"`
	DatabaseURL    string        `yaml:"databaseUrl"`
	PublicBaseURL  string        `yaml:"publicBaseUrl"`
	LogLevel       string        `yaml:"logLevel"`
	CORSOrigins    []string      `yaml:"corsOrigins"`
	StrictActorIDs bool          `yaml:"strictActorIds"`
	TraceSpans     bool          `yaml:"traceSpans"`
	PresignExpiry  time.Duration `yaml:"presignExpiry"`
	OrphanFileAge  time.Duration `yaml:"orphanFileAge"`
	Blob           blob.Config   `yaml:"blob"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Listen:        ":8000",
		LogLevel:      "info",
		CORSOrigins:   []string{"*"},
		PresignExpiry: 15 * time.Minute,
		OrphanFileAge: time.Hour,
		Blob: blob.Config{
			Driver: blob.DriverFilesystem,
			Root:   "uploads",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment read through getenv. The result is
// not validated.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	setBool := func(dst *bool, key string) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
		return nil
	}

	setString(&c.DatabaseURL, EnvDatabaseURL)
	setString(&c.Listen, EnvListen)
	setString(&c.PublicBaseURL, EnvPublicBaseURL)
	setString(&c.LogLevel, EnvLogLevel)
	if v := strings.TrimSpace(getenv(EnvCORSOrigins)); v != "" {
		c.CORSOrigins = splitList(v)
	}
	if err := setBool(&c.StrictActorIDs, EnvStrictActorIDs); err != nil {
		return err
	}
	if err := setBool(&c.TraceSpans, EnvTraceSpans); err != nil {
		return err
	}
	if v := strings.TrimSpace(getenv(EnvOrphanFileAge)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvOrphanFileAge, err)
		}
		c.OrphanFileAge = d
	}
	var driver string
	setString(&driver, EnvBlobDriver)
	if driver != "" {
		c.Blob.Driver = blob.Driver(strings.ToLower(driver))
	}
	setString(&c.Blob.Root, EnvUploadDir)
	setString(&c.Blob.S3.Bucket, EnvS3Bucket)
	setString(&c.Blob.S3.Region, EnvS3Region)
	setString(&c.Blob.S3.Endpoint, EnvS3Endpoint)
	return setBool(&c.Blob.S3.PathStyle, EnvS3PathStyle)
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return ErrMissingDatabaseURL
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error", "off":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.PublicBaseURL != "" {
		u, err := url.Parse(c.PublicBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("publicBaseUrl %q must be an absolute URL", c.PublicBaseURL)
		}
	}
	switch c.Blob.Driver {
	case "", blob.DriverFilesystem, blob.DriverMemory:
	case blob.DriverS3:
		if c.Blob.S3.Bucket == "" {
			return fmt.Errorf("blob driver s3 requires a bucket (%s)", EnvS3Bucket)
		}
	default:
		return fmt.Errorf("unknown blob driver %q", c.Blob.Driver)
	}
	if c.PresignExpiry < 0 {
		return fmt.Errorf("presignExpiry must not be negative")
	}
	if c.OrphanFileAge < 0 {
		return fmt.Errorf("orphanFileAge must not be negative")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
