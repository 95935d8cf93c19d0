// Package config loads the settings of a flat file client from a YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alpacahq/alpaca-flatfiles-go/flatfiles"
	"github.com/alpacahq/alpaca-flatfiles-go/objstore"
	"github.com/alpacahq/alpaca-flatfiles-go/sigv4"
)

const (
	EnvTimeout     = "FLATFILES_TIMEOUT"
	EnvConcurrency = "FLATFILES_CONCURRENCY"
	EnvDownloadDir = "FLATFILES_DOWNLOAD_DIR"
	EnvLogLevel    = "FLATFILES_LOG_LEVEL"
)

// Config holds the client configuration.
//
// YAML example:
//
//	endpoint: https://files.polygon.io
//	bucket: flatfiles
//	access_key_id: ${FLATFILES_ACCESS_KEY_ID}
//	secret_access_key: ${FLATFILES_SECRET_ACCESS_KEY}
//	timeout: 10m
//	concurrency: 4
//	download_dir: ./data
//
// Every field can be overridden with the FLATFILES_* variable of the same
// name, e.g. FLATFILES_BUCKET.
type Config struct {
	Endpoint        string        `yaml:"endpoint"`
	Bucket          string        `yaml:"bucket"`
	Region          string        `yaml:"region"`
	AccessKeyID     string        `yaml:"access_key_id"`
	SecretAccessKey string        `yaml:"secret_access_key"`
	Timeout         time.Duration `yaml:"timeout"`
	Concurrency     int           `yaml:"concurrency"`
	DownloadDir     string        `yaml:"download_dir"`
	LogLevel        string        `yaml:"log_level"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Endpoint:    objstore.DefaultEndpoint,
		Bucket:      objstore.DefaultBucket,
		Region:      sigv4.DefaultRegion,
		Concurrency: 4,
		DownloadDir: "data",
		LogLevel:    "info",
	}
}

// Load reads the YAML file at path, expanding ${VAR} references, on top of
// Default. The environment overrides the file. An empty path loads only
// the defaults and the environment. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	for env, dst := range map[string]*string{
		objstore.EnvEndpoint:     &c.Endpoint,
		objstore.EnvBucket:       &c.Bucket,
		objstore.EnvRegion:       &c.Region,
		sigv4.EnvAccessKeyID:     &c.AccessKeyID,
		sigv4.EnvSecretAccessKey: &c.SecretAccessKey,
		EnvDownloadDir:           &c.DownloadDir,
		EnvLogLevel:              &c.LogLevel,
	} {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*dst = v
		}
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v := os.Getenv(EnvConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvConcurrency, err)
		}
		c.Concurrency = n
	}
	return nil
}

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("endpoint must be an absolute URL, got %q", c.Endpoint)
	}
	if c.Bucket == "" {
		return errors.New("bucket is required")
	}
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return errors.New("access_key_id and secret_access_key must be set together")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %s", c.Timeout)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1, got %d", c.Concurrency)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns LogLevel as a slog.Level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// Credentials returns the configured key pair.
func (c *Config) Credentials() sigv4.Credentials {
	return sigv4.Credentials{
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
	}
}

// ClientOpts returns the options for an object store client. logger and
// metrics may be nil.
func (c *Config) ClientOpts(logger *slog.Logger, metrics *objstore.Metrics) objstore.ClientOpts {
	return objstore.ClientOpts{
		Endpoint:    c.Endpoint,
		Bucket:      c.Bucket,
		Region:      c.Region,
		Credentials: c.Credentials(),
		Timeout:     c.Timeout,
		Logger:      logger,
		Metrics:     metrics,
	}
}

// FlatFilesOpts returns the options for a flat file client backed by an
// object store client built from ClientOpts.
func (c *Config) FlatFilesOpts(logger *slog.Logger, metrics *objstore.Metrics) flatfiles.ClientOpts {
	return flatfiles.ClientOpts{
		Store:       objstore.NewClient(c.ClientOpts(logger, metrics)),
		Logger:      logger,
		Concurrency: c.Concurrency,
		DownloadDir: c.DownloadDir,
	}
}

// LogValue keeps the secret out of logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("endpoint", c.Endpoint),
		slog.String("bucket", c.Bucket),
		slog.String("region", c.Region),
		slog.Any("credentials", c.Credentials()),
		slog.Duration("timeout", c.Timeout),
		slog.Int("concurrency", c.Concurrency),
		slog.String("download_dir", c.DownloadDir),
	)
}
