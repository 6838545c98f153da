// Package config loads sprintpulse configuration.
//
// Configuration comes from one optional YAML file, located by the --config
// flag or the SPRINTPULSE_CONFIG environment variable, layered over built-in
// defaults. SPRINTPULSE_* environment variables override individual values
// after the file is read. Paths may reference ${HOME} and other environment
// variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"sprintpulse/internal/blob"
)

// EnvConfig names the environment variable holding the config file path.
const EnvConfig = "SPRINTPULSE_CONFIG"

// Environment overrides.
const (
	EnvStorageDriver   = "SPRINTPULSE_STORAGE_DRIVER"
	EnvSQLitePath      = "SPRINTPULSE_SQLITE_PATH"
	EnvPostgresDSN     = "SPRINTPULSE_POSTGRES_DSN"
	EnvBlobDriver      = "SPRINTPULSE_BLOB_DRIVER"
	EnvBlobFSRoot      = "SPRINTPULSE_BLOB_FS_ROOT"
	EnvBlobS3Bucket    = "SPRINTPULSE_BLOB_S3_BUCKET"
	EnvBlobS3Region    = "SPRINTPULSE_BLOB_S3_REGION"
	EnvBlobS3Endpoint  = "SPRINTPULSE_BLOB_S3_ENDPOINT"
	EnvBlobS3PathStyle = "SPRINTPULSE_BLOB_S3_PATH_STYLE"
	EnvExportDir       = "SPRINTPULSE_EXPORT_DIR"
	EnvLogLevel        = "SPRINTPULSE_LOG_LEVEL"
)

// StorageDriver selects the backend holding the state document.
type StorageDriver string

// Supported storage drivers.
const (
	StorageMemory   StorageDriver = "memory"
	StorageSQLite   StorageDriver = "sqlite"
	StoragePostgres StorageDriver = "postgres"
	StorageBlob     StorageDriver = "blob"
)

// Config is the full sprintpulse configuration.
type Config struct {
	Storage       Storage       `yaml:"storage"`
	Export        Blob          `yaml:"export"`
	Logging       Logging       `yaml:"logging"`
	Observability Observability `yaml:"observability"`
}

// Storage configures where the state document lives.
type Storage struct {
	Driver   StorageDriver `yaml:"driver"`
	SQLite   SQLite        `yaml:"sqlite"`
	Postgres Postgres      `yaml:"postgres"`
	// Blob is used when Driver is blob.
	Blob Blob `yaml:"blob"`
}

// SQLite configures the embedded database backend.
type SQLite struct {
	Path string `yaml:"path"`
}

// Postgres configures the PostgreSQL backend.
type Postgres struct {
	DSN string `yaml:"dsn"`
}

// Blob configures an object store.
type Blob struct {
	Driver blob.Driver `yaml:"driver"`
	// Prefix is prepended to state keys when the section backs storage.
	Prefix string `yaml:"prefix"`
	FS     FS     `yaml:"fs"`
	S3     S3     `yaml:"s3"`
}

// FS configures the filesystem blob driver.
type FS struct {
	Root string `yaml:"root"`
}

// S3 configures the S3-compatible blob driver. Empty credentials fall back to
// the default AWS credential chain.
type S3 struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
}

// Logging configures the process logger.
type Logging struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is json or console.
	Format string `yaml:"format"`
}

// Observability configures operation metrics and traces.
type Observability struct {
	// Metrics selects the recorder: none, expvar or prometheus.
	Metrics string `yaml:"metrics"`
	// Textfile is where metrics are written when the process exits.
	Textfile string `yaml:"textfile"`
	// Trace writes one JSON line per store operation to stderr.
	Trace bool `yaml:"trace"`
}

// DataDir is the default directory for local data.
func DataDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "sprintpulse")
	}
	return ".sprintpulse"
}

// Default returns the configuration used when no file is present.
func Default() Config {
	dir := DataDir()
	return Config{
		Storage: Storage{
			Driver: StorageSQLite,
			SQLite: SQLite{Path: filepath.Join(dir, "sprintpulse.db")},
			Blob: Blob{
				Driver: blob.DriverFilesystem,
				FS:     FS{Root: filepath.Join(dir, "blobs")},
			},
		},
		Export: Blob{
			Driver: blob.DriverFilesystem,
			FS:     FS{Root: filepath.Join(dir, "exports")},
		},
		Logging:       Logging{Level: "warn", Format: "console"},
		Observability: Observability{Metrics: "none"},
	}
}

// Load reads the file at path, or the file named by SPRINTPULSE_CONFIG when
// path is empty, applies environment overrides and validates the result.
// With neither set the defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	cfg.expandPaths()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	set := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	var driver, blobDriver string
	set(EnvStorageDriver, &driver)
	if driver != "" {
		c.Storage.Driver = StorageDriver(strings.ToLower(driver))
	}
	set(EnvSQLitePath, &c.Storage.SQLite.Path)
	set(EnvPostgresDSN, &c.Storage.Postgres.DSN)
	set(EnvBlobDriver, &blobDriver)
	if blobDriver != "" {
		c.Storage.Blob.Driver = blob.Driver(strings.ToLower(blobDriver))
	}
	set(EnvBlobFSRoot, &c.Storage.Blob.FS.Root)
	set(EnvBlobS3Bucket, &c.Storage.Blob.S3.Bucket)
	set(EnvBlobS3Region, &c.Storage.Blob.S3.Region)
	set(EnvBlobS3Endpoint, &c.Storage.Blob.S3.Endpoint)
	if v, ok := lookup(EnvBlobS3PathStyle); ok && v != "" {
		pathStyle, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBlobS3PathStyle, err)
		}
		c.Storage.Blob.S3.PathStyle = pathStyle
	}
	if v, ok := lookup(EnvExportDir); ok && v != "" {
		c.Export.Driver = blob.DriverFilesystem
		c.Export.FS.Root = v
	}
	set(EnvLogLevel, &c.Logging.Level)
	return nil
}

func (c *Config) expandPaths() {
	c.Storage.SQLite.Path = os.ExpandEnv(c.Storage.SQLite.Path)
	c.Storage.Blob.FS.Root = os.ExpandEnv(c.Storage.Blob.FS.Root)
	c.Export.FS.Root = os.ExpandEnv(c.Export.FS.Root)
	c.Observability.Textfile = os.ExpandEnv(c.Observability.Textfile)
}

// Validate checks driver names and the settings each driver requires.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case StorageMemory, StorageSQLite, StoragePostgres:
	case StorageBlob:
		if err := c.Storage.Blob.validate("storage.blob"); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be one of memory, sqlite, postgres, blob: got %q", c.Storage.Driver))
	}
	if err := c.Export.validate("export"); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of debug, info, warn, error: got %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console: got %q", c.Logging.Format))
	}
	switch c.Observability.Metrics {
	case "", "none", "expvar", "prometheus":
	default:
		errs = append(errs, fmt.Errorf("observability.metrics must be one of none, expvar, prometheus: got %q", c.Observability.Metrics))
	}
	return errors.Join(errs...)
}

func (b Blob) validate(section string) error {
	switch b.Driver {
	case "", blob.DriverFilesystem:
		if b.FS.Root == "" {
			return fmt.Errorf("%s.fs.root is required", section)
		}
	case blob.DriverS3:
		if b.S3.Bucket == "" {
			return fmt.Errorf("%s.s3.bucket is required", section)
		}
	case blob.DriverMemory:
	default:
		return fmt.Errorf("%s.driver must be one of fs, s3, memory: got %q", section, b.Driver)
	}
	return nil
}

// BlobConfig converts the section into the blob factory configuration.
func (b Blob) BlobConfig() blob.Config {
	return blob.Config{
		Driver: b.Driver,
		FSRoot: b.FS.Root,
		S3: blob.S3Config{
			Region:          b.S3.Region,
			Bucket:          b.S3.Bucket,
			Endpoint:        b.S3.Endpoint,
			AccessKeyID:     b.S3.AccessKeyID,
			SecretAccessKey: b.S3.SecretAccessKey,
			SessionToken:    b.S3.SessionToken,
			PathStyle:       b.S3.PathStyle,
		},
	}
}
