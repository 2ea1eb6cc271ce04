// Package config loads the picset command configuration from picset.toml
// and turns it into a blob store and a resource controller.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pelletier/go-toml/v2"

	"github.com/hupe1980/picset/blobstore"
	miniostore "github.com/hupe1980/picset/blobstore/minio"
	s3store "github.com/hupe1980/picset/blobstore/s3"
	"github.com/hupe1980/picset/internal/cache"
	"github.com/hupe1980/picset/resource"
)

const (
	// ConfigFile is looked up in the working directory when no path is given.
	ConfigFile = "picset.toml"

	BackendLocal = "local"
	BackendS3    = "s3"
	BackendMinio = "minio"
)

// Environment variables consulted for credentials left out of the file.
const (
	EnvAccessKey = "PICSET_ACCESS_KEY"
	EnvSecretKey = "PICSET_SECRET_KEY"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config represents the picset configuration
type Config struct {
	Storage Storage `toml:"storage"`
	Limits  Limits  `toml:"limits"`
	Log     Log     `toml:"log"`
	Format  string  `toml:"format"` // text, json, go-json or toml
}

// Storage selects where images are read from and written to.
type Storage struct {
	Backend   string `toml:"backend"`
	Root      string `toml:"root"` // local backend only
	Bucket    string `toml:"bucket"`
	Prefix    string `toml:"prefix"`
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Insecure  bool   `toml:"insecure"` // plain HTTP for minio
}

// Limits bounds batch ingestion.
type Limits struct {
	Workers       int   `toml:"workers"`
	IOBytesPerSec int64 `toml:"io_bytes_per_sec"`
	MemoryBytes   int64 `toml:"memory_bytes"`
	MaxPhotos     int   `toml:"max_photos"`
	CacheBytes    int64 `toml:"cache_bytes"` // 0 disables the read cache
}

// Log configures the structured logger.
type Log struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text or json
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Storage: Storage{Backend: BackendLocal},
		Limits:  Limits{Workers: 4},
		Log:     Log{Level: "warn", Format: "text"},
		Format:  "text",
	}
}

// Load reads path, or ConfigFile from the working directory when path is
// empty. A missing ConfigFile is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = ConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if c.Storage.AccessKey == "" {
		c.Storage.AccessKey = os.Getenv(EnvAccessKey)
	}
	if c.Storage.SecretKey == "" {
		c.Storage.SecretKey = os.Getenv(EnvSecretKey)
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendLocal:
	case BackendS3, BackendMinio:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("%w: storage.bucket is required for %s", ErrInvalid, c.Storage.Backend)
		}
		if c.Storage.Backend == BackendMinio && c.Storage.Endpoint == "" {
			return fmt.Errorf("%w: storage.endpoint is required for minio", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown storage.backend %q", ErrInvalid, c.Storage.Backend)
	}
	if c.Limits.Workers < 0 || c.Limits.IOBytesPerSec < 0 || c.Limits.MemoryBytes < 0 || c.Limits.MaxPhotos < 0 || c.Limits.CacheBytes < 0 {
		return fmt.Errorf("%w: limits must not be negative", ErrInvalid)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if f := c.Log.Format; f != "text" && f != "json" {
		return fmt.Errorf("%w: log.format %q", ErrInvalid, f)
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	return level, nil
}

// Controller builds the resource controller for Limits.
func (c *Config) Controller() *resource.Controller {
	return resource.NewController(resource.Config{
		MaxWorkers:         int64(c.Limits.Workers),
		IOLimitBytesPerSec: c.Limits.IOBytesPerSec,
		MemoryLimitBytes:   c.Limits.MemoryBytes,
	})
}

// OpenStore builds the configured backend. Every backend is wrapped in a
// blobstore.CompressedStore, so .zst and .lz4 names work everywhere, and
// in a blobstore.CachingStore of decompressed bytes when Limits.CacheBytes
// is set. rc, if non-nil, accounts the cached bytes.
func (c *Config) OpenStore(ctx context.Context, rc *resource.Controller) (blobstore.BlobStore, error) {
	var inner blobstore.BlobStore
	st := c.Storage

	switch st.Backend {
	case BackendLocal:
		inner = blobstore.NewLocalStore(st.Root)

	case BackendS3:
		var opts []func(*awsconfig.LoadOptions) error
		if st.Region != "" {
			opts = append(opts, awsconfig.WithRegion(st.Region))
		}
		if st.AccessKey != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				awscreds.NewStaticCredentialsProvider(st.AccessKey, st.SecretKey, ""),
			))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if st.Endpoint != "" {
				o.BaseEndpoint = aws.String(st.Endpoint)
				o.UsePathStyle = true
			}
		})
		inner = s3store.NewStore(client, st.Bucket, st.Prefix)

	case BackendMinio:
		client, err := minio.New(st.Endpoint, &minio.Options{
			Creds:  miniocreds.NewStaticV4(st.AccessKey, st.SecretKey, ""),
			Secure: !st.Insecure,
			Region: st.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		inner = miniostore.NewStore(client, st.Bucket, st.Prefix)

	default:
		return nil, fmt.Errorf("%w: unknown storage.backend %q", ErrInvalid, st.Backend)
	}

	var store blobstore.BlobStore = blobstore.NewCompressedStore(inner)
	if c.Limits.CacheBytes > 0 {
		store = blobstore.NewCachingStore(store, cache.NewLRU(c.Limits.CacheBytes, rc))
	}
	return store, nil
}
