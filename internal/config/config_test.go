package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/picset/blobstore"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
format = "json"

[storage]
backend = "minio"
endpoint = "localhost:9000"
bucket = "photos"
prefix = "inbox"
access_key = "ak"
secret_key = "sk"
insecure = true

[limits]
workers = 8
io_bytes_per_sec = 1048576

[log]
level = "debug"
format = "json"
`))
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, Storage{
		Backend:   BackendMinio,
		Endpoint:  "localhost:9000",
		Bucket:    "photos",
		Prefix:    "inbox",
		AccessKey: "ak",
		SecretKey: "sk",
		Insecure:  true,
	}, cfg.Storage)
	assert.Equal(t, 8, cfg.Limits.Workers)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	rc := cfg.Controller()
	assert.Equal(t, 8, rc.Workers())
	assert.Equal(t, int64(1<<20), rc.Config().IOLimitBytesPerSec)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown backend", "[storage]\nbackend = \"ftp\""},
		{"s3 without bucket", "[storage]\nbackend = \"s3\""},
		{"minio without endpoint", "[storage]\nbackend = \"minio\"\nbucket = \"b\""},
		{"negative workers", "[limits]\nworkers = -1"},
		{"bad level", "[log]\nlevel = \"loud\""},
		{"bad log format", "[log]\nformat = \"xml\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := Parse([]byte("not = [toml"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage]\nroot = \""+filepath.ToSlash(dir)+"\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendLocal, cfg.Storage.Backend)
	assert.Equal(t, filepath.ToSlash(dir), cfg.Storage.Root)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err, "explicit paths must exist")
}

func TestLoad_DefaultWhenAbsent(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvAccessKey, "from-env")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendLocal, cfg.Storage.Backend)
	assert.Equal(t, "from-env", cfg.Storage.AccessKey)
	assert.Equal(t, 4, cfg.Limits.Workers)
}

func TestOpenStore_Local(t *testing.T) {
	ctx := context.Background()
	cfg := Default()
	cfg.Storage.Root = t.TempDir()

	store, err := cfg.OpenStore(ctx, nil)
	require.NoError(t, err)
	require.IsType(t, &blobstore.CompressedStore{}, store)

	require.NoError(t, store.Put(ctx, "a.txt.zst", []byte("hello")))
	b, err := store.Open(ctx, "a.txt.zst")
	require.NoError(t, err)
	defer b.Close()
	data, err := blobstore.ReadAll(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestOpenStore_Cached(t *testing.T) {
	ctx := context.Background()
	cfg := Default()
	cfg.Storage.Root = t.TempDir()
	cfg.Limits.CacheBytes = 1 << 20
	rc := cfg.Controller()

	store, err := cfg.OpenStore(ctx, rc)
	require.NoError(t, err)
	require.IsType(t, &blobstore.CachingStore{}, store)

	require.NoError(t, store.Put(ctx, "a.lz4", []byte("hello")))
	b, err := store.Open(ctx, "a.lz4")
	require.NoError(t, err)
	require.NoError(t, b.Close())
	assert.Equal(t, int64(5), rc.MemoryUsage(), "cached decompressed bytes are accounted")
}

func TestOpenStore_Remote(t *testing.T) {
	ctx := context.Background()

	// Building clients does not contact the endpoint.
	for _, st := range []Storage{
		{Backend: BackendMinio, Endpoint: "localhost:9000", Bucket: "b", AccessKey: "ak", SecretKey: "sk", Insecure: true},
		{Backend: BackendS3, Endpoint: "http://localhost:9000", Region: "us-east-1", Bucket: "b", AccessKey: "ak", SecretKey: "sk"},
	} {
		cfg := Default()
		cfg.Storage = st
		require.NoError(t, cfg.Validate())

		store, err := cfg.OpenStore(ctx, nil)
		require.NoError(t, err, st.Backend)
		assert.NotNil(t, store)
	}
}
