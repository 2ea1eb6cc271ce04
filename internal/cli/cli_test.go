package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/picset/ahash"
	"github.com/hupe1980/picset/blobstore"
	"github.com/hupe1980/picset/imageio"
	"github.com/hupe1980/picset/testutil"
)

// workspace is a directory of images plus a picset.toml rooted at it.
type workspace struct {
	dir    string
	config string
	store  blobstore.BlobStore
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "picset.toml")
	data := "[storage]\nbackend = \"local\"\nroot = " + quote(dir) + "\n\n[log]\nlevel = \"error\"\n"
	require.NoError(t, os.WriteFile(cfg, []byte(data), 0o644))
	return &workspace{
		dir:    dir,
		config: cfg,
		store:  blobstore.NewCompressedStore(blobstore.NewLocalStore(dir)),
	}
}

func quote(s string) string {
	b, _ := json.Marshal(filepath.ToSlash(s))
	return string(b)
}

func (w *workspace) put(t *testing.T, seed int64, name string) {
	t.Helper()
	p := testutil.RandomPhoto[Sample](testutil.NewRNG(seed), name, 64, 64)
	require.NoError(t, imageio.NewWriter[Sample](w.store).Write(context.Background(), p, name))
}

func (w *workspace) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", w.config}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAdd_Text(t *testing.T) {
	w := newWorkspace(t)
	w.put(t, 1, "xmas.ppm")
	w.put(t, 2, "winnie.ppm.zst")

	out, err := w.run(t, "add", "xmas.ppm", "winnie.ppm.zst", "xmas.ppm")
	require.NoError(t, err)
	assert.Contains(t, out, "added      #0    xmas.ppm")
	assert.Contains(t, out, "added      #1    winnie.ppm.zst")
	assert.Contains(t, out, "duplicate  #0    xmas.ppm")
	assert.Contains(t, out, "2 photo(s) in 2 bucket(s), 0 collision(s)")
}

func TestAdd_JSONReportsFailures(t *testing.T) {
	w := newWorkspace(t)
	w.put(t, 1, "a.ppm")

	out, err := w.run(t, "--format", "json", "--workers", "2", "add", "a.ppm", "missing.ppm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 image(s) failed")

	var report addReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Items, 2)
	assert.Equal(t, "added", report.Items[0].Outcome)
	assert.Equal(t, "failed", report.Items[1].Outcome)
	assert.NotEmpty(t, report.Items[1].Error)
	assert.Equal(t, 1, report.Photos)
	assert.Equal(t, 1, report.Failed)
}

func TestHash(t *testing.T) {
	w := newWorkspace(t)
	w.put(t, 7, "a.ppm")
	w.put(t, 7, "b.ppm.lz4")

	out, err := w.run(t, "--format", "toml", "hash", "a.ppm", "b.ppm.lz4")
	require.NoError(t, err)
	assert.Contains(t, out, "[[images]]")

	p := testutil.RandomPhoto[Sample](testutil.NewRNG(7), "a.ppm", 64, 64)
	d, err := ahash.Default[Sample]().Digest(p)
	require.NoError(t, err)

	out, err = w.run(t, "--format", "go-json", "hash", "a.ppm", "b.ppm.lz4")
	require.NoError(t, err)
	var reports hashReports
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports.Images, 2)
	for _, r := range reports.Images {
		assert.Len(t, r.Digest, 16)
		assert.Len(t, r.Tag, 2*tagLen)
		assert.Equal(t, 64, r.Width)
	}
	assert.Equal(t, reports.Images[0].Digest, reports.Images[1].Digest)
	assert.Equal(t, reports.Images[0].Tag, reports.Images[1].Tag, "same decoded bytes")
	assert.Equal(t, fmt.Sprintf("%016x", d), reports.Images[0].Digest)
}

func TestExport(t *testing.T) {
	w := newWorkspace(t)
	w.put(t, 1, "a.ppm")
	w.put(t, 2, "b.ppm")

	out, err := w.run(t, "export", "1", "out/second.ppm.zst", "a.ppm", "a.ppm", "b.ppm")
	require.NoError(t, err)
	assert.Contains(t, out, "saved #1 b.ppm -> out/second.ppm.zst")

	ctx := context.Background()
	loader := imageio.NewLoader[Sample](w.store)
	got, err := loader.Load(ctx, "out/second.ppm.zst")
	require.NoError(t, err)
	want, err := loader.Load(ctx, "b.ppm")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	_, err = w.run(t, "export", "5", "out/none.ppm", "a.ppm")
	require.Error(t, err)
	_, err = w.run(t, "export", "x", "out/none.ppm", "a.ppm")
	require.Error(t, err)
}

func TestUnknownFormat(t *testing.T) {
	w := newWorkspace(t)
	w.put(t, 1, "a.ppm")

	_, err := w.run(t, "--format", "yaml", "add", "a.ppm")
	require.Error(t, err)
}
