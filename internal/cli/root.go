// Package cli implements the command-line interface for picset.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/picset"
	"github.com/hupe1980/picset/blobstore"
	"github.com/hupe1980/picset/codec"
	"github.com/hupe1980/picset/imageio"
	"github.com/hupe1980/picset/internal/config"
	"github.com/hupe1980/picset/resource"
)

// Sample is the sample type the command works in. 16 bits hold every P6 raster.
type Sample = uint16

// rootFlags holds the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	format     string
	workers    int
}

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config *config.Config
	Store  blobstore.BlobStore
	RC     *resource.Controller
	Set    *picset.Collection[Sample]
	Codec  codec.Codec // nil for colored text output
	Out    io.Writer
}

// initContext loads the config, applies flag overrides and opens the store.
func initContext(cmd *cobra.Command, flags *rootFlags) (*cmdContext, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = flags.format
	}
	if cmd.Flags().Changed("workers") {
		cfg.Limits.Workers = flags.workers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var c codec.Codec
	if cfg.Format != "text" {
		var ok bool
		if c, ok = codec.ByName(cfg.Format); !ok {
			return nil, fmt.Errorf("unknown format %q", cfg.Format)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rc := cfg.Controller()
	store, err := cfg.OpenStore(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	logger := picset.NewTextLogger(level)
	if cfg.Log.Format == "json" {
		logger = picset.NewJSONLogger(level)
	}

	set, err := picset.New[Sample](
		picset.WithLoader[Sample](imageio.NewLoader[Sample](store, imageio.WithThrottle(rc))),
		picset.WithWriter[Sample](imageio.NewWriter[Sample](store)),
		picset.WithResourceController(rc),
		picset.WithMaxPhotos(cfg.Limits.MaxPhotos),
		picset.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &cmdContext{
		Config: cfg,
		Store:  store,
		RC:     rc,
		Set:    set,
		Codec:  c,
		Out:    cmd.OutOrStdout(),
	}, nil
}

// emit writes v with the selected codec.
func (c *cmdContext) emit(v any) error {
	data, err := c.Codec.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := c.Out.Write(data); err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.Out)
	return err
}

// NewRootCommand builds the picset command tree.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "picset",
		Short: "Deduplicate images by average hash",
		Long: `picset fingerprints P6 images with a 64-bit average hash and keeps
one copy of every distinct image. Images whose fingerprints collide are
compared pixel by pixel, so different images are never merged.

Images are read from the storage backend configured in picset.toml
(local directory, S3 or MinIO). Names ending in .zst or .lz4 are
decompressed transparently.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ./"+config.ConfigFile+" if present)")
	pf.StringVar(&flags.format, "format", "text", "output format: text, "+strings.Join(codec.Names(), ", "))
	pf.IntVar(&flags.workers, "workers", 0, "concurrent loads (overrides limits.workers)")

	root.AddCommand(newAddCmd(flags))
	root.AddCommand(newHashCmd(flags))
	root.AddCommand(newExportCmd(flags))
	return root
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
