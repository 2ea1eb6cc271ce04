package cli

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/zeebo/blake3"

	"github.com/hupe1980/picset/ahash"
	"github.com/hupe1980/picset/blobstore"
	"github.com/hupe1980/picset/imageio"
	"github.com/hupe1980/picset/ppm"
)

// tagLen is the number of blake3 bytes shown as a content tag.
const tagLen = 8

// hashReport is one image's fingerprint.
type hashReport struct {
	ID     string `json:"id" toml:"id"`
	Digest string `json:"digest" toml:"digest"`
	Tag    string `json:"blake3" toml:"blake3"`
	Width  int    `json:"width" toml:"width"`
	Height int    `json:"height" toml:"height"`
}

type hashReports struct {
	Images []hashReport `json:"images" toml:"images"`
}

func newHashCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "hash <file>...",
		Short: "Print the average hash and a content tag of each image",
		Long: `Print the 64-bit average hash of each image together with a blake3 tag
of its decoded bytes. Images with equal hashes may still differ; equal tags
mean byte-identical files.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initContext(cmd, flags)
			if err != nil {
				return err
			}

			strategy := ahash.Default[Sample]()
			var out hashReports
			for _, id := range args {
				r, err := hashOne(cmd, c, strategy, id)
				if err != nil {
					return err
				}
				out.Images = append(out.Images, r)
			}

			if c.Codec != nil {
				return c.emit(out)
			}
			cyan := color.New(color.FgCyan)
			for _, r := range out.Images {
				cyan.Fprintf(c.Out, "%s", r.Digest)
				fmt.Fprintf(c.Out, "  %s  %dx%d  %s\n", r.Tag, r.Width, r.Height, r.ID)
			}
			return nil
		},
	}
}

func hashOne(cmd *cobra.Command, c *cmdContext, strategy ahash.Strategy[Sample], id string) (hashReport, error) {
	ctx := cmd.Context()
	blob, err := c.Store.Open(ctx, id)
	if err != nil {
		return hashReport{}, &imageio.LoadError{ID: id, Op: "open", Err: err}
	}
	defer blob.Close()

	data, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		return hashReport{}, &imageio.LoadError{ID: id, Op: "open", Err: err}
	}
	p, err := ppm.Decode[Sample](bytes.NewReader(data), id)
	if err != nil {
		return hashReport{}, &imageio.LoadError{ID: id, Op: "decode", Err: err}
	}
	digest, err := strategy.Digest(p)
	if err != nil {
		return hashReport{}, err
	}

	sum := blake3.Sum256(data)
	return hashReport{
		ID:     id,
		Digest: fmt.Sprintf("%016x", digest),
		Tag:    hex.EncodeToString(sum[:tagLen]),
		Width:  p.Width(),
		Height: p.Height(),
	}, nil
}
