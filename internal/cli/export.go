package cli

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newExportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export <index> <dest> <file>...",
		Short: "Ingest images and write the one at index to dest",
		Long: `Ingest images like add, then write the distinct image at position <index>
to <dest>. Positions count distinct images in argument order, so duplicates
do not take a position. A .zst or .lz4 suffix on <dest> compresses the output.

Examples:
  picset export 1 out/second.ppm a.ppm a.ppm b.ppm   Writes b.ppm`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[0], err)
			}
			dest := args[1]

			c, err := initContext(cmd, flags)
			if err != nil {
				return err
			}
			report, err := ingest(cmd, c, args[2:])
			if err != nil {
				return err
			}
			if err := c.Set.Save(cmd.Context(), index, dest); err != nil {
				return err
			}

			p, _ := c.Set.Get(index)
			if c.Codec != nil {
				return c.emit(map[string]any{"index": index, "id": p.ID(), "dest": dest, "photos": report.Photos})
			}
			color.New(color.FgGreen).Fprintf(c.Out, "saved #%d %s -> %s\n", index, p.ID(), dest)
			return nil
		},
	}
}
