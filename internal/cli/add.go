package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hupe1980/picset"
)

// itemReport is one line of the add report.
type itemReport struct {
	ID      string `json:"id" toml:"id"`
	Index   int    `json:"index" toml:"index"`
	Outcome string `json:"outcome" toml:"outcome"`
	Error   string `json:"error,omitempty" toml:"error,omitempty"`
}

// addReport is what add prints in structured formats.
type addReport struct {
	Items      []itemReport `json:"items" toml:"items"`
	Photos     int          `json:"photos" toml:"photos"`
	Buckets    int          `json:"buckets" toml:"buckets"`
	Collisions int          `json:"collisions" toml:"collisions"`
	Failed     int          `json:"failed" toml:"failed"`
}

func newAddCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>...",
		Short: "Ingest images and report which ones are new",
		Long: `Ingest images into an in-memory set and report, per argument, whether it
was added or is a duplicate of an earlier argument.

Examples:
  picset add a.ppm b.ppm a.ppm       The third argument is a duplicate
  picset add --format json *.ppm     Machine-readable report`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := initContext(cmd, flags)
			if err != nil {
				return err
			}
			report, err := ingest(cmd, c, args)
			if err != nil {
				return err
			}
			if c.Codec != nil {
				if err := c.emit(report); err != nil {
					return err
				}
			} else {
				printAdd(c, report)
			}
			if report.Failed > 0 {
				return fmt.Errorf("%d of %d image(s) failed", report.Failed, len(args))
			}
			return nil
		},
	}
}

// ingest adds args to the set and summarizes the outcome.
func ingest(cmd *cobra.Command, c *cmdContext, args []string) (*addReport, error) {
	results, err := c.Set.AddBatch(cmd.Context(), args)
	if err != nil {
		return nil, err
	}

	report := &addReport{Items: make([]itemReport, 0, len(results))}
	for _, r := range results {
		item := itemReport{ID: r.ID, Index: r.Index, Outcome: r.Outcome.String()}
		if r.Err != nil {
			item.Error = r.Err.Error()
			report.Failed++
		}
		report.Items = append(report.Items, item)
	}

	stats := c.Set.Stats()
	report.Photos = stats.Photos
	report.Buckets = stats.Buckets
	report.Collisions = stats.Collisions
	return report, nil
}

func printAdd(c *cmdContext, report *addReport) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	for _, item := range report.Items {
		switch item.Outcome {
		case picset.OutcomeAdded.String():
			green.Fprintf(c.Out, "added      #%-4d %s\n", item.Index, item.ID)
		case picset.OutcomeDuplicate.String():
			yellow.Fprintf(c.Out, "duplicate  #%-4d %s\n", item.Index, item.ID)
		default:
			red.Fprintf(c.Out, "failed           %s: %s\n", item.ID, item.Error)
		}
	}
	fmt.Fprintf(c.Out, "%d photo(s) in %d bucket(s), %d collision(s)\n",
		report.Photos, report.Buckets, report.Collisions)
}
