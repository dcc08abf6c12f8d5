package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cheerioskun/teesheet/internal/models"
	"github.com/cheerioskun/teesheet/internal/schedule"
)

var (
	previewPreset string
	previewSlots  []string
	previewFrom   string
	previewTo     string
)

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show how many tee times a rule list produces",
	Long: `Show per-rule and per-day tee time counts for a preset or a list of
rules, warn about overlapping rules and total the counts over a date range.
Nothing is sent to the booking API.

Examples:
  teesheet preview --preset weekend
  teesheet preview --slot 07:00-09:00/10 --slot 08:30-10:00/15 --from 2026-05-01 --to 2026-05-03`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVarP(&previewPreset, "preset", "p", "", "preset key to preview")
	previewCmd.Flags().StringSliceVarP(&previewSlots, "slot", "s", nil, "time-slot rule HH:MM-HH:MM/N (repeatable)")
	previewCmd.Flags().StringVar(&previewFrom, "from", "", "first date (YYYY-MM-DD, default today)")
	previewCmd.Flags().StringVar(&previewTo, "to", "", "last date, inclusive (YYYY-MM-DD, default --from)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	store, closeStore, err := buildStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	rules, err := resolveRules(cmd.Context(), store, previewPreset, previewSlots)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	start, end, err := parseDateFlags(previewFrom, previewTo, loc)
	if err != nil {
		return err
	}
	dates, err := models.NewDateRange(start, end)
	if err != nil {
		return err
	}

	printPreview(cmd.OutOrStdout(), rules, schedule.Preview(rules), dates)
	return nil
}

// printPreview prints the rule counts, overlap warning and range total
func printPreview(w io.Writer, rules []models.TimeSlotRule, summary schedule.PreviewSummary, dates models.DateRange) {
	for i, rule := range summary.PerRule {
		marker := " "
		if summary.Overlapping(i) {
			marker = "!"
		}
		fmt.Fprintf(w, "%s %d. %-16s %3d tee times\n", marker, i+1, rules[i].String(), rule.Count)
	}

	if summary.HasOverlaps {
		fmt.Fprint(w, "\nWarning: overlapping rules")
		for _, pair := range summary.OverlappingPairs {
			fmt.Fprintf(w, " %d-%d", pair.I+1, pair.J+1)
		}
		fmt.Fprintln(w, " will create duplicate tee times")
	}

	days := dates.Days()
	fmt.Fprintf(w, "\nPer day: %d\n", summary.TotalCount)
	fmt.Fprintf(w, "%s (%d days): %d\n", dates, days, summary.ForDays(days))
}
