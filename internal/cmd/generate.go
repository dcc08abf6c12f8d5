package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/cheerioskun/teesheet/internal/models"
	"github.com/cheerioskun/teesheet/internal/schedule"
)

var (
	generatePreset   string
	generateSlots    []string
	generateFrom     string
	generateTo       string
	generateSection  string
	generateCapacity int
	dryRun           bool
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Bulk-create tee times for a date range",
	Long: `Expand a preset or a list of rules over every date from --from to --to
and create one tee time per instant through the booking API.

A failed creation never stops the others; failures are listed at the
end. Ctrl+C stops issuing new calls and reports the rest as failed.

Examples:
  teesheet generate --from 2026-05-01 --to 2026-05-07 --preset weekday
  teesheet generate --from 2026-05-02 --slot 07:00-09:00/10 --capacity 2
  teesheet generate --from 2026-05-01 --to 2026-05-03 --preset weekend --dry-run`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generatePreset, "preset", "p", "", "preset key to generate from")
	generateCmd.Flags().StringSliceVarP(&generateSlots, "slot", "s", nil, "time-slot rule HH:MM-HH:MM/N (repeatable)")
	generateCmd.Flags().StringVar(&generateFrom, "from", "", "first date (YYYY-MM-DD, required)")
	generateCmd.Flags().StringVar(&generateTo, "to", "", "last date, inclusive (YYYY-MM-DD, default --from)")
	generateCmd.Flags().StringVar(&generateSection, "section", "", "course section (default from config)")
	generateCmd.Flags().IntVar(&generateCapacity, "capacity", 0, "players per tee time, 1-4 (default from config)")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the tee times without creating them")
	generateCmd.MarkFlagRequired("from")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	store, closeStore, err := buildStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	rules, err := resolveRules(cmd.Context(), store, generatePreset, generateSlots)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	start, end, err := parseDateFlags(generateFrom, generateTo, loc)
	if err != nil {
		return err
	}

	req := models.BulkGenerationRequest{
		StartDate:             start,
		EndDate:               end,
		Slots:                 rules,
		CourseSection:         cfg.Generate.CourseSection,
		AvailableSlotsPerTime: cfg.Generate.Capacity,
	}
	if cmd.Flags().Changed("section") {
		req.CourseSection = generateSection
	}
	if cmd.Flags().Changed("capacity") {
		req.AvailableSlotsPerTime = generateCapacity
	}

	out := cmd.OutOrStdout()
	generator, err := buildGenerator(buildClient(), func(p schedule.Progress) {
		debugf("\r%d/%d done, %d failed", p.Done, p.Total, p.Failed)
	})
	if err != nil {
		return err
	}

	if dryRun {
		planned, err := generator.Plan(req)
		if err != nil {
			return err
		}
		printPlan(out, planned, loc)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	outcome, err := generator.Generate(ctx, req)
	if err != nil {
		return err
	}
	debugf("\n")
	printOutcome(out, outcome, loc)

	if len(outcome.Failures) > 0 {
		return fmt.Errorf("%d of %d tee times failed", len(outcome.Failures), outcome.Total)
	}
	return nil
}

// printPlan lists the tee times a generation would create
func printPlan(w io.Writer, planned []models.GeneratedTeeTime, loc *time.Location) {
	for _, p := range planned {
		fmt.Fprintf(w, "%s  %s  %d players\n", p.StartTime.In(loc).Format("2006-01-02 15:04 MST"), p.CourseSection, p.AvailableSlots)
	}
	fmt.Fprintf(w, "\n%d tee times would be created\n", len(planned))
}

// printOutcome prints the result summary and every failure in order
func printOutcome(w io.Writer, outcome schedule.Outcome, loc *time.Location) {
	switch {
	case outcome.AllFailed():
		fmt.Fprintf(w, "Generation failed: none of %d tee times were created\n", outcome.Total)
	case outcome.Partial():
		fmt.Fprintf(w, "Created %d of %d tee times, %d failed\n", outcome.SuccessCount, outcome.Total, len(outcome.Failures))
	default:
		fmt.Fprintf(w, "Created %d tee times\n", outcome.SuccessCount)
	}

	for _, f := range outcome.Failures {
		fmt.Fprintf(w, "  %s  %s\n", f.Instant.In(loc).Format("2006-01-02 15:04"), f.ErrorMessage)
	}
}
