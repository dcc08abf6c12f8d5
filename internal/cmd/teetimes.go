package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cheerioskun/teesheet/internal/api"
	"github.com/cheerioskun/teesheet/internal/models"
)

// startLayouts are the accepted --start formats, read in the configured timezone
var startLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04"}

var (
	teetimeStart    string
	teetimeSection  string
	teetimeCapacity int
)

// teetimesCmd represents the teetimes command
var teetimesCmd = &cobra.Command{
	Use:   "teetimes",
	Short: "Manage tee times on the booking API",
}

var teetimesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tee times ordered by start time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		teeTimes, err := buildClient().ListTeeTimes(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list tee times: %w", err)
		}
		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		printTeeTimes(cmd.OutOrStdout(), teeTimes, loc)
		return nil
	},
}

var teetimesShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one tee time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("tee time", args[0])
		if err != nil {
			return err
		}
		teeTime, err := buildClient().GetTeeTime(cmd.Context(), id)
		if err != nil {
			return notFound("tee time", id, err)
		}
		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		printTeeTime(cmd.OutOrStdout(), teeTime, loc)
		return nil
	},
}

var teetimesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a single tee time",
	Long: `Create one tee time at --start, read in the configured timezone.

Examples:
  teesheet teetimes create --start "2026-05-02 07:00"
  teesheet teetimes create --start "2026-05-02 07:10" --section "Back Nine" --capacity 2`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		start, err := parseStart(teetimeStart, loc)
		if err != nil {
			return err
		}

		teeTime := models.GeneratedTeeTime{
			StartTime:      start,
			CourseSection:  cfg.Generate.CourseSection,
			AvailableSlots: cfg.Generate.Capacity,
		}
		if cmd.Flags().Changed("section") {
			teeTime.CourseSection = teetimeSection
		}
		if cmd.Flags().Changed("capacity") {
			teeTime.AvailableSlots = teetimeCapacity
		}
		if err := teeTime.Validate(); err != nil {
			return err
		}

		created, err := buildClient().CreateTeeTime(cmd.Context(), teeTime)
		if err != nil {
			return fmt.Errorf("failed to create tee time: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created tee time %d at %s\n", created.ID, created.StartTime.In(loc).Format(startLayouts[0]))
		return nil
	},
}

var teetimesUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change the start, section or capacity of a tee time",
	Long: `Fetch a tee time, apply the flags that were given and save it back.

Examples:
  teesheet teetimes update 12 --capacity 3
  teesheet teetimes update 12 --start "2026-05-02 07:20"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("tee time", args[0])
		if err != nil {
			return err
		}
		loc, err := cfg.Location()
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if !flags.Changed("start") && !flags.Changed("section") && !flags.Changed("capacity") {
			return fmt.Errorf("nothing to update: pass --start, --section or --capacity")
		}

		client := buildClient()
		current, err := client.GetTeeTime(cmd.Context(), id)
		if err != nil {
			return notFound("tee time", id, err)
		}

		teeTime := models.GeneratedTeeTime{
			StartTime:      current.StartTime,
			CourseSection:  current.CourseSection,
			AvailableSlots: current.AvailableSlots,
		}
		if flags.Changed("start") {
			if teeTime.StartTime, err = parseStart(teetimeStart, loc); err != nil {
				return err
			}
		}
		if flags.Changed("section") {
			teeTime.CourseSection = teetimeSection
		}
		if flags.Changed("capacity") {
			teeTime.AvailableSlots = teetimeCapacity
		}
		if err := teeTime.Validate(); err != nil {
			return err
		}

		updated, err := client.UpdateTeeTime(cmd.Context(), id, teeTime)
		if err != nil {
			return fmt.Errorf("failed to update tee time: %w", err)
		}
		printTeeTime(cmd.OutOrStdout(), updated, loc)
		return nil
	},
}

var teetimesDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a tee time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("tee time", args[0])
		if err != nil {
			return err
		}
		if err := buildClient().DeleteTeeTime(cmd.Context(), id); err != nil {
			return notFound("tee time", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted tee time %d\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(teetimesCmd)
	teetimesCmd.AddCommand(teetimesListCmd, teetimesShowCmd, teetimesCreateCmd, teetimesUpdateCmd, teetimesDeleteCmd)

	for _, c := range []*cobra.Command{teetimesCreateCmd, teetimesUpdateCmd} {
		c.Flags().StringVar(&teetimeStart, "start", "", `start time "YYYY-MM-DD HH:MM" in the configured timezone`)
		c.Flags().StringVar(&teetimeSection, "section", "", "course section (default from config)")
		c.Flags().IntVar(&teetimeCapacity, "capacity", 0, "players per tee time, 1-4 (default from config)")
	}
	teetimesCreateCmd.MarkFlagRequired("start")
}

// parseID reads a positive record id from a command argument
func parseID(kind, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, arg)
	}
	return id, nil
}

// notFound turns a 404 into a readable error and wraps everything else
func notFound(kind string, id int, err error) error {
	if errors.Is(err, api.ErrNotFound) {
		return fmt.Errorf("%s %d does not exist", kind, id)
	}
	return fmt.Errorf("%s %d: %w", kind, id, err)
}

func parseStart(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, models.NewValidationError("start_time", fmt.Sprintf("%q must look like 2026-05-02 07:00", value))
}

func printTeeTimes(w io.Writer, teeTimes []models.TeeTime, loc *time.Location) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTART\tSECTION\tSLOTS")
	for _, t := range teeTimes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", t.ID, t.StartTime.In(loc).Format("2006-01-02 15:04"), t.CourseSection, t.AvailableSlots)
	}
	tw.Flush()
}

func printTeeTime(w io.Writer, t models.TeeTime, loc *time.Location) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", t.ID)
	fmt.Fprintf(tw, "Start:\t%s\n", t.StartTime.In(loc).Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(tw, "Section:\t%s\n", t.CourseSection)
	fmt.Fprintf(tw, "Available slots:\t%d\n", t.AvailableSlots)
	tw.Flush()
}
