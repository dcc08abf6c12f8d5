package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cheerioskun/teesheet/internal/models"
)

var (
	golferName  string
	golferEmail string
	golferPhone string
	golferNotes string
)

// golfersCmd represents the golfers command
var golfersCmd = &cobra.Command{
	Use:   "golfers",
	Short: "Manage golfers on the booking API",
}

var golfersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List golfers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		golfers, err := buildClient().ListGolfers(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list golfers: %w", err)
		}
		printGolfers(cmd.OutOrStdout(), golfers)
		return nil
	},
}

var golfersShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one golfer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("golfer", args[0])
		if err != nil {
			return err
		}
		golfer, err := buildClient().GetGolfer(cmd.Context(), id)
		if err != nil {
			return notFound("golfer", id, err)
		}
		printGolfer(cmd.OutOrStdout(), golfer)
		return nil
	},
}

var golfersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a golfer",
	Long: `Add a golfer. Name and email are required; the email must be unique.

Examples:
  teesheet golfers add --name "Sam Snead" --email sam@example.com
  teesheet golfers add --name "Patty Berg" --email patty@example.com --phone 555-0101`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		golfer := models.Golfer{Name: golferName, Email: golferEmail, Phone: golferPhone, Notes: golferNotes}
		if err := golfer.Validate(); err != nil {
			return err
		}
		created, err := buildClient().CreateGolfer(cmd.Context(), golfer)
		if err != nil {
			return fmt.Errorf("failed to add golfer: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added golfer %d: %s <%s>\n", created.ID, created.Name, created.Email)
		return nil
	},
}

var golfersEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change a golfer's details",
	Long: `Fetch a golfer, apply the flags that were given and save it back.

Examples:
  teesheet golfers edit 4 --phone 555-0199
  teesheet golfers edit 4 --notes "prefers early starts"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("golfer", args[0])
		if err != nil {
			return err
		}

		client := buildClient()
		golfer, err := client.GetGolfer(cmd.Context(), id)
		if err != nil {
			return notFound("golfer", id, err)
		}

		flags := cmd.Flags()
		changed := false
		for flag, field := range map[string]*string{
			"name":  &golfer.Name,
			"email": &golfer.Email,
			"phone": &golfer.Phone,
			"notes": &golfer.Notes,
		} {
			if flags.Changed(flag) {
				value, _ := flags.GetString(flag)
				*field = value
				changed = true
			}
		}
		if !changed {
			return fmt.Errorf("nothing to change: pass --name, --email, --phone or --notes")
		}
		if err := golfer.Validate(); err != nil {
			return err
		}

		updated, err := client.UpdateGolfer(cmd.Context(), id, golfer)
		if err != nil {
			return fmt.Errorf("failed to update golfer: %w", err)
		}
		printGolfer(cmd.OutOrStdout(), updated)
		return nil
	},
}

var golfersDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a golfer and their bookings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("golfer", args[0])
		if err != nil {
			return err
		}
		if err := buildClient().DeleteGolfer(cmd.Context(), id); err != nil {
			return notFound("golfer", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted golfer %d\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(golfersCmd)
	golfersCmd.AddCommand(golfersListCmd, golfersShowCmd, golfersAddCmd, golfersEditCmd, golfersDeleteCmd)

	for _, c := range []*cobra.Command{golfersAddCmd, golfersEditCmd} {
		c.Flags().StringVar(&golferName, "name", "", "full name")
		c.Flags().StringVar(&golferEmail, "email", "", "email address")
		c.Flags().StringVar(&golferPhone, "phone", "", "phone number")
		c.Flags().StringVar(&golferNotes, "notes", "", "free-form notes")
	}
}

func printGolfers(w io.Writer, golfers []models.Golfer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE")
	for _, g := range golfers {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", g.ID, g.Name, g.Email, g.Phone)
	}
	tw.Flush()
}

func printGolfer(w io.Writer, g models.Golfer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", g.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", g.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", g.Email)
	if g.Phone != "" {
		fmt.Fprintf(tw, "Phone:\t%s\n", g.Phone)
	}
	if g.Notes != "" {
		fmt.Fprintf(tw, "Notes:\t%s\n", g.Notes)
	}
	tw.Flush()
}
