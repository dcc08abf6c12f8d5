package cmd

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cheerioskun/teesheet/internal/models"
)

var (
	bookingTeeTime int
	bookingGolfer  int
	bookingPlayers int
)

// bookingsCmd represents the bookings command
var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "Manage bookings on the booking API",
}

var bookingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bookings, err := buildClient().ListBookings(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list bookings: %w", err)
		}
		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		printBookings(cmd.OutOrStdout(), bookings, loc)
		return nil
	},
}

var bookingsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Book players onto a tee time",
	Long: `Book a golfer's group onto a tee time. The group must fit in the
tee time's remaining slots; this is checked before the booking is sent.

Examples:
  teesheet bookings create --tee-time 12 --golfer 4 --players 2`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		booking := models.BookingInput{
			TeeTimeID:       bookingTeeTime,
			GolferID:        bookingGolfer,
			NumberOfPlayers: bookingPlayers,
		}
		if err := booking.Validate(); err != nil {
			return err
		}

		client := buildClient()
		teeTime, err := client.GetTeeTime(cmd.Context(), booking.TeeTimeID)
		if err != nil {
			return notFound("tee time", booking.TeeTimeID, err)
		}
		if err := booking.FitsIn(teeTime); err != nil {
			return err
		}

		created, err := client.CreateBooking(cmd.Context(), booking)
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Booked %d players on %s (booking %d)\n",
			booking.NumberOfPlayers, teeTime.StartTime.In(loc).Format("2006-01-02 15:04"), created.ID)
		return nil
	},
}

var bookingsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Cancel a booking and free its slots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("booking", args[0])
		if err != nil {
			return err
		}
		if err := buildClient().DeleteBooking(cmd.Context(), id); err != nil {
			return notFound("booking", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cancelled booking %d\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bookingsCmd)
	bookingsCmd.AddCommand(bookingsListCmd, bookingsCreateCmd, bookingsDeleteCmd)

	bookingsCreateCmd.Flags().IntVar(&bookingTeeTime, "tee-time", 0, "tee time id")
	bookingsCreateCmd.Flags().IntVar(&bookingGolfer, "golfer", 0, "golfer id")
	bookingsCreateCmd.Flags().IntVar(&bookingPlayers, "players", 1, "number of players, 1-4")
	bookingsCreateCmd.MarkFlagRequired("tee-time")
	bookingsCreateCmd.MarkFlagRequired("golfer")
}

func printBookings(w io.Writer, bookings []models.Booking, loc *time.Location) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTEE TIME\tGOLFER\tPLAYERS")
	for _, b := range bookings {
		teeTime := strconv.Itoa(b.TeeTime.ID)
		if !b.TeeTime.StartTime.IsZero() {
			teeTime = b.TeeTime.StartTime.In(loc).Format("2006-01-02 15:04")
		}
		golfer := b.Golfer.Name
		if golfer == "" {
			golfer = strconv.Itoa(b.Golfer.ID)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", b.ID, teeTime, golfer, b.NumberOfPlayers)
	}
	tw.Flush()
}
