package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gogo_hotel/internal/app"
	"gogo_hotel/internal/domain"
)

var (
	quoteRoom      string
	quoteCheckIn   string
	quoteCheckOut  string
	quoteRooms     int
	quoteAdults    int
	quoteChildren  int
	quoteBreakfast bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a stay the way checkout does",
	Long: `Price one room for a date range: nightly rate x nights x rooms,
plus breakfast per guest per night when --breakfast is set.

Prints the booking payload the storefront would submit.`,
	RunE: runQuote,
}

func init() {
	f := quoteCmd.Flags()
	f.StringVar(&quoteRoom, "room", "", "Room id from the catalog")
	f.StringVar(&quoteCheckIn, "check-in", "", "Check-in date")
	f.StringVar(&quoteCheckOut, "check-out", "", "Check-out date")
	f.IntVar(&quoteRooms, "rooms", 1, "Rooms")
	f.IntVar(&quoteAdults, "adults", 2, "Adults")
	f.IntVar(&quoteChildren, "children", 0, "Children")
	f.BoolVar(&quoteBreakfast, "breakfast", false, "Add breakfast")
	_ = quoteCmd.MarkFlagRequired("room")
}

func findRoom(rooms []domain.Room, id string) (domain.Room, bool) {
	for _, r := range rooms {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Room{}, false
}

// quoteSelection validates the flags into a checkout selection.
func quoteSelection(room domain.Room) (domain.Selection, error) {
	in, err := parseDay("check-in", quoteCheckIn)
	if err != nil {
		return domain.Selection{}, err
	}
	out, err := parseDay("check-out", quoteCheckOut)
	if err != nil {
		return domain.Selection{}, err
	}
	if in == nil || out == nil {
		return domain.Selection{}, errors.New("please select check-in and check-out dates")
	}
	nights := app.NightsBetween(*in, *out)
	if nights <= 0 {
		return domain.Selection{}, errors.New("check-out must be after check-in")
	}
	if quoteRooms < 1 || quoteAdults < 1 || quoteChildren < 0 {
		return domain.Selection{}, errors.New("need at least one room and one adult")
	}
	return domain.Selection{
		Room:        room,
		CheckIn:     *in,
		CheckOut:    *out,
		Nights:      nights,
		Rooms:       quoteRooms,
		Adults:      quoteAdults,
		Children:    quoteChildren,
		Breakfast:   quoteBreakfast,
		BookingCode: app.NewBookingCode(),
	}, nil
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	rooms, err := loadCatalog(ctx)
	if err != nil {
		return err
	}
	room, ok := findRoom(rooms, quoteRoom)
	if !ok {
		return fmt.Errorf("room %q: %w", quoteRoom, domain.ErrNotFound)
	}
	sel, err := quoteSelection(room)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(cmd.OutOrStdout(), app.BookingPayload(sel, cfg.HotelTZ))
	}

	t := app.ComputeTotal(sel)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Room\t%s (%s, %s)\n", room.Name, room.TypeLabel, room.City)
	fmt.Fprintf(tw, "Stay\t%s, %s\n", app.NightsLabel(sel.Nights), app.GuestSummary(sel.Adults, sel.Children, sel.Rooms))
	fmt.Fprintf(tw, "Rooms\t%.0f\n", t.RoomSubtotal)
	if sel.Breakfast {
		fmt.Fprintf(tw, "Breakfast\t%.0f\n", t.AddOnSubtotal)
	}
	fmt.Fprintf(tw, "Total\t%.0f\n", t.GrandTotal)
	return tw.Flush()
}
