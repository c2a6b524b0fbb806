package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"gogo_hotel/internal/app"
	"gogo_hotel/internal/domain"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the normalized room catalog",
	RunE:  runCatalog,
}

var (
	searchDest     string
	searchCheckIn  string
	searchCheckOut string
	searchAdults   int
	searchChildren int
	searchRooms    int
	searchType     string
	searchBudget   float64
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the catalog with the storefront filters",
	Long: `Run one search against the live catalog, applying every filter at once.

Dates use the 2006-01-02 layout. Leaving both dates out skips the date check.`,
	RunE: runSearch,
}

func init() {
	d := domain.DefaultCriteria()
	f := searchCmd.Flags()
	f.StringVar(&searchDest, "destination", "", "City, room type or name to match")
	f.StringVar(&searchCheckIn, "check-in", "", "Check-in date")
	f.StringVar(&searchCheckOut, "check-out", "", "Check-out date")
	f.IntVar(&searchAdults, "adults", d.Adults, "Adults")
	f.IntVar(&searchChildren, "children", d.Children, "Children")
	f.IntVar(&searchRooms, "rooms", d.Rooms, "Rooms")
	f.StringVar(&searchType, "type", d.RoomType, "Room type, or any")
	f.Float64Var(&searchBudget, "max-budget", d.MaxBudget, "Highest nightly price")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	rooms, err := loadCatalog(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(cmd.OutOrStdout(), rooms)
	}
	return printRooms(cmd.OutOrStdout(), rooms)
}

func parseDay(flag, v string) (*time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	t, err := time.Parse(app.DateLayout, strings.TrimSpace(v))
	if err != nil {
		return nil, fmt.Errorf("--%s: want a date like 2025-01-31: %w", flag, err)
	}
	return &t, nil
}

func searchCriteria() (domain.SearchCriteria, error) {
	c := domain.SearchCriteria{
		Destination: searchDest,
		Adults:      searchAdults,
		Children:    searchChildren,
		Rooms:       searchRooms,
		RoomType:    searchType,
		MaxBudget:   searchBudget,
	}
	var err error
	if c.CheckIn, err = parseDay("check-in", searchCheckIn); err != nil {
		return c, err
	}
	if c.CheckOut, err = parseDay("check-out", searchCheckOut); err != nil {
		return c, err
	}
	return c, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	c, err := searchCriteria()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()
	rooms, err := loadCatalog(ctx)
	if err != nil {
		return err
	}
	found, err := app.Search(rooms, c)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(cmd.OutOrStdout(), found)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s", app.GuestSummary(c.Adults, c.Children, c.Rooms))
	if n := app.StayNights(c); n > 0 {
		fmt.Fprintf(out, ", %s", app.NightsLabel(n))
	}
	fmt.Fprintf(out, ": %d room(s)\n", len(found))
	return printRooms(out, found)
}

func printRooms(w io.Writer, rooms []domain.Room) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tCITY\tGUESTS\tPRICE/NIGHT")
	for _, r := range rooms {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.0f\n", r.ID, r.Name, r.TypeLabel, r.City, r.Guests, r.PricePerNight)
	}
	return tw.Flush()
}
