// Package main implements gogoctl, an operator CLI for the storefront:
// catalog inspection, offline searches and quotes, and session maintenance.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gogo_hotel/internal/adapters/observability"
	"gogo_hotel/internal/adapters/storefront"
	"gogo_hotel/internal/app"
	"gogo_hotel/internal/domain"
	"gogo_hotel/internal/shared"
)

var (
	cfg = shared.Load()

	apiBase string
	timeout time.Duration
	asJSON  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:           "gogoctl",
	Short:         "Operate the GoGo Hotel storefront",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = observability.NewLogger(cfg.AppEnv).Output(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", cfg.APIBase, "Booking API base URL (or set API_BASE_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

// loadCatalog fetches the live catalog; an unreachable API yields the fallback rooms.
func loadCatalog(ctx context.Context) ([]domain.Room, error) {
	client, err := storefront.New(apiBase, cfg.APIRPS)
	if err != nil {
		return nil, err
	}
	rooms := app.NewCatalogService(client).Load(ctx)
	if len(rooms) == 0 {
		rooms = app.FallbackRooms()
	}
	return rooms, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
