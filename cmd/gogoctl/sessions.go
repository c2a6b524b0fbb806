package main

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	mysqlstore "gogo_hotel/internal/storage/mysql"
)

var mysqlDSN string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Maintain the remembered-session store",
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete remembered sessions past their expiry",
	RunE:  runPurge,
}

func init() {
	sessionsCmd.PersistentFlags().StringVar(&mysqlDSN, "mysql-dsn", cfg.MySQLDSN, "MySQL DSN (or set MYSQL_DSN)")
	sessionsCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		return fmt.Errorf("open mysql: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping mysql: %w", err)
	}

	n, err := mysqlstore.New(db, cfg.RememberTTL).PurgeExpired(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired session key(s)\n", n)
	return nil
}
