package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"marketplace/internal/app"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var (
		pgURL      string
		statusOnly bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pgURL == "" {
				return fmt.Errorf("postgres url is required (--pg-url or PG_URL)")
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if statusOnly {
				states, err := app.MigrationStatus(ctx, pgURL, app.MigrationFS)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "VERSION\tAPPLIED\tFILE")
				for _, st := range states {
					fmt.Fprintf(w, "%d\t%t\t%s\n", st.Version, st.Applied, st.File)
				}
				return w.Flush()
			}

			version, err := app.ApplyMigrations(ctx, pgURL, app.MigrationFS)
			if err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
			fmt.Fprintf(out, "Schema at version %d\n", version)
			return nil
		},
	}

	cmd.Flags().StringVar(&pgURL, "pg-url", os.Getenv("PG_URL"), "postgres connection url")
	cmd.Flags().BoolVar(&statusOnly, "status", false, "list migrations and whether they are applied")

	return cmd
}
