package main

import (
	"fmt"

	"marketplace/internal/app"
	"marketplace/internal/sweeper"

	"github.com/spf13/cobra"
)

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire unpaid payments and free stale materialization locks once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(s *app.Services) error {
				res, err := sweeper.New(s.Payment, 0).RunOnce(cmd.Context())
				if err != nil {
					return fmt.Errorf("sweep: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "expired=%d locks_released=%d\n", res.Expired, res.LocksReleased)
				return nil
			})
		},
	}
}
