package main

import (
	"fmt"
	"strings"

	"marketplace/internal/app"

	"github.com/spf13/cobra"
)

func recoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recover [payment-id...]",
		Short: "Create missing orders for succeeded payments",
		Long: `Runs order materialization for each payment, the same way the admin
recovery endpoint does. Payments that already have orders are reported and
skipped.

Examples:
  marketctl recover 3f6c1a3e-0c5e-4d0a-9a55-0f7a3b8e2c11`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(s *app.Services) error {
				var failed int
				for _, id := range args {
					orderIDs, err := s.Payment.RecoverMaterialization(cmd.Context(), id)
					if err != nil {
						failed++
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", id, err)
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: orders %s\n", id, strings.Join(orderIDs, ","))
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d payments failed", failed, len(args))
				}
				return nil
			})
		},
	}
}
