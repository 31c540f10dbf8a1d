package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/banker/internal/api/request"
)

func newResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every player and transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes all players and transactions; pass --yes to confirm")
			}

			if err := client.Post("/api/v1/reset", request.ResetRequest{Confirm: true}, nil); err != nil {
				return err
			}

			output(cmd).PrintMessage("Session reset")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")

	return cmd
}
