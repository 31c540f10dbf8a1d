package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/banker/internal/api/response"
	"github.com/mcoot/banker/internal/model"
)

func newTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Transaction log commands",
	}

	cmd.AddCommand(newTxListCmd())

	return cmd
}

func newTxListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}

			var result response.TransactionsResponse
			if err := client.Get(fmt.Sprintf("/api/v1/transactions?limit=%d", limit), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", model.DefaultTransactionLimit, "Maximum number to show; 0 shows all")

	return cmd
}
