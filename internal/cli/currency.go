package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/banker/internal/api/request"
	"github.com/mcoot/banker/internal/api/response"
)

func newCurrencyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "currency",
		Short: "Currency profile commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the active currency profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.CurrencyResponse
			if err := client.Get("/api/v1/currency", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <code>",
		Short: "Switch the active currency; existing balances are not converted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.SetCurrencyRequest{Currency: strings.ToUpper(args[0])}
			var result response.CurrencyResponse
			if err := client.Put("/api/v1/currency", req, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every currency profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.CurrenciesResponse
			if err := client.Get("/api/v1/currencies", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}
