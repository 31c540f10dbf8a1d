package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/banker/internal/api/request"
	"github.com/mcoot/banker/internal/api/response"
	"github.com/mcoot/banker/internal/model"
)

func newOpCmd() *cobra.Command {
	var (
		amount      int64
		insurance   string
		description string
		target      string
	)

	kinds := make([]string, 0, len(model.ValidOperationKinds()))
	for _, k := range model.ValidOperationKinds() {
		kinds = append(kinds, string(k))
	}

	cmd := &cobra.Command{
		Use:   "op <kind> <player-id>",
		Short: "Apply a game operation to a player",
		Long: `Apply one game rule to a player. The operation either succeeds and records
a transaction or is rejected without changing anything.

Kinds:
  ` + strings.Join(kinds, "\n  "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := model.ParseOperationKind(args[0]); err != nil {
				return fmt.Errorf("unknown operation %q", args[0])
			}

			req := request.OperationRequest{
				Kind:        args[0],
				Amount:      amount,
				Insurance:   insurance,
				Description: description,
				Target:      target,
			}
			var result response.OperationResponse
			if err := client.Post(playerPath(args[1])+"/operations", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&amount, "amount", 0, "Amount for withdraw, deposit and custom")
	cmd.Flags().StringVar(&insurance, "insurance", "", "Insurance type for buy_insurance")
	cmd.Flags().StringVar(&description, "desc", "", "Description for custom")
	cmd.Flags().StringVar(&target, "target", "", "Balance for custom: cash or account")

	return cmd
}
