package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/banker/internal/api/request"
	"github.com/mcoot/banker/internal/api/response"
)

func newPlayersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "players",
		Aliases: []string{"player"},
		Short:   "Player management commands",
	}

	cmd.AddCommand(newPlayersListCmd())
	cmd.AddCommand(newPlayersAddCmd())
	cmd.AddCommand(newPlayersShowCmd())
	cmd.AddCommand(newPlayersDeleteCmd())

	return cmd
}

func playerPath(id string) string {
	return "/api/v1/players/" + url.PathEscape(id)
}

func newPlayersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all players with their derived state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.PlayersResponse
			if err := client.Get("/api/v1/players", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newPlayersAddCmd() *cobra.Command {
	var name, avatar string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a player seeded with the active profile's starting balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			req := request.CreatePlayerRequest{Name: name, Avatar: avatar}
			var result response.PlayerView
			if err := client.Post("/api/v1/players", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar colour (default green)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPlayersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.PlayerView
			if err := client.Get(playerPath(args[0]), &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newPlayersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a player; their transactions are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(playerPath(args[0])); err != nil {
				return err
			}
			output(cmd).PrintMessage("Deleted player " + args[0])
			return nil
		},
	}
}
