package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/rushmax/internal/api/response"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player commands",
	}

	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerMeCmd())
	cmd.AddCommand(newPlayerHeartbeatCmd())

	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	var nickname string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new player and save its session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"nickname": nickname}
			var result response.Registration

			if err := client.Post(cmd.Context(), "/api/v1/players", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&nickname, "nickname", "", "Nickname (default: anonymous)")

	return cmd
}

func newPlayerMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show current player info",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Player

			if err := client.Get(cmd.Context(), "/api/v1/players/me", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newPlayerHeartbeatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "heartbeat",
		Short: "Keep the current player alive",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Player

			if err := client.Post(cmd.Context(), "/api/v1/players/heartbeat", nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
