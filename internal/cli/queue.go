package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/rushmax/internal/api/response"
)

func newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Matchmaking queue commands",
	}

	cmd.AddCommand(newQueueJoinCmd())
	cmd.AddCommand(newQueuePollCmd())
	cmd.AddCommand(newQueueLeaveCmd())

	return cmd
}

func newQueueJoinCmd() *cobra.Command {
	var rule string

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join the matchmaking queue for a rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"rule": rule}
			var result response.QueueStatus

			if err := client.Post(cmd.Context(), "/api/v1/queue", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&rule, "rule", "", "Rule: classic, speed, challenge (default: classic)")

	return cmd
}

func newQueuePollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Check queue position or collect a pending match",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.QueueStatus

			if err := client.Get(cmd.Context(), "/api/v1/queue", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newQueueLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Leave the matchmaking queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/api/v1/queue"); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Left queue")
			return nil
		},
	}
}
