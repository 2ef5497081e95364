package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/rushmax/internal/api/response"
)

func newQuestionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "question <game-id>",
		Short: "Fetch the next question of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Question

			if err := client.Get(cmd.Context(), fmt.Sprintf("/api/v1/games/%s/question", args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
