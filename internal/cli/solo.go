package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/rushmax/internal/api/response"
)

func newSoloCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "solo",
		Short: "Fetch practice questions with answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.SoloQuestionList

			path := "/api/v1/solo/questions"
			if n > 0 {
				path = fmt.Sprintf("%s?n=%d", path, n)
			}
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "n", 0, "Number of questions (default: 10)")

	return cmd
}
