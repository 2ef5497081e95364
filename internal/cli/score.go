package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/rushmax/internal/api/response"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Leaderboard commands",
	}

	cmd.AddCommand(newScoreSubmitCmd())
	cmd.AddCommand(newScoreTopCmd())

	return cmd
}

func newScoreSubmitCmd() *cobra.Command {
	var mode string
	var correct, total int
	var seconds float64

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a finished run for scoring",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"mode":          mode,
				"correct_count": correct,
				"time_seconds":  seconds,
			}
			if cmd.Flags().Changed("total") {
				req["total_questions"] = total
			}
			var result response.ScoreAccepted

			if err := client.Post(cmd.Context(), "/api/v1/scores", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "solo", "Mode: solo, rta")
	cmd.Flags().IntVar(&correct, "correct", 0, "Correct answers")
	cmd.Flags().IntVar(&total, "total", 0, "Questions asked (default: same as correct)")
	cmd.Flags().Float64Var(&seconds, "time", 0, "Elapsed seconds")

	return cmd
}

func newScoreTopCmd() *cobra.Command {
	var mode string
	var n int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the top scores for a mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("mode", mode)
			if n > 0 {
				query.Set("n", fmt.Sprint(n))
			}
			var result response.TopScores

			if err := client.Get(cmd.Context(), "/api/v1/scores/top?"+query.Encode(), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "solo", "Mode")
	cmd.Flags().IntVar(&n, "n", 0, "Number of entries (default: 10)")

	return cmd
}
