package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/rushmax/internal/api/response"
)

func newJudgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "judge",
		Short: "AI judge commands",
	}

	cmd.AddCommand(newJudgeAskCmd())
	cmd.AddCommand(newJudgeProbeCmd())

	return cmd
}

func newJudgeAskCmd() *cobra.Command {
	var target, server string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the AI judge a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"question":      args[0],
				"target_answer": target,
				"lm_server":     server,
			}
			var result response.Verdict

			if err := client.Post(cmd.Context(), "/api/v1/judge/ask", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Expected answer")
	cmd.Flags().StringVar(&server, "lm-server", "", "LM server URL (default: server's judge-url)")

	return cmd
}

func newJudgeProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <lm-server>",
		Short: "Check that an LM server answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Probe

			if err := client.Post(cmd.Context(), "/api/v1/judge/probe", map[string]string{"lm_server": args[0]}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
