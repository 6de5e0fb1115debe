package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbank/internal/explain"
)

var explainCmd = &cobra.Command{
	Use:   "explain <number>",
	Short: "Ask the LLM to explain the answer of question #number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid question number %q", args[0])
		}
		given, _ := cmd.Flags().GetString("given")

		e, err := openEnv(cmd, "warn", false)
		if err != nil {
			return err
		}
		defer e.Close()

		explainer, err := e.explainer(cmd)
		if err != nil {
			return err
		}
		if explainer == nil {
			return errors.New("no LLM provider configured; set QUIZBANK_LLM_PROVIDER or an API key variable")
		}

		q, err := e.svc.Bank().Question(n - 1)
		if err != nil {
			return err
		}
		exp, err := explainer.Explain(cmd.Context(), explain.Input{Question: q, Given: given})
		if err != nil {
			return fmt.Errorf("explain: %w", err)
		}

		out := cmd.OutOrStdout()
		printQuestion(out, e.svc.Builder(), q)
		fmt.Fprintln(out, exp.Summary)
		for i, step := range exp.Steps {
			fmt.Fprintf(out, "  %d. %s\n", i+1, step)
		}
		if exp.Pitfall != "" {
			fmt.Fprintf(out, "\nWatch out: %s\n", exp.Pitfall)
		}
		return nil
	},
}

func init() {
	explainCmd.Flags().String("given", "", "Your answer, to get feedback on it")
}
