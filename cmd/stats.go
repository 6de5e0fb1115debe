package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show question bank progress and answer accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, "warn", false)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		b := e.svc.Bank()
		st := b.Stats()
		if st.Total == 0 {
			fmt.Fprintln(out, "No questions yet. Run `quizbank import <file>` first.")
			return nil
		}

		fmt.Fprintf(out, "Bank:       %s\n", b.Source())
		fmt.Fprintf(out, "Import ID:  %s\n", b.ImportID())
		fmt.Fprintf(out, "Questions:  %d (%d unanswered, %d answered)\n", st.Total, st.Unanswered, st.Answered)
		printTypeCounts(out, e.svc.Builder().Profile(), st.ByType)

		accuracy, err := e.store.EventRepo().AnswerStats(cmd.Context(), b.ImportID())
		if err != nil {
			return fmt.Errorf("query answer stats: %w", err)
		}
		if len(accuracy) == 0 {
			return nil
		}

		p := e.svc.Builder().Profile()
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Accuracy")
		fmt.Fprintln(out, strings.Repeat("─", 40))
		fmt.Fprintf(out, "%-12s  %8s  %8s  %6s\n", "Type", "Attempts", "Correct", "Rate")
		var attempts, correct int
		for _, a := range accuracy {
			fmt.Fprintf(out, "%-12s  %8d  %8d  %6s\n",
				p.HeaderLabel(a.QuestionType), a.Attempts, a.Correct, percent(a.Correct, a.Attempts))
			attempts += a.Attempts
			correct += a.Correct
		}
		fmt.Fprintln(out, strings.Repeat("─", 40))
		fmt.Fprintf(out, "%-12s  %8d  %8d  %6s\n", "TOTAL", attempts, correct, percent(correct, attempts))
		return nil
	},
}

func percent(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", 100*float64(n)/float64(total))
}
