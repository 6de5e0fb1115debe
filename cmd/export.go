package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbank/internal/bank"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the question bank and its progress as JSON (- for stdout)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, "warn", false)
		if err != nil {
			return err
		}
		defer e.Close()

		if args[0] == "-" {
			return e.svc.Bank().WriteExport(cmd.OutOrStdout())
		}
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create export: %w", err)
		}
		if err := e.svc.Bank().WriteExport(f); err != nil {
			f.Close()
			return fmt.Errorf("write export: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d questions to %s\n", e.svc.Bank().Len(), args[0])
		return nil
	},
}

var loadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Replace the question bank with a JSON export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open export: %w", err)
		}
		defer f.Close()
		data, err := bank.ReadExport(f)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, "warn", false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.Restore(cmd.Context(), data); err != nil {
			return fmt.Errorf("restore bank: %w", err)
		}
		st := e.svc.Bank().Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d questions from %s (%d unanswered, %d answered)\n",
			st.Total, data.Source, st.Unanswered, st.Answered)
		return nil
	},
}
