package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbank/internal/app"
)

// runApp opens the store, restores the bank, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd, "warn", true)
	if err != nil {
		return err
	}
	defer e.Close()

	opts := app.Options{
		Session: e.svc,
		Logger:  e.log,
	}

	explainer, err := e.explainer(cmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "LLM provider unavailable:", err)
		fmt.Fprintln(cmd.ErrOrStderr(), "Explanations are disabled.")
	}
	opts.Explainer = explainer

	return app.Run(opts)
}
