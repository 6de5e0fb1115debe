package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbank/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve parsing and practice over a JSON HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, "info", false)
		if err != nil {
			return err
		}
		defer e.Close()

		explainer, err := e.explainer(cmd)
		if err != nil {
			e.log.WithError(err).Warn("LLM provider unavailable, explanations disabled")
		}

		cfg := server.DefaultConfig()
		cfg.Addr, _ = cmd.Flags().GetString("addr")
		cfg.AllowedOrigins, _ = cmd.Flags().GetStringSlice("cors-origin")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.New(e.svc, explainer, cfg, e.log).ListenAndServe(ctx)
	},
}

func init() {
	def := server.DefaultConfig()
	serveCmd.Flags().String("addr", def.Addr, "Listen address")
	serveCmd.Flags().StringSlice("cors-origin", def.AllowedOrigins, "Allowed CORS origins")
}
