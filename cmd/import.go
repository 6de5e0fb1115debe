package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbank/internal/docreader"
	"github.com/abhisek/quizbank/internal/profile"
	"github.com/abhisek/quizbank/internal/question"
	"github.com/abhisek/quizbank/internal/segment"
	"github.com/abhisek/quizbank/internal/session"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the question bank with the questions of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		encName, _ := cmd.Flags().GetString("encoding")
		enc, err := docreader.ParseEncoding(encName)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, "warn", false)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		report, err := e.svc.ImportFile(cmd.Context(), args[0], docreader.Options{Encoding: enc})
		if errors.Is(err, session.ErrNoQuestions) {
			printDiagnostics(out, report.Diagnostics)
			return fmt.Errorf("%s: %w; the current bank is unchanged", args[0], err)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Imported %d questions from %s\n", report.Questions, report.Source)
		fmt.Fprintf(out, "Import ID: %s\n", report.ImportID)
		printTypeCounts(out, e.svc.Builder().Profile(), e.svc.Bank().Stats().ByType)
		printDiagnostics(out, report.Diagnostics)
		return nil
	},
}

func init() {
	importCmd.Flags().String("encoding", "auto", "Text encoding: auto, utf-8, gb18030, utf-16")
}

func printTypeCounts(w io.Writer, p profile.Profile, byType map[question.Type]int) {
	for _, typ := range profile.KnownTypes {
		if n := byType[question.Type(typ)]; n > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", p.HeaderLabel(typ), n)
		}
	}
}

// printDiagnostics reports what the parser skipped. Nothing is printed for
// a clean parse.
func printDiagnostics(w io.Writer, d segment.Diagnostics) {
	if len(d.Dropped) == 0 && d.Discarded == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Paragraphs: %d (%d blank, %d headers, %d discarded)\n",
		d.Paragraphs, d.Blank, d.Headers, d.Discarded)
	if len(d.Dropped) == 0 {
		return
	}
	fmt.Fprintf(w, "Dropped %d blocks: %d without an answer marker, %d empty, %d malformed\n",
		len(d.Dropped),
		d.DroppedBy(segment.ReasonNoAnswerMarker),
		d.DroppedBy(segment.ReasonEmptyContent),
		d.DroppedBy(segment.ReasonBuildFault))
	for _, drop := range d.Dropped {
		fmt.Fprintf(w, "  %-16s %-13s %s\n", drop.Reason, drop.Type, strings.TrimSpace(drop.Line))
	}
}
