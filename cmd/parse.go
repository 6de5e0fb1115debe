package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizbank/internal/docreader"
	"github.com/abhisek/quizbank/internal/question"
	"github.com/abhisek/quizbank/internal/segment"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Print the questions of a document without importing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		withDiag, _ := cmd.Flags().GetBool("diagnostics")
		encName, _ := cmd.Flags().GetString("encoding")
		enc, err := docreader.ParseEncoding(encName)
		if err != nil {
			return err
		}

		log, closer, err := newLogger(cmd, "warn", false)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}
		seg, err := newSegmenter(cmd, log)
		if err != nil {
			return err
		}

		paragraphs, err := docreader.ReadFile(args[0], docreader.Options{Encoding: enc})
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		res := seg.Parse(slices.Values(paragraphs))

		out := cmd.OutOrStdout()
		doc := parseOutput{Questions: res.Questions}
		if withDiag {
			doc.Diagnostics = &res.Diagnostics
		}
		switch format {
		case "json":
			je := json.NewEncoder(out)
			je.SetIndent("", "  ")
			return je.Encode(doc)
		case "yaml":
			ye := yaml.NewEncoder(out)
			ye.SetIndent(2)
			if err := ye.Encode(doc); err != nil {
				return err
			}
			return ye.Close()
		case "text":
			for _, q := range res.Questions {
				printQuestion(out, seg.Builder(), q)
			}
			fmt.Fprintf(out, "%d questions\n", len(res.Questions))
			if withDiag {
				printDiagnostics(out, res.Diagnostics)
			}
			return nil
		}
		return fmt.Errorf("unknown output format %q", format)
	},
}

type parseOutput struct {
	Questions   []question.Question  `json:"questions" yaml:"questions"`
	Diagnostics *segment.Diagnostics `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

func init() {
	parseCmd.Flags().StringP("format", "f", "text", "Output format: text, json, yaml")
	parseCmd.Flags().Bool("diagnostics", false, "Include parse diagnostics")
	parseCmd.Flags().String("encoding", "auto", "Text encoding: auto, utf-8, gb18030, utf-16")
}

// printQuestion writes q the way practice shows it, followed by its answer.
func printQuestion(w io.Writer, b *question.Builder, q question.Question) {
	p := b.Profile()
	q = b.ResolveTrueFalse(q)
	fmt.Fprintf(w, "#%d [%s] %s\n", q.SequenceIndex+1, p.HeaderLabel(string(q.Type)), q.DisplayText())
	opts := b.DisplayOptions(q)
	letters := make([]string, 0, len(opts))
	for l := range opts {
		letters = append(letters, l)
	}
	slices.Sort(letters)
	for _, l := range letters {
		fmt.Fprintf(w, "  %s. %s\n", l, opts[l])
	}
	fmt.Fprintf(w, "  Answer: %s\n\n", b.FormatAnswer(q))
}
