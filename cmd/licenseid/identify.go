// cmd/licenseid/identify.go
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dsablic/licenseid/internal/config"
	"github.com/dsablic/licenseid/internal/match"
	"github.com/dsablic/licenseid/internal/model"
	"github.com/dsablic/licenseid/internal/output"
)

// maxInput bounds the text read by identify.
const maxInput = 16 << 20

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (a *app) newIdentifyCmd() *cobra.Command {
	var (
		snapshotPath string
		src          string
		top          int
		threshold    float64
		format       config.Format
		locate       bool
		diff         string
	)
	cmd := &cobra.Command{
		Use:   "identify [file|-]",
		Short: "Identify the license of a text",
		Long: `Identify reports the known license most similar to the input text and a
score in [0, 1]. The input is read from the named file, or from stdin when
the argument is "-" or omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			top = flagOr(cmd, "top", top, a.cfg.Top)
			threshold = flagOr(cmd, "threshold", threshold, a.cfg.Threshold)
			format = flagOr(cmd, "format", format, a.cfg.Format)
			if format == config.FormatMarkdown {
				return errors.New("identify supports text and json formats")
			}

			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			e, err := a.engine(snapshotPath, src)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			switch {
			case diff != "":
				edits, err := e.Diff(text, diff)
				if err != nil {
					return err
				}
				if format == config.FormatJSON {
					return output.WriteJSON(w, edits)
				}
				_, err = io.WriteString(w, match.FormatDiff(edits))
				return err
			case locate:
				region := e.Locate(text)
				if format == config.FormatJSON {
					return output.WriteJSON(w, region)
				}
				fmt.Fprintf(w, "%s lines %d-%d\n", region.Match, region.Start+1, region.End)
				return nil
			}

			ctx := cmd.Context()
			var matches []model.Match
			if top > 1 {
				matches = e.IdentifyTop(text, top)
			} else {
				m, err := e.IdentifyContext(ctx, text)
				if err != nil {
					return err
				}
				matches = []model.Match{m}
			}
			if format == config.FormatJSON {
				return output.WriteJSON(w, matches)
			}
			return output.WriteMatches(w, matches, threshold)
		},
	}
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Corpus snapshot (default from config, else builtin corpus)")
	cmd.Flags().StringVar(&src, "src", "", "Directory of license texts to use instead of a snapshot")
	cmd.MarkFlagsMutuallyExclusive("snapshot", "src")
	cmd.Flags().IntVarP(&top, "top", "n", 1, "Number of candidates to show")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.9, "Mark candidates scoring below this")
	cmd.Flags().VarP(&format, "format", "F", `Output format ("text" or "json")`)
	cmd.Flags().BoolVar(&locate, "locate", false, "Report the line range of the input that best matches")
	cmd.Flags().StringVar(&diff, "diff", "", "Show a line diff against the named license")
	cmd.MarkFlagsMutuallyExclusive("locate", "diff")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	var r io.Reader
	if len(args) == 0 || args[0] == "-" {
		if cmd.InOrStdin() == os.Stdin && stdinIsTerminal() {
			return "", errors.New("no input: pass a file or pipe text on stdin")
		}
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(io.LimitReader(r, maxInput))
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}
