// cmd/licenseid/scan.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dsablic/licenseid/internal/config"
	"github.com/dsablic/licenseid/internal/engine"
	"github.com/dsablic/licenseid/internal/model"
	"github.com/dsablic/licenseid/internal/output"
	"github.com/dsablic/licenseid/internal/scan"
	"github.com/dsablic/licenseid/internal/ui"
)

func (a *app) newScanCmd() *cobra.Command {
	var (
		snapshotPath string
		src          string
		threshold    float64
		workers      int
		format       config.Format
		crossCheck   bool
		headers      bool
		token        string
	)
	cmd := &cobra.Command{
		Use:   "scan <dir|git-url>",
		Short: "Find and identify license files in a source tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.engine(snapshotPath, src)
			if err != nil {
				return err
			}
			opts := scan.Options{
				Threshold:   flagOr(cmd, "threshold", threshold, a.cfg.Threshold),
				Workers:     flagOr(cmd, "workers", workers, a.cfg.Workers),
				Headers:     flagOr(cmd, "headers", headers, a.cfg.ScanHeaders),
				CrossCheck:  flagOr(cmd, "cross-check", crossCheck, a.cfg.CrossCheck),
				MaxFileSize: a.cfg.MaxFileSize,
				Logger:      a.logger,
			}
			format = flagOr(cmd, "format", format, a.cfg.Format)
			if token == "" {
				token = os.Getenv("LICENSEID_GIT_TOKEN")
			}

			report, err := a.runScan(cmd.Context(), cmd.ErrOrStderr(), e, opts, args[0], token)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), format, *report)
		},
	}
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Corpus snapshot (default from config, else builtin corpus)")
	cmd.Flags().StringVar(&src, "src", "", "Directory of license texts to use instead of a snapshot")
	cmd.MarkFlagsMutuallyExclusive("snapshot", "src")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.9, "Minimum score counted as a recognized license")
	cmd.Flags().IntVarP(&workers, "workers", "j", 4, "Files identified concurrently")
	cmd.Flags().VarP(&format, "format", "F", `Output format ("text", "json" or "markdown")`)
	cmd.Flags().BoolVar(&crossCheck, "cross-check", false, "Also run go-license-detector and licensecheck")
	cmd.Flags().BoolVar(&headers, "headers", false, "Identify license headers of source files")
	cmd.Flags().StringVar(&token, "token", "", "Token for cloning private repositories (default $LICENSEID_GIT_TOKEN)")
	return cmd
}

func (a *app) runScan(ctx context.Context, stderr io.Writer, e *engine.Engine, opts scan.Options, target, token string) (*model.ScanReport, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		p     *tea.Program
		done  chan struct{}
		plain *ui.PlainProgress
	)
	if ui.IsTTY() {
		p = ui.RunTUI(0)
		opts.Progress = func(pr scan.Progress) {
			p.Send(ui.ProgressMsg{Completed: pr.Completed, Total: pr.Total, Path: pr.Path, License: recognized(pr.Result)})
		}
		done = make(chan struct{})
		go func() {
			defer close(done)
			// The program also returns when the user quits; stop the scan then.
			defer cancel()
			if _, err := p.Run(); err != nil {
				a.logger.Warn("progress display failed", "err", err)
			}
		}()
	} else {
		plain = ui.NewPlainProgress(func(msg string) {
			fmt.Fprintln(stderr, msg)
		})
		opts.Progress = func(pr scan.Progress) {
			plain.Update(pr.Completed, pr.Total, pr.Path, recognized(pr.Result))
		}
	}

	s := scan.New(e, opts)
	var report *model.ScanReport
	var err error
	if scan.IsRemote(target) {
		a.logger.Debug("cloning", "url", target)
		report, err = s.ScanRemote(ctx, scan.NewCloner(token, a.logger), target)
	} else {
		report, err = s.Scan(ctx, target)
	}

	msg := ui.DoneMsg{Err: err}
	if report != nil {
		msg.Files, msg.Unknown = len(report.Files), report.Unknown
	}
	if p != nil {
		p.Send(msg)
		<-done
	} else if err == nil {
		plain.Done(msg.Files, msg.Unknown)
	}
	return report, err
}

func recognized(r *model.FileResult) string {
	if r == nil || !r.Recognized {
		return ""
	}
	return r.Match.Name
}

func writeReport(w io.Writer, format config.Format, report model.ScanReport) error {
	switch format {
	case config.FormatJSON:
		return output.WriteJSON(w, report)
	case config.FormatMarkdown:
		return output.WriteMarkdown(w, report)
	default:
		return output.WriteText(w, report)
	}
}
