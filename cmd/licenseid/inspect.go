// cmd/licenseid/inspect.go
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dsablic/licenseid/internal/config"
	"github.com/dsablic/licenseid/internal/corpus"
	"github.com/dsablic/licenseid/internal/engine"
	"github.com/dsablic/licenseid/internal/model"
	"github.com/dsablic/licenseid/internal/output"
	"github.com/dsablic/licenseid/internal/snapshot"
)

func (a *app) newInspectCmd() *cobra.Command {
	var format config.Format
	cmd := &cobra.Command{
		Use:   "inspect <snapshot>",
		Short: "Validate a corpus snapshot and list its licenses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return snapshot.Missing(err)
			}
			h, err := snapshot.ReadHeader(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			e, err := engine.New(data, engine.WithLogger(a.logger))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			info := corpusInfo(args[0], e.Store())
			info.Format = h.Version
			info.Bytes = len(data)
			return writeCorpus(cmd.OutOrStdout(), flagOr(cmd, "format", format, a.cfg.Format), info)
		},
	}
	cmd.Flags().VarP(&format, "format", "F", `Output format ("text", "json" or "markdown")`)
	return cmd
}

func (a *app) newListCmd() *cobra.Command {
	var (
		snapshotPath string
		src          string
		format       config.Format
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the licenses of the configured corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.engine(snapshotPath, src)
			if err != nil {
				return err
			}
			info := corpusInfo(e.Source(), e.Store())
			return writeCorpus(cmd.OutOrStdout(), flagOr(cmd, "format", format, a.cfg.Format), info)
		},
	}
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Corpus snapshot (default from config, else builtin corpus)")
	cmd.Flags().StringVar(&src, "src", "", "Directory of license texts to use instead of a snapshot")
	cmd.MarkFlagsMutuallyExclusive("snapshot", "src")
	cmd.Flags().VarP(&format, "format", "F", `Output format ("text", "json" or "markdown")`)
	return cmd
}

func corpusInfo(source string, store *corpus.Store) model.CorpusInfo {
	info := model.CorpusInfo{Source: source}
	for _, e := range store.Entries() {
		info.Entries = append(info.Entries, model.EntryInfo{
			Name:    e.Name(),
			Aliases: e.Aliases(),
			Lines:   e.Text().Len(),
			Bigrams: e.Fingerprint().Total(),
		})
	}
	return info
}

func writeCorpus(w io.Writer, format config.Format, info model.CorpusInfo) error {
	switch format {
	case config.FormatJSON:
		return output.WriteJSON(w, info)
	case config.FormatMarkdown:
		return output.WriteCorpusMarkdown(w, info)
	default:
		return output.WriteCorpusText(w, info)
	}
}
