// cmd/licenseid/build.go
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/dsablic/licenseid/internal/corpus"
	"github.com/dsablic/licenseid/internal/snapshot"
	"github.com/dsablic/licenseid/internal/spdx"
	"github.com/dsablic/licenseid/internal/ui"
)

func (a *app) newBuildCmd() *cobra.Command {
	var src, out string
	var force bool
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a corpus snapshot from license texts",
		Long: `Build writes a corpus snapshot. Without --src it snapshots the builtin
corpus. With --src it reads every <ID>.txt file in the directory and an
optional aliases.toml mapping IDs to alternative names.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := buildStore(src)
			if err != nil {
				return err
			}
			data, err := snapshot.Save(store)
			if err != nil {
				return fmt.Errorf("save snapshot: %w", err)
			}

			if _, err := os.Stat(out); err == nil && !force {
				ok, err := confirmOverwrite(out)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%s exists, use --force to overwrite", out)
				}
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
			a.logger.Info("snapshot written", "path", out, "licenses", store.Len(), "bytes", len(data))
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d licenses to %s (%d bytes)\n", store.Len(), out, len(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&src, "src", "", "Directory of license texts (default builtin corpus)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Snapshot file to write")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing snapshot")
	cmd.MarkFlagRequired("output")
	return cmd
}

func buildStore(src string) (*corpus.Store, error) {
	if src == "" {
		return spdx.Store()
	}
	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("read corpus: %s is not a directory", src)
	}
	store, err := corpus.FromFS(os.DirFS(src))
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", src, err)
	}
	return store, nil
}

// confirmOverwrite asks before replacing path. Without a terminal there is
// nobody to ask and the answer is no.
func confirmOverwrite(path string) (bool, error) {
	if !ui.IsTTY() || !stdinIsTerminal() {
		return false, nil
	}
	var ok bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("%s already exists. Overwrite?", path)).
		Affirmative("Overwrite").
		Negative("Cancel").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}
