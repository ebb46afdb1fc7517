package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/timers"
)

func newExportCmd(c *cli) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the record and achievements to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, c.cfg, c.logger, timers.SystemClock{})
			if err != nil {
				return err
			}
			defer a.close(context.Background())

			data, filename, err := a.service.Export(ctx)
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = filename
			} else if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, filename)
			}

			if err := os.WriteFile(path, data, 0o600); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file or directory (default: dated file in the working directory)")
	return cmd
}

func newImportCmd(c *cli) *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the record with a previous export",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, c.cfg, c.logger, timers.SystemClock{})
			if err != nil {
				return err
			}
			defer a.close(context.Background())

			res, err := a.service.Import(ctx, data)
			if err != nil {
				return err
			}
			if res.Warning != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), res.Warning)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d moods, %d journal entries, %d sessions\n",
				res.Item.Moods, res.Item.Journals, res.Item.Sessions)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "export file to import")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func newScoreCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Print the current wellness score breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, c.cfg, c.logger, timers.SystemClock{})
			if err != nil {
				return err
			}
			defer a.close(context.Background())

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(a.service.WellnessScore())
		},
	}
}
