package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/scholarkeeper/internal/backup"
	"github.com/dmitrijs2005/scholarkeeper/internal/filex"
	"github.com/dmitrijs2005/scholarkeeper/internal/transfer"
)

var errNeedsConfirmation = errors.New("replace deletes all existing data; pass --yes to confirm when not running in a terminal")

func (a *App) exportCommand() *cobra.Command {
	var (
		seed bool
		out  string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all data to a JSON file",
		Long:  `Write all data to a JSON file. With --seed the document also carries user templates and can be bundled as first-run seed data. Use --out - for stdout.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				doc  any
				name string
			)
			if seed {
				s, err := a.transfer.ExportSeed(ctx)
				if err != nil {
					return err
				}
				doc, name = s, transfer.SeedFileName(s.CreatedAt)
			} else {
				e, err := a.transfer.ExportAll(ctx)
				if err != nil {
					return err
				}
				doc, name = e, transfer.BackupFileName(e.ExportedAt)
			}
			data, err := transfer.Marshal(doc)
			if err != nil {
				return err
			}

			if out == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if out == "" {
				out = name
			}
			if err := filex.WriteFileAtomic(out, data, 0o600); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			st, err := a.transfer.GetExportStats(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d scholarships, %d checklist items, %d documents, %d templates to %s\n",
				st.Scholarships, st.ChecklistItems, st.Documents, st.Templates, out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "write a seed document including user templates")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: dated name in the current directory)")
	return cmd
}

func (a *App) importCommand() *cobra.Command {
	var (
		strategy string
		yes      bool
		preview  bool
		noBackup bool
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load a JSON export or seed document",
		Long:  `Load a JSON export or seed document. "merge" appends to existing data; "replace" deletes everything first and, unless --no-backup is given, saves a backup of the current data to the backup directory.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			doc, err := transfer.ParseImportFile(raw)
			if err != nil {
				return err
			}

			if preview {
				p := a.transfer.GetImportPreview(doc)
				return a.printPreview(cmd.OutOrStdout(), p)
			}

			strat, err := transfer.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			if strat == transfer.Replace {
				if err := a.confirmReplace(cmd, yes); err != nil {
					return err
				}
				if !noBackup {
					if err := a.backupBeforeReplace(ctx); err != nil {
						return err
					}
				}
			}

			res, err := a.transfer.ImportData(ctx, doc, strat)
			if err != nil {
				return err
			}
			return a.printImportResult(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&strategy, "strategy", "s", string(transfer.Merge), "replace or merge")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask before replacing data")
	cmd.Flags().BoolVar(&preview, "preview", false, "validate and report counts without writing")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "skip the backup taken before a replace")
	return cmd
}

// readInput reads a file, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	return b, nil
}

func (a *App) confirmReplace(cmd *cobra.Command, yes bool) error {
	if yes {
		return nil
	}
	if !interactive(cmd.InOrStdin()) {
		return errNeedsConfirmation
	}
	ok, err := Confirm(bufio.NewReader(cmd.InOrStdin()), "Replace ALL existing data with the contents of this file?", cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("import cancelled")
	}
	return nil
}

func (a *App) backupBeforeReplace(ctx context.Context) error {
	n, err := a.store.Scholarships.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	r := backup.NewRunner(a.transfer, a.logger, a.cfg.BackupTimeout, backup.NewLocalSink(a.cfg.BackupDir))
	if _, err := r.RunOnce(ctx); err != nil {
		return fmt.Errorf("backup before replace: %w", err)
	}
	return nil
}

func (a *App) printPreview(w io.Writer, p *transfer.Preview) error {
	if a.jsonOut {
		return writeJSON(w, p)
	}
	fmt.Fprintf(w, "Version: %s\nValid: %t\n", p.Version, p.Valid)
	fmt.Fprintf(w, "Would import %d scholarships, %d checklist items, %d documents, %d templates\n",
		p.Counts.Scholarships, p.Counts.ChecklistItems, p.Counts.Documents, p.Counts.Templates)
	printList(w, "Errors", p.Errors)
	printList(w, "Warnings", p.Warnings)
	return nil
}

func (a *App) printImportResult(w io.Writer, res *transfer.ImportResult) error {
	if a.jsonOut {
		if err := writeJSON(w, res); err != nil {
			return err
		}
	} else {
		tw := newTable(w, "COLLECTION", "CREATED", "ERRORS")
		for _, c := range []struct {
			name string
			res  transfer.CollectionResult
		}{
			{"scholarships", res.Scholarships},
			{"checklistItems", res.ChecklistItems},
			{"documents", res.Documents},
			{"templates", res.Templates},
		} {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", c.name, c.res.Created, len(c.res.Errors))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		printList(w, "Warnings", res.Warnings)
		for _, errs := range [][]string{res.Scholarships.Errors, res.ChecklistItems.Errors, res.Documents.Errors, res.Templates.Errors} {
			printList(w, "Errors", errs)
		}
	}
	if res.HasErrors() {
		return errors.New("import finished with errors")
	}
	return nil
}

func printList(w io.Writer, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, l := range lines {
		fmt.Fprintf(w, "  - %s\n", l)
	}
}

func (a *App) devCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "dev",
		Short:  "Development helpers",
		Hidden: true,
	}
	cmd.AddCommand(&cobra.Command{
		Use:         "reset-seed",
		Short:       "Forget that first-run seeding happened",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSeed: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.transfer.ResetSeedMarker(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Seed marker cleared; the next run seeds an empty database.")
			return nil
		},
	})
	return cmd
}
