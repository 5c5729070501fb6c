package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/scholarkeeper/internal/models"
)

type documentFlags struct {
	name, docType, status, link, notes string
}

func (f *documentFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "document name")
	fs.StringVar(&f.docType, "type", "", "document type: "+joinValues(models.DocumentTypes))
	fs.StringVar(&f.status, "status", "", "document status: "+joinValues(models.DocumentStatuses))
	fs.StringVar(&f.link, "link", "", "where the file lives")
	fs.StringVar(&f.notes, "notes", "", "free-form notes")
}

func (f *documentFlags) patch(cmd *cobra.Command) (models.DocumentPatch, error) {
	var p models.DocumentPatch
	changed := cmd.Flags().Changed
	if changed("name") {
		p.Name = &f.name
	}
	if changed("type") {
		t, err := parseDocumentType(f.docType)
		if err != nil {
			return p, err
		}
		p.Type = &t
	}
	if changed("status") {
		st, err := parseDocumentStatus(f.status)
		if err != nil {
			return p, err
		}
		p.Status = &st
	}
	if changed("link") {
		p.FileLink = &f.link
	}
	if changed("notes") {
		p.Notes = &f.notes
	}
	return p, nil
}

func (a *App) documentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "document",
		Aliases: []string{"doc", "d"},
		Short:   "Manage supporting documents",
	}
	cmd.AddCommand(
		a.documentAddCommand(),
		a.documentListCommand(),
		a.documentUpdateCommand(),
		a.documentDeleteCommand(),
		a.documentScholarshipsCommand(),
	)
	return cmd
}

func (a *App) printDocuments(cmd *cobra.Command, docs []models.Document) error {
	if a.jsonOut {
		return writeJSON(cmd.OutOrStdout(), docs)
	}
	tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "TYPE", "STATUS", "UPDATED", "LINK")
	for _, d := range docs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Type, d.Status, a.date(d.LastUpdated), orDash(d.FileLink))
	}
	return tw.Flush()
}

func (a *App) documentAddCommand() *cobra.Command {
	f := &documentFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.patch(cmd)
			if err != nil {
				return err
			}
			var d models.Document
			p.Apply(&d, a.now())
			created, err := a.store.Documents.Create(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created document %d: %s\n", created.ID, created.Name)
			return nil
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func (a *App) documentListCommand() *cobra.Command {
	var docType, status string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List documents",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				docs []models.Document
				err  error
			)
			switch {
			case docType != "":
				t, perr := parseDocumentType(docType)
				if perr != nil {
					return perr
				}
				docs, err = a.store.Documents.ListByType(ctx, t)
			case status != "":
				st, perr := parseDocumentStatus(status)
				if perr != nil {
					return perr
				}
				docs, err = a.store.Documents.ListByStatus(ctx, st)
			default:
				docs, err = a.store.Documents.GetAll(ctx)
			}
			if err != nil {
				return err
			}
			return a.printDocuments(cmd, docs)
		},
	}
	cmd.Flags().StringVar(&docType, "type", "", "only this type")
	cmd.Flags().StringVar(&status, "status", "", "only this status")
	cmd.MarkFlagsMutuallyExclusive("type", "status")
	return cmd
}

func (a *App) documentUpdateCommand() *cobra.Command {
	f := &documentFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := f.patch(cmd)
			if err != nil {
				return err
			}
			d, err := a.store.Documents.Update(cmd.Context(), id, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated document %d\n", d.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (a *App) documentDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a document (scholarships referring to it are left as they are)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.store.Documents.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted document %d\n", id)
			return nil
		},
	}
}

func (a *App) documentScholarshipsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scholarships <id>",
		Short: "List the scholarships that require a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			list, err := a.store.GetDocumentScholarships(cmd.Context(), id)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "DEADLINE", "STATUS")
			for _, s := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.Name, a.date(s.Deadline), s.Status)
			}
			return tw.Flush()
		},
	}
}
