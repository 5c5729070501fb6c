package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/scholarkeeper/internal/models"
)

func templateMetaFlags(cmd *cobra.Command, tpl *models.Template) {
	fs := cmd.Flags()
	fs.StringVar(&tpl.Name, "name", "", "template name")
	fs.StringVar(&tpl.Description, "description", "", "what the template is for")
	fs.StringVar(&tpl.Category, "category", "", "grouping label, e.g. Government")
	fs.StringVar(&tpl.Country, "country", "", "country the template targets")
}

func (a *App) templateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"t"},
		Short:   "Manage checklist templates",
	}
	cmd.AddCommand(
		a.templateListCommand(),
		a.templateShowCommand(),
		a.templateAddCommand(),
		a.templateUpdateCommand(),
		a.templateDeleteCommand(),
	)
	return cmd
}

func (a *App) templateListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List built-in and user templates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.store.AllTemplates(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "COUNTRY", "ITEMS", "ORIGIN")
			for _, t := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", t.ID, t.Name, orDash(t.Country), len(t.Items), t.CreatedBy)
			}
			return tw.Flush()
		},
	}
}

func (a *App) templateShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a template's items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.store.GetTemplate(cmd.Context(), models.TemplateID(args[0]))
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), t)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s (%s, %s)\n", t.Name, t.ID, t.CreatedBy)
			if t.Description != "" {
				fmt.Fprintln(w, t.Description)
			}
			for i, it := range t.Items {
				fmt.Fprintf(w, "  %d. %s", i+1, it.Text)
				if it.Note != "" {
					fmt.Fprintf(w, " (%s)", it.Note)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
}

func (a *App) templateAddCommand() *cobra.Command {
	var (
		tpl   models.Template
		items []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl.Items = make([]models.TemplateItem, 0, len(items))
			for _, raw := range items {
				it, err := parseTemplateItem(raw)
				if err != nil {
					return err
				}
				tpl.Items = append(tpl.Items, it)
			}
			tpl.CreatedBy = models.OriginUser
			created, err := a.store.Templates.Create(cmd.Context(), tpl)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created template %s with %d items\n", created.ID, len(created.Items))
			return nil
		},
	}
	templateMetaFlags(cmd, &tpl)
	cmd.Flags().StringArrayVar(&items, "item", nil, `checklist item as "text" or "text|note" (repeatable)`)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *App) templateUpdateCommand() *cobra.Command {
	var (
		tpl   models.Template
		items []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a user template; --item replaces all items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p models.TemplatePatch
			changed := cmd.Flags().Changed
			if changed("name") {
				p.Name = &tpl.Name
			}
			if changed("description") {
				p.Description = &tpl.Description
			}
			if changed("category") {
				p.Category = &tpl.Category
			}
			if changed("country") {
				p.Country = &tpl.Country
			}
			if changed("item") {
				list := make([]models.TemplateItem, 0, len(items))
				for _, raw := range items {
					it, err := parseTemplateItem(raw)
					if err != nil {
						return err
					}
					list = append(list, it)
				}
				p.Items = &list
			}
			updated, err := a.store.UpdateTemplate(cmd.Context(), models.TemplateID(args[0]), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated template %s\n", updated.ID)
			return nil
		},
	}
	templateMetaFlags(cmd, &tpl)
	cmd.Flags().StringArrayVar(&items, "item", nil, `checklist item as "text" or "text|note" (repeatable)`)
	return cmd
}

func (a *App) templateDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a user template",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.DeleteTemplate(cmd.Context(), models.TemplateID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted template %s\n", args[0])
			return nil
		},
	}
}
