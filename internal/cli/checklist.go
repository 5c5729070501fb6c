package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/scholarkeeper/internal/common"
	"github.com/dmitrijs2005/scholarkeeper/internal/models"
)

func (a *App) checklistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checklist",
		Aliases: []string{"c"},
		Short:   "Manage per-scholarship checklists",
	}
	cmd.AddCommand(
		a.checklistListCommand(),
		a.checklistAddCommand(),
		a.checklistUpdateCommand(),
		a.checklistCheckCommand(),
		a.checklistDeleteCommand(),
		a.checklistReorderCommand(),
		a.checklistApplyTemplateCommand(),
		a.checklistSaveTemplateCommand(),
	)
	return cmd
}

func (a *App) printChecklist(cmd *cobra.Command, items []models.ChecklistItem) error {
	if a.jsonOut {
		return writeJSON(cmd.OutOrStdout(), items)
	}
	tw := newTable(cmd.OutOrStdout(), "ID", "ORDER", "DONE", "TEXT", "NOTE")
	for _, it := range items {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", it.ID, it.Order, checkbox(it.Checked), it.Text, it.Note)
	}
	return tw.Flush()
}

func (a *App) checklistListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <scholarship-id>",
		Short: "List a scholarship's checklist in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := parseID(args[0])
			if err != nil {
				return err
			}
			items, err := a.store.GetChecklistItems(cmd.Context(), sid)
			if err != nil {
				return err
			}
			return a.printChecklist(cmd, items)
		},
	}
}

func (a *App) checklistAddCommand() *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "add <scholarship-id> <text>",
		Short: "Append an item to a scholarship's checklist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sid, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.store.Scholarships.Get(ctx, sid)
			if err != nil {
				return err
			}
			if s == nil {
				return common.NewNotFound("scholarship", sid)
			}
			last, ok, err := a.store.Checklist.MaxOrder(ctx, sid)
			if err != nil {
				return err
			}
			order := 0
			if ok {
				order = last + 1
			}
			item, err := a.store.Checklist.Create(ctx, models.ChecklistItem{
				ScholarshipID: sid,
				Text:          args[1],
				Note:          note,
				Order:         order,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added item %d to scholarship %d\n", item.ID, sid)
			return nil
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "optional note")
	return cmd
}

func (a *App) checklistUpdateCommand() *cobra.Command {
	var (
		text, note string
		order      int
	)
	cmd := &cobra.Command{
		Use:   "update <item-id>",
		Short: "Change the text, note or order of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var p models.ChecklistItemPatch
			if cmd.Flags().Changed("text") {
				p.Text = &text
			}
			if cmd.Flags().Changed("note") {
				p.Note = &note
			}
			if cmd.Flags().Changed("order") {
				p.Order = &order
			}
			item, err := a.store.Checklist.Update(cmd.Context(), id, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated item %d\n", item.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "item text")
	cmd.Flags().StringVar(&note, "note", "", "item note")
	cmd.Flags().IntVar(&order, "order", 0, "position in the checklist")
	return cmd
}

func (a *App) checklistCheckCommand() *cobra.Command {
	var uncheck bool
	cmd := &cobra.Command{
		Use:   "check <item-id>",
		Short: "Mark an item done (or not, with --uncheck)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			checked := !uncheck
			item, err := a.store.Checklist.Update(cmd.Context(), id, models.ChecklistItemPatch{Checked: &checked})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", checkbox(item.Checked), item.Text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&uncheck, "uncheck", false, "clear the done mark")
	return cmd
}

func (a *App) checklistDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <item-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a checklist item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.store.Checklist.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %d\n", id)
			return nil
		},
	}
}

func (a *App) checklistReorderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <scholarship-id> <item-id>...",
		Short: "Set the checklist order to the given item ids",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := parseID(args[0])
			if err != nil {
				return err
			}
			ids, err := parseIDs(args[1:])
			if err != nil {
				return err
			}
			if err := a.store.ReorderChecklistItems(cmd.Context(), sid, ids); err != nil {
				return err
			}
			items, err := a.store.GetChecklistItems(cmd.Context(), sid)
			if err != nil {
				return err
			}
			return a.printChecklist(cmd, items)
		},
	}
}

func (a *App) checklistApplyTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "apply-template <scholarship-id> <template-id>",
		Short: "Append a template's items to a scholarship's checklist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := parseID(args[0])
			if err != nil {
				return err
			}
			created, err := a.store.ApplyTemplate(cmd.Context(), sid, models.TemplateID(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d items to scholarship %d\n", len(created), sid)
			return nil
		},
	}
}

func (a *App) checklistSaveTemplateCommand() *cobra.Command {
	var tpl models.Template
	cmd := &cobra.Command{
		Use:   "save-template <scholarship-id>",
		Short: "Save a scholarship's checklist as a new template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := parseID(args[0])
			if err != nil {
				return err
			}
			created, err := a.store.SaveChecklistAsTemplate(cmd.Context(), sid, tpl)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved template %s with %d items\n", created.ID, len(created.Items))
			return nil
		},
	}
	templateMetaFlags(cmd, &tpl)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
