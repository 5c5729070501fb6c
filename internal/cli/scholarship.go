package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/scholarkeeper/internal/common"
	"github.com/dmitrijs2005/scholarkeeper/internal/models"
	"github.com/dmitrijs2005/scholarkeeper/internal/search"
	"github.com/dmitrijs2005/scholarkeeper/internal/stats"
)

type scholarshipFlags struct {
	name, provider, degree, country string
	year                            int
	deadline, status                string
	docs                            []string
}

func (f *scholarshipFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "scholarship name")
	fs.StringVar(&f.provider, "provider", "", "awarding organisation")
	fs.StringVar(&f.degree, "degree", "", "degree level, e.g. Masters")
	fs.StringVar(&f.country, "country", "", "host country")
	fs.IntVar(&f.year, "year", 0, "application year")
	fs.StringVar(&f.deadline, "deadline", "", "deadline as YYYY-MM-DD")
	fs.StringVar(&f.status, "status", "", "pipeline status")
	fs.StringSliceVar(&f.docs, "docs", nil, "required document ids, comma separated")
}

// patch builds a patch from the flags the user set.
func (f *scholarshipFlags) patch(a *App, cmd *cobra.Command) (models.ScholarshipPatch, error) {
	var p models.ScholarshipPatch
	changed := cmd.Flags().Changed
	if changed("name") {
		p.Name = &f.name
	}
	if changed("provider") {
		p.Provider = &f.provider
	}
	if changed("degree") {
		p.DegreeLevel = &f.degree
	}
	if changed("country") {
		p.Country = &f.country
	}
	if changed("year") {
		p.ApplicationYear = &f.year
	}
	if changed("deadline") {
		d, err := a.parseDate(f.deadline)
		if err != nil {
			return p, err
		}
		p.Deadline = &d
	}
	if changed("status") {
		st, err := parseStatus(f.status)
		if err != nil {
			return p, err
		}
		p.Status = &st
	}
	if changed("docs") {
		ids, err := parseIDs(f.docs)
		if err != nil {
			return p, err
		}
		p.RequiredDocumentIDs = &ids
	}
	return p, nil
}

func (a *App) scholarshipCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "scholarship",
		Aliases: []string{"s"},
		Short:   "Manage scholarships",
	}
	cmd.AddCommand(
		a.scholarshipAddCommand(),
		a.scholarshipListCommand(),
		a.scholarshipShowCommand(),
		a.scholarshipUpdateCommand(),
		a.scholarshipDeleteCommand(),
		a.scholarshipDocumentsCommand(),
	)
	return cmd
}

func (a *App) scholarshipAddCommand() *cobra.Command {
	f := &scholarshipFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a scholarship",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.patch(a, cmd)
			if err != nil {
				return err
			}
			s := models.Scholarship{Status: models.StatusNotStarted}
			p.Apply(&s)

			created, err := a.store.Scholarships.Create(cmd.Context(), s)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), created)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created scholarship %d: %s\n", created.ID, created.Name)
			return nil
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("provider")
	_ = cmd.MarkFlagRequired("deadline")
	return cmd
}

func (a *App) scholarshipListCommand() *cobra.Command {
	var (
		query     string
		statuses  []string
		countries []string
		window    string
		from, to  string
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List scholarships, optionally searched and filtered",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			list, err := a.store.Scholarships.GetAll(ctx)
			if err != nil {
				return err
			}

			var filters search.Filters
			for _, s := range statuses {
				st, err := parseStatus(s)
				if err != nil {
					return err
				}
				filters.Status = append(filters.Status, st)
			}
			filters.Country = countries
			if window != "" {
				r, err := a.deadlineRange(window, from, to)
				if err != nil {
					return err
				}
				filters.DeadlineRange = r
			}

			now := a.now()
			list = search.FilterScholarships(search.SearchScholarships(list, query), filters, now)

			items, err := a.store.Checklist.GetAll(ctx)
			if err != nil {
				return err
			}
			byScholarship := models.GroupByScholarship(items)

			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "COUNTRY", "DEADLINE", "DAYS", "STATUS", "PROGRESS")
			for _, s := range list {
				p := stats.ScholarshipProgress(s.ID, byScholarship)
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%d/%d (%d%%)\n", s.ID, s.Name, orDash(s.Country),
					a.date(s.Deadline), stats.DaysUntilDeadline(s.Deadline, now), s.Status,
					p.Completed, p.Total, p.Percentage)
			}
			return tw.Flush()
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&query, "search", "q", "", "match name, provider or country")
	fs.StringSliceVar(&statuses, "status", nil, "keep these statuses (repeatable)")
	fs.StringSliceVar(&countries, "country", nil, "keep these countries (repeatable)")
	fs.StringVar(&window, "range", "", "deadline window: thisWeek, thisMonth, thisQuarter or custom")
	fs.StringVar(&from, "from", "", "custom range start, YYYY-MM-DD (default today)")
	fs.StringVar(&to, "to", "", "custom range end, YYYY-MM-DD (default today)")
	return cmd
}

func (a *App) deadlineRange(window, from, to string) (*search.DeadlineRange, error) {
	r := &search.DeadlineRange{Type: search.RangeType(window)}
	switch r.Type {
	case search.ThisWeek, search.ThisMonth, search.ThisQuarter:
		return r, nil
	case search.Custom:
	default:
		return nil, fmt.Errorf("invalid range %q", window)
	}
	for _, b := range []struct {
		in  string
		dst **time.Time
	}{{from, &r.Start}, {to, &r.End}} {
		if b.in == "" {
			continue
		}
		t, err := a.parseDate(b.in)
		if err != nil {
			return nil, err
		}
		*b.dst = &t
	}
	return r, nil
}

func (a *App) scholarshipShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a scholarship with its checklist and documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.store.Scholarships.Get(ctx, id)
			if err != nil {
				return err
			}
			if s == nil {
				return common.NewNotFound("scholarship", id)
			}
			items, err := a.store.GetChecklistItems(ctx, id)
			if err != nil {
				return err
			}
			docs, err := a.store.GetScholarshipRequiredDocuments(ctx, id)
			if err != nil {
				return err
			}

			days := stats.DaysUntilDeadline(s.Deadline, a.now())
			progress := stats.ScholarshipProgress(id, map[int64][]models.ChecklistItem{id: items})
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), struct {
					*models.Scholarship
					DaysUntilDeadline int                    `json:"daysUntilDeadline"`
					Urgency           stats.Urgency          `json:"urgency"`
					Progress          stats.Progress         `json:"progress"`
					ChecklistItems    []models.ChecklistItem `json:"checklistItems"`
					Documents         []models.Document      `json:"documents"`
				}{s, days, stats.UrgencyLevel(days), progress, items, docs})
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s (#%d)\n", s.Name, s.ID)
			tw := newTable(w)
			fmt.Fprintf(tw, "Provider:\t%s\n", orDash(s.Provider))
			fmt.Fprintf(tw, "Degree:\t%s\n", orDash(s.DegreeLevel))
			fmt.Fprintf(tw, "Country:\t%s\n", orDash(s.Country))
			fmt.Fprintf(tw, "Year:\t%d\n", s.ApplicationYear)
			fmt.Fprintf(tw, "Deadline:\t%s (%d days, %s)\n", a.date(s.Deadline), days, stats.UrgencyLevel(days))
			fmt.Fprintf(tw, "Status:\t%s\n", s.Status)
			fmt.Fprintf(tw, "Progress:\t%d/%d (%d%%)\n", progress.Completed, progress.Total, progress.Percentage)
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(w, "\nChecklist:")
			for _, it := range items {
				fmt.Fprintf(w, "  %s %s (#%d)\n", checkbox(it.Checked), it.Text, it.ID)
			}
			fmt.Fprintln(w, "\nDocuments:")
			for _, d := range docs {
				fmt.Fprintf(w, "  #%d %s [%s, %s]\n", d.ID, d.Name, d.Type, d.Status)
			}
			return nil
		},
	}
}

func (a *App) scholarshipUpdateCommand() *cobra.Command {
	f := &scholarshipFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a scholarship",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := f.patch(a, cmd)
			if err != nil {
				return err
			}
			updated, err := a.store.Scholarships.Update(cmd.Context(), id, p)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), updated)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated scholarship %d\n", updated.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (a *App) scholarshipDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a scholarship (its checklist items are kept)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.store.Scholarships.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted scholarship %d\n", id)
			return nil
		},
	}
}

func (a *App) scholarshipDocumentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "documents <id>",
		Short: "List the documents a scholarship requires",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			docs, err := a.store.GetScholarshipRequiredDocuments(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printDocuments(cmd, docs)
		},
	}
}
