package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/scholarkeeper/internal/models"
	"github.com/dmitrijs2005/scholarkeeper/internal/search"
	"github.com/dmitrijs2005/scholarkeeper/internal/stats"
)

func (a *App) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			list, err := a.store.Scholarships.GetAll(ctx)
			if err != nil {
				return err
			}
			items, err := a.store.Checklist.GetAll(ctx)
			if err != nil {
				return err
			}
			docs, err := a.store.Documents.GetAll(ctx)
			if err != nil {
				return err
			}

			o := stats.OverallStats(list, models.GroupByScholarship(items), docs, a.now())
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), o)
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "Scholarships:\t%d\n", o.TotalScholarships)
			for _, st := range models.ScholarshipStatuses {
				fmt.Fprintf(tw, "  %s:\t%d\n", st, o.ByStatus[st])
			}
			fmt.Fprintf(tw, "Average completion:\t%d%%\n", o.AvgCompletion)
			fmt.Fprintf(tw, "Overdue:\t%d\n", o.OverdueCount)
			fmt.Fprintf(tw, "Documents:\t%d (ready %d, draft %d, not ready %d)\n", o.DocumentStats.Total,
				o.DocumentStats.Ready, o.DocumentStats.Draft, o.DocumentStats.NotReady)
			return tw.Flush()
		},
	}
}

func (a *App) upcomingCommand() *cobra.Command {
	var (
		limit       int
		showOverdue bool
	)
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List deadlines with countdown and urgency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.store.Scholarships.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			all := stats.UpcomingDeadlines(list, a.now())
			out := make([]stats.UpcomingDeadline, 0, len(all))
			for _, d := range all {
				if d.Urgency == stats.UrgencyOverdue && !showOverdue {
					continue
				}
				out = append(out, d)
				if limit > 0 && len(out) == limit {
					break
				}
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "DEADLINE", "DAYS", "URGENCY", "STATUS")
			for _, d := range out {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n", d.ID, d.Name, a.date(d.Deadline), d.DaysUntilDeadline, d.Urgency, d.Status)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n deadlines")
	cmd.Flags().BoolVar(&showOverdue, "overdue", false, "include deadlines that have passed")
	return cmd
}

func (a *App) calendarCommand() *cobra.Command {
	var window, from, to string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Group scholarships by deadline date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.store.Scholarships.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			now := a.now()
			if window != "" {
				r, err := a.deadlineRange(window, from, to)
				if err != nil {
					return err
				}
				list = search.FilterScholarships(list, search.Filters{DeadlineRange: r}, now)
			}

			groups := search.GroupScholarshipsByDate(list, now.Location())
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), groups)
			}
			w := cmd.OutOrStdout()
			for _, day := range search.SortedDates(groups) {
				fmt.Fprintln(w, day)
				for _, s := range groups[day] {
					fmt.Fprintf(w, "  #%d %s [%s]\n", s.ID, s.Name, s.Status)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&window, "range", "", "deadline window: thisWeek, thisMonth, thisQuarter or custom")
	cmd.Flags().StringVar(&from, "from", "", "custom range start, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "custom range end, YYYY-MM-DD")
	return cmd
}
