// Package search implements free-text search, faceted filtering and calendar
// grouping over scholarship slices.
package search

import (
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/scholarkeeper/internal/models"
	"github.com/dmitrijs2005/scholarkeeper/internal/timex"
)

type RangeType string

const (
	ThisWeek    RangeType = "thisWeek"
	ThisMonth   RangeType = "thisMonth"
	ThisQuarter RangeType = "thisQuarter"
	Custom      RangeType = "custom"
)

// DeadlineRange constrains deadlines to a window starting today. For Custom,
// a nil Start or End means today.
type DeadlineRange struct {
	Type  RangeType  `json:"type"`
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Filters combine with AND; values inside Status and Country combine with OR.
// Empty or nil fields do not constrain.
type Filters struct {
	Status        []models.ScholarshipStatus `json:"status,omitempty"`
	Country       []string                   `json:"country,omitempty"`
	DeadlineRange *DeadlineRange             `json:"deadlineRange,omitempty"`
}

// SearchScholarships keeps scholarships whose name, provider or country
// contains query, ignoring case. A blank query returns list as is.
func SearchScholarships(list []models.Scholarship, query string) []models.Scholarship {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}
	out := make([]models.Scholarship, 0)
	for _, s := range list {
		if strings.Contains(strings.ToLower(s.Name), q) ||
			strings.Contains(strings.ToLower(s.Provider), q) ||
			strings.Contains(strings.ToLower(s.Country), q) {
			out = append(out, s)
		}
	}
	return out
}

// FilterScholarships applies f relative to ref, which fixes "today" and the
// location deadlines are compared in.
func FilterScholarships(list []models.Scholarship, f Filters, ref time.Time) []models.Scholarship {
	window, hasWindow := f.window(ref)

	out := make([]models.Scholarship, 0, len(list))
	for _, s := range list {
		if len(f.Status) > 0 && !containsStatus(f.Status, s.Status) {
			continue
		}
		if len(f.Country) > 0 && !containsString(f.Country, s.Country) {
			continue
		}
		if hasWindow && !window.contains(s.Deadline, ref.Location()) {
			continue
		}
		out = append(out, s)
	}
	return out
}

type dateWindow struct {
	from, to time.Time
}

func (w dateWindow) contains(deadline time.Time, loc *time.Location) bool {
	d := timex.StartOfDay(deadline.In(loc))
	return !d.Before(w.from) && !d.After(w.to)
}

func (f Filters) window(ref time.Time) (dateWindow, bool) {
	if f.DeadlineRange == nil {
		return dateWindow{}, false
	}
	today := timex.StartOfDay(ref)
	switch f.DeadlineRange.Type {
	case ThisWeek:
		return dateWindow{from: today, to: timex.EndOfWeek(today)}, true
	case ThisMonth:
		return dateWindow{from: today, to: timex.EndOfMonth(today)}, true
	case ThisQuarter:
		return dateWindow{from: today, to: timex.EndOfQuarter(today)}, true
	case Custom:
		w := dateWindow{from: today, to: today}
		if f.DeadlineRange.Start != nil {
			w.from = timex.StartOfDay(f.DeadlineRange.Start.In(ref.Location()))
		}
		if f.DeadlineRange.End != nil {
			w.to = timex.StartOfDay(f.DeadlineRange.End.In(ref.Location()))
		}
		return w, true
	default:
		return dateWindow{}, false
	}
}

func containsStatus(list []models.ScholarshipStatus, v models.ScholarshipStatus) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// GroupScholarshipsByDate buckets scholarships by the YYYY-MM-DD of their
// deadline in loc. Each bucket keeps input order.
func GroupScholarshipsByDate(list []models.Scholarship, loc *time.Location) map[string][]models.Scholarship {
	out := make(map[string][]models.Scholarship)
	for _, s := range list {
		key := timex.DateKey(s.Deadline, loc)
		out[key] = append(out[key], s)
	}
	return out
}

// SortedDates returns the keys of a grouping in calendar order.
func SortedDates(groups map[string][]models.Scholarship) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
