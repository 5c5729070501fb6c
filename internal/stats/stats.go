// Package stats derives countdowns, urgency bands, checklist progress and
// dashboard totals from plain entity slices. Nothing here touches the store.
//
// Day arithmetic is done on calendar dates in the location of the reference
// time, so a deadline later today is 0 days away and DST changes never shift
// the count.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/dmitrijs2005/scholarkeeper/internal/models"
	"github.com/dmitrijs2005/scholarkeeper/internal/timex"
)

type Urgency string

const (
	UrgencyOverdue  Urgency = "overdue"
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// UrgencyLevel maps days remaining to a band. Upper bounds are inclusive:
// 7 is critical, 30 is high, 60 is medium.
func UrgencyLevel(days int) Urgency {
	switch {
	case days < 0:
		return UrgencyOverdue
	case days <= 7:
		return UrgencyCritical
	case days <= 30:
		return UrgencyHigh
	case days <= 60:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// DaysUntilDeadline counts calendar days from ref to deadline. Negative means overdue.
func DaysUntilDeadline(deadline, ref time.Time) int {
	return timex.DaysBetween(ref, deadline, ref.Location())
}

type Progress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// ScholarshipProgress counts checked items of one scholarship. Percentage is
// 0 for an empty checklist.
func ScholarshipProgress(scholarshipID int64, itemsByScholarship map[int64][]models.ChecklistItem) Progress {
	items := itemsByScholarship[scholarshipID]
	p := Progress{Total: len(items)}
	for _, it := range items {
		if it.Checked {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
	}
	return p
}

type DocumentStats struct {
	Total    int `json:"total"`
	Ready    int `json:"ready"`
	Draft    int `json:"draft"`
	NotReady int `json:"notReady"`
}

type Overall struct {
	TotalScholarships int                              `json:"totalScholarships"`
	ByStatus          map[models.ScholarshipStatus]int `json:"byStatus"`
	AvgCompletion     int                              `json:"avgCompletion"`
	OverdueCount      int                              `json:"overdueCount"`
	DocumentStats     DocumentStats                    `json:"documentStats"`
}

// OverallStats builds the dashboard totals. ByStatus carries every status,
// zero counts included. AvgCompletion averages only scholarships that have at
// least one checklist item.
func OverallStats(scholarships []models.Scholarship, itemsByScholarship map[int64][]models.ChecklistItem,
	documents []models.Document, ref time.Time) Overall {
	out := Overall{
		TotalScholarships: len(scholarships),
		ByStatus:          make(map[models.ScholarshipStatus]int, len(models.ScholarshipStatuses)),
	}
	for _, st := range models.ScholarshipStatuses {
		out.ByStatus[st] = 0
	}

	var sum, withItems int
	for _, s := range scholarships {
		out.ByStatus[s.Status]++
		if DaysUntilDeadline(s.Deadline, ref) < 0 {
			out.OverdueCount++
		}
		p := ScholarshipProgress(s.ID, itemsByScholarship)
		if p.Total > 0 {
			sum += p.Percentage
			withItems++
		}
	}
	if withItems > 0 {
		out.AvgCompletion = int(math.Round(float64(sum) / float64(withItems)))
	}

	out.DocumentStats.Total = len(documents)
	for _, d := range documents {
		switch {
		case d.Status.IsReady():
			out.DocumentStats.Ready++
		case d.Status == models.DocDraft:
			out.DocumentStats.Draft++
		case d.Status == models.DocNotReady:
			out.DocumentStats.NotReady++
		}
	}
	return out
}

type UpcomingDeadline struct {
	models.Scholarship
	DaysUntilDeadline int     `json:"daysUntilDeadline"`
	Urgency           Urgency `json:"urgency"`
}

// UpcomingDeadlines annotates every scholarship with its countdown and urgency,
// sorted by deadline ascending. Equal deadlines keep their input order.
func UpcomingDeadlines(scholarships []models.Scholarship, ref time.Time) []UpcomingDeadline {
	out := make([]UpcomingDeadline, 0, len(scholarships))
	for _, s := range scholarships {
		days := DaysUntilDeadline(s.Deadline, ref)
		out = append(out, UpcomingDeadline{Scholarship: s, DaysUntilDeadline: days, Urgency: UrgencyLevel(days)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Deadline.Before(out[j].Deadline)
	})
	return out
}
