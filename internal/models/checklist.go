package models

import "time"

// ChecklistItem belongs to the scholarship named by ScholarshipID. The link is
// a plain id: nothing cascades when the scholarship goes away.
type ChecklistItem struct {
	ID            int64     `json:"id"`
	ScholarshipID int64     `json:"scholarshipId" validate:"required"`
	Text          string    `json:"text" validate:"notblank"`
	Checked       bool      `json:"checked"`
	Note          string    `json:"note"`
	Order         int       `json:"order" validate:"gte=0"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type ChecklistItemPatch struct {
	Text    *string
	Checked *bool
	Note    *string
	Order   *int
}

func (p ChecklistItemPatch) Apply(c *ChecklistItem) {
	if p.Text != nil {
		c.Text = *p.Text
	}
	if p.Checked != nil {
		c.Checked = *p.Checked
	}
	if p.Note != nil {
		c.Note = *p.Note
	}
	if p.Order != nil {
		c.Order = *p.Order
	}
}

// GroupByScholarship buckets items by their scholarship id, keeping input order.
func GroupByScholarship(items []ChecklistItem) map[int64][]ChecklistItem {
	out := make(map[int64][]ChecklistItem)
	for _, it := range items {
		out[it.ScholarshipID] = append(out[it.ScholarshipID], it)
	}
	return out
}
