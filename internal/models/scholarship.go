// Package models defines the four tracked entity kinds, their enums, the
// typed partial-update patches, and the helpers that keep stored references clean.
package models

import "time"

// ScholarshipStatus is the application pipeline stage of a scholarship.
type ScholarshipStatus string

const (
	StatusNotStarted ScholarshipStatus = "Not Started"
	StatusPreparing  ScholarshipStatus = "Preparing"
	StatusSubmitted  ScholarshipStatus = "Submitted"
	StatusInterview  ScholarshipStatus = "Interview"
	StatusResult     ScholarshipStatus = "Result"
)

// ScholarshipStatuses lists every status in pipeline order.
var ScholarshipStatuses = []ScholarshipStatus{
	StatusNotStarted, StatusPreparing, StatusSubmitted, StatusInterview, StatusResult,
}

func (s ScholarshipStatus) IsValid() bool {
	for _, v := range ScholarshipStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Scholarship struct {
	ID                  int64             `json:"id"`
	Name                string            `json:"name" validate:"notblank"`
	Provider            string            `json:"provider" validate:"notblank"`
	DegreeLevel         string            `json:"degreeLevel"`
	Country             string            `json:"country"`
	ApplicationYear     int               `json:"applicationYear"`
	Deadline            time.Time         `json:"deadline" validate:"required"`
	Status              ScholarshipStatus `json:"status" validate:"scholarship_status"`
	RequiredDocumentIDs []int64           `json:"requiredDocumentIds"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// ScholarshipPatch is a partial update; nil fields are left untouched.
type ScholarshipPatch struct {
	Name                *string
	Provider            *string
	DegreeLevel         *string
	Country             *string
	ApplicationYear     *int
	Deadline            *time.Time
	Status              *ScholarshipStatus
	RequiredDocumentIDs *[]int64
}

// Apply shallow-merges p over s.
func (p ScholarshipPatch) Apply(s *Scholarship) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Provider != nil {
		s.Provider = *p.Provider
	}
	if p.DegreeLevel != nil {
		s.DegreeLevel = *p.DegreeLevel
	}
	if p.Country != nil {
		s.Country = *p.Country
	}
	if p.ApplicationYear != nil {
		s.ApplicationYear = *p.ApplicationYear
	}
	if p.Deadline != nil {
		s.Deadline = *p.Deadline
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.RequiredDocumentIDs != nil {
		s.RequiredDocumentIDs = NormalizeDocumentIDs(*p.RequiredDocumentIDs)
	}
}

// HasDocument reports whether id is among s's required documents.
func (s *Scholarship) HasDocument(id int64) bool {
	for _, v := range s.RequiredDocumentIDs {
		if v == id {
			return true
		}
	}
	return false
}
