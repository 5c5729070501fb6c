package models

import "time"

type DocumentType string

const (
	DocCV                   DocumentType = "CV"
	DocTranscript           DocumentType = "Transcript"
	DocLanguageCertificate  DocumentType = "LanguageCertificate"
	DocRecommendationLetter DocumentType = "RecommendationLetter"
	DocLoA                  DocumentType = "LoA"
	DocPersonalStatement    DocumentType = "PersonalStatement"
)

var DocumentTypes = []DocumentType{
	DocCV, DocTranscript, DocLanguageCertificate, DocRecommendationLetter, DocLoA, DocPersonalStatement,
}

func (t DocumentType) IsValid() bool {
	for _, v := range DocumentTypes {
		if t == v {
			return true
		}
	}
	return false
}

// DocumentStatus transitions are unrestricted; any status may follow any other.
type DocumentStatus string

const (
	DocNotReady DocumentStatus = "NotReady"
	DocDraft    DocumentStatus = "Draft"
	DocFinal    DocumentStatus = "Final"
	DocUploaded DocumentStatus = "Uploaded"
)

var DocumentStatuses = []DocumentStatus{DocNotReady, DocDraft, DocFinal, DocUploaded}

func (s DocumentStatus) IsValid() bool {
	for _, v := range DocumentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsReady reports whether the document counts as ready (Final or Uploaded).
func (s DocumentStatus) IsReady() bool {
	return s == DocFinal || s == DocUploaded
}

// Document is a supporting file shared by any number of scholarships.
// LastUpdated is the business timestamp; UpdatedAt is store metadata.
type Document struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name" validate:"notblank"`
	Type        DocumentType   `json:"type" validate:"document_type"`
	Status      DocumentStatus `json:"status" validate:"document_status"`
	FileLink    string         `json:"fileLink"`
	Notes       string         `json:"notes"`
	LastUpdated time.Time      `json:"lastUpdated"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type DocumentPatch struct {
	Name        *string
	Type        *DocumentType
	Status      *DocumentStatus
	FileLink    *string
	Notes       *string
	LastUpdated *time.Time
}

// Apply merges p over d. LastUpdated falls back to now when the patch leaves it unset.
func (p DocumentPatch) Apply(d *Document, now time.Time) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.FileLink != nil {
		d.FileLink = *p.FileLink
	}
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
	if p.LastUpdated != nil {
		d.LastUpdated = *p.LastUpdated
	} else {
		d.LastUpdated = now
	}
}
