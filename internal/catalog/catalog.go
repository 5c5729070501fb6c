// Package catalog is the read-only set of built-in checklist templates.
// Entries are compiled into the binary and never written to the store.
package catalog

import (
	"github.com/dmitrijs2005/scholarkeeper/internal/models"
)

var builtins = []models.Template{
	{
		ID:          "chevening-uk",
		Name:        "Chevening Scholarship (UK)",
		Description: "UK government scholarship for one-year master's degrees.",
		Category:    "Government",
		Country:     "UK",
		Items: []models.TemplateItem{
			{Text: "Create Chevening online account", Note: "Applications open in early August"},
			{Text: "Choose three eligible UK master's courses"},
			{Text: "Write leadership and influence essay", Note: "500 words max"},
			{Text: "Write networking skills essay", Note: "500 words max"},
			{Text: "Write 'Why this course' essay", Note: "500 words max"},
			{Text: "Write career plan essay", Note: "500 words max"},
			{Text: "Request two reference letters"},
			{Text: "Upload degree transcripts"},
			{Text: "Apply to the chosen universities"},
			{Text: "Secure an unconditional offer", Note: "Needed by mid-July"},
			{Text: "Prepare for interview at the British Embassy"},
		},
		CreatedBy: models.OriginSystem,
		Version:   1,
	},
	{
		ID:          "daad-germany",
		Name:        "DAAD Study Scholarship (Germany)",
		Description: "German Academic Exchange Service scholarship for postgraduate study.",
		Category:    "Government",
		Country:     "Germany",
		Items: []models.TemplateItem{
			{Text: "Check programme in the DAAD scholarship database"},
			{Text: "Prepare CV in Europass format", Note: "Signed and dated"},
			{Text: "Write motivation letter", Note: "Max 3 pages, tied to the chosen programmes"},
			{Text: "Obtain recommendation letter from a professor", Note: "Signed, on letterhead"},
			{Text: "Provide language certificate", Note: "German or English as required by the course"},
			{Text: "Collect certified copies of degree certificates"},
			{Text: "Submit through the DAAD portal"},
		},
		CreatedBy: models.OriginSystem,
		Version:   1,
	},
	{
		ID:          "fulbright-usa",
		Name:        "Fulbright Foreign Student Program (USA)",
		Description: "Graduate study and research in the United States.",
		Category:    "Government",
		Country:     "USA",
		Items: []models.TemplateItem{
			{Text: "Contact the local Fulbright commission", Note: "Deadlines vary by country"},
			{Text: "Write personal statement"},
			{Text: "Write study or research objective"},
			{Text: "Request three letters of recommendation"},
			{Text: "Order official transcripts with translations"},
			{Text: "Register for TOEFL or IELTS"},
			{Text: "Register for GRE or GMAT if required"},
			{Text: "Complete the online application"},
		},
		CreatedBy: models.OriginSystem,
		Version:   1,
	},
	{
		ID:          "mext-japan",
		Name:        "MEXT Scholarship (Japan)",
		Description: "Japanese government scholarship via embassy or university recommendation.",
		Category:    "Government",
		Country:     "Japan",
		Items: []models.TemplateItem{
			{Text: "Fill in the MEXT application form"},
			{Text: "Write field of study and research plan", Note: "Be specific about the supervisor"},
			{Text: "Get medical certificate on the official form"},
			{Text: "Collect academic transcripts and graduation certificate"},
			{Text: "Request recommendation letter from the dean or supervisor"},
			{Text: "Prepare passport photos", Note: "4.5 x 3.5 cm"},
			{Text: "Sit the embassy written exams"},
			{Text: "Attend the embassy interview"},
		},
		CreatedBy: models.OriginSystem,
		Version:   1,
	},
	{
		ID:          "general-masters",
		Name:        "General Master's Application",
		Description: "Generic checklist that fits most master's scholarships.",
		Category:    "General",
		Items: []models.TemplateItem{
			{Text: "Shortlist programmes and note deadlines"},
			{Text: "Update CV"},
			{Text: "Draft personal statement"},
			{Text: "Ask referees for recommendation letters", Note: "Give them at least 4 weeks"},
			{Text: "Request official transcripts"},
			{Text: "Book language test"},
			{Text: "Proofread all documents"},
			{Text: "Submit application and save confirmation"},
		},
		CreatedBy: models.OriginSystem,
		Version:   1,
	},
}

// All returns copies of the built-in templates in catalog order.
func All() []models.Template {
	out := make([]models.Template, len(builtins))
	for i, t := range builtins {
		out[i] = clone(t)
	}
	return out
}

// Get looks up a built-in template by slug.
func Get(id models.TemplateID) (models.Template, bool) {
	for _, t := range builtins {
		if t.ID == id {
			return clone(t), true
		}
	}
	return models.Template{}, false
}

// Has reports whether id names a built-in template.
func Has(id models.TemplateID) bool {
	_, ok := Get(id)
	return ok
}

func clone(t models.Template) models.Template {
	t.Items = append([]models.TemplateItem(nil), t.Items...)
	return t
}
