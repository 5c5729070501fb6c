package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/scholarkeeper/internal/models"
)

func mustParse(t *testing.T, s string) RawDocument {
	t.Helper()
	doc, err := ParseImportFile([]byte(s))
	require.NoError(t, err)
	return doc
}

func TestValidate_Structure(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"no data", `{"version": "1.0"}`, "data must be an object"},
		{"data array", `{"version": "1.0", "data": []}`, "data must be an object"},
		{"scholarships object", `{"data": {"scholarships": {}}}`, "data.scholarships must be an array"},
		{"documents string", `{"data": {"documents": "x"}}`, "data.documents must be an array"},
		{"record not object", `{"data": {"checklistItems": [3]}}`, "data.checklistItems[0] must be an object"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rep := Validate(mustParse(t, tc.doc))
			assert.False(t, rep.Valid())
			assert.Contains(t, rep.Errors, tc.want)
		})
	}

	assert.Contains(t, Validate(nil).Errors, "import file must be a JSON object")
}

func TestValidate_ScholarshipRules(t *testing.T) {
	rep := Validate(mustParse(t, `{"version": "1.0", "data": {"scholarships": [
		{"name": "A", "provider": "", "deadline": "soon", "applicationYear": "twenty"},
		{"name": "B", "provider": "P", "deadline": "2025-02-01", "applicationYear": 2025, "requiredDocumentIds": "1,2"},
		{"name": "C", "provider": "P", "deadline": "2025-02-01", "applicationYear": "2026", "requiredDocumentIds": [2, 2, "x"]}
	]}}`))

	assert.ElementsMatch(t, []string{
		"data.scholarships[0].provider is required",
		`data.scholarships[0].deadline "soon" is not a valid date`,
		"data.scholarships[0].applicationYear must be a number",
	}, rep.Errors)
	assert.Contains(t, rep.Warnings, "data.scholarships[1].requiredDocumentIds is not an array, using []")

	require.Len(t, rep.Records.Scholarships, 3)
	assert.Equal(t, 2025, rep.Records.Scholarships[1].Scholarship.ApplicationYear)
	assert.Equal(t, []int64{}, rep.Records.Scholarships[1].Scholarship.RequiredDocumentIDs)
	assert.Equal(t, 2026, rep.Records.Scholarships[2].Scholarship.ApplicationYear)
	assert.Equal(t, []int64{2}, rep.Records.Scholarships[2].Scholarship.RequiredDocumentIDs)
	assert.False(t, rep.Records.Scholarships[2].HasOriginalID)
}

func TestValidate_ScholarshipStatusDefaults(t *testing.T) {
	rep := Validate(mustParse(t, `{"version": "1.0", "data": {"scholarships": [
		{"name": "A", "provider": "P", "deadline": "2025-02-01", "status": "Won"},
		{"name": "B", "provider": "P", "deadline": "2025-02-01", "status": 3},
		{"name": "C", "provider": "P", "deadline": "2025-02-01", "status": "Interview"},
		{"name": "D", "provider": "P", "deadline": "2025-02-01", "status": ""},
		{"name": "E", "provider": "P", "deadline": "2025-02-01"}
	]}}`))

	require.True(t, rep.Valid(), rep.Errors)
	assert.ElementsMatch(t, []string{
		"data.scholarships[0].status Won is not one of Not Started, Preparing, Submitted, Interview, Result; using Not Started",
		"data.scholarships[1].status 3 is not one of Not Started, Preparing, Submitted, Interview, Result; using Not Started",
	}, rep.Warnings)

	got := make([]models.ScholarshipStatus, 0, len(rep.Records.Scholarships))
	for _, r := range rep.Records.Scholarships {
		got = append(got, r.Scholarship.Status)
	}
	assert.Equal(t, []models.ScholarshipStatus{
		models.StatusNotStarted, models.StatusNotStarted, models.StatusInterview,
		models.StatusNotStarted, models.StatusNotStarted,
	}, got)
}

func TestValidate_ChecklistItemCoercion(t *testing.T) {
	rep := Validate(mustParse(t, `{"version": "1.0", "data": {"checklistItems": [
		{"scholarshipId": 1, "text": "a", "checked": "true", "order": "first"},
		{"scholarshipId": 1, "text": "b", "checked": 0, "order": 2.5},
		{"scholarshipId": null, "text": "c"},
		{"scholarshipId": 1, "text": "d", "checked": true, "order": 3}
	]}}`))

	assert.Equal(t, []string{"data.checklistItems[2].scholarshipId is required"}, rep.Errors)
	assert.ElementsMatch(t, []string{
		"data.checklistItems[0].checked is not a boolean, using true",
		"data.checklistItems[0].order is not a number, using 0",
		"data.checklistItems[1].checked is not a boolean, using false",
		"data.checklistItems[1].order 2.5 is not a valid position, using 0",
	}, rep.Warnings)

	items := rep.Records.ChecklistItems
	require.Len(t, items, 4)
	assert.True(t, items[0].Item.Checked)
	assert.Equal(t, 0, items[0].Item.Order)
	assert.Equal(t, 3, items[3].Item.Order)
	assert.True(t, items[3].ScholarshipIDIsNumeric)
	assert.EqualValues(t, 1, items[3].OriginalScholarshipID)
}

func TestValidate_DocumentRules(t *testing.T) {
	rep := Validate(mustParse(t, `{"version": "1.0", "data": {"documents": [
		{"name": "CV", "type": "CV", "status": "Lost"},
		{"name": "T", "type": "Transcript", "lastUpdated": "yesterday"},
		{"type": "CV"},
		{"name": "N"}
	]}}`))

	assert.ElementsMatch(t, []string{
		"data.documents[2].name is required",
		"data.documents[3].type is required",
	}, rep.Errors)
	assert.Contains(t, rep.Warnings, "data.documents[0].status Lost is not one of NotReady, Draft, Final, Uploaded; using NotReady")
	assert.Contains(t, rep.Warnings, "data.documents[1].lastUpdated is not a valid timestamp, using import time")
	assert.Equal(t, models.DocNotReady, rep.Records.Documents[0].Document.Status)
	assert.True(t, rep.Records.Documents[1].Document.LastUpdated.IsZero())
}

func TestValidate_Version(t *testing.T) {
	rep := Validate(mustParse(t, `{"data": {}}`))
	assert.True(t, rep.Valid())
	assert.Equal(t, []string{"version is missing, assuming 1.0"}, rep.Warnings)

	rep = Validate(mustParse(t, `{"createdAt": "2025-01-01T00:00:00Z", "data": {}}`))
	assert.Empty(t, rep.Warnings, "seed documents carry createdAt instead of version")

	rep = Validate(mustParse(t, `{"version": "2.0", "data": {}}`))
	assert.Equal(t, "2.0", rep.Records.Version)
	assert.NotEmpty(t, rep.Warnings)
}

func TestValidate_DuplicateIDsWarn(t *testing.T) {
	rep := Validate(mustParse(t, `{"version": "1.0", "data": {"scholarships": [
		{"id": 1, "name": "A", "provider": "P", "deadline": "2025-01-01"},
		{"id": 1, "name": "B", "provider": "P", "deadline": "2025-01-01"}
	]}}`))

	assert.True(t, rep.Valid())
	require.Len(t, rep.Warnings, 1)
	assert.Contains(t, rep.Warnings[0], "data.scholarships[1].id 1 is duplicated")
}
