package transfer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/scholarkeeper/internal/common"
	"github.com/dmitrijs2005/scholarkeeper/internal/dbtest"
	"github.com/dmitrijs2005/scholarkeeper/internal/logging"
	"github.com/dmitrijs2005/scholarkeeper/internal/models"
	"github.com/dmitrijs2005/scholarkeeper/internal/store"
)

func newService(t *testing.T, opts ...Option) (*Service, *store.Store) {
	t.Helper()
	st := store.New(dbtest.Open(t), store.WithClock(dbtest.FixedClock("2025-07-01T10:00:00Z")))
	return NewService(st, logging.Nop(), opts...), st
}

func fill(t *testing.T, st *store.Store) {
	t.Helper()
	ctx := context.Background()
	cv, err := st.Documents.Create(ctx, models.Document{Name: "CV", Type: models.DocCV, Status: models.DocFinal, Notes: "2 pages"})
	require.NoError(t, err)
	ielts, err := st.Documents.Create(ctx, models.Document{Name: "IELTS", Type: models.DocLanguageCertificate, FileLink: "/docs/ielts.pdf"})
	require.NoError(t, err)

	a, err := st.Scholarships.Create(ctx, models.Scholarship{
		Name: "Chevening", Provider: "FCDO", Country: "UK", DegreeLevel: "Master's", ApplicationYear: 2025,
		Deadline: time.Date(2025, 11, 4, 12, 0, 0, 0, time.UTC), Status: models.StatusPreparing,
		RequiredDocumentIDs: []int64{ielts.ID, cv.ID},
	})
	require.NoError(t, err)
	b, err := st.Scholarships.Create(ctx, models.Scholarship{
		Name: "DAAD", Provider: "DAAD", Country: "Germany",
		Deadline: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), RequiredDocumentIDs: []int64{cv.ID},
	})
	require.NoError(t, err)

	for _, it := range []models.ChecklistItem{
		{ScholarshipID: a.ID, Text: "Essay 1", Checked: true, Order: 0},
		{ScholarshipID: a.ID, Text: "Essay 2", Note: "draft", Order: 1},
		{ScholarshipID: b.ID, Text: "Motivation letter", Order: 0},
	} {
		_, err := st.Checklist.Create(ctx, it)
		require.NoError(t, err)
	}
}

func counts(t *testing.T, st *store.Store) [4]int {
	t.Helper()
	ctx := context.Background()
	var out [4]int
	var err error
	out[0], err = st.Scholarships.Count(ctx)
	require.NoError(t, err)
	out[1], err = st.Checklist.Count(ctx)
	require.NoError(t, err)
	out[2], err = st.Documents.Count(ctx)
	require.NoError(t, err)
	out[3], err = st.Templates.Count(ctx)
	require.NoError(t, err)
	return out
}

// docNames resolves every scholarship's required documents to names so links
// can be compared across id reassignment.
func docNames(t *testing.T, st *store.Store) map[string][]string {
	t.Helper()
	ctx := context.Background()
	all, err := st.Scholarships.GetAll(ctx)
	require.NoError(t, err)
	out := map[string][]string{}
	for _, s := range all {
		docs, err := st.GetScholarshipRequiredDocuments(ctx, s.ID)
		require.NoError(t, err)
		out[s.Name] = []string{}
		for _, d := range docs {
			out[s.Name] = append(out[s.Name], d.Name)
		}
	}
	return out
}

var ignoreIdentity = cmp.Options{
	cmpopts.IgnoreFields(models.Scholarship{}, "ID", "CreatedAt", "UpdatedAt", "RequiredDocumentIDs"),
	cmpopts.IgnoreFields(models.ChecklistItem{}, "ID", "ScholarshipID", "CreatedAt", "UpdatedAt"),
	cmpopts.IgnoreFields(models.Document{}, "ID", "CreatedAt", "UpdatedAt"),
}

func TestRoundTrip_ReplaceReproducesContent(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	fill(t, st)
	linksBefore := docNames(t, st)

	exported, err := svc.ExportAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, exported.Version)
	require.Len(t, exported.Data.ChecklistItems, 3)

	raw, err := ToRaw(exported)
	require.NoError(t, err)
	res, err := svc.ImportData(ctx, raw, Replace)
	require.NoError(t, err)
	assert.False(t, res.HasErrors(), "%+v", res)
	assert.Equal(t, 2, res.Scholarships.Created)
	assert.Equal(t, 3, res.ChecklistItems.Created)
	assert.Equal(t, 2, res.Documents.Created)

	again, err := svc.ExportAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, [4]int{2, 3, 2, 0}, counts(t, st))
	if diff := cmp.Diff(exported.Data, again.Data, ignoreIdentity); diff != "" {
		t.Fatalf("round trip mismatch (-before +after):\n%s", diff)
	}
	assert.Equal(t, linksBefore, docNames(t, st))
	assert.NotEqual(t, exported.Data.Scholarships[0].ID, again.Data.Scholarships[0].ID, "ids are reassigned")
}

func TestRoundTrip_MinimalRecords(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	s, err := st.Scholarships.Create(ctx, models.Scholarship{
		Name: "Bare", Provider: "P", Deadline: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = st.Checklist.Create(ctx, models.ChecklistItem{ScholarshipID: s.ID, Text: "only text"})
	require.NoError(t, err)
	_, err = st.Documents.Create(ctx, models.Document{Name: "Bare doc", Type: models.DocCV})
	require.NoError(t, err)

	_, err = st.Scholarships.Create(ctx, models.Scholarship{Name: "No provider", Deadline: s.Deadline})
	require.ErrorIs(t, err, common.ErrValidation)

	exported, err := svc.ExportAll(ctx)
	require.NoError(t, err)
	raw, err := ToRaw(exported)
	require.NoError(t, err)

	for _, strategy := range []Strategy{Replace, Merge} {
		res, err := svc.ImportData(ctx, raw, strategy)
		require.NoError(t, err, string(strategy))
		assert.False(t, res.HasErrors(), "%+v", res)
		assert.Empty(t, res.Warnings, string(strategy))
	}
	assert.Equal(t, [4]int{2, 2, 2, 0}, counts(t, st))

	again, err := svc.ExportAll(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(exported.Data.Scholarships[0], again.Data.Scholarships[1], ignoreIdentity); diff != "" {
		t.Fatalf("minimal scholarship changed (-before +after):\n%s", diff)
	}
}

func TestMergeTwice_DoublesCounts(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	fill(t, st)
	exported, err := svc.ExportAll(ctx)
	require.NoError(t, err)
	raw, err := ToRaw(exported)
	require.NoError(t, err)

	require.NoError(t, st.ClearAll(ctx))
	for i := 0; i < 2; i++ {
		res, err := svc.ImportData(ctx, raw, Merge)
		require.NoError(t, err)
		assert.False(t, res.HasErrors())
	}
	assert.Equal(t, [4]int{4, 6, 4, 0}, counts(t, st))

	// each copy keeps its own links
	all, err := st.Scholarships.GetAll(ctx)
	require.NoError(t, err)
	for _, s := range all {
		items, err := st.GetChecklistItems(ctx, s.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, items, s.Name)
	}
}

func TestImport_MissingNameWritesNothing(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	fill(t, st)
	before := counts(t, st)

	raw, err := ParseImportFile([]byte(`{
		"version": "1.0",
		"data": {
			"scholarships": [{"provider": "X", "deadline": "2025-09-01"}],
			"documents": [{"name": "ok", "type": "CV"}]
		}
	}`))
	require.NoError(t, err)

	for _, strategy := range []Strategy{Replace, Merge} {
		_, err = svc.ImportData(ctx, raw, strategy)
		var verr *common.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Messages, "data.scholarships[0].name is required")
		assert.Equal(t, before, counts(t, st), string(strategy))
	}
}

func TestImport_RemapsChecklistScholarshipIDs(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	fill(t, st) // occupies the low ids so imported ones cannot collide by accident

	raw, err := ParseImportFile([]byte(`{
		"version": "1.0",
		"data": {
			"scholarships": [
				{"id": 1, "name": "Fulbright", "provider": "US State Dept", "deadline": "2025-10-01T00:00:00Z"},
				{"id": 2, "name": "MEXT", "provider": "MEXT", "deadline": "2026-05-01T00:00:00Z"}
			],
			"checklistItems": [
				{"scholarshipId": 2, "text": "Research plan", "order": 0},
				{"scholarshipId": "1", "text": "Personal statement", "order": 0},
				{"scholarshipId": 99, "text": "Dangling", "order": 0}
			]
		}
	}`))
	require.NoError(t, err)

	res, err := svc.ImportData(ctx, raw, Merge)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ChecklistItems.Created)
	require.Len(t, res.ChecklistItems.Errors, 1)
	assert.Contains(t, res.ChecklistItems.Errors[0], "Dangling")

	all, err := st.Scholarships.GetAll(ctx)
	require.NoError(t, err)
	byName := map[string]int64{}
	for _, s := range all {
		byName[s.Name] = s.ID
	}
	mext, err := st.GetChecklistItems(ctx, byName["MEXT"])
	require.NoError(t, err)
	require.Len(t, mext, 1)
	assert.Equal(t, "Research plan", mext[0].Text)

	fulbright, err := st.GetChecklistItems(ctx, byName["Fulbright"])
	require.NoError(t, err)
	require.Len(t, fulbright, 1)
	assert.Equal(t, "Personal statement", fulbright[0].Text)

	// the pre-existing scholarships that happened to own ids 1 and 2 got nothing new
	chev, err := st.GetChecklistItems(ctx, byName["Chevening"])
	require.NoError(t, err)
	assert.Len(t, chev, 2)
}

func TestImport_RelinksAndDropsDocumentIDs(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	fill(t, st)

	raw, err := ParseImportFile([]byte(`{
		"version": "1.0",
		"data": {
			"scholarships": [
				{"id": 7, "name": "Erasmus", "provider": "EU", "deadline": "2026-01-15", "requiredDocumentIds": [11, "12", 404]}
			],
			"documents": [
				{"id": 11, "name": "Passport", "type": "CV"},
				{"id": 12, "name": "Acceptance letter", "type": "LoA", "status": "Final"}
			]
		}
	}`))
	require.NoError(t, err)

	res, err := svc.ImportData(ctx, raw, Merge)
	require.NoError(t, err)
	assert.False(t, res.HasErrors())
	assert.Equal(t, []string{"Passport", "Acceptance letter"}, docNames(t, st)["Erasmus"])
}

func TestImport_PartialFailureContinues(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	raw, err := ParseImportFile([]byte(`{
		"version": "1.0",
		"data": {
			"scholarships": [
				{"id": 1, "name": "Good", "provider": "P", "deadline": "2025-12-01"},
				{"id": 2, "name": "Bad status", "provider": "P", "deadline": "2025-12-01", "status": "Won"}
			],
			"checklistItems": [
				{"scholarshipId": 2, "text": "kept under defaulted status"},
				{"scholarshipId": 5, "text": "no such parent"}
			],
			"documents": [
				{"name": "Portfolio", "type": "Portfolio"},
				{"name": "CV", "type": "CV"}
			]
		}
	}`))
	require.NoError(t, err)

	res, err := svc.ImportData(ctx, raw, Replace)
	require.NoError(t, err)
	assert.True(t, res.HasErrors())
	assert.Equal(t, 2, res.Scholarships.Created)
	assert.Empty(t, res.Scholarships.Errors)
	assert.Contains(t, res.Warnings,
		"data.scholarships[1].status Won is not one of Not Started, Preparing, Submitted, Interview, Result; using Not Started")
	assert.Equal(t, 1, res.Documents.Created)
	assert.Len(t, res.Documents.Errors, 1)
	assert.Equal(t, 1, res.ChecklistItems.Created)
	require.Len(t, res.ChecklistItems.Errors, 1)
	assert.Contains(t, res.ChecklistItems.Errors[0], "no such parent")
	assert.Equal(t, [4]int{2, 1, 1, 0}, counts(t, st))

	all, err := st.Scholarships.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, models.StatusNotStarted, all[1].Status)
	items, err := st.GetChecklistItems(ctx, all[1].ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "kept under defaulted status", items[0].Text)
}

func TestImport_Templates(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	raw, err := ParseImportFile([]byte(`{
		"createdAt": "2025-01-01T00:00:00Z",
		"data": {
			"scholarships": [],
			"templates": [
				{"id": "chevening-uk", "name": "Chevening", "createdBy": "system", "items": [{"text": "a"}]},
				{"id": 3, "name": "Mine", "createdBy": "robot", "items": [{"text": "x", "note": "n"}, {"note": "no text"}]},
				{"id": 4, "name": "Flat", "items": "not a list"}
			]
		}
	}`))
	require.NoError(t, err)

	res, err := svc.ImportData(ctx, raw, Merge)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Templates.Created)
	assert.Contains(t, res.Warnings, "templates[0]: built-in template chevening-uk skipped")
	assert.Contains(t, res.Warnings, "data.templates[1].createdBy robot is not user or system, using user")
	assert.Contains(t, res.Warnings, "data.templates[1].items[1].text is missing")
	assert.Contains(t, res.Warnings, "data.templates[2].items is not an array, using []")

	tpls, err := st.Templates.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, tpls, 2)
	assert.Equal(t, "Mine", tpls[0].Name)
	assert.Equal(t, models.OriginUser, tpls[0].CreatedBy)
	assert.Len(t, tpls[0].Items, 2)
	assert.Empty(t, tpls[1].Items)
}

func TestImport_UnknownStrategy(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.ImportData(context.Background(), RawDocument{"data": map[string]any{}}, "upsert")
	assert.Error(t, err)
}

func TestParseImportFile(t *testing.T) {
	_, err := ParseImportFile([]byte(`[1, 2]`))
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.ErrorContains(t, err, "must be a JSON object")

	_, err = ParseImportFile([]byte(`{"data":`))
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.ErrorContains(t, err, "invalid JSON")

	doc, err := ParseImportFile([]byte(`{"version": "1.0", "data": {}}`))
	require.NoError(t, err)
	assert.Equal(t, "1.0", doc["version"])
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{"replace": Replace, "Replace-All": Replace, " merge ": Merge} {
		got, err := ParseStrategy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseStrategy("append")
	assert.Error(t, err)
}

func TestExportSeed_IncludesTemplates(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	fill(t, st)
	_, err := st.Templates.Create(ctx, models.Template{Name: "Mine", Items: []models.TemplateItem{{Text: "x"}}})
	require.NoError(t, err)

	seed, err := svc.ExportSeed(ctx)
	require.NoError(t, err)
	assert.True(t, seed.CreatedAt.Equal(st.Now()))
	assert.Len(t, seed.Data.Templates, 1)
	assert.Len(t, seed.Data.Scholarships, 2)

	b, err := Marshal(seed)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(b, &generic))
	assert.Contains(t, generic, "createdAt")
	assert.NotContains(t, generic, "exportedAt")
	data := generic["data"].(map[string]any)
	assert.Contains(t, data, "templates")
	assert.Contains(t, data, "checklistItems")

	stats, err := svc.GetExportStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Scholarships: 2, ChecklistItems: 3, Documents: 2, Templates: 1}, *stats)
}

func TestExportAll_EmptyStoreHasEmptyArrays(t *testing.T) {
	svc, _ := newService(t)

	exp, err := svc.ExportAll(context.Background())
	require.NoError(t, err)
	b, err := Marshal(exp)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"scholarships": []`)
	assert.Contains(t, string(b), `"checklistItems": []`)
	assert.Contains(t, string(b), `"documents": []`)
	assert.NotContains(t, string(b), `"templates"`)
}

func TestExportAll_SkipsOrphanedItems(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	fill(t, st)
	all, err := st.Scholarships.GetAll(ctx)
	require.NoError(t, err)
	require.NoError(t, st.Scholarships.Delete(ctx, all[1].ID))

	exp, err := svc.ExportAll(ctx)
	require.NoError(t, err)
	assert.Len(t, exp.Data.ChecklistItems, 2)
	n, err := st.Checklist.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "delete does not cascade")
}

func TestGetImportPreview(t *testing.T) {
	svc, _ := newService(t)

	doc, err := ParseImportFile([]byte(`{
		"data": {
			"scholarships": [{"name": "A", "provider": "P", "deadline": "2025-01-01"}],
			"checklistItems": [{"scholarshipId": 1, "text": "x"}, {"text": "y"}]
		}
	}`))
	require.NoError(t, err)

	p := svc.GetImportPreview(doc)
	assert.False(t, p.Valid)
	assert.Equal(t, FormatVersion, p.Version)
	assert.Equal(t, 1, p.Counts.Scholarships)
	assert.Equal(t, 2, p.Counts.ChecklistItems)
	assert.Equal(t, []string{"data.checklistItems[1].scholarshipId is required"}, p.Errors)
	assert.Contains(t, p.Warnings, "version is missing, assuming 1.0")
}

func TestFileNames(t *testing.T) {
	ts := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "scholarship-tracker-backup-2025-03-09.json", BackupFileName(ts))
	assert.Equal(t, "seedData-2025-03-09.json", SeedFileName(ts))
	assert.Equal(t, "seedData.json", SeedFixedFileName)
}
