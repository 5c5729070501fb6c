package transfer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/scholarkeeper/internal/common"
	"github.com/dmitrijs2005/scholarkeeper/internal/models"
	"github.com/dmitrijs2005/scholarkeeper/internal/timex"
)

// ScholarshipRecord is a validated scholarship plus the id it had in the file.
type ScholarshipRecord struct {
	OriginalID    int64
	HasOriginalID bool
	Scholarship   models.Scholarship
}

// ChecklistItemRecord keeps the scholarship reference as written in the file;
// it is rewritten to the new id at import time.
type ChecklistItemRecord struct {
	OriginalScholarshipID  int64
	ScholarshipIDIsNumeric bool
	RawScholarshipID       any
	Item                   models.ChecklistItem
}

type DocumentRecord struct {
	OriginalID    int64
	HasOriginalID bool
	Document      models.Document
}

type TemplateRecord struct {
	OriginalID models.TemplateID
	Template   models.Template
}

type Records struct {
	Version        string
	Scholarships   []ScholarshipRecord
	ChecklistItems []ChecklistItemRecord
	Documents      []DocumentRecord
	Templates      []TemplateRecord
}

// Report is the outcome of the validation phase. Records is filled in even
// when there are errors, as far as the document could be read.
type Report struct {
	Errors   []string
	Warnings []string
	Records  Records
}

func (r *Report) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns the errors as a *common.ValidationError, or nil.
func (r *Report) Err() error {
	if r.Valid() {
		return nil
	}
	return common.NewValidation(r.Errors...)
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks the whole document without touching the store. Hard errors
// make the document unimportable; warnings describe values that were coerced
// or defaulted.
func Validate(doc RawDocument) *Report {
	rep := &Report{}
	if doc == nil {
		rep.errorf("import file must be a JSON object")
		return rep
	}

	switch v := doc["version"].(type) {
	case nil:
		rep.Records.Version = FormatVersion
		if _, seed := doc["createdAt"]; !seed {
			rep.warnf("version is missing, assuming %s", FormatVersion)
		}
	case string:
		rep.Records.Version = v
		if v != FormatVersion {
			rep.warnf("version %q is not %s, importing anyway", v, FormatVersion)
		}
	default:
		rep.Records.Version = FormatVersion
		rep.warnf("version is not a string, assuming %s", FormatVersion)
	}

	data, ok := doc["data"].(map[string]any)
	if !ok {
		rep.errorf("data must be an object")
		return rep
	}

	collection := func(key string) []any {
		raw, present := data[key]
		if !present || raw == nil {
			return nil
		}
		list, ok := raw.([]any)
		if !ok {
			rep.errorf("data.%s must be an array", key)
			return nil
		}
		return list
	}

	for i, raw := range collection("scholarships") {
		if r, ok := readRecord(rep, fmt.Sprintf("data.scholarships[%d]", i), raw); ok {
			rep.Records.Scholarships = append(rep.Records.Scholarships, r.scholarship())
		}
	}
	for i, raw := range collection("checklistItems") {
		if r, ok := readRecord(rep, fmt.Sprintf("data.checklistItems[%d]", i), raw); ok {
			rep.Records.ChecklistItems = append(rep.Records.ChecklistItems, r.checklistItem())
		}
	}
	for i, raw := range collection("documents") {
		if r, ok := readRecord(rep, fmt.Sprintf("data.documents[%d]", i), raw); ok {
			rep.Records.Documents = append(rep.Records.Documents, r.document())
		}
	}
	for i, raw := range collection("templates") {
		if r, ok := readRecord(rep, fmt.Sprintf("data.templates[%d]", i), raw); ok {
			rep.Records.Templates = append(rep.Records.Templates, r.template())
		}
	}

	warnDuplicateIDs(rep)
	return rep
}

func warnDuplicateIDs(rep *Report) {
	seen := map[int64]bool{}
	for i, r := range rep.Records.Scholarships {
		if !r.HasOriginalID {
			continue
		}
		if seen[r.OriginalID] {
			rep.warnf("data.scholarships[%d].id %d is duplicated; checklist items will attach to the last one", i, r.OriginalID)
		}
		seen[r.OriginalID] = true
	}
	seen = map[int64]bool{}
	for i, r := range rep.Records.Documents {
		if !r.HasOriginalID {
			continue
		}
		if seen[r.OriginalID] {
			rep.warnf("data.documents[%d].id %d is duplicated", i, r.OriginalID)
		}
		seen[r.OriginalID] = true
	}
}

type record struct {
	rep  *Report
	path string
	m    map[string]any
}

func readRecord(rep *Report, path string, raw any) (record, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		rep.errorf("%s must be an object", path)
		return record{}, false
	}
	return record{rep: rep, path: path, m: m}, true
}

func (r record) required(key string) string {
	v, present := r.m[key]
	if !present || v == nil {
		r.rep.errorf("%s.%s is required", r.path, key)
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.rep.errorf("%s.%s must be a string", r.path, key)
		return ""
	}
	if strings.TrimSpace(s) == "" {
		r.rep.errorf("%s.%s is required", r.path, key)
		return ""
	}
	return s
}

// optional reads a string field; numbers are rendered, anything else is empty.
func (r record) optional(key string) string {
	switch v := r.m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func (r record) id(key string) (int64, bool) {
	v, present := r.m[key]
	if !present || v == nil {
		return 0, false
	}
	return models.CoerceID(v)
}

func (r record) instant(key string) (time.Time, bool) {
	s, ok := r.m[key].(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := timex.ParseInstant(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return 0, false
	}
}

func (r record) scholarship() ScholarshipRecord {
	out := ScholarshipRecord{}
	out.OriginalID, out.HasOriginalID = r.id("id")

	s := &out.Scholarship
	s.Name = r.required("name")
	s.Provider = r.required("provider")
	s.Deadline = r.deadline()
	s.DegreeLevel = r.optional("degreeLevel")
	s.Country = r.optional("country")

	s.Status = models.StatusNotStarted
	if v := r.m["status"]; v != nil && v != "" {
		st, _ := v.(string)
		if models.ScholarshipStatus(st).IsValid() {
			s.Status = models.ScholarshipStatus(st)
		} else {
			r.rep.warnf("%s.status %v is not one of Not Started, Preparing, Submitted, Interview, Result; using Not Started", r.path, v)
		}
	}

	if v, present := r.m["applicationYear"]; present && v != nil {
		if n, ok := number(v); ok {
			s.ApplicationYear = int(n)
		} else {
			r.rep.errorf("%s.applicationYear must be a number", r.path)
		}
	}

	switch ids := r.m["requiredDocumentIds"].(type) {
	case nil:
		s.RequiredDocumentIDs = []int64{}
	case []any:
		s.RequiredDocumentIDs = models.NormalizeDocumentIDs(ids)
	default:
		r.rep.warnf("%s.requiredDocumentIds is not an array, using []", r.path)
		s.RequiredDocumentIDs = []int64{}
	}
	return out
}

func (r record) deadline() time.Time {
	raw := r.required("deadline")
	if raw == "" {
		return time.Time{}
	}
	t, err := timex.ParseInstant(raw)
	if err != nil {
		r.rep.errorf("%s.deadline %q is not a valid date", r.path, raw)
		return time.Time{}
	}
	return t
}

func (r record) checklistItem() ChecklistItemRecord {
	out := ChecklistItemRecord{}
	it := &out.Item
	it.Text = r.required("text")
	it.Note = r.optional("note")

	raw, present := r.m["scholarshipId"]
	if !present || raw == nil {
		r.rep.errorf("%s.scholarshipId is required", r.path)
	} else {
		out.RawScholarshipID = raw
		out.OriginalScholarshipID, out.ScholarshipIDIsNumeric = models.CoerceID(raw)
	}

	switch v := r.m["checked"].(type) {
	case nil:
	case bool:
		it.Checked = v
	default:
		it.Checked = truthy(v)
		r.rep.warnf("%s.checked is not a boolean, using %t", r.path, it.Checked)
	}

	switch v := r.m["order"].(type) {
	case nil:
	case float64:
		if v >= 0 && v == math.Trunc(v) && v <= math.MaxInt32 {
			it.Order = int(v)
		} else {
			r.rep.warnf("%s.order %v is not a valid position, using 0", r.path, v)
		}
	default:
		r.rep.warnf("%s.order is not a number, using 0", r.path)
	}
	return out
}

// truthy coerces non-boolean checked values: non-zero numbers and strings
// that strconv.ParseBool accepts as true.
func truthy(v any) bool {
	switch x := v.(type) {
	case float64:
		return x != 0
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return err == nil && b
	default:
		return false
	}
}

func (r record) document() DocumentRecord {
	out := DocumentRecord{}
	out.OriginalID, out.HasOriginalID = r.id("id")

	d := &out.Document
	d.Name = r.required("name")
	d.Type = models.DocumentType(r.required("type"))
	d.FileLink = r.optional("fileLink")
	d.Notes = r.optional("notes")

	switch v := r.m["status"].(type) {
	case nil:
		d.Status = models.DocNotReady
	default:
		st, _ := v.(string)
		d.Status = models.DocumentStatus(st)
		if !d.Status.IsValid() {
			r.rep.warnf("%s.status %v is not one of NotReady, Draft, Final, Uploaded; using NotReady", r.path, v)
			d.Status = models.DocNotReady
		}
	}

	if _, present := r.m["lastUpdated"]; present {
		if t, ok := r.instant("lastUpdated"); ok {
			d.LastUpdated = t
		} else {
			r.rep.warnf("%s.lastUpdated is not a valid timestamp, using import time", r.path)
		}
	}
	return out
}

func (r record) template() TemplateRecord {
	out := TemplateRecord{}
	switch v := r.m["id"].(type) {
	case string:
		out.OriginalID = models.TemplateID(v)
	case float64:
		out.OriginalID = models.TemplateID(strconv.FormatFloat(v, 'f', -1, 64))
	}

	t := &out.Template
	t.ID = out.OriginalID
	t.Name = r.required("name")
	t.Description = r.optional("description")
	t.Category = r.optional("category")
	t.Country = r.optional("country")
	t.Version = 1
	if n, ok := number(r.m["version"]); ok && n >= 1 {
		t.Version = int(n)
	}

	switch v := r.m["createdBy"].(type) {
	case nil:
		t.CreatedBy = models.OriginUser
	default:
		origin, _ := v.(string)
		t.CreatedBy = models.TemplateOrigin(origin)
		if !t.CreatedBy.IsValid() {
			r.rep.warnf("%s.createdBy %v is not user or system, using user", r.path, v)
			t.CreatedBy = models.OriginUser
		}
	}

	t.Items = []models.TemplateItem{}
	switch items := r.m["items"].(type) {
	case nil:
	case []any:
		for j, raw := range items {
			m, ok := raw.(map[string]any)
			if !ok {
				r.rep.warnf("%s.items[%d] is not an object, skipped", r.path, j)
				continue
			}
			item := record{rep: r.rep, path: fmt.Sprintf("%s.items[%d]", r.path, j), m: m}
			text, _ := m["text"].(string)
			if strings.TrimSpace(text) == "" {
				r.rep.warnf("%s.text is missing", item.path)
			}
			t.Items = append(t.Items, models.TemplateItem{Text: text, Note: item.optional("note")})
		}
	default:
		r.rep.warnf("%s.items is not an array, using []", r.path)
	}
	return out
}
