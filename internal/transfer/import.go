package transfer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/scholarkeeper/internal/catalog"
	"github.com/dmitrijs2005/scholarkeeper/internal/logging"
	"github.com/dmitrijs2005/scholarkeeper/internal/models"
)

type CollectionResult struct {
	Created int      `json:"created"`
	Errors  []string `json:"errors"`
}

func (c *CollectionResult) fail(format string, args ...any) {
	c.Errors = append(c.Errors, fmt.Sprintf(format, args...))
}

type ImportResult struct {
	Strategy       Strategy         `json:"strategy"`
	Scholarships   CollectionResult `json:"scholarships"`
	ChecklistItems CollectionResult `json:"checklistItems"`
	Documents      CollectionResult `json:"documents"`
	Templates      CollectionResult `json:"templates"`
	Warnings       []string         `json:"warnings"`
}

// HasErrors reports whether any record failed to insert.
func (r *ImportResult) HasErrors() bool {
	return len(r.Scholarships.Errors)+len(r.ChecklistItems.Errors)+len(r.Documents.Errors)+len(r.Templates.Errors) > 0
}

type Preview struct {
	Version  string   `json:"version"`
	Valid    bool     `json:"valid"`
	Counts   Stats    `json:"counts"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// GetImportPreview validates doc and reports what an import would insert.
func (s *Service) GetImportPreview(doc RawDocument) *Preview {
	rep := Validate(doc)
	return &Preview{
		Version: rep.Records.Version,
		Valid:   rep.Valid(),
		Counts: Stats{
			Scholarships:   len(rep.Records.Scholarships),
			ChecklistItems: len(rep.Records.ChecklistItems),
			Documents:      len(rep.Records.Documents),
			Templates:      len(rep.Records.Templates),
		},
		Errors:   nonNil(rep.Errors),
		Warnings: nonNil(rep.Warnings),
	}
}

// ImportData validates doc and, if it is clean, writes it with the given
// strategy. Validation errors abort before any write. After that, each record
// is inserted on its own: failures are collected in the result and do not stop
// the remaining records.
//
// Every record gets a fresh id. Checklist items are re-pointed at the new id
// of their scholarship, and requiredDocumentIds at the new document ids;
// references that do not resolve within the file are reported (items) or
// dropped (document ids).
func (s *Service) ImportData(ctx context.Context, doc RawDocument, strategy Strategy) (*ImportResult, error) {
	if strategy != Replace && strategy != Merge {
		return nil, fmt.Errorf("unknown import strategy %q", strategy)
	}
	log := s.logger.With("run_id", uuid.NewString(), "strategy", string(strategy))

	rep := Validate(doc)
	for _, w := range rep.Warnings {
		log.Warn(ctx, "import warning", "warning", w)
	}
	if err := rep.Err(); err != nil {
		log.Warn(ctx, "import rejected", "errors", len(rep.Errors))
		return nil, err
	}
	log.Info(ctx, "import validated",
		"scholarships", len(rep.Records.Scholarships),
		"checklist_items", len(rep.Records.ChecklistItems),
		"documents", len(rep.Records.Documents),
		"templates", len(rep.Records.Templates))

	if strategy == Replace {
		if err := s.store.ClearAll(ctx); err != nil {
			return nil, err
		}
		log.Info(ctx, "store cleared for replace")
	}

	res := &ImportResult{Strategy: strategy, Warnings: nonNil(rep.Warnings)}
	scholarshipIDs, created := s.importScholarships(ctx, rep.Records.Scholarships, &res.Scholarships)
	documentIDs := s.importDocuments(ctx, rep.Records.Documents, &res.Documents)
	s.importTemplates(ctx, rep.Records.Templates, res)
	s.importChecklistItems(ctx, rep.Records.ChecklistItems, scholarshipIDs, &res.ChecklistItems)
	s.relinkDocuments(ctx, created, documentIDs, &res.Scholarships)

	s.logResult(ctx, log, res)
	return res, nil
}

func (s *Service) importScholarships(ctx context.Context, recs []ScholarshipRecord, res *CollectionResult) (map[int64]int64, []*models.Scholarship) {
	ids := make(map[int64]int64, len(recs))
	created := make([]*models.Scholarship, 0, len(recs))
	for i, r := range recs {
		sch, err := s.store.Scholarships.Create(ctx, r.Scholarship)
		if err != nil {
			res.fail("scholarships[%d] %q: %v", i, r.Scholarship.Name, err)
			continue
		}
		res.Created++
		created = append(created, sch)
		if r.HasOriginalID {
			ids[r.OriginalID] = sch.ID
		}
	}
	return ids, created
}

func (s *Service) importDocuments(ctx context.Context, recs []DocumentRecord, res *CollectionResult) map[int64]int64 {
	ids := make(map[int64]int64, len(recs))
	for i, r := range recs {
		d, err := s.store.Documents.Create(ctx, r.Document)
		if err != nil {
			res.fail("documents[%d] %q: %v", i, r.Document.Name, err)
			continue
		}
		res.Created++
		if r.HasOriginalID {
			ids[r.OriginalID] = d.ID
		}
	}
	return ids
}

func (s *Service) importTemplates(ctx context.Context, recs []TemplateRecord, out *ImportResult) {
	res := &out.Templates
	for i, r := range recs {
		if r.Template.CreatedBy == models.OriginSystem && catalog.Has(r.OriginalID) {
			out.Warnings = append(out.Warnings, fmt.Sprintf("templates[%d]: built-in template %s skipped", i, r.OriginalID))
			continue
		}
		tpl := r.Template
		tpl.ID = ""
		tpl.CreatedBy = models.OriginUser
		if _, err := s.store.Templates.Create(ctx, tpl); err != nil {
			res.fail("templates[%d] %q: %v", i, tpl.Name, err)
			continue
		}
		res.Created++
	}
}

func (s *Service) importChecklistItems(ctx context.Context, recs []ChecklistItemRecord, scholarshipIDs map[int64]int64, res *CollectionResult) {
	for i, r := range recs {
		newID, ok := scholarshipIDs[r.OriginalScholarshipID]
		if !r.ScholarshipIDIsNumeric || !ok {
			res.fail("checklistItems[%d] %q: scholarship %v is not part of this import", i, r.Item.Text, r.RawScholarshipID)
			continue
		}
		item := r.Item
		item.ScholarshipID = newID
		if _, err := s.store.Checklist.Create(ctx, item); err != nil {
			res.fail("checklistItems[%d] %q: %v", i, item.Text, err)
			continue
		}
		res.Created++
	}
}

// relinkDocuments rewrites requiredDocumentIds of freshly created scholarships
// from file ids to store ids. Ids without a counterpart are dropped.
func (s *Service) relinkDocuments(ctx context.Context, created []*models.Scholarship, documentIDs map[int64]int64, res *CollectionResult) {
	for _, sch := range created {
		if len(sch.RequiredDocumentIDs) == 0 {
			continue
		}
		mapped := make([]int64, 0, len(sch.RequiredDocumentIDs))
		for _, old := range sch.RequiredDocumentIDs {
			if id, ok := documentIDs[old]; ok {
				mapped = append(mapped, id)
			}
		}
		if _, err := s.store.Scholarships.Update(ctx, sch.ID, models.ScholarshipPatch{RequiredDocumentIDs: &mapped}); err != nil {
			res.fail("scholarship %q: relink documents: %v", sch.Name, err)
		}
	}
}

func (s *Service) logResult(ctx context.Context, log logging.Logger, res *ImportResult) {
	for _, c := range []struct {
		name string
		res  *CollectionResult
	}{
		{"scholarships", &res.Scholarships},
		{"documents", &res.Documents},
		{"templates", &res.Templates},
		{"checklist_items", &res.ChecklistItems},
	} {
		c.res.Errors = nonNil(c.res.Errors)
		log.Info(ctx, "import collection done", "collection", c.name, "created", c.res.Created, "errors", len(c.res.Errors))
		for _, e := range c.res.Errors {
			log.Warn(ctx, "import record failed", "collection", c.name, "error", e)
		}
	}
}
