package store

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/scholarkeeper/internal/catalog"
	"github.com/dmitrijs2005/scholarkeeper/internal/common"
	"github.com/dmitrijs2005/scholarkeeper/internal/models"
)

// GetChecklistItems returns a scholarship's items sorted by order.
func (s *Store) GetChecklistItems(ctx context.Context, scholarshipID int64) ([]models.ChecklistItem, error) {
	return s.Checklist.ListByScholarship(ctx, scholarshipID)
}

// ReorderChecklistItems assigns order = index to each id in ordered, in one
// transaction. If any id is missing or belongs to another scholarship nothing
// is written and a NotFoundError is returned.
func (s *Store) ReorderChecklistItems(ctx context.Context, scholarshipID int64, ordered []int64) error {
	err := s.WithTx(ctx, func(ctx context.Context, r *Repositories) error {
		for i, id := range ordered {
			ok, err := r.Checklist.SetOrder(ctx, id, scholarshipID, i)
			if err != nil {
				return err
			}
			if !ok {
				return common.NewNotFound("checklist item", id)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Debug(ctx, "checklist reordered", "scholarship_id", scholarshipID, "items", len(ordered))
	return nil
}

// GetScholarshipRequiredDocuments resolves the scholarship's requiredDocumentIds.
// Ids that no longer resolve are left out.
func (s *Store) GetScholarshipRequiredDocuments(ctx context.Context, scholarshipID int64) ([]models.Document, error) {
	sch, err := s.Scholarships.Get(ctx, scholarshipID)
	if err != nil {
		return nil, err
	}
	if sch == nil {
		return nil, common.NewNotFound("scholarship", scholarshipID)
	}
	return s.Documents.GetMany(ctx, sch.RequiredDocumentIDs)
}

// GetDocumentScholarships returns every scholarship that requires documentID.
func (s *Store) GetDocumentScholarships(ctx context.Context, documentID int64) ([]models.Scholarship, error) {
	all, err := s.Scholarships.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Scholarship, 0)
	for _, sch := range all {
		if sch.HasDocument(documentID) {
			out = append(out, sch)
		}
	}
	return out, nil
}

// AllTemplates lists the built-in catalog followed by user templates.
func (s *Store) AllTemplates(ctx context.Context) ([]models.Template, error) {
	user, err := s.Templates.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return append(catalog.All(), user...), nil
}

// GetTemplate resolves a built-in slug or a user template id.
func (s *Store) GetTemplate(ctx context.Context, id models.TemplateID) (*models.Template, error) {
	if t, ok := catalog.Get(id); ok {
		return &t, nil
	}
	n, ok := id.Numeric()
	if !ok {
		return nil, common.NewNotFound("template", string(id))
	}
	t, err := s.Templates.Get(ctx, n)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, common.NewNotFound("template", string(id))
	}
	return t, nil
}

// UpdateTemplate edits a user template. Built-in templates are read-only.
func (s *Store) UpdateTemplate(ctx context.Context, id models.TemplateID, patch models.TemplatePatch) (*models.Template, error) {
	if catalog.Has(id) {
		return nil, fmt.Errorf("template %s: %w", id, common.ErrReadOnly)
	}
	n, ok := id.Numeric()
	if !ok {
		return nil, common.NewNotFound("template", string(id))
	}
	return s.Templates.Update(ctx, n, patch)
}

// DeleteTemplate removes a user template; unknown ids are a no-op.
func (s *Store) DeleteTemplate(ctx context.Context, id models.TemplateID) error {
	if catalog.Has(id) {
		return fmt.Errorf("template %s: %w", id, common.ErrReadOnly)
	}
	n, ok := id.Numeric()
	if !ok {
		return nil
	}
	return s.Templates.Delete(ctx, n)
}

// ApplyTemplate copies the template's items into new unchecked checklist items
// for the scholarship. Orders continue after the current maximum, or start at
// 0 for an empty checklist.
func (s *Store) ApplyTemplate(ctx context.Context, scholarshipID int64, templateID models.TemplateID) ([]models.ChecklistItem, error) {
	tpl, err := s.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	var created []models.ChecklistItem
	err = s.WithTx(ctx, func(ctx context.Context, r *Repositories) error {
		sch, err := r.Scholarships.Get(ctx, scholarshipID)
		if err != nil {
			return err
		}
		if sch == nil {
			return common.NewNotFound("scholarship", scholarshipID)
		}

		next := 0
		maxOrder, ok, err := r.Checklist.MaxOrder(ctx, scholarshipID)
		if err != nil {
			return err
		}
		if ok {
			next = maxOrder + 1
		}

		created = make([]models.ChecklistItem, 0, len(tpl.Items))
		for i, it := range tpl.Items {
			item, err := r.Checklist.Create(ctx, models.ChecklistItem{
				ScholarshipID: scholarshipID,
				Text:          it.Text,
				Note:          it.Note,
				Order:         next + i,
			})
			if err != nil {
				return fmt.Errorf("template item %d: %w", i, err)
			}
			created = append(created, *item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "template applied", "scholarship_id", scholarshipID, "template_id", string(templateID),
		"items", len(created))
	return created, nil
}

// SaveChecklistAsTemplate stores a scholarship's current checklist, in order,
// as a new user template.
func (s *Store) SaveChecklistAsTemplate(ctx context.Context, scholarshipID int64, tpl models.Template) (*models.Template, error) {
	items, err := s.Checklist.ListByScholarship(ctx, scholarshipID)
	if err != nil {
		return nil, err
	}
	tpl.ID = ""
	tpl.CreatedBy = models.OriginUser
	tpl.Items = make([]models.TemplateItem, 0, len(items))
	for _, it := range items {
		tpl.Items = append(tpl.Items, models.TemplateItem{Text: it.Text, Note: it.Note})
	}
	return s.Templates.Create(ctx, tpl)
}
