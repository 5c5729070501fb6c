package transfer

import (
	"context"

	"github.com/dmitrijs2005/scholarkeeper/internal/models"
)

// ExportAll snapshots scholarships, their checklist items and documents.
// Items are collected per scholarship, so items whose scholarship is gone
// are not exported.
func (s *Service) ExportAll(ctx context.Context) (*Export, error) {
	data, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}
	return &Export{Version: FormatVersion, ExportedAt: s.store.Now(), Data: *data}, nil
}

// ExportSeed is ExportAll plus user templates, stamped with createdAt.
func (s *Service) ExportSeed(ctx context.Context) (*Seed, error) {
	data, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}
	tpls, err := s.store.Templates.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return &Seed{CreatedAt: s.store.Now(), Data: SeedData{Data: *data, Templates: nonNil(tpls)}}, nil
}

func (s *Service) GetExportStats(ctx context.Context) (*Stats, error) {
	data, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}
	tpls, err := s.store.Templates.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Scholarships:   len(data.Scholarships),
		ChecklistItems: len(data.ChecklistItems),
		Documents:      len(data.Documents),
		Templates:      tpls,
	}, nil
}

func (s *Service) collect(ctx context.Context) (*Data, error) {
	scholarships, err := s.store.Scholarships.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]models.ChecklistItem, 0)
	for _, sch := range scholarships {
		own, err := s.store.GetChecklistItems(ctx, sch.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, own...)
	}
	docs, err := s.store.Documents.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return &Data{
		Scholarships:   nonNil(scholarships),
		ChecklistItems: items,
		Documents:      nonNil(docs),
	}, nil
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
