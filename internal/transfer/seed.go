package transfer

import (
	"context"
	_ "embed"
	"fmt"
)

// SeedMarkerKey is the metadata key recording when first-run seeding happened.
const SeedMarkerKey = "seeded_at"

//go:embed seedData.json
var bundledSeed []byte

// SeedIfNeeded loads the seed document into an empty store exactly once. The
// marker is set whenever the check runs to completion, seeded or not, so later
// deleting every scholarship never triggers a reseed.
func (s *Service) SeedIfNeeded(ctx context.Context) (bool, error) {
	_, seeded, err := s.store.Metadata.GetTime(ctx, SeedMarkerKey)
	if err != nil {
		return false, err
	}
	if seeded {
		s.logger.Debug(ctx, "seed skipped", "reason", "already seeded")
		return false, nil
	}

	n, err := s.store.Scholarships.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		s.logger.Info(ctx, "seed skipped", "reason", "store not empty", "scholarships", n)
		return false, s.markSeeded(ctx)
	}

	doc, err := ParseImportFile(s.seed)
	if err != nil {
		return false, fmt.Errorf("seed document: %w", err)
	}
	res, err := s.ImportData(ctx, doc, Merge)
	if err != nil {
		return false, fmt.Errorf("seed document: %w", err)
	}
	if err := s.markSeeded(ctx); err != nil {
		return true, err
	}
	s.logger.Info(ctx, "store seeded",
		"scholarships", res.Scholarships.Created,
		"checklist_items", res.ChecklistItems.Created,
		"documents", res.Documents.Created,
		"templates", res.Templates.Created)
	return true, nil
}

func (s *Service) markSeeded(ctx context.Context) error {
	return s.store.Metadata.SetTime(ctx, SeedMarkerKey, s.store.Now())
}

// ResetSeedMarker forgets that seeding happened. Meant for development and tests.
func (s *Service) ResetSeedMarker(ctx context.Context) error {
	return s.store.Metadata.Delete(ctx, SeedMarkerKey)
}
