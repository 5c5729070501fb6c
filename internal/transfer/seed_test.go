package transfer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/scholarkeeper/internal/models"
)

func TestBundledSeed_IsValid(t *testing.T) {
	doc, err := ParseImportFile(bundledSeed)
	require.NoError(t, err)

	rep := Validate(doc)
	assert.True(t, rep.Valid(), "%v", rep.Errors)
	assert.Empty(t, rep.Warnings)
	assert.NotEmpty(t, rep.Records.Scholarships)
}

func TestSeedIfNeeded_RunsOnce(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	ran, err := svc.SeedIfNeeded(ctx)
	require.NoError(t, err)
	assert.True(t, ran)
	first := counts(t, st)
	assert.Positive(t, first[0])

	all, err := st.Scholarships.GetAll(ctx)
	require.NoError(t, err)
	for _, s := range all {
		items, err := st.GetChecklistItems(ctx, s.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, items, "seed items are linked to %s", s.Name)
	}

	ran, err = svc.SeedIfNeeded(ctx)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, first, counts(t, st))

	// even an emptied store is not reseeded
	require.NoError(t, st.ClearAll(ctx))
	ran, err = svc.SeedIfNeeded(ctx)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, [4]int{}, counts(t, st))

	require.NoError(t, svc.ResetSeedMarker(ctx))
	ran, err = svc.SeedIfNeeded(ctx)
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestSeedIfNeeded_NonEmptyStoreOnlySetsMarker(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	_, err := st.Scholarships.Create(ctx, models.Scholarship{Name: "mine", Provider: "me", Deadline: st.Now()})
	require.NoError(t, err)

	ran, err := svc.SeedIfNeeded(ctx)
	require.NoError(t, err)
	assert.False(t, ran)

	_, marked, err := st.Metadata.GetTime(ctx, SeedMarkerKey)
	require.NoError(t, err)
	assert.True(t, marked)

	require.NoError(t, st.ClearAll(ctx))
	ran, err = svc.SeedIfNeeded(ctx)
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestSeedIfNeeded_CustomSeed(t *testing.T) {
	svc, st := newService(t, WithSeedData([]byte(`{"createdAt": "2025-01-01T00:00:00Z", "data": {
		"scholarships": [{"id": 5, "name": "Only", "provider": "P", "deadline": "2025-12-31"}],
		"checklistItems": [{"scholarshipId": 5, "text": "step"}]
	}}`)))
	ctx := context.Background()

	ran, err := svc.SeedIfNeeded(ctx)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, [4]int{1, 1, 0, 0}, counts(t, st))
}

func TestSeedIfNeeded_BrokenSeedLeavesMarkerUnset(t *testing.T) {
	svc, st := newService(t, WithSeedData([]byte(`{"data": {"scholarships": [{}]}}`)))
	ctx := context.Background()

	_, err := svc.SeedIfNeeded(ctx)
	require.Error(t, err)

	_, marked, err := st.Metadata.GetTime(ctx, SeedMarkerKey)
	require.NoError(t, err)
	assert.False(t, marked)
}
