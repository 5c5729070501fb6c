package checklist

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/scholarkeeper/internal/common"
	"github.com/dmitrijs2005/scholarkeeper/internal/dbtest"
	"github.com/dmitrijs2005/scholarkeeper/internal/models"
)

func seed(t *testing.T, r *SQLiteRepository, items ...models.ChecklistItem) []*models.ChecklistItem {
	t.Helper()
	out := make([]*models.ChecklistItem, 0, len(items))
	for _, it := range items {
		c, err := r.Create(context.Background(), it)
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func TestCreateAndListByScholarship_SortedByOrder(t *testing.T) {
	r := NewSQLiteRepository(dbtest.Open(t), dbtest.FixedClock("2025-01-01T00:00:00Z"))
	seed(t, r,
		models.ChecklistItem{ScholarshipID: 1, Text: "third", Order: 2},
		models.ChecklistItem{ScholarshipID: 1, Text: "first", Order: 0},
		models.ChecklistItem{ScholarshipID: 2, Text: "other", Order: 0},
		models.ChecklistItem{ScholarshipID: 1, Text: "second", Order: 1},
	)

	items, err := r.ListByScholarship(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{items[0].Text, items[1].Text, items[2].Text})
}

func TestCreate_Validation(t *testing.T) {
	r := NewSQLiteRepository(dbtest.Open(t), nil)
	ctx := context.Background()

	_, err := r.Create(ctx, models.ChecklistItem{ScholarshipID: 1})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = r.Create(ctx, models.ChecklistItem{Text: "orphan"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = r.Create(ctx, models.ChecklistItem{ScholarshipID: 1, Text: "neg", Order: -1})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUpdate_TogglesChecked(t *testing.T) {
	r := NewSQLiteRepository(dbtest.Open(t), nil)
	ctx := context.Background()
	item := seed(t, r, models.ChecklistItem{ScholarshipID: 1, Text: "CV"})[0]

	checked := true
	note := "sent to mentor"
	got, err := r.Update(ctx, item.ID, models.ChecklistItemPatch{Checked: &checked, Note: &note})
	require.NoError(t, err)
	assert.True(t, got.Checked)
	assert.Equal(t, "CV", got.Text)

	stored, err := r.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, stored.Checked)
	assert.Equal(t, "sent to mentor", stored.Note)
}

func TestUpdate_Missing(t *testing.T) {
	r := NewSQLiteRepository(dbtest.Open(t), nil)
	checked := true

	_, err := r.Update(context.Background(), 5, models.ChecklistItemPatch{Checked: &checked})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSetOrder_ChecksOwnership(t *testing.T) {
	r := NewSQLiteRepository(dbtest.Open(t), nil)
	ctx := context.Background()
	items := seed(t, r,
		models.ChecklistItem{ScholarshipID: 1, Text: "a"},
		models.ChecklistItem{ScholarshipID: 2, Text: "b"},
	)

	ok, err := r.SetOrder(ctx, items[0].ID, 1, 4)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.SetOrder(ctx, items[1].ID, 1, 0)
	require.NoError(t, err)
	assert.False(t, ok, "item of another scholarship")

	ok, err = r.SetOrder(ctx, 999, 1, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := r.Get(ctx, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Order)
}

func TestMaxOrder(t *testing.T) {
	r := NewSQLiteRepository(dbtest.Open(t), nil)
	ctx := context.Background()

	_, ok, err := r.MaxOrder(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	seed(t, r,
		models.ChecklistItem{ScholarshipID: 1, Text: "a", Order: 3},
		models.ChecklistItem{ScholarshipID: 1, Text: "b", Order: 0},
	)
	m, ok, err := r.MaxOrder(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, m)
}

func TestDeleteClearCount(t *testing.T) {
	r := NewSQLiteRepository(dbtest.Open(t), nil)
	ctx := context.Background()
	items := seed(t, r,
		models.ChecklistItem{ScholarshipID: 1, Text: "a"},
		models.ChecklistItem{ScholarshipID: 1, Text: "b"},
	)

	require.NoError(t, r.Delete(ctx, items[0].ID))
	require.NoError(t, r.Delete(ctx, items[0].ID))
	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, r.Clear(ctx))
	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStorageErrors_AreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := NewSQLiteRepository(db, nil)
	ctx := context.Background()

	mock.ExpectExec("UPDATE checklist_items SET position").WillReturnError(errors.New("busy"))
	_, err = r.SetOrder(ctx, 1, 1, 0)
	require.ErrorIs(t, err, common.ErrStorage)

	mock.ExpectQuery("SELECT MAX").WillReturnError(errors.New("busy"))
	_, _, err = r.MaxOrder(ctx, 1)
	require.ErrorIs(t, err, common.ErrStorage)

	require.NoError(t, mock.ExpectationsWereMet())
}
