package templates

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

func TestCreate_DefaultsAndItemsRoundTrip(t *testing.T) {
	r := NewSQLiteRepository(dbtest.Open(t), dbtest.FixedClock("2025-04-01T00:00:00Z"))
	ctx := context.Background()

	tpl, err := r.Create(ctx, models.Template{
		Name:    "My Erasmus list",
		Country: "EU",
		Items: []models.TemplateItem{
			{Text: "Motivation letter", Note: "max 1 page"},
			{Text: "Passport copy"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.OriginUser, tpl.CreatedBy)
	assert.Equal(t, 1, tpl.Version)
	n, ok := tpl.ID.Numeric()
	require.True(t, ok)

	got, err := r.Get(ctx, n)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tpl.ID, got.ID)
	assert.Equal(t, tpl.Items, got.Items)
	assert.False(t, got.IsBuiltin())
}

func TestCreate_EmptyItemsAreNotNil(t *testing.T) {
	r := NewSQLiteRepository(dbtest.Open(t), nil)
	ctx := context.Background()

	tpl, err := r.Create(ctx, models.Template{Name: "blank"})
	require.NoError(t, err)
	n, _ := tpl.ID.Numeric()

	got, err := r.Get(ctx, n)
	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
}

func TestCreate_RequiresName(t *testing.T) {
	r := NewSQLiteRepository(dbtest.Open(t), nil)

	_, err := r.Create(context.Background(), models.Template{})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUpdateAndDelete(t *testing.T) {
	r := NewSQLiteRepository(dbtest.Open(t), nil)
	ctx := context.Background()
	tpl, err := r.Create(ctx, models.Template{Name: "v1"})
	require.NoError(t, err)
	id, _ := tpl.ID.Numeric()

	name := "v2"
	items := []models.TemplateItem{{Text: "Essay"}}
	version := 2
	got, err := r.Update(ctx, id, models.TemplatePatch{Name: &name, Items: &items, Version: &version})
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Name)
	assert.Equal(t, 2, got.Version)

	stored, err := r.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, items, stored.Items)

	require.NoError(t, r.Delete(ctx, id))
	require.NoError(t, r.Delete(ctx, id))
	gone, err := r.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, gone)

	_, err = r.Update(ctx, id, models.TemplatePatch{Name: &name})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRead_ToleratesBadItemsJSON(t *testing.T) {
	db := dbtest.Open(t)
	r := NewSQLiteRepository(db, nil)

	res, err := db.Exec(`INSERT INTO templates (name, items, created_at, updated_at)
		VALUES ('broken', '{oops', '2025-01-01T00:00:00.000Z', '2025-01-01T00:00:00.000Z')`)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)

	got, err := r.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []models.TemplateItem{}, got.Items)
}

func TestGetAllCountClear(t *testing.T) {
	r := NewSQLiteRepository(dbtest.Open(t), nil)
	ctx := context.Background()
	for _, name := range []string{"a", "b"} {
		_, err := r.Create(ctx, models.Template{Name: name})
		require.NoError(t, err)
	}

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Name)

	require.NoError(t, r.Clear(ctx))
	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStorageErrors_AreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := NewSQLiteRepository(db, nil)

	mock.ExpectExec("INSERT INTO templates").WillReturnError(errors.New("readonly database"))
	_, err = r.Create(context.Background(), models.Template{Name: "x"})
	require.ErrorIs(t, err, common.ErrStorage)
	assert.ErrorContains(t, err, "insert template")
	require.NoError(t, mock.ExpectationsWereMet())
}
