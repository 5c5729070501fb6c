package checklist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/scholarkeeper/internal/common"
	"github.com/dmitrijs2005/scholarkeeper/internal/dbx"
	"github.com/dmitrijs2005/scholarkeeper/internal/models"
	"github.com/dmitrijs2005/scholarkeeper/internal/repositories"
)

const columns = `id, scholarship_id, text, checked, note, position, created_at, updated_at`

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX, now func() time.Time) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: repositories.Clock(now)}
}

func (r *SQLiteRepository) Create(ctx context.Context, item models.ChecklistItem) (*models.ChecklistItem, error) {
	if err := models.Validate(&item); err != nil {
		return nil, err
	}
	now := r.now()
	item.CreatedAt, item.UpdatedAt = now, now

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO checklist_items (scholarship_id, text, checked, note, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ScholarshipID, item.Text, item.Checked, item.Note, item.Order,
		repositories.Instant(now), repositories.Instant(now))
	if err != nil {
		return nil, common.StorageError("insert checklist item", err)
	}
	item.ID, err = res.LastInsertId()
	if err != nil {
		return nil, common.StorageError("read checklist item id", err)
	}
	return &item, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.ChecklistItem, error) {
	return r.list(ctx, `SELECT `+columns+` FROM checklist_items ORDER BY id`)
}

func (r *SQLiteRepository) ListByScholarship(ctx context.Context, scholarshipID int64) ([]models.ChecklistItem, error) {
	return r.list(ctx, `SELECT `+columns+` FROM checklist_items WHERE scholarship_id = ? ORDER BY position, id`, scholarshipID)
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.ChecklistItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM checklist_items WHERE id = ?`, id)
	item, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, common.StorageError(fmt.Sprintf("get checklist item %d", id), err)
	}
	return &item, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id int64, patch models.ChecklistItemPatch) (*models.ChecklistItem, error) {
	item, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, common.NewNotFound("checklist item", id)
	}

	patch.Apply(item)
	if err := models.Validate(item); err != nil {
		return nil, err
	}
	item.UpdatedAt = r.now()

	res, err := r.db.ExecContext(ctx, `
		UPDATE checklist_items SET text = ?, checked = ?, note = ?, position = ?, updated_at = ?
		WHERE id = ?`,
		item.Text, item.Checked, item.Note, item.Order, repositories.Instant(item.UpdatedAt), id)
	if err != nil {
		return nil, common.StorageError(fmt.Sprintf("update checklist item %d", id), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, common.NewNotFound("checklist item", id)
	}
	return item, nil
}

func (r *SQLiteRepository) SetOrder(ctx context.Context, id, scholarshipID int64, order int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE checklist_items SET position = ?, updated_at = ?
		WHERE id = ? AND scholarship_id = ?`,
		order, repositories.Instant(r.now()), id, scholarshipID)
	if err != nil {
		return false, common.StorageError(fmt.Sprintf("reorder checklist item %d", id), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, common.StorageError("read rows affected", err)
	}
	return n == 1, nil
}

func (r *SQLiteRepository) MaxOrder(ctx context.Context, scholarshipID int64) (int, bool, error) {
	var maxPos sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(position) FROM checklist_items WHERE scholarship_id = ?`, scholarshipID).Scan(&maxPos)
	if err != nil {
		return 0, false, common.StorageError("read max checklist order", err)
	}
	return int(maxPos.Int64), maxPos.Valid, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM checklist_items WHERE id = ?`, id); err != nil {
		return common.StorageError(fmt.Sprintf("delete checklist item %d", id), err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM checklist_items`).Scan(&n); err != nil {
		return 0, common.StorageError("count checklist items", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM checklist_items`); err != nil {
		return common.StorageError("clear checklist items", err)
	}
	return nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.ChecklistItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.StorageError("select checklist items", err)
	}
	out, err := dbx.Collect(rows, func(rows *sql.Rows) (models.ChecklistItem, error) { return scan(rows) })
	if err != nil {
		return nil, common.StorageError("scan checklist items", err)
	}
	return out, nil
}

func scan(row repositories.Scanner) (models.ChecklistItem, error) {
	var (
		item             models.ChecklistItem
		created, updated string
	)
	if err := row.Scan(&item.ID, &item.ScholarshipID, &item.Text, &item.Checked, &item.Note, &item.Order,
		&created, &updated); err != nil {
		return item, err
	}
	if err := repositories.ParseInstants(created, &item.CreatedAt, updated, &item.UpdatedAt); err != nil {
		return item, fmt.Errorf("checklist item %d: %w", item.ID, err)
	}
	return item, nil
}
