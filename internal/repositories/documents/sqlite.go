package documents

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

const columns = `id, name, type, status, file_link, notes, last_updated, created_at, updated_at`

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX, now func() time.Time) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: repositories.Clock(now)}
}

func (r *SQLiteRepository) Create(ctx context.Context, d models.Document) (*models.Document, error) {
	if d.Status == "" {
		d.Status = models.DocNotReady
	}
	if err := models.Validate(&d); err != nil {
		return nil, err
	}
	now := r.now()
	if d.LastUpdated.IsZero() {
		d.LastUpdated = now
	}
	d.CreatedAt, d.UpdatedAt = now, now

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (name, type, status, file_link, notes, last_updated, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Name, string(d.Type), string(d.Status), d.FileLink, d.Notes,
		repositories.Instant(d.LastUpdated), repositories.Instant(now), repositories.Instant(now))
	if err != nil {
		return nil, common.StorageError("insert document", err)
	}
	d.ID, err = res.LastInsertId()
	if err != nil {
		return nil, common.StorageError("read document id", err)
	}
	return &d, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Document, error) {
	return r.list(ctx, `SELECT `+columns+` FROM documents ORDER BY id`)
}

func (r *SQLiteRepository) ListByType(ctx context.Context, t models.DocumentType) ([]models.Document, error) {
	return r.list(ctx, `SELECT `+columns+` FROM documents WHERE type = ? ORDER BY id`, string(t))
}

func (r *SQLiteRepository) ListByStatus(ctx context.Context, s models.DocumentStatus) ([]models.Document, error) {
	return r.list(ctx, `SELECT `+columns+` FROM documents WHERE status = ? ORDER BY id`, string(s))
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.Document, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM documents WHERE id = ?`, id)
	d, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, common.StorageError(fmt.Sprintf("get document %d", id), err)
	}
	return &d, nil
}

func (r *SQLiteRepository) GetMany(ctx context.Context, ids []int64) ([]models.Document, error) {
	out := make([]models.Document, 0, len(ids))
	for _, id := range ids {
		d, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if d != nil {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id int64, patch models.DocumentPatch) (*models.Document, error) {
	d, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, common.NewNotFound("document", id)
	}

	now := r.now()
	patch.Apply(d, now)
	if err := models.Validate(d); err != nil {
		return nil, err
	}
	d.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
		UPDATE documents SET name = ?, type = ?, status = ?, file_link = ?, notes = ?, last_updated = ?, updated_at = ?
		WHERE id = ?`,
		d.Name, string(d.Type), string(d.Status), d.FileLink, d.Notes,
		repositories.Instant(d.LastUpdated), repositories.Instant(now), id)
	if err != nil {
		return nil, common.StorageError(fmt.Sprintf("update document %d", id), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, common.NewNotFound("document", id)
	}
	return d, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return common.StorageError(fmt.Sprintf("delete document %d", id), err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, common.StorageError("count documents", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return common.StorageError("clear documents", err)
	}
	return nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.StorageError("select documents", err)
	}
	out, err := dbx.Collect(rows, func(rows *sql.Rows) (models.Document, error) { return scan(rows) })
	if err != nil {
		return nil, common.StorageError("scan documents", err)
	}
	return out, nil
}

func scan(row repositories.Scanner) (models.Document, error) {
	var (
		d                         models.Document
		typ, status               string
		lastUpdated, created, upd string
	)
	if err := row.Scan(&d.ID, &d.Name, &typ, &status, &d.FileLink, &d.Notes, &lastUpdated, &created, &upd); err != nil {
		return d, err
	}
	d.Type = models.DocumentType(typ)
	d.Status = models.DocumentStatus(status)
	if err := repositories.ParseInstants(lastUpdated, &d.LastUpdated, created, &d.CreatedAt, upd, &d.UpdatedAt); err != nil {
		return d, fmt.Errorf("document %d: %w", d.ID, err)
	}
	return d, nil
}
