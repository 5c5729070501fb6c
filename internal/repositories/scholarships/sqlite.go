package scholarships

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/scholarkeeper/internal/common"
	"github.com/dmitrijs2005/scholarkeeper/internal/dbx"
	"github.com/dmitrijs2005/scholarkeeper/internal/models"
	"github.com/dmitrijs2005/scholarkeeper/internal/repositories"
)

const columns = `id, name, provider, degree_level, country, application_year, deadline, status,
	required_document_ids, created_at, updated_at`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

// NewSQLiteRepository binds a repository to db. A nil now uses time.Now.
func NewSQLiteRepository(db dbx.DBTX, now func() time.Time) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: repositories.Clock(now)}
}

func (r *SQLiteRepository) Create(ctx context.Context, s models.Scholarship) (*models.Scholarship, error) {
	if s.Status == "" {
		s.Status = models.StatusNotStarted
	}
	s.RequiredDocumentIDs = models.NormalizeDocumentIDs(s.RequiredDocumentIDs)
	if err := models.Validate(&s); err != nil {
		return nil, err
	}

	now := r.now()
	s.CreatedAt, s.UpdatedAt = now, now

	ids, err := json.Marshal(s.RequiredDocumentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document ids: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO scholarships (name, provider, degree_level, country, application_year, deadline, status,
			required_document_ids, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Name, s.Provider, s.DegreeLevel, s.Country, s.ApplicationYear, repositories.Instant(s.Deadline),
		string(s.Status), string(ids), repositories.Instant(now), repositories.Instant(now))
	if err != nil {
		return nil, common.StorageError("insert scholarship", err)
	}
	s.ID, err = res.LastInsertId()
	if err != nil {
		return nil, common.StorageError("read scholarship id", err)
	}
	return &s, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Scholarship, error) {
	return r.list(ctx, `SELECT `+columns+` FROM scholarships ORDER BY id`)
}

func (r *SQLiteRepository) ListByStatus(ctx context.Context, status models.ScholarshipStatus) ([]models.Scholarship, error) {
	return r.list(ctx, `SELECT `+columns+` FROM scholarships WHERE status = ? ORDER BY deadline, id`, string(status))
}

func (r *SQLiteRepository) ListByDeadline(ctx context.Context, from, to time.Time) ([]models.Scholarship, error) {
	return r.list(ctx, `SELECT `+columns+` FROM scholarships WHERE deadline >= ? AND deadline < ? ORDER BY deadline, id`,
		repositories.Instant(from), repositories.Instant(to))
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.Scholarship, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM scholarships WHERE id = ?`, id)
	s, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, common.StorageError(fmt.Sprintf("get scholarship %d", id), err)
	}
	return &s, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id int64, patch models.ScholarshipPatch) (*models.Scholarship, error) {
	s, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, common.NewNotFound("scholarship", id)
	}

	patch.Apply(s)
	s.RequiredDocumentIDs = models.NormalizeDocumentIDs(s.RequiredDocumentIDs)
	if err := models.Validate(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = r.now()

	ids, err := json.Marshal(s.RequiredDocumentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document ids: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE scholarships
		SET name = ?, provider = ?, degree_level = ?, country = ?, application_year = ?, deadline = ?,
			status = ?, required_document_ids = ?, updated_at = ?
		WHERE id = ?`,
		s.Name, s.Provider, s.DegreeLevel, s.Country, s.ApplicationYear, repositories.Instant(s.Deadline),
		string(s.Status), string(ids), repositories.Instant(s.UpdatedAt), id)
	if err != nil {
		return nil, common.StorageError(fmt.Sprintf("update scholarship %d", id), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// deleted between the read and the write
		return nil, common.NewNotFound("scholarship", id)
	}
	return s, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM scholarships WHERE id = ?`, id); err != nil {
		return common.StorageError(fmt.Sprintf("delete scholarship %d", id), err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scholarships`).Scan(&n); err != nil {
		return 0, common.StorageError("count scholarships", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM scholarships`); err != nil {
		return common.StorageError("clear scholarships", err)
	}
	return nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.Scholarship, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.StorageError("select scholarships", err)
	}
	out, err := dbx.Collect(rows, func(rows *sql.Rows) (models.Scholarship, error) { return scan(rows) })
	if err != nil {
		return nil, common.StorageError("scan scholarships", err)
	}
	return out, nil
}

func scan(row repositories.Scanner) (models.Scholarship, error) {
	var (
		s                          models.Scholarship
		status, ids                string
		deadline, created, updated string
	)
	err := row.Scan(&s.ID, &s.Name, &s.Provider, &s.DegreeLevel, &s.Country, &s.ApplicationYear,
		&deadline, &status, &ids, &created, &updated)
	if err != nil {
		return s, err
	}
	s.Status = models.ScholarshipStatus(status)
	s.RequiredDocumentIDs = decodeIDs(ids)
	if err := repositories.ParseInstants(deadline, &s.Deadline, created, &s.CreatedAt, updated, &s.UpdatedAt); err != nil {
		return s, fmt.Errorf("scholarship %d: %w", s.ID, err)
	}
	return s, nil
}

// decodeIDs tolerates anything stored in the column; garbage reads back as no ids.
func decodeIDs(raw string) []int64 {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return []int64{}
	}
	return models.NormalizeDocumentIDs(v)
}
