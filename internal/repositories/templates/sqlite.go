package templates

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

const columns = `id, name, description, category, country, items, created_by, version, created_at, updated_at`

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX, now func() time.Time) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: repositories.Clock(now)}
}

// Create stores t as a user template. CreatedBy defaults to user and
// Version to 1; the returned ID is the decimal row id.
func (r *SQLiteRepository) Create(ctx context.Context, t models.Template) (*models.Template, error) {
	if t.CreatedBy == "" {
		t.CreatedBy = models.OriginUser
	}
	if t.Version == 0 {
		t.Version = 1
	}
	if t.Items == nil {
		t.Items = []models.TemplateItem{}
	}
	if err := models.Validate(&t); err != nil {
		return nil, err
	}
	items, err := json.Marshal(t.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode template items: %w", err)
	}

	now := r.now()
	t.CreatedAt, t.UpdatedAt = now, now

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO templates (name, description, category, country, items, created_by, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Name, t.Description, t.Category, t.Country, string(items), string(t.CreatedBy), t.Version,
		repositories.Instant(now), repositories.Instant(now))
	if err != nil {
		return nil, common.StorageError("insert template", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, common.StorageError("read template id", err)
	}
	t.ID = models.UserTemplateID(id)
	return &t, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Template, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM templates ORDER BY id`)
	if err != nil {
		return nil, common.StorageError("select templates", err)
	}
	out, err := dbx.Collect(rows, func(rows *sql.Rows) (models.Template, error) { return scan(rows) })
	if err != nil {
		return nil, common.StorageError("scan templates", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.Template, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM templates WHERE id = ?`, id)
	t, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, common.StorageError(fmt.Sprintf("get template %d", id), err)
	}
	return &t, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id int64, patch models.TemplatePatch) (*models.Template, error) {
	t, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, common.NewNotFound("template", id)
	}

	patch.Apply(t)
	if t.Items == nil {
		t.Items = []models.TemplateItem{}
	}
	if err := models.Validate(t); err != nil {
		return nil, err
	}
	items, err := json.Marshal(t.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode template items: %w", err)
	}
	t.UpdatedAt = r.now()

	res, err := r.db.ExecContext(ctx, `
		UPDATE templates SET name = ?, description = ?, category = ?, country = ?, items = ?, version = ?, updated_at = ?
		WHERE id = ?`,
		t.Name, t.Description, t.Category, t.Country, string(items), t.Version, repositories.Instant(t.UpdatedAt), id)
	if err != nil {
		return nil, common.StorageError(fmt.Sprintf("update template %d", id), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, common.NewNotFound("template", id)
	}
	return t, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id); err != nil {
		return common.StorageError(fmt.Sprintf("delete template %d", id), err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM templates`).Scan(&n); err != nil {
		return 0, common.StorageError("count templates", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM templates`); err != nil {
		return common.StorageError("clear templates", err)
	}
	return nil
}

func scan(row repositories.Scanner) (models.Template, error) {
	var (
		t                models.Template
		id               int64
		items, origin    string
		created, updated string
	)
	if err := row.Scan(&id, &t.Name, &t.Description, &t.Category, &t.Country, &items, &origin, &t.Version,
		&created, &updated); err != nil {
		return t, err
	}
	t.ID = models.UserTemplateID(id)
	t.CreatedBy = models.TemplateOrigin(origin)
	if err := json.Unmarshal([]byte(items), &t.Items); err != nil || t.Items == nil {
		t.Items = []models.TemplateItem{}
	}
	if err := repositories.ParseInstants(created, &t.CreatedAt, updated, &t.UpdatedAt); err != nil {
		return t, fmt.Errorf("template %d: %w", id, err)
	}
	return t, nil
}
