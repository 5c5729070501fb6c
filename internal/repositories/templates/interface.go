// Package templates persists user-created checklist templates. Built-in
// templates live in internal/catalog and never reach this table.
package templates

import (
	"context"

	"github.com/dmitrijs2005/scholarkeeper/internal/models"
)

type Repository interface {
	Create(ctx context.Context, t models.Template) (*models.Template, error)
	GetAll(ctx context.Context) ([]models.Template, error)
	Get(ctx context.Context, id int64) (*models.Template, error)
	Update(ctx context.Context, id int64, patch models.TemplatePatch) (*models.Template, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}
