// Package checklist persists ChecklistItem records. Items point at their
// scholarship by id only; deleting a scholarship leaves its items in place.
package checklist

import (
	"context"

	"github.com/dmitrijs2005/scholarkeeper/internal/models"
)

type Repository interface {
	Create(ctx context.Context, item models.ChecklistItem) (*models.ChecklistItem, error)
	GetAll(ctx context.Context) ([]models.ChecklistItem, error)
	Get(ctx context.Context, id int64) (*models.ChecklistItem, error)
	Update(ctx context.Context, id int64, patch models.ChecklistItemPatch) (*models.ChecklistItem, error)
	Delete(ctx context.Context, id int64) error

	// ListByScholarship returns a scholarship's items sorted ascending by order.
	ListByScholarship(ctx context.Context, scholarshipID int64) ([]models.ChecklistItem, error)

	// SetOrder writes one item's order; it reports false when the item does
	// not exist or belongs to another scholarship.
	SetOrder(ctx context.Context, id, scholarshipID int64, order int) (bool, error)

	// MaxOrder returns the highest order in a scholarship's checklist and
	// false when the checklist is empty.
	MaxOrder(ctx context.Context, scholarshipID int64) (int, bool, error)

	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}
