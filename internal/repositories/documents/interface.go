// Package documents persists supporting Document records, shared by any
// number of scholarships through their requiredDocumentIds.
package documents

import (
	"context"

	"github.com/dmitrijs2005/scholarkeeper/internal/models"
)

type Repository interface {
	// Create defaults status to NotReady and lastUpdated to now when unset.
	Create(ctx context.Context, d models.Document) (*models.Document, error)
	GetAll(ctx context.Context) ([]models.Document, error)
	Get(ctx context.Context, id int64) (*models.Document, error)

	// GetMany resolves ids in the given order, silently skipping ids that no longer exist.
	GetMany(ctx context.Context, ids []int64) ([]models.Document, error)

	// Update always refreshes updatedAt, and lastUpdated unless the patch sets it.
	Update(ctx context.Context, id int64, patch models.DocumentPatch) (*models.Document, error)
	Delete(ctx context.Context, id int64) error

	ListByType(ctx context.Context, t models.DocumentType) ([]models.Document, error)
	ListByStatus(ctx context.Context, s models.DocumentStatus) ([]models.Document, error)

	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}
