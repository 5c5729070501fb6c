// Package scholarships persists Scholarship records.
//
// Every read and write passes requiredDocumentIds through
// models.NormalizeDocumentIDs, so malformed values left behind by older data
// are cleaned the next time they are read.
package scholarships

import (
	"context"
	"time"

	"github.com/dmitrijs2005/scholarkeeper/internal/models"
)

type Repository interface {
	// Create assigns an id, stamps createdAt/updatedAt and returns the stored record.
	Create(ctx context.Context, s models.Scholarship) (*models.Scholarship, error)

	// GetAll returns every record in storage order.
	GetAll(ctx context.Context) ([]models.Scholarship, error)

	// Get returns (nil, nil) when no record has the id.
	Get(ctx context.Context, id int64) (*models.Scholarship, error)

	// Update merges patch over the stored record; a missing id yields *common.NotFoundError.
	Update(ctx context.Context, id int64, patch models.ScholarshipPatch) (*models.Scholarship, error)

	// Delete succeeds whether or not the id exists.
	Delete(ctx context.Context, id int64) error

	// ListByStatus uses the status index.
	ListByStatus(ctx context.Context, status models.ScholarshipStatus) ([]models.Scholarship, error)

	// ListByDeadline returns records with from <= deadline < to ordered by deadline.
	ListByDeadline(ctx context.Context, from, to time.Time) ([]models.Scholarship, error)

	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}
