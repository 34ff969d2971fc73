package collections

import (
	"context"

	"github.com/dmitrijs2005/herowall/internal/server/models"
)

// Repository persists collections. Every mutating call is scoped to the
// owner and to active collections; anything else reports
// common.ErrorNotFound. AddToSet and RemoveFromSet are single atomic
// operations on one of the identifier sets.
type Repository interface {
	Create(ctx context.Context, c *models.Collection) (*models.Collection, error)
	GetByID(ctx context.Context, id string) (*models.Collection, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.Collection, error)
	Update(ctx context.Context, id, userID string, patch models.CollectionPatch) (*models.Collection, error)
	Deactivate(ctx context.Context, id, userID string) (*models.Collection, error)
	AddToSet(ctx context.Context, id, userID string, field models.SetField, cardID string) (*models.Collection, error)
	RemoveFromSet(ctx context.Context, id, userID string, field models.SetField, cardID string) (*models.Collection, error)
}
