package cards

import (
	"context"

	"github.com/dmitrijs2005/herowall/internal/server/models"
)

// Repository persists cards. Update and Deactivate only match active cards
// and return common.ErrorNotFound otherwise.
type Repository interface {
	Create(ctx context.Context, card *models.Card) (*models.Card, error)
	GetByID(ctx context.Context, id string) (*models.Card, error)
	ListActive(ctx context.Context) ([]*models.Card, error)
	ListByCreator(ctx context.Context, creatorID string) ([]*models.Card, error)
	Update(ctx context.Context, id string, patch models.CardPatch) (*models.Card, error)
	Deactivate(ctx context.Context, id string) (*models.Card, error)
}
