package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/herowall/internal/server/models"
)

// Repository is the credential store. Email uniqueness is enforced here,
// not by callers: Create returns common.ErrorConflict for a taken email.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}
