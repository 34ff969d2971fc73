package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/herowall/internal/common"
	"github.com/dmitrijs2005/herowall/internal/server/models"
)

type CollectionRepository struct {
	s *Store
}

func (r *CollectionRepository) Create(ctx context.Context, col *models.Collection) (*models.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.collections[col.ID]; taken {
		return nil, common.ErrorConflict
	}

	now := r.s.now()
	stored := cloneCollection(col)
	stored.CardIDs = models.UniqueIDs(stored.CardIDs)
	stored.WishlistCardIDs = models.UniqueIDs(stored.WishlistCardIDs)
	stored.CreatedAt, stored.UpdatedAt = now, now

	r.s.collections[stored.ID] = stored
	r.s.collectionOrder = append(r.s.collectionOrder, stored.ID)

	return cloneCollection(stored), nil
}

func (r *CollectionRepository) GetByID(ctx context.Context, id string) (*models.Collection, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.collections[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneCollection(c), nil
}

func (r *CollectionRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Collection, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*models.Collection, 0)
	for _, id := range r.s.collectionOrder {
		c := r.s.collections[id]
		if c.IsActive && c.UserID == userID {
			result = append(result, cloneCollection(c))
		}
	}
	return result, nil
}

// owned returns the live record. Callers must hold the write lock.
func (r *CollectionRepository) owned(id, userID string) (*models.Collection, error) {
	c, ok := r.s.collections[id]
	if !ok || !c.IsActive || c.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (r *CollectionRepository) Update(ctx context.Context, id, userID string, patch models.CollectionPatch) (*models.Collection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, err := r.owned(id, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.CardIDs != nil {
		c.CardIDs = models.UniqueIDs(*patch.CardIDs)
	}
	if patch.WishlistCardIDs != nil {
		c.WishlistCardIDs = models.UniqueIDs(*patch.WishlistCardIDs)
	}
	if patch.IsPublic != nil {
		c.IsPublic = *patch.IsPublic
	}
	c.UpdatedAt = r.s.now()

	return cloneCollection(c), nil
}

func (r *CollectionRepository) Deactivate(ctx context.Context, id, userID string) (*models.Collection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, err := r.owned(id, userID)
	if err != nil {
		return nil, err
	}
	c.IsActive = false
	c.UpdatedAt = r.s.now()

	return cloneCollection(c), nil
}

func (r *CollectionRepository) AddToSet(ctx context.Context, id, userID string, field models.SetField, cardID string) (*models.Collection, error) {
	return r.mutateSet(id, userID, field, func(set []string) []string {
		if slices.Contains(set, cardID) {
			return set
		}
		return append(set, cardID)
	})
}

func (r *CollectionRepository) RemoveFromSet(ctx context.Context, id, userID string, field models.SetField, cardID string) (*models.Collection, error) {
	return r.mutateSet(id, userID, field, func(set []string) []string {
		return slices.DeleteFunc(set, func(v string) bool { return v == cardID })
	})
}

func (r *CollectionRepository) mutateSet(id, userID string, field models.SetField, fn func([]string) []string) (*models.Collection, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("%w: unknown set %q", common.ErrorValidation, field)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, err := r.owned(id, userID)
	if err != nil {
		return nil, err
	}

	switch field {
	case models.SetCardIDs:
		c.CardIDs = fn(c.CardIDs)
	case models.SetWishlistCardIDs:
		c.WishlistCardIDs = fn(c.WishlistCardIDs)
	}
	c.UpdatedAt = r.s.now()

	return cloneCollection(c), nil
}
