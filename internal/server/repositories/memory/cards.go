package memory

import (
	"context"
	"maps"
	"slices"

	"github.com/dmitrijs2005/herowall/internal/common"
	"github.com/dmitrijs2005/herowall/internal/server/models"
)

type CardRepository struct {
	s *Store
}

func (r *CardRepository) Create(ctx context.Context, card *models.Card) (*models.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.cards[card.ID]; taken {
		return nil, common.ErrorConflict
	}

	now := r.s.now()
	stored := cloneCard(card)
	stored.CreatedAt, stored.UpdatedAt = now, now

	r.s.cards[stored.ID] = stored
	r.s.cardOrder = append(r.s.cardOrder, stored.ID)

	return cloneCard(stored), nil
}

func (r *CardRepository) GetByID(ctx context.Context, id string) (*models.Card, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.cards[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneCard(c), nil
}

func (r *CardRepository) ListActive(ctx context.Context) ([]*models.Card, error) {
	return r.list(func(*models.Card) bool { return true }), nil
}

func (r *CardRepository) ListByCreator(ctx context.Context, creatorID string) ([]*models.Card, error) {
	return r.list(func(c *models.Card) bool { return c.CreatorID == creatorID }), nil
}

func (r *CardRepository) list(match func(*models.Card) bool) []*models.Card {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*models.Card, 0)
	for _, id := range r.s.cardOrder {
		c := r.s.cards[id]
		if c.IsActive && match(c) {
			result = append(result, cloneCard(c))
		}
	}
	return result
}

func (r *CardRepository) Update(ctx context.Context, id string, patch models.CardPatch) (*models.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.cards[id]
	if !ok || !c.IsActive {
		return nil, common.ErrorNotFound
	}

	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.ImageURL != nil {
		c.ImageURL = *patch.ImageURL
	}
	if patch.Rarity != nil {
		c.Rarity = *patch.Rarity
	}
	if patch.Power != nil {
		c.Power = *patch.Power
	}
	if patch.Abilities != nil {
		c.Abilities = slices.Clone(*patch.Abilities)
	}
	if patch.Metadata != nil {
		c.Metadata = maps.Clone(*patch.Metadata)
	}
	c.UpdatedAt = r.s.now()

	return cloneCard(c), nil
}

func (r *CardRepository) Deactivate(ctx context.Context, id string) (*models.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.cards[id]
	if !ok || !c.IsActive {
		return nil, common.ErrorNotFound
	}
	c.IsActive = false
	c.UpdatedAt = r.s.now()

	return cloneCard(c), nil
}
