package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/herowall/internal/common"
	"github.com/dmitrijs2005/herowall/internal/dbx"
	"github.com/dmitrijs2005/herowall/internal/logging"
	"github.com/dmitrijs2005/herowall/internal/server/models"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type CollectionInput struct {
	Name            string
	Description     string
	CardIDs         []string
	WishlistCardIDs []string
	IsPublic        bool
}

// CollectionService manages collections on behalf of their owner. Card
// references are weak: membership operations never check that the card
// exists or is active.
type CollectionService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewCollectionService(db dbx.DBTX, m repomanager.RepositoryManager, log logging.Logger) *CollectionService {
	return &CollectionService{db: db, repomanager: m, log: log.With("module", "collections")}
}

func (s *CollectionService) Create(ctx context.Context, in CollectionInput, ownerID string) (*models.Collection, error) {

	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}

	c := &models.Collection{
		ID:              uuid.NewString(),
		UserID:          ownerID,
		Name:            in.Name,
		Description:     in.Description,
		CardIDs:         models.UniqueIDs(in.CardIDs),
		WishlistCardIDs: models.UniqueIDs(in.WishlistCardIDs),
		IsPublic:        in.IsPublic,
		IsActive:        true,
	}

	c, err := s.repomanager.Collections(s.db).Create(ctx, c)
	if err != nil {
		return nil, storeError(ctx, s.log, "create collection", err)
	}
	return c, nil
}

func (s *CollectionService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Collection, error) {
	list, err := s.repomanager.Collections(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeError(ctx, s.log, "list collections", err)
	}
	return list, nil
}

// Get returns an active collection the caller owns or that is public.
func (s *CollectionService) Get(ctx context.Context, id, callerID string) (*models.Collection, error) {
	c, err := s.repomanager.Collections(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, s.log, "get collection", err)
	}
	if !c.IsActive || (c.UserID != callerID && !c.IsPublic) {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (s *CollectionService) Update(ctx context.Context, id, ownerID string, patch models.CollectionPatch) (*models.Collection, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", common.ErrorValidation)
	}

	c, err := s.repomanager.Collections(s.db).Update(ctx, id, ownerID, patch)
	if err != nil {
		return nil, storeError(ctx, s.log, "update collection", err)
	}
	return c, nil
}

func (s *CollectionService) Deactivate(ctx context.Context, id, ownerID string) (*models.Collection, error) {
	c, err := s.repomanager.Collections(s.db).Deactivate(ctx, id, ownerID)
	if err != nil {
		return nil, storeError(ctx, s.log, "deactivate collection", err)
	}
	return c, nil
}

func (s *CollectionService) AddCard(ctx context.Context, id, ownerID, cardID string) (*models.Collection, error) {
	return s.addToSet(ctx, id, ownerID, models.SetCardIDs, cardID)
}

func (s *CollectionService) RemoveCard(ctx context.Context, id, ownerID, cardID string) (*models.Collection, error) {
	return s.removeFromSet(ctx, id, ownerID, models.SetCardIDs, cardID)
}

func (s *CollectionService) AddToWishlist(ctx context.Context, id, ownerID, cardID string) (*models.Collection, error) {
	return s.addToSet(ctx, id, ownerID, models.SetWishlistCardIDs, cardID)
}

func (s *CollectionService) RemoveFromWishlist(ctx context.Context, id, ownerID, cardID string) (*models.Collection, error) {
	return s.removeFromSet(ctx, id, ownerID, models.SetWishlistCardIDs, cardID)
}

func (s *CollectionService) addToSet(ctx context.Context, id, ownerID string, field models.SetField, cardID string) (*models.Collection, error) {
	if cardID == "" {
		return nil, fmt.Errorf("%w: card id is required", common.ErrorValidation)
	}
	c, err := s.repomanager.Collections(s.db).AddToSet(ctx, id, ownerID, field, cardID)
	if err != nil {
		return nil, storeError(ctx, s.log, "add to "+string(field), err)
	}
	return c, nil
}

func (s *CollectionService) removeFromSet(ctx context.Context, id, ownerID string, field models.SetField, cardID string) (*models.Collection, error) {
	if cardID == "" {
		return nil, fmt.Errorf("%w: card id is required", common.ErrorValidation)
	}
	c, err := s.repomanager.Collections(s.db).RemoveFromSet(ctx, id, ownerID, field, cardID)
	if err != nil {
		return nil, storeError(ctx, s.log, "remove from "+string(field), err)
	}
	return c, nil
}
