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

type CardInput struct {
	Name        string
	Description string
	ImageURL    string
	Rarity      models.Rarity
	Power       *int
	Abilities   []string
	Metadata    map[string]any
}

type CardService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewCardService(db dbx.DBTX, m repomanager.RepositoryManager, log logging.Logger) *CardService {
	return &CardService{db: db, repomanager: m, log: log.With("module", "cards")}
}

// Create stores a new active card owned by creatorID.
func (s *CardService) Create(ctx context.Context, in CardInput, creatorID string) (*models.Card, error) {

	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.ImageURL) == "" {
		return nil, fmt.Errorf("%w: name and image url are required", common.ErrorValidation)
	}

	rarity, err := models.ParseRarity(string(in.Rarity))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	power := models.DefaultPower
	if in.Power != nil {
		power = *in.Power
	}

	card := &models.Card{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Rarity:      rarity,
		Power:       power,
		Abilities:   in.Abilities,
		CreatorID:   creatorID,
		IsActive:    true,
		Metadata:    in.Metadata,
	}

	card, err = s.repomanager.Cards(s.db).Create(ctx, card)
	if err != nil {
		return nil, storeError(ctx, s.log, "create card", err)
	}
	return card, nil
}

func (s *CardService) ListActive(ctx context.Context) ([]*models.Card, error) {
	cards, err := s.repomanager.Cards(s.db).ListActive(ctx)
	if err != nil {
		return nil, storeError(ctx, s.log, "list cards", err)
	}
	return cards, nil
}

func (s *CardService) ListByCreator(ctx context.Context, creatorID string) ([]*models.Card, error) {
	cards, err := s.repomanager.Cards(s.db).ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, storeError(ctx, s.log, "list cards", err)
	}
	return cards, nil
}

// Get returns an active card. Deactivated cards read as missing.
func (s *CardService) Get(ctx context.Context, id string) (*models.Card, error) {
	card, err := s.repomanager.Cards(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, s.log, "get card", err)
	}
	if !card.IsActive {
		return nil, common.ErrorNotFound
	}
	return card, nil
}

// Update applies patch to an active card. Any authenticated caller may
// update any card; the creator cannot be changed.
func (s *CardService) Update(ctx context.Context, id string, patch models.CardPatch) (*models.Card, error) {

	if patch.Rarity != nil {
		r, err := models.ParseRarity(string(*patch.Rarity))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
		patch.Rarity = &r
	}

	card, err := s.repomanager.Cards(s.db).Update(ctx, id, patch)
	if err != nil {
		return nil, storeError(ctx, s.log, "update card", err)
	}
	return card, nil
}

// Deactivate soft-deletes a card. Collections keep referencing it.
func (s *CardService) Deactivate(ctx context.Context, id string) (*models.Card, error) {
	card, err := s.repomanager.Cards(s.db).Deactivate(ctx, id)
	if err != nil {
		return nil, storeError(ctx, s.log, "deactivate card", err)
	}
	return card, nil
}
