package cards

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/herowall/internal/common"
	"github.com/dmitrijs2005/herowall/internal/dbx"
	"github.com/dmitrijs2005/herowall/internal/server/models"
)

const cardColumns = `id, name, description, image_url, rarity, power, abilities,
	creator_id, is_active, metadata, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*models.Card, error) {
	card := &models.Card{}
	var rarity string
	var metadata []byte

	err := row.Scan(&card.ID, &card.Name, &card.Description, &card.ImageURL, &rarity, &card.Power,
		dbx.StringArray(&card.Abilities), &card.CreatorID, &card.IsActive, &metadata,
		&card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return nil, err
	}

	card.Rarity = models.Rarity(rarity)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &card.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}

	return card, nil
}

func encodeMetadata(m map[string]any) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(b), nil
}

func (r *PostgresRepository) Create(ctx context.Context, card *models.Card) (*models.Card, error) {

	metadata, err := encodeMetadata(card.Metadata)
	if err != nil {
		return nil, err
	}

	abilities := card.Abilities
	if abilities == nil {
		abilities = []string{}
	}

	query :=
		`INSERT INTO cards (id, name, description, image_url, rarity, power, abilities,
			creator_id, is_active, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING ` + cardColumns

	got, err := scanCard(r.db.QueryRowContext(ctx, query,
		card.ID, card.Name, card.Description, card.ImageURL, string(card.Rarity), card.Power, abilities,
		card.CreatorID, card.IsActive, metadata))

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return got, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	card, err := scanCard(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return card, nil
}

func (r *PostgresRepository) ListActive(ctx context.Context) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE is_active ORDER BY created_at, id`
	return r.list(ctx, query)
}

func (r *PostgresRepository) ListByCreator(ctx context.Context, creatorID string) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE creator_id = $1 AND is_active ORDER BY created_at, id`
	return r.list(ctx, query, creatorID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Card, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.CardPatch) (*models.Card, error) {

	var rarity, metadata any
	if patch.Rarity != nil {
		rarity = string(*patch.Rarity)
	}
	if patch.Metadata != nil {
		m, err := encodeMetadata(*patch.Metadata)
		if err != nil {
			return nil, err
		}
		metadata = m
	}

	query :=
		`UPDATE cards SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			image_url = COALESCE($4, image_url),
			rarity = COALESCE($5, rarity),
			power = COALESCE($6, power),
			abilities = COALESCE($7, abilities),
			metadata = COALESCE($8, metadata),
			updated_at = now()
		 WHERE id = $1 AND is_active
		 RETURNING ` + cardColumns

	return r.updateOne(ctx, query, id,
		dbx.Nullable(patch.Name), dbx.Nullable(patch.Description), dbx.Nullable(patch.ImageURL),
		rarity, dbx.Nullable(patch.Power), dbx.Nullable(patch.Abilities), metadata)
}

func (r *PostgresRepository) Deactivate(ctx context.Context, id string) (*models.Card, error) {
	query :=
		`UPDATE cards SET is_active = FALSE, updated_at = now()
		 WHERE id = $1 AND is_active
		 RETURNING ` + cardColumns

	return r.updateOne(ctx, query, id)
}

func (r *PostgresRepository) updateOne(ctx context.Context, query string, args ...any) (*models.Card, error) {
	card, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return card, nil
}
