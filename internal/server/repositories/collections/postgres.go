package collections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/herowall/internal/common"
	"github.com/dmitrijs2005/herowall/internal/dbx"
	"github.com/dmitrijs2005/herowall/internal/server/models"
)

const collectionColumns = `id, user_id, name, description, card_ids, wishlist_card_ids,
	is_public, is_active, created_at, updated_at`

// Set mutations are one statement each so concurrent adds and removes
// never lose an update.
var (
	addToSetQueries = map[models.SetField]string{
		models.SetCardIDs: `UPDATE collections SET
			card_ids = CASE WHEN $3 = ANY(card_ids) THEN card_ids ELSE array_append(card_ids, $3) END,
			updated_at = now()
		 WHERE id = $1 AND user_id = $2 AND is_active
		 RETURNING ` + collectionColumns,
		models.SetWishlistCardIDs: `UPDATE collections SET
			wishlist_card_ids = CASE WHEN $3 = ANY(wishlist_card_ids) THEN wishlist_card_ids ELSE array_append(wishlist_card_ids, $3) END,
			updated_at = now()
		 WHERE id = $1 AND user_id = $2 AND is_active
		 RETURNING ` + collectionColumns,
	}
	removeFromSetQueries = map[models.SetField]string{
		models.SetCardIDs: `UPDATE collections SET
			card_ids = array_remove(card_ids, $3),
			updated_at = now()
		 WHERE id = $1 AND user_id = $2 AND is_active
		 RETURNING ` + collectionColumns,
		models.SetWishlistCardIDs: `UPDATE collections SET
			wishlist_card_ids = array_remove(wishlist_card_ids, $3),
			updated_at = now()
		 WHERE id = $1 AND user_id = $2 AND is_active
		 RETURNING ` + collectionColumns,
	}
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCollection(row rowScanner) (*models.Collection, error) {
	c := &models.Collection{}
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Description,
		dbx.StringArray(&c.CardIDs), dbx.StringArray(&c.WishlistCardIDs),
		&c.IsPublic, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Collection) (*models.Collection, error) {

	query :=
		`INSERT INTO collections (id, user_id, name, description, card_ids, wishlist_card_ids,
			is_public, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING ` + collectionColumns

	got, err := scanCollection(r.db.QueryRowContext(ctx, query,
		c.ID, c.UserID, c.Name, c.Description,
		models.UniqueIDs(c.CardIDs), models.UniqueIDs(c.WishlistCardIDs),
		c.IsPublic, c.IsActive))

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return got, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE id = $1`
	return r.one(ctx, query, id)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections
		 WHERE user_id = $1 AND is_active
		 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Collection, 0)
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, userID string, patch models.CollectionPatch) (*models.Collection, error) {

	var cardIDs, wishlist any
	if patch.CardIDs != nil {
		cardIDs = models.UniqueIDs(*patch.CardIDs)
	}
	if patch.WishlistCardIDs != nil {
		wishlist = models.UniqueIDs(*patch.WishlistCardIDs)
	}

	query :=
		`UPDATE collections SET
			name = COALESCE($3, name),
			description = COALESCE($4, description),
			card_ids = COALESCE($5, card_ids),
			wishlist_card_ids = COALESCE($6, wishlist_card_ids),
			is_public = COALESCE($7, is_public),
			updated_at = now()
		 WHERE id = $1 AND user_id = $2 AND is_active
		 RETURNING ` + collectionColumns

	return r.one(ctx, query, id, userID,
		dbx.Nullable(patch.Name), dbx.Nullable(patch.Description), cardIDs, wishlist,
		dbx.Nullable(patch.IsPublic))
}

func (r *PostgresRepository) Deactivate(ctx context.Context, id, userID string) (*models.Collection, error) {
	query :=
		`UPDATE collections SET is_active = FALSE, updated_at = now()
		 WHERE id = $1 AND user_id = $2 AND is_active
		 RETURNING ` + collectionColumns

	return r.one(ctx, query, id, userID)
}

func (r *PostgresRepository) AddToSet(ctx context.Context, id, userID string, field models.SetField, cardID string) (*models.Collection, error) {
	query, ok := addToSetQueries[field]
	if !ok {
		return nil, fmt.Errorf("%w: unknown set %q", common.ErrorValidation, field)
	}
	return r.one(ctx, query, id, userID, cardID)
}

func (r *PostgresRepository) RemoveFromSet(ctx context.Context, id, userID string, field models.SetField, cardID string) (*models.Collection, error) {
	query, ok := removeFromSetQueries[field]
	if !ok {
		return nil, fmt.Errorf("%w: unknown set %q", common.ErrorValidation, field)
	}
	return r.one(ctx, query, id, userID, cardID)
}

func (r *PostgresRepository) one(ctx context.Context, query string, args ...any) (*models.Collection, error) {
	c, err := scanCollection(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}
