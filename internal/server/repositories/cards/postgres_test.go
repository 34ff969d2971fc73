package cards

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/herowall/internal/common"
	"github.com/dmitrijs2005/herowall/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthrough lets []string arguments reach the mock the way pgx accepts them.
type passthrough struct{}

func (passthrough) ConvertValue(v any) (driver.Value, error) { return v, nil }

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.ValueConverterOption(passthrough{}),
	)
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	insertQ     = `(?s)^INSERT\s+INTO\s+cards\s*\(id,\s*name,.*\)\s*VALUES\s*\(\$1,.*\$10\)\s*RETURNING\s+id,\s*name,.*updated_at$`
	byIDQ       = `(?s)^SELECT\s+id,\s*name,.*\s+FROM\s+cards\s+WHERE\s+id\s*=\s*\$1$`
	listActiveQ = `(?s)^SELECT\s+id,.*\s+FROM\s+cards\s+WHERE\s+is_active\s+ORDER\s+BY\s+created_at,\s*id$`
	listByQ     = `(?s)^SELECT\s+id,.*\s+FROM\s+cards\s+WHERE\s+creator_id\s*=\s*\$1\s+AND\s+is_active\s+ORDER\s+BY\s+created_at,\s*id$`
	updateQ     = `(?s)^UPDATE\s+cards\s+SET\s+name\s*=\s*COALESCE\(\$2,\s*name\),.*WHERE\s+id\s*=\s*\$1\s+AND\s+is_active\s+RETURNING\s+id,.*$`
	deactivateQ = `(?s)^UPDATE\s+cards\s+SET\s+is_active\s*=\s*FALSE,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+AND\s+is_active\s+RETURNING\s+id,.*$`
)

var cardCols = []string{"id", "name", "description", "image_url", "rarity", "power", "abilities",
	"creator_id", "is_active", "metadata", "created_at", "updated_at"}

var ts = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func cardRow(rows *sqlmock.Rows, id string, active bool) *sqlmock.Rows {
	return rows.AddRow(id, "Storm", "", "cards/u1/storm.png", "rare", 7, "{fly,zap}",
		"u-1", active, []byte(`{"series":1}`), ts, ts)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("c-1", "Storm", "", "cards/u1/storm.png", "rare", 7, []string{"fly", "zap"},
			"u-1", true, `{"series":1}`).
		WillReturnRows(cardRow(sqlmock.NewRows(cardCols), "c-1", true))

	got, err := repo.Create(context.Background(), &models.Card{
		ID: "c-1", Name: "Storm", ImageURL: "cards/u1/storm.png", Rarity: models.RarityRare, Power: 7,
		Abilities: []string{"fly", "zap"}, CreatorID: "u-1", IsActive: true,
		Metadata: map[string]any{"series": 1},
	})
	require.NoError(t, err)

	assert.Equal(t, "c-1", got.ID)
	assert.Equal(t, models.RarityRare, got.Rarity)
	assert.Equal(t, []string{"fly", "zap"}, got.Abilities)
	assert.Equal(t, map[string]any{"series": float64(1)}, got.Metadata)
	assert.True(t, got.CreatedAt.Equal(ts))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_NilAbilitiesAndMetadata(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("c-1", "Storm", "", "img", "common", 1, []string{}, "u-1", true, "{}").
		WillReturnRows(cardRow(sqlmock.NewRows(cardCols), "c-1", true))

	_, err := repo.Create(context.Background(), &models.Card{
		ID: "c-1", Name: "Storm", ImageURL: "img", Rarity: models.RarityCommon, Power: 1,
		CreatorID: "u-1", IsActive: true,
	})
	require.NoError(t, err)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Card{ID: "c-1"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byIDQ).WithArgs("c-1").
		WillReturnRows(cardRow(sqlmock.NewRows(cardCols), "c-1", false))

	got, err := repo.GetByID(context.Background(), "c-1")
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	mock.ExpectQuery(byIDQ).WithArgs("nope").WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListActive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(cardCols)
	cardRow(rows, "c-1", true)
	cardRow(rows, "c-2", true)
	mock.ExpectQuery(listActiveQ).WillReturnRows(rows)

	got, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c-1", got[0].ID)
	assert.Equal(t, "c-2", got[1].ID)
}

func TestListByCreator_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listByQ).WithArgs("u-9").WillReturnRows(sqlmock.NewRows(cardCols))

	got, err := repo.ListByCreator(context.Background(), "u-9")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListByCreator_RowError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := cardRow(sqlmock.NewRows(cardCols), "c-1", true).RowError(0, errors.New("broken row"))
	mock.ExpectQuery(listByQ).WithArgs("u-1").WillReturnRows(rows)

	_, err := repo.ListByCreator(context.Background(), "u-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken row")
}

func TestUpdate_PartialPatch(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	name := "Storm II"
	power := 9
	mock.ExpectQuery(updateQ).
		WithArgs("c-1", "Storm II", nil, nil, nil, 9, nil, nil).
		WillReturnRows(cardRow(sqlmock.NewRows(cardCols), "c-1", true))

	_, err := repo.Update(context.Background(), "c-1", models.CardPatch{Name: &name, Power: &power})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_ArraysAndMetadata(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rarity := models.RarityEpic
	abilities := []string{"heal"}
	meta := map[string]any{"k": "v"}
	mock.ExpectQuery(updateQ).
		WithArgs("c-1", nil, nil, nil, "epic", nil, []string{"heal"}, `{"k":"v"}`).
		WillReturnRows(cardRow(sqlmock.NewRows(cardCols), "c-1", true))

	_, err := repo.Update(context.Background(), "c-1",
		models.CardPatch{Rarity: &rarity, Abilities: &abilities, Metadata: &meta})
	require.NoError(t, err)
}

func TestUpdate_InactiveOrMissing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(updateQ).WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), "c-1", models.CardPatch{})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeactivate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(deactivateQ).WithArgs("c-1").
		WillReturnRows(cardRow(sqlmock.NewRows(cardCols), "c-1", false))

	got, err := repo.Deactivate(context.Background(), "c-1")
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	mock.ExpectQuery(deactivateQ).WithArgs("c-1").WillReturnError(sql.ErrNoRows)
	_, err = repo.Deactivate(context.Background(), "c-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectQuery(deactivateQ).WithArgs("c-1").WillReturnError(errors.New("db down"))
	_, err = repo.Deactivate(context.Background(), "c-1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}
