package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/herowall/internal/dbx"
	"github.com/dmitrijs2005/herowall/internal/logging"
	"github.com/dmitrijs2005/herowall/internal/server/auth"
	"github.com/dmitrijs2005/herowall/internal/server/models"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/cards"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/collections"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/memory"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

var errDBDown = errors.New("db down")

func newIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer(auth.TokenConfig{
		AccessSecret:  []byte("access"),
		AccessTTL:     time.Hour,
		RefreshSecret: []byte("refresh"),
		RefreshTTL:    7 * 24 * time.Hour,
	})
}

func newHasher() *auth.PasswordHasher {
	return auth.NewPasswordHasher(bcrypt.MinCost)
}

type fixture struct {
	store       *memory.Store
	issuer      *auth.TokenIssuer
	users       *UserService
	cards       *CardService
	collections *CollectionService
}

func newFixture() *fixture {
	store := memory.NewStore()
	rm := repomanager.NewMemoryRepositoryManager(store)
	issuer := newIssuer()
	log := logging.Nop{}
	return &fixture{
		store:       store,
		issuer:      issuer,
		users:       NewUserService(nil, rm, issuer, newHasher(), log),
		cards:       NewCardService(nil, rm, log),
		collections: NewCollectionService(nil, rm, log),
	}
}

// fakeRepoManager hands out whatever repositories a test wires in.
type fakeRepoManager struct {
	u users.Repository
	c cards.Repository
	l collections.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error   { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository             { return m.u }
func (m *fakeRepoManager) Cards(db dbx.DBTX) cards.Repository             { return m.c }
func (m *fakeRepoManager) Collections(db dbx.DBTX) collections.Repository { return m.l }

// failingUsers embeds a working repository and overrides selected calls.
type failingUsers struct {
	users.Repository
	getByEmailErr error
	getByIDErr    error
	createErr     error
	touchErr      error
}

func (f *failingUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	return f.Repository.GetByEmail(ctx, email)
}

func (f *failingUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.Repository.GetByID(ctx, id)
}

func (f *failingUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.Repository.Create(ctx, u)
}

func (f *failingUsers) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	if f.touchErr != nil {
		return f.touchErr
	}
	return f.Repository.TouchLastLogin(ctx, id, at)
}

type failingCards struct {
	cards.Repository
	err error
}

func (f *failingCards) ListActive(context.Context) ([]*models.Card, error) { return nil, f.err }
func (f *failingCards) Create(context.Context, *models.Card) (*models.Card, error) {
	return nil, f.err
}

type failingCollections struct {
	collections.Repository
	err error
}

func (f *failingCollections) AddToSet(context.Context, string, string, models.SetField, string) (*models.Collection, error) {
	return nil, f.err
}
