// Package memory provides mutex-guarded in-process implementations of the
// repository interfaces. It backs development runs without a database and
// service tests that need real store semantics.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/herowall/internal/server/models"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/cards"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/collections"
	"github.com/dmitrijs2005/herowall/internal/server/repositories/users"
)

var (
	_ users.Repository       = (*UserRepository)(nil)
	_ cards.Repository       = (*CardRepository)(nil)
	_ collections.Repository = (*CollectionRepository)(nil)
)

// Store holds every record behind one lock so that uniqueness checks and
// set mutations are atomic with respect to each other.
type Store struct {
	mu sync.RWMutex

	users   map[string]*models.User
	byEmail map[string]string

	cards     map[string]*models.Card
	cardOrder []string

	collections     map[string]*models.Collection
	collectionOrder []string

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]*models.User),
		byEmail:     make(map[string]string),
		cards:       make(map[string]*models.Card),
		collections: make(map[string]*models.Collection),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// PingContext always succeeds; it lets the store stand in for a database
// in readiness checks.
func (s *Store) PingContext(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

func (s *Store) Cards() *CardRepository {
	return &CardRepository{s: s}
}

func (s *Store) Collections() *CollectionRepository {
	return &CollectionRepository{s: s}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		c.LastLoginAt = &t
	}
	return &c
}

func cloneCard(card *models.Card) *models.Card {
	c := *card
	c.Abilities = slices.Clone(card.Abilities)
	if c.Abilities == nil {
		c.Abilities = []string{}
	}
	c.Metadata = maps.Clone(card.Metadata)
	return &c
}

func cloneCollection(col *models.Collection) *models.Collection {
	c := *col
	c.CardIDs = append([]string{}, col.CardIDs...)
	c.WishlistCardIDs = append([]string{}, col.WishlistCardIDs...)
	return &c
}
