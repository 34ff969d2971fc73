package models

import "time"

// SetField names one of the identifier sets kept on a collection.
type SetField string

const (
	SetCardIDs         SetField = "card_ids"
	SetWishlistCardIDs SetField = "wishlist_card_ids"
)

// Valid reports whether f is a known set field.
func (f SetField) Valid() bool {
	return f == SetCardIDs || f == SetWishlistCardIDs
}

// Collection is a user-owned group of card references plus a wishlist.
// CardIDs and WishlistCardIDs behave as sets: no duplicates, order irrelevant.
type Collection struct {
	ID              string
	UserID          string
	Name            string
	Description     string
	CardIDs         []string
	WishlistCardIDs []string
	IsPublic        bool
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CollectionPatch carries optional replacements for mutable collection fields.
type CollectionPatch struct {
	Name            *string
	Description     *string
	CardIDs         *[]string
	WishlistCardIDs *[]string
	IsPublic        *bool
}

// UniqueIDs returns ids with duplicates and empty strings dropped, keeping
// first-seen order. The result is never nil.
func UniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
