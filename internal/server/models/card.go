package models

import (
	"fmt"
	"time"
)

// Rarity is one of a small fixed set of card grades.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// DefaultPower is used when a card is created without an explicit power.
const DefaultPower = 1

// ParseRarity accepts an empty string as common.
func ParseRarity(s string) (Rarity, error) {
	switch r := Rarity(s); r {
	case "":
		return RarityCommon, nil
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return r, nil
	default:
		return "", fmt.Errorf("unknown rarity %q", s)
	}
}

// Card is a collectible created by a user. CreatorID never changes after
// creation; removal flips IsActive instead of erasing the record.
type Card struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	Rarity      Rarity
	Power       int
	Abilities   []string
	CreatorID   string
	IsActive    bool
	Metadata    map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CardPatch carries optional replacements for mutable card fields.
// Nil means "leave as is".
type CardPatch struct {
	Name        *string
	Description *string
	ImageURL    *string
	Rarity      *Rarity
	Power       *int
	Abilities   *[]string
	Metadata    *map[string]any
}
