package httpapi

import (
	"time"

	"github.com/dmitrijs2005/herowall/internal/server/models"
	"github.com/dmitrijs2005/herowall/internal/server/services"
)

// Requests. Shape rules live in the validate tags; business rules stay in
// the services.

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type CardCreateRequest struct {
	Name        string         `json:"name" validate:"required,max=200"`
	Description string         `json:"description" validate:"max=2000"`
	ImageURL    string         `json:"imageUrl" validate:"required,max=2048"`
	Rarity      string         `json:"rarity" validate:"omitempty,oneof=common rare epic legendary"`
	Power       *int           `json:"power" validate:"omitempty,min=0"`
	Abilities   []string       `json:"abilities" validate:"omitempty,dive,required,max=200"`
	Metadata    map[string]any `json:"metadata"`
}

type CardUpdateRequest struct {
	Name        *string         `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string         `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string         `json:"imageUrl" validate:"omitempty,min=1,max=2048"`
	Rarity      *string         `json:"rarity" validate:"omitempty,oneof=common rare epic legendary"`
	Power       *int            `json:"power" validate:"omitempty,min=0"`
	Abilities   *[]string       `json:"abilities" validate:"omitempty,dive,required,max=200"`
	Metadata    *map[string]any `json:"metadata"`
}

type CollectionCreateRequest struct {
	Name            string   `json:"name" validate:"required,max=200"`
	Description     string   `json:"description" validate:"max=2000"`
	CardIDs         []string `json:"cardIds" validate:"omitempty,dive,required"`
	WishlistCardIDs []string `json:"wishlistCardIds" validate:"omitempty,dive,required"`
	IsPublic        bool     `json:"isPublic"`
}

type CollectionUpdateRequest struct {
	Name            *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Description     *string   `json:"description" validate:"omitempty,max=2000"`
	CardIDs         *[]string `json:"cardIds" validate:"omitempty,dive,required"`
	WishlistCardIDs *[]string `json:"wishlistCardIds" validate:"omitempty,dive,required"`
	IsPublic        *bool     `json:"isPublic"`
}

func (r CardCreateRequest) input() services.CardInput {
	return services.CardInput{
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Rarity:      models.Rarity(r.Rarity),
		Power:       r.Power,
		Abilities:   r.Abilities,
		Metadata:    r.Metadata,
	}
}

func (r CardUpdateRequest) patch() models.CardPatch {
	p := models.CardPatch{
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Power:       r.Power,
		Abilities:   r.Abilities,
		Metadata:    r.Metadata,
	}
	if r.Rarity != nil {
		rarity := models.Rarity(*r.Rarity)
		p.Rarity = &rarity
	}
	return p
}

func (r CollectionCreateRequest) input() services.CollectionInput {
	return services.CollectionInput{
		Name:            r.Name,
		Description:     r.Description,
		CardIDs:         r.CardIDs,
		WishlistCardIDs: r.WishlistCardIDs,
		IsPublic:        r.IsPublic,
	}
}

func (r CollectionUpdateRequest) patch() models.CollectionPatch {
	return models.CollectionPatch{
		Name:            r.Name,
		Description:     r.Description,
		CardIDs:         r.CardIDs,
		WishlistCardIDs: r.WishlistCardIDs,
		IsPublic:        r.IsPublic,
	}
}

// Responses.

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type UploadURLResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
}

type UserResponse struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	FirstName          string     `json:"firstName,omitempty"`
	LastName           string     `json:"lastName,omitempty"`
	Role               string     `json:"role"`
	IsEmailVerified    bool       `json:"isEmailVerified"`
	IsTwoFactorEnabled bool       `json:"isTwoFactorEnabled"`
	LastLoginAt        *time.Time `json:"lastLoginAt,omitempty"`
	IsActive           bool       `json:"isActive"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type CardResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	ImageURL    string         `json:"imageUrl"`
	Rarity      string         `json:"rarity"`
	Power       int            `json:"power"`
	Abilities   []string       `json:"abilities"`
	CreatorID   string         `json:"creatorId"`
	IsActive    bool           `json:"isActive"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type CollectionResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	CardIDs         []string  `json:"cardIds"`
	WishlistCardIDs []string  `json:"wishlistCardIds"`
	IsPublic        bool      `json:"isPublic"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// APIError is the body of every non-2xx response.
type APIError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

func toTokenResponse(p *services.TokenPair) TokenResponse {
	return TokenResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

// toUserResponse never carries the password hash or the 2FA secret.
func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Role:               u.Role,
		IsEmailVerified:    u.IsEmailVerified,
		IsTwoFactorEnabled: u.IsTwoFactorEnabled,
		LastLoginAt:        u.LastLoginAt,
		IsActive:           u.IsActive,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func toCardResponse(c *models.Card) CardResponse {
	abilities := c.Abilities
	if abilities == nil {
		abilities = []string{}
	}
	return CardResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Rarity:      string(c.Rarity),
		Power:       c.Power,
		Abilities:   abilities,
		CreatorID:   c.CreatorID,
		IsActive:    c.IsActive,
		Metadata:    c.Metadata,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCardResponses(cards []*models.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, toCardResponse(c))
	}
	return out
}

func toCollectionResponse(c *models.Collection) CollectionResponse {
	return CollectionResponse{
		ID:              c.ID,
		UserID:          c.UserID,
		Name:            c.Name,
		Description:     c.Description,
		CardIDs:         models.UniqueIDs(c.CardIDs),
		WishlistCardIDs: models.UniqueIDs(c.WishlistCardIDs),
		IsPublic:        c.IsPublic,
		IsActive:        c.IsActive,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func toCollectionResponses(list []*models.Collection) []CollectionResponse {
	out := make([]CollectionResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCollectionResponse(c))
	}
	return out
}
