package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/herowall/internal/common"
	"github.com/dmitrijs2005/herowall/internal/dbx"
	"github.com/dmitrijs2005/herowall/internal/logging"
	"github.com/dmitrijs2005/herowall/internal/server/auth"
	"github.com/dmitrijs2005/herowall/internal/server/models"
	"github.com/dmitrijs2005/herowall/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// ImagePresigner issues upload URLs for card images.
type ImagePresigner interface {
	PresignUpload(ctx context.Context, userID string) (key, url string, err error)
}

type Handler struct {
	users       *services.UserService
	cards       *services.CardService
	collections *services.CollectionService
	images      ImagePresigner
	store       dbx.Pinger
	log         logging.Logger
}

// caller returns the authenticated identity. Protected routes always have
// one; a missing identity means the route was mounted without the guard.
func caller(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthorized)
	}
	return id, ok
}

// --- health ---

func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.PingContext(ctx); err != nil {
		h.log.Warn(r.Context(), "readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// --- auth ---

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pair, err := h.users.Register(r.Context(), services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			writeAPIError(w, http.StatusConflict, APIError{Code: "conflict", Message: "User with this email already exists"})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTokenResponse(pair))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pair, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeAPIError(w, http.StatusUnauthorized, APIError{Code: "unauthorized", Message: "Invalid credentials"})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTokenResponse(pair))
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pair, err := h.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTokenResponse(pair))
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	user, err := h.users.Profile(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// --- cards ---

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.cards.ListActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCardResponses(cards))
}

func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.cards.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCardResponse(card))
}

func (h *Handler) MyCards(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	cards, err := h.cards.ListByCreator(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCardResponses(cards))
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var req CardCreateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.cards.Create(r.Context(), req.input(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCardResponse(card))
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	var req CardUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.cards.Update(r.Context(), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCardResponse(card))
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.cards.Deactivate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCardResponse(card))
}

func (h *Handler) CardUploadURL(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	key, url, err := h.images.PresignUpload(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UploadURLResponse{Key: key, UploadURL: url})
}

// --- collections ---

func (h *Handler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var req CollectionCreateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.collections.Create(r.Context(), req.input(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCollectionResponse(c))
}

func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	list, err := h.collections.ListByOwner(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCollectionResponses(list))
}

func (h *Handler) GetCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	c, err := h.collections.Get(r.Context(), chi.URLParam(r, "id"), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCollectionResponse(c))
}

func (h *Handler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	var req CollectionUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.collections.Update(r.Context(), chi.URLParam(r, "id"), id.UserID, req.patch())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCollectionResponse(c))
}

func (h *Handler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	c, err := h.collections.Deactivate(r.Context(), chi.URLParam(r, "id"), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCollectionResponse(c))
}

type membershipFunc func(ctx context.Context, id, ownerID, cardID string) (*models.Collection, error)

// membership adapts one of the collection set operations to a handler
// keyed by {id} and {cardId}.
func (h *Handler) membership(op membershipFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := caller(w, r)
		if !ok {
			return
		}
		c, err := op(r.Context(), chi.URLParam(r, "id"), id.UserID, chi.URLParam(r, "cardId"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCollectionResponse(c))
	}
}
