// Package httpapi exposes the HeroWall services over HTTP/JSON using chi.
package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/herowall/internal/dbx"
	"github.com/dmitrijs2005/herowall/internal/logging"
	"github.com/dmitrijs2005/herowall/internal/server/auth"
	"github.com/dmitrijs2005/herowall/internal/server/services"
	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
)

type Dependencies struct {
	Guard       *auth.Guard
	Users       *services.UserService
	Cards       *services.CardService
	Collections *services.CollectionService
	Images      ImagePresigner
	Store       dbx.Pinger
	Logger      logging.Logger

	// AuthRateLimit and AuthRateBurst bound /auth requests per client IP.
	// A zero limit disables limiting.
	AuthRateLimit float64
	AuthRateBurst int

	// TrustProxyHeaders lets X-Forwarded-For / X-Real-IP replace the peer
	// address. Enable only behind a proxy that sets them.
	TrustProxyHeaders bool
}

func NewRouter(dep Dependencies) http.Handler {
	log := dep.Logger.With("module", "http")
	h := &Handler{
		users:       dep.Users,
		cards:       dep.Cards,
		collections: dep.Collections,
		images:      dep.Images,
		store:       dep.Store,
		log:         log,
	}

	r := chi.NewRouter()

	if dep.TrustProxyHeaders {
		r.Use(chimid.RealIP)
	}
	r.Use(RequestID)
	r.Use(Recovery(log))
	r.Use(AccessLog(log))
	r.Use(CORS)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, APIError{Code: "not_found", Message: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusMethodNotAllowed, APIError{Code: "method_not_allowed", Message: "method not allowed"})
	})

	r.Get("/healthz", h.Liveness)
	r.Get("/readyz", h.Readiness)

	authenticated := Authenticate(dep.Guard)

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			if dep.AuthRateLimit > 0 {
				ar.Use(NewRateLimiter(dep.AuthRateLimit, dep.AuthRateBurst).Middleware)
			}
			ar.Post("/register", h.Register)
			ar.Post("/login", h.Login)
			ar.Post("/refresh", h.Refresh)
			ar.With(authenticated).Get("/me", h.Me)
		})

		api.Route("/cards", h.cardRoutes(authenticated))
		api.Route("/collections", h.collectionRoutes(dep.Collections, authenticated))
	})

	// Unversioned paths kept for clients of the first API revision.
	r.Route("/cards", h.cardRoutes(authenticated))
	r.Route("/collections", h.collectionRoutes(dep.Collections, authenticated))

	return r
}

func (h *Handler) cardRoutes(authenticated func(http.Handler) http.Handler) func(chi.Router) {
	return func(cr chi.Router) {
		cr.Get("/", h.ListCards)
		cr.Get("/{id}", h.GetCard)

		cr.Group(func(protected chi.Router) {
			protected.Use(authenticated)
			protected.Post("/", h.CreateCard)
			protected.Get("/mine", h.MyCards)
			protected.Get("/user/my-cards", h.MyCards)
			protected.Post("/images/upload-url", h.CardUploadURL)
			protected.Put("/{id}", h.UpdateCard)
			protected.Delete("/{id}", h.DeleteCard)
		})
	}
}

func (h *Handler) collectionRoutes(svc *services.CollectionService, authenticated func(http.Handler) http.Handler) func(chi.Router) {
	return func(cr chi.Router) {
		cr.Use(authenticated)
		cr.Post("/", h.CreateCollection)
		cr.Get("/", h.ListCollections)
		cr.Get("/{id}", h.GetCollection)
		cr.Put("/{id}", h.UpdateCollection)
		cr.Delete("/{id}", h.DeleteCollection)
		cr.Post("/{id}/cards/{cardId}", h.membership(svc.AddCard))
		cr.Delete("/{id}/cards/{cardId}", h.membership(svc.RemoveCard))
		cr.Post("/{id}/wishlist/{cardId}", h.membership(svc.AddToWishlist))
		cr.Delete("/{id}/wishlist/{cardId}", h.membership(svc.RemoveFromWishlist))
		cr.Post("/{id}/add-card/{cardId}", h.membership(svc.AddCard))
		cr.Post("/{id}/remove-card/{cardId}", h.membership(svc.RemoveCard))
	}
}
