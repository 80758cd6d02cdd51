package handlers

import (
	"net/http"

	"eventtix/internal/middleware"
	"eventtix/internal/utils"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterDeps bundles everything the router needs
type RouterDeps struct {
	Auth    *AuthHandler
	Events  *EventHandler
	Tickets *TicketHandler
	AuthMW  *middleware.AuthMiddleware
}

// NewRouter builds the HTTP router with all routes and middleware
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.LoggingMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig()))
	r.Use(deps.AuthMW.LoadUser)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", deps.Auth.Register)
		r.Post("/auth/login", deps.Auth.Login)
		r.Post("/auth/logout", deps.Auth.Logout)

		r.Get("/events", deps.Events.List)
		r.Get("/events/{slug}", deps.Events.GetBySlug)
		r.Get("/categories", deps.Events.ListCategories)
		r.Get("/locations", deps.Events.ListLocations)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMW.RequireAuth)

			r.Get("/auth/me", deps.Auth.Me)

			r.Post("/tickets/purchase", deps.Tickets.Purchase)
			r.Get("/tickets", deps.Tickets.ListMine)
			r.Get("/tickets/{id}", deps.Tickets.Get)
			r.Post("/tickets/{id}/complete-payment", deps.Tickets.CompletePayment)
			r.Get("/tickets/{id}/qr", deps.Tickets.QRCode)
		})

		// Organizer routes
		r.Route("/organizer", func(r chi.Router) {
			r.Use(deps.AuthMW.RequireOrganizer)

			r.Get("/events", deps.Events.ListMine)
			r.Post("/events", deps.Events.Create)
			r.Put("/events/{id}", deps.Events.Update)
			r.Delete("/events/{id}", deps.Events.Cancel)

			r.Get("/tickets/{code}", deps.Tickets.Verify)
		})
	})

	return r
}
