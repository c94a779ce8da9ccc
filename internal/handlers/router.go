package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shoedler/tabletop-gather/internal/auth"
	"github.com/shoedler/tabletop-gather/internal/plans"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Auth          *auth.Service
	Plans         *plans.Service
	Games         GameCatalog
	LoginThrottle *auth.Throttle
	CORSOrigins   []string
}

// NewRouter wires every endpoint. Everything under /api requires a bearer
// token except signup, login and catalogue reads.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	requireAuth := RequireAuth(d.Auth)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", Register(d.Auth))
		r.With(LimitLogins(d.LoginThrottle)).Post("/login", Login(d.Auth))
		r.With(requireAuth).Post("/logout", Logout(d.Auth))
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", ListUsers(d.Auth))
		r.Delete("/{id}", DeleteUser(d.Auth))
		r.Get("/me", Me())
		r.Put("/me", UpdateMe(d.Auth))
		r.Delete("/me", DeleteMe(d.Auth))
		r.Put("/me/password", ChangePassword(d.Auth))
		r.Get("/plan/{planId}", PlanParticipants(d.Plans))
	})

	r.Route("/api/games", func(r chi.Router) {
		r.Get("/", ListGames(d.Games))
		r.Get("/{id}", GetGame(d.Games))
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", CreateGame(d.Games))
			r.Get("/own", ListOwnGames(d.Games))
			r.Post("/{id}/collection", AddToCollection(d.Games))
			r.Delete("/{id}/collection", RemoveFromCollection(d.Games))
		})
	})

	r.Route("/api/plans", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", ListDiscoverablePlans(d.Plans))
		r.Post("/", CreatePlan(d.Plans))
		r.Get("/own", ListOwnPlans(d.Plans))
		r.Get("/attending", ListAttendingPlans(d.Plans))
		r.Get("/{id}", GetPlan(d.Plans))
		r.Put("/{id}", UpdatePlan(d.Plans))
		r.Delete("/{id}", DeletePlan(d.Plans))
		r.Get("/{id}/details", GetPlanDetails(d.Plans))
		r.Put("/{id}/gatherings", ReplaceGatherings(d.Plans))
		r.Get("/{id}/comments", ListComments(d.Plans))
		r.Post("/{id}/comments", AddComment(d.Plans))
	})

	r.Route("/api/gatherings", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/{id}/participants", JoinGathering(d.Plans))
		r.Delete("/{id}/participants", LeaveGathering(d.Plans))
	})

	r.Route("/api/comments", func(r chi.Router) {
		r.Use(requireAuth)
		r.Put("/{id}", EditComment(d.Plans))
		r.Delete("/{id}", DeleteComment(d.Plans))
	})

	return r
}
