package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/rmanoharan/ledgerdesk/internal/middleware"
	"github.com/rmanoharan/ledgerdesk/internal/models"
)

// NewRouter constructs the HTTP handler serving the ledger API.
//
// Routes:
//
//	POST /auth/login                      → AuthHandler.Login (public)
//	POST /auth/register                   → AuthHandler.Register (admin only)
//	GET/POST /pawn                        → PawnHandler.List / Create
//	GET/PUT/DELETE /pawn/{id}             → PawnHandler.Get / Update / Delete
//	POST /pawn/{id}/repayment             → PawnHandler.AddRepayment
//	GET/POST /horticulture                → CropHandler.List / Create
//	GET/PUT/DELETE /horticulture/{id}     → CropHandler.Get / Update / Delete
//	POST /horticulture/{id}/expense       → CropHandler.AddExpense
//	PUT /horticulture/{id}/harvest        → CropHandler.RecordHarvest
//
// Everything except login requires a valid bearer token; registration
// additionally requires the admin role.
func NewRouter(
	authHandler *AuthHandler,
	pawnHandler *PawnHandler,
	cropHandler *CropHandler,
	tokens middleware.TokenParser,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Post("/auth/login", authHandler.Login)

	// Protected group: requires a valid session token
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens))

		r.With(middleware.RequireRole(models.RoleAdmin)).
			Post("/auth/register", authHandler.Register)

		r.Route("/pawn", func(r chi.Router) {
			r.Get("/", pawnHandler.List)
			r.Post("/", pawnHandler.Create)
			r.Get("/{id}", pawnHandler.Get)
			r.Put("/{id}", pawnHandler.Update)
			r.Delete("/{id}", pawnHandler.Delete)
			r.Post("/{id}/repayment", pawnHandler.AddRepayment)
		})

		r.Route("/horticulture", func(r chi.Router) {
			r.Get("/", cropHandler.List)
			r.Post("/", cropHandler.Create)
			r.Get("/{id}", cropHandler.Get)
			r.Put("/{id}", cropHandler.Update)
			r.Delete("/{id}", cropHandler.Delete)
			r.Post("/{id}/expense", cropHandler.AddExpense)
			r.Put("/{id}/harvest", cropHandler.RecordHarvest)
		})
	})

	return r
}
