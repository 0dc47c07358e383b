package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	budgetHandler "github.com/MrJamesThe3rd/kitty/internal/http/budget"
	goalHandler "github.com/MrJamesThe3rd/kitty/internal/http/goal"
	txHandler "github.com/MrJamesThe3rd/kitty/internal/http/transaction"
)

func New(
	transactionsV1 *txHandler.Handler,
	budgetsV1 *budgetHandler.Handler,
	goalsV1 *goalHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1/users/{userID}", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))

		r.Route("/transactions", transactionsV1.Routes)
		r.Route("/budgets", budgetsV1.Routes)
		r.Route("/goals", goalsV1.Routes)
	})

	return router
}
