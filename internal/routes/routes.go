package routes

import (
	"net/http"

	"github.com/campusfind/campusfind/internal/app"
	"github.com/campusfind/campusfind/internal/handler"
	"github.com/campusfind/campusfind/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg.MaxUploadSize)
	item := handler.NewItemHandler(app.ItemService, app.Cfg.MaxUploadSize)

	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/auth/register", auth.Register)
	mux.HandleFunc("POST /api/auth/login", auth.Login)
	mux.HandleFunc("POST /api/auth/forgot-password", auth.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", auth.ResetPassword)
	mux.HandleFunc("POST /api/auth/change-password", middleware.RequireAuth(auth.ChangePassword))
	mux.HandleFunc("GET /api/auth/profile", middleware.RequireAuth(auth.Profile))
	mux.HandleFunc("PUT /api/auth/profile", middleware.RequireAuth(auth.UpdateProfile))

	// Items - public listing and lookup
	mux.HandleFunc("GET /api/items", item.Search)
	mux.HandleFunc("GET /api/items/mine", middleware.RequireAuth(item.Mine))
	mux.HandleFunc("GET /api/items/{id}", item.Get)

	// Items - owner-gated mutations
	mux.HandleFunc("POST /api/items", middleware.RequireAuth(item.Create))
	mux.HandleFunc("PUT /api/items/{id}", middleware.RequireAuth(item.Update))
	mux.HandleFunc("PUT /api/items/{id}/status", middleware.RequireAuth(item.UpdateStatus))
	mux.HandleFunc("DELETE /api/items/{id}", middleware.RequireAuth(item.Delete))

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService),
	)

	return h
}
