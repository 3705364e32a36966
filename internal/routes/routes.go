package routes

import (
	"net/http"

	"github.com/BenjaminKobjolke/beaverprime/internal/app"
	"github.com/BenjaminKobjolke/beaverprime/internal/handler"
	"github.com/BenjaminKobjolke/beaverprime/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.Translator)
	account := handler.NewAccountHandler(app.AuthService, app.UserService)
	list := handler.NewListHandler(app.ListService, app.Translator)
	habit := handler.NewHabitHandler(app.HabitService, app.Translator)
	completion := handler.NewCompletionHandler(app.CompletionService, app.Translator)
	export := handler.NewExportHandler(app.ExportService, app.Translator)
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /api/v1/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/v1/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/v1/auth/logout", auth.Logout)
	mux.HandleFunc("GET /api/v1/auth/verify/{token}", auth.VerifyEmail)
	mux.HandleFunc("POST /api/v1/auth/verify", rateLimiter(auth.VerifyEmail))
	mux.HandleFunc("POST /api/v1/auth/resend-verification", rateLimiter(auth.ResendVerification))
	mux.HandleFunc("POST /api/v1/auth/forgot-password", rateLimiter(auth.ForgotPassword))
	mux.HandleFunc("POST /api/v1/auth/reset-password", rateLimiter(auth.ResetPassword))

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Account
	mux.HandleFunc("GET /api/v1/account", middleware.RequireAuth(account.Me))
	mux.HandleFunc("POST /api/v1/account/password", middleware.RequireAuth(account.ChangePassword))
	mux.HandleFunc("DELETE /api/v1/account", middleware.RequireAuth(account.DeleteAccount))

	// Lists
	mux.HandleFunc("GET /api/v1/lists", middleware.RequireAuth(list.Lists))
	mux.HandleFunc("POST /api/v1/lists", middleware.RequireAuth(list.Create))
	mux.HandleFunc("GET /api/v1/lists/{id}", middleware.RequireAuth(list.ByID))
	mux.HandleFunc("PATCH /api/v1/lists/{id}", middleware.RequireAuth(list.Update))
	mux.HandleFunc("DELETE /api/v1/lists/{id}", middleware.RequireAuth(list.Delete))

	// Habits nested under lists
	mux.HandleFunc("GET /api/v1/lists/{id}/habits", middleware.RequireAuth(habit.Habits))
	mux.HandleFunc("POST /api/v1/lists/{id}/habits", middleware.RequireAuth(habit.Create))

	// Habits
	mux.HandleFunc("GET /api/v1/habits", middleware.RequireAuth(habit.Habits))
	mux.HandleFunc("POST /api/v1/habits", middleware.RequireAuth(habit.Create))
	mux.HandleFunc("GET /api/v1/habits/{id}", middleware.RequireAuth(habit.ByID))
	mux.HandleFunc("PATCH /api/v1/habits/{id}", middleware.RequireAuth(habit.Update))
	mux.HandleFunc("DELETE /api/v1/habits/{id}", middleware.RequireAuth(habit.Delete))
	mux.HandleFunc("GET /api/v1/habits/{id}/streak", middleware.RequireAuth(habit.Streak))

	// Completions
	mux.HandleFunc("POST /api/v1/habits/{id}/completions", middleware.RequireAuth(completion.Toggle))
	mux.HandleFunc("GET /api/v1/habits/{id}/completions", middleware.RequireAuth(completion.Records))
	mux.HandleFunc("POST /api/v1/habits/batch-completions", middleware.RequireAuth(completion.Batch))

	// Export / Import
	mux.HandleFunc("GET /api/v1/export", middleware.RequireAuth(export.Export))
	mux.HandleFunc("POST /api/v1/import", middleware.RequireAuth(export.Import))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.RequestLogging,
		middleware.Auth(app.AuthService, app.UserService),
		middleware.Locale(app.Translator),
		middleware.WithURLPath,
	)

	return handler
}
