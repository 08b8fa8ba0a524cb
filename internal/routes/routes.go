package routes

import (
	"net/http"

	"github.com/steadyapp/steady/internal/app"
	"github.com/steadyapp/steady/internal/handler"
	"github.com/steadyapp/steady/internal/middleware"
)

func SetupRoutes(a *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(a.AuthService, a.Cfg)
	account := handler.NewAccountHandler(a.AuthService, a.UserService)
	goal := handler.NewGoalHandler(a.GoalService)
	day := handler.NewDayHandler(a.GoalService, a.CompletionService)
	stats := handler.NewStatsHandler(a.StatsService)

	mux := http.NewServeMux()

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /auth/logout", auth.Logout)
	mux.HandleFunc("POST /auth/forgot-password", rateLimiter(auth.ForgotPassword))
	mux.HandleFunc("POST /auth/reset-password", rateLimiter(auth.ResetPassword))

	// OAuth
	mux.HandleFunc("GET /auth/google", rateLimiter(auth.GoogleAuth))
	mux.HandleFunc("GET /auth/google/callback", rateLimiter(auth.GoogleCallback))
	mux.HandleFunc("GET /auth/github", rateLimiter(auth.GitHubAuth))
	mux.HandleFunc("GET /auth/github/callback", rateLimiter(auth.GitHubCallback))

	// Account
	mux.HandleFunc("GET /api/me", middleware.RequireAuth(auth.Me))
	mux.HandleFunc("DELETE /api/account", middleware.RequireAuth(account.Delete))

	// Goals
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("PUT /api/goals/order", middleware.RequireAuth(goal.Reorder))
	mux.HandleFunc("PUT /api/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("PATCH /api/goals/{id}/active", middleware.RequireAuth(goal.SetActive))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))

	// Days (completions + progress)
	mux.HandleFunc("GET /api/days/{date}", middleware.RequireAuth(day.Show))
	mux.HandleFunc("POST /api/days/{date}/goals/{goalID}/toggle", middleware.RequireAuth(day.Toggle))

	// Stats
	mux.HandleFunc("GET /api/stats", middleware.RequireAuth(stats.Show))

	// Global middleware
	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.AuthMiddleware(a.AuthService, a.UserService),
	)
}
