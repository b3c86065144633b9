package api

import (
	"database/sql"
	"net/http"
	"net/netip"

	"github.com/RaviGowdaS/InventoryManagement/internal/auth"
	"github.com/RaviGowdaS/InventoryManagement/internal/items"
	"github.com/RaviGowdaS/InventoryManagement/internal/metrics"
	"github.com/RaviGowdaS/InventoryManagement/internal/model"
	"github.com/RaviGowdaS/InventoryManagement/internal/ratelimit"
)

// Options tunes the API router. The zero value disables rate limiting and
// domain event metrics.
type Options struct {
	RateLimitPerMin int
	// TrustedProxies are peers whose X-Forwarded-For is believed.
	TrustedProxies  []netip.Prefix
	Metrics         *metrics.Metrics
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, opts Options) http.Handler {
	mux := http.NewServeMux()

	identity := &auth.Identity{DB: db, Secret: jwtSecret}
	authHandler := &AuthHandler{Identity: identity, Metrics: opts.Metrics}
	itemsHandler := &ItemsHandler{Items: items.New(db), Metrics: opts.Metrics}
	usersHandler := &UsersHandler{DB: db}

	authMW := AuthMiddleware(identity)
	requireAdmin := RequireRole(model.RoleAdmin)
	limit := ratelimit.New(opts.RateLimitPerMin, opts.TrustedProxies...).Middleware(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
	})

	// Public, rate limited.
	mux.Handle("POST /api/auth/register", limit(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/auth/login", limit(http.HandlerFunc(authHandler.Login)))

	// Authenticated routes.
	mux.Handle("GET /api/auth/profile", authMW(http.HandlerFunc(authHandler.Profile)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Items: any authenticated user; mutations are owner-or-admin.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/categories", authMW(http.HandlerFunc(itemsHandler.Categories)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("PUT /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.UploadImage)))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("PUT /api/users/{id}/role", authMW(requireAdmin(http.HandlerFunc(usersHandler.UpdateRole))))

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "Route not found")
	})

	return mux
}
