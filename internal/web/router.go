package web

import (
	"database/sql"
	"net/http"
	"net/netip"

	"github.com/RaviGowdaS/InventoryManagement/internal/auth"
	"github.com/RaviGowdaS/InventoryManagement/internal/items"
	"github.com/RaviGowdaS/InventoryManagement/internal/metrics"
	"github.com/RaviGowdaS/InventoryManagement/internal/ratelimit"
	webembed "github.com/RaviGowdaS/InventoryManagement/web"
)

// Options tunes the web router.
type Options struct {
	RateLimitPerMin int
	// TrustedProxies are peers whose X-Forwarded-For is believed.
	TrustedProxies  []netip.Prefix
	Metrics         *metrics.Metrics
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB, jwtSecret string, opts Options) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	identity := &auth.Identity{DB: db, Secret: jwtSecret}
	s := &Server{
		Templates: templates,
		Identity:  identity,
		Items:     items.New(db),
		Limiter:   ratelimit.New(opts.RateLimitPerMin, opts.TrustedProxies...),
		Metrics:   opts.Metrics,
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(identity)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("GET /register", s.RegisterPage)
	mux.HandleFunc("POST /register", s.RegisterSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Authenticated routes.
	mux.Handle("GET /{$}", cookieAuth(http.HandlerFunc(s.Dashboard)))

	mux.Handle("POST /items", cookieAuth(http.HandlerFunc(s.ItemCreateSubmit)))
	mux.Handle("GET /items/{id}/edit", cookieAuth(http.HandlerFunc(s.ItemEditPage)))
	mux.Handle("POST /items/{id}", cookieAuth(http.HandlerFunc(s.ItemUpdateSubmit)))
	mux.Handle("POST /items/{id}/delete", cookieAuth(http.HandlerFunc(s.ItemDeleteSubmit)))
	mux.Handle("POST /items/{id}/image", cookieAuth(http.HandlerFunc(s.ItemImageSubmit)))
	mux.Handle("GET /items/{id}/image", cookieAuth(http.HandlerFunc(s.ItemImageGet)))

	return mux, nil
}
