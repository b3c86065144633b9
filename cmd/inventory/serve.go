package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/RaviGowdaS/InventoryManagement/internal/api"
	"github.com/RaviGowdaS/InventoryManagement/internal/config"
	"github.com/RaviGowdaS/InventoryManagement/internal/db"
	"github.com/RaviGowdaS/InventoryManagement/internal/metrics"
	"github.com/RaviGowdaS/InventoryManagement/internal/model"
	"github.com/RaviGowdaS/InventoryManagement/internal/ratelimit"
	"github.com/RaviGowdaS/InventoryManagement/internal/store"
	"github.com/RaviGowdaS/InventoryManagement/internal/web"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (REST API, web UI and metrics)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.OutOrStdout(), a.cfg)
		},
	}
	cmd.Flags().StringP("addr", "a", "", "listen address")
	cmd.Flags().Int("rate-limit", 0, "login and register requests per minute per client IP (0 disables)")
	mustBind(a.loader, "server.addr", cmd.Flags().Lookup("addr"))
	mustBind(a.loader, "auth.rate_limit_per_min", cmd.Flags().Lookup("rate-limit"))
	return cmd
}

func initCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and the admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.DB.Path
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("database file %s already exists", path)
			}

			database, password, err := initDatabase(cmd.Context(), path, a.cfg.Admin)
			if err != nil {
				return err
			}
			database.Close()

			printInitResult(cmd.OutOrStdout(), path, a.cfg.Admin.Email, password)
			return nil
		},
	}
}

func resetPasswordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <email>",
		Short: "Replace a user's password with a generated one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDatabase(a.cfg.DB.Path)
			if err != nil {
				return err
			}
			defer database.Close()

			password, err := resetPassword(cmd.Context(), database, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "New password for %s: %s\n", model.NormalizeEmail(args[0]), password)
			return nil
		},
	}
}

func serve(out io.Writer, cfg *config.Config) error {
	closeLog, err := setupLogger(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	// Check if DB exists, auto-init if not.
	if _, err := os.Stat(cfg.DB.Path); errors.Is(err, os.ErrNotExist) {
		database, password, err := initDatabase(context.Background(), cfg.DB.Path, cfg.Admin)
		if err != nil {
			return fmt.Errorf("initializing database: %w", err)
		}
		database.Close()

		printInitResult(out, cfg.DB.Path, cfg.Admin.Email, password)
		fmt.Fprintln(out)
	}

	database, err := openDatabase(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	slog.Info("database ready", "path", cfg.DB.Path)

	ctx := context.Background()
	if n, err := store.PurgeExpiredTokens(ctx, database, time.Now()); err != nil {
		slog.Warn("failed to purge expired token revocations", "error", err)
	} else if n > 0 {
		slog.Info("purged expired token revocations", "count", n)
	}

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		// Generated on first run and persisted.
		if jwtSecret, err = store.GetJWTSecret(ctx, database); err != nil {
			return fmt.Errorf("loading JWT secret: %w", err)
		}
	}

	trusted, err := ratelimit.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return fmt.Errorf("server.trusted_proxies: %w", err)
	}

	handler, err := newHandler(database, jwtSecret, cfg.Auth.RateLimitPerMin, trusted, metrics.New())
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Server.Addr, "rate_limit_per_min", cfg.Auth.RateLimitPerMin)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

// newHandler combines the API, metrics and web routers. API routes take
// priority and the web UI handles the rest.
func newHandler(database *sql.DB, jwtSecret string, rateLimitPerMin int, trusted []netip.Prefix, m *metrics.Metrics) (http.Handler, error) {
	apiRouter := api.NewRouter(database, jwtSecret, api.Options{
		RateLimitPerMin: rateLimitPerMin,
		TrustedProxies:  trusted,
		Metrics:         m,
	})
	webRouter, err := web.NewRouter(database, jwtSecret, web.Options{
		RateLimitPerMin: rateLimitPerMin,
		TrustedProxies:  trusted,
		Metrics:         m,
	})
	if err != nil {
		return nil, fmt.Errorf("setting up web router: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("GET /metrics", m.Handler())
	mux.Handle("/", webRouter)

	return api.LoggingMiddleware(m.Middleware(mux)), nil
}

func openDatabase(path string) (*sql.DB, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	// Idempotent.
	if err := db.EnsureSchema(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("ensuring database schema: %w", err)
	}
	return database, nil
}

// initDatabase creates a new database, ensures the schema, and creates the
// admin user. On failure the partially created file is removed.
func initDatabase(ctx context.Context, path string, admin config.AdminConfig) (*sql.DB, string, error) {
	database, err := openDatabase(path)
	if err != nil {
		os.Remove(path)
		return nil, "", err
	}

	fail := func(format string, err error) (*sql.DB, string, error) {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf(format, err)
	}

	password, err := generatePassword(16)
	if err != nil {
		return fail("generating password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fail("hashing password: %w", err)
	}

	if _, err := store.CreateUser(ctx, database, admin.Name, admin.Email, string(hash), model.RoleAdmin); err != nil {
		return fail("creating admin user: %w", err)
	}

	return database, password, nil
}

// resetPassword stores a freshly generated password for the user with email.
func resetPassword(ctx context.Context, database *sql.DB, email string) (string, error) {
	user, err := store.GetUserByEmail(ctx, database, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", fmt.Errorf("no user with email %s", model.NormalizeEmail(email))
	}

	password, err := generatePassword(16)
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	if err := store.UpdateUserPassword(ctx, database, user.ID, string(hash)); err != nil {
		return "", err
	}

	slog.Info("password reset", "user", user.Email)
	return password, nil
}

// printInitResult prints the database initialization result.
func printInitResult(w io.Writer, dbPath, email, password string) {
	fmt.Fprintf(w, "Database created: %s\n", dbPath)
	fmt.Fprintln(w, "Schema initialized.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Admin account created:")
	fmt.Fprintf(w, "  Email:    %s\n", email)
	fmt.Fprintf(w, "  Password: %s\n", password)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Save this password. It cannot be recovered, only reset with")
	fmt.Fprintln(w, "`inventory reset-password`.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
