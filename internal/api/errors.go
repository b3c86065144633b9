package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/RaviGowdaS/InventoryManagement/internal/auth"
	"github.com/RaviGowdaS/InventoryManagement/internal/imaging"
	"github.com/RaviGowdaS/InventoryManagement/internal/items"
	"github.com/RaviGowdaS/InventoryManagement/internal/model"
	"github.com/RaviGowdaS/InventoryManagement/internal/store"
)

// writeError maps a service error onto a status code and envelope. Errors
// without a mapping are logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		jsonError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, items.ErrNotFound):
		jsonError(w, http.StatusNotFound, "Item not found")
	case errors.Is(err, items.ErrForbidden):
		jsonError(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, store.ErrEmailTaken):
		jsonError(w, http.StatusConflict, "Email is already registered")
	case errors.Is(err, auth.ErrInvalidCredentials):
		jsonError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, auth.ErrUnknownUser):
		jsonError(w, http.StatusUnauthorized, "User no longer exists")
	case errors.Is(err, imaging.ErrTooLarge), errors.Is(err, imaging.ErrUnsupported):
		jsonError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		jsonError(w, http.StatusInternalServerError, "Internal server error")
	}
}
