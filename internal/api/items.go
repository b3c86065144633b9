package api

import (
	"log/slog"
	"net/http"

	"github.com/RaviGowdaS/InventoryManagement/internal/imaging"
	"github.com/RaviGowdaS/InventoryManagement/internal/items"
	"github.com/RaviGowdaS/InventoryManagement/internal/metrics"
	"github.com/RaviGowdaS/InventoryManagement/internal/model"
)

// multipartOverhead is the allowance for form boundaries and headers on top
// of the image itself.
const multipartOverhead = 1 << 20

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	Items   *items.Service
	Metrics *metrics.Metrics
}

type itemResponse struct {
	Item *model.Item `json:"item"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := model.ParseItemFilter(q.Get("page"), q.Get("limit"), q.Get("category"), q.Get("search"))

	page, err := h.Items.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, "", page)
}

// Categories handles GET /api/items/categories.
func (h *ItemsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Items.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, "", map[string]any{"categories": categories})
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Items.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, "", itemResponse{Item: item})
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ItemInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	item, err := h.Items.Create(r.Context(), claims.Actor(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.Metrics.Event("item_created")
	slog.Info("item created", "user", claims.Email, "item", item.ID, "title", item.Title)
	jsonResponse(w, http.StatusCreated, "Item created successfully", itemResponse{Item: item})
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in model.ItemInput
	if err := decodeJSON(r, &in); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	item, err := h.Items.Update(r.Context(), claims.Actor(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.Metrics.Event("item_updated")
	slog.Info("item updated", "user", claims.Email, "item", item.ID)
	jsonResponse(w, http.StatusOK, "Item updated successfully", itemResponse{Item: item})
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	claims := GetClaims(r.Context())
	if err := h.Items.Delete(r.Context(), claims.Actor(), id); err != nil {
		writeError(w, r, err)
		return
	}

	h.Metrics.Event("item_deleted")
	slog.Info("item deleted", "user", claims.Email, "item", id)
	jsonResponse(w, http.StatusOK, "Item deleted successfully", nil)
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "File too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Image file required")
		return
	}
	defer file.Close()

	data, err := imaging.Normalize(file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	claims := GetClaims(r.Context())
	item, err := h.Items.SetImage(r.Context(), claims.Actor(), r.PathValue("id"), data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("item image uploaded", "user", claims.Email, "item", item.ID, "bytes", len(data))
	jsonResponse(w, http.StatusOK, "Image uploaded successfully", itemResponse{Item: item})
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, mime, err := h.Items.Image(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}
