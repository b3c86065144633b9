package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/RaviGowdaS/InventoryManagement/internal/imaging"
	"github.com/RaviGowdaS/InventoryManagement/internal/items"
	"github.com/RaviGowdaS/InventoryManagement/internal/model"
)

// itemFormInput reads item fields from a submitted form. Blank numeric
// fields are treated as not supplied.
func itemFormInput(r *http.Request) (model.ItemInput, error) {
	var in model.ItemInput

	text := func(name string) *string {
		if _, ok := r.Form[name]; !ok {
			return nil
		}
		v := r.FormValue(name)
		return &v
	}
	in.Title = text("title")
	in.Description = text("description")
	in.Category = text("category")
	in.ImageURL = text("imageUrl")

	if v := strings.TrimSpace(r.FormValue("price")); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return in, &model.ValidationError{Field: "price", Message: "Price must be a number"}
		}
		in.Price = &price
	}
	if v := strings.TrimSpace(r.FormValue("stock")); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return in, &model.ValidationError{Field: "stock", Message: "Stock must be a whole number"}
		}
		in.Stock = &stock
	}
	if v := r.FormValue("isActive"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return in, &model.ValidationError{Field: "isActive", Message: "Invalid status"}
		}
		in.IsActive = &active
	}

	return in, nil
}

// errorMessage turns a service error into text for the error banner.
func errorMessage(err error) string {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, items.ErrNotFound):
		return "Item not found"
	case errors.Is(err, items.ErrForbidden):
		return "Access denied"
	case errors.Is(err, imaging.ErrTooLarge), errors.Is(err, imaging.ErrUnsupported):
		return err.Error()
	default:
		slog.Error("web request failed", "error", err)
		return "Something went wrong, please try again"
	}
}

// ItemCreateSubmit handles POST /items.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	r.ParseForm()

	in, err := itemFormInput(r)
	if err == nil {
		var item *model.Item
		item, err = s.Items.Create(r.Context(), actor(claims), in)
		if err == nil {
			s.Metrics.Event("item_created")
			slog.Info("item created", "user", claims.Email, "item", item.ID, "title", item.Title)
		}
	}
	if err != nil {
		http.Redirect(w, r, returnURL(r, errorMessage(err)), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, returnURL(r, ""), http.StatusSeeOther)
}

type itemEditData struct {
	PageData
	Item *model.Item
}

// ItemEditPage handles GET /items/{id}/edit.
func (s *Server) ItemEditPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	item, err := s.Items.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, items.ErrNotFound) {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to get item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !actor(claims).CanModify(item.CreatedByID) {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}

	s.Templates.Render(w, "item_edit.html", &itemEditData{
		PageData: PageData{Title: item.Title, User: claims, Error: r.URL.Query().Get("error")},
		Item:     item,
	})
}

// ItemUpdateSubmit handles POST /items/{id}.
func (s *Server) ItemUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id := r.PathValue("id")
	r.ParseForm()

	in, err := itemFormInput(r)
	if err == nil {
		_, err = s.Items.Update(r.Context(), actor(claims), id, in)
	}
	if err != nil {
		if errors.Is(err, items.ErrNotFound) || errors.Is(err, items.ErrForbidden) {
			http.Redirect(w, r, returnURL(r, errorMessage(err)), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/items/"+id+"/edit?error="+url.QueryEscape(errorMessage(err)), http.StatusSeeOther)
		return
	}

	s.Metrics.Event("item_updated")
	slog.Info("item updated", "user", claims.Email, "item", id)
	http.Redirect(w, r, returnURL(r, ""), http.StatusSeeOther)
}

// ItemDeleteSubmit handles POST /items/{id}/delete.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id := r.PathValue("id")

	if err := s.Items.Delete(r.Context(), actor(claims), id); err != nil {
		http.Redirect(w, r, returnURL(r, errorMessage(err)), http.StatusSeeOther)
		return
	}

	s.Metrics.Event("item_deleted")
	slog.Info("item deleted", "user", claims.Email, "item", id)
	http.Redirect(w, r, returnURL(r, ""), http.StatusSeeOther)
}

// ItemImageSubmit handles POST /items/{id}/image.
func (s *Server) ItemImageSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id := r.PathValue("id")
	editURL := "/items/" + id + "/edit"

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		http.Redirect(w, r, editURL+"?error="+url.QueryEscape("File too large or invalid form"), http.StatusSeeOther)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Redirect(w, r, editURL+"?error="+url.QueryEscape("Image file required"), http.StatusSeeOther)
		return
	}
	defer file.Close()

	data, err := imaging.Normalize(file)
	if err == nil {
		_, err = s.Items.SetImage(r.Context(), actor(claims), id, data)
	}
	if err != nil {
		http.Redirect(w, r, editURL+"?error="+url.QueryEscape(errorMessage(err)), http.StatusSeeOther)
		return
	}

	slog.Info("item image uploaded", "user", claims.Email, "item", id, "bytes", len(data))
	http.Redirect(w, r, editURL, http.StatusSeeOther)
}

// ItemImageGet handles GET /items/{id}/image (web route, cookie-authenticated).
func (s *Server) ItemImageGet(w http.ResponseWriter, r *http.Request) {
	data, mime, err := s.Items.Image(r.Context(), r.PathValue("id"))
	if errors.Is(err, items.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to get image", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write image response", "error", err)
	}
}
