package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/minseo-dev/qr-orders/internal/menu"
)

type MenuStore interface {
	Menu(ctx context.Context, storeSlug string) ([]menu.Category, error)
}

type MenuHandler struct {
	Store MenuStore
}

func (h *MenuHandler) Register(r *chi.Mux) {
	r.With(middleware.Timeout(requestTimeout)).Get("/menu/{storeSlug}", h.menu)
}

func (h *MenuHandler) menu(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "storeSlug")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	categories, err := h.Store.Menu(ctx, slug)
	if err != nil {
		slog.Error("fetch menu failed", "store", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "unable to fetch menu")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"store": slug, "categories": categories})
}
