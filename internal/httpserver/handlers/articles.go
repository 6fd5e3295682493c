package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/regiomag/regiomag/internal/domain"
	"github.com/regiomag/regiomag/internal/httpserver/deps"
	"github.com/regiomag/regiomag/internal/library"
	"github.com/regiomag/regiomag/internal/logger"
)

type articleListResponse struct {
	Articles []domain.Article `json:"articles"`
	Total    int              `json:"total"`
}

// ListArticles serves the magazine grid: category filter, full-text search
// and pagination over the in-memory library.
func ListArticles(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := library.Query{
			Kind:     domain.KindArticle,
			Category: r.URL.Query().Get("category"),
			Search:   r.URL.Query().Get("search"),
			Offset:   queryInt(r, "offset", 0),
			Limit:    queryInt(r, "limit", 0),
		}

		articles, total := d.Library.Articles(q)
		writeJSON(w, http.StatusOK, articleListResponse{Articles: articles, Total: total})
	}
}

// ListPages serves the static pages (imprint, terms, ...).
func ListPages(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pages, total := d.Library.Articles(library.Query{Kind: domain.KindPage})
		writeJSON(w, http.StatusOK, articleListResponse{Articles: pages, Total: total})
	}
}

// GetArticle serves a single item and counts the view.
func GetArticle(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		a, ok := d.Library.Article(id)
		if !ok {
			writeError(w, http.StatusNotFound, "article not found")
			return
		}

		if d.Engagement != nil && !a.IsPage() {
			if _, err := d.Engagement.IncrementViews(r.Context(), id); err != nil {
				d.Logger.Warn("failed to count view",
					logger.String("article", id), logger.Error(err))
			}
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// GetFeatured serves the homepage lead article.
func GetFeatured(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := d.Library.Featured()
		if !ok {
			writeError(w, http.StatusNotFound, "no featured article")
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

type shareResponse struct {
	Shares int64 `json:"shares"`
}

// ShareArticle counts a share and returns the accumulated delta.
func ShareArticle(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := d.Library.Article(id); !ok {
			writeError(w, http.StatusNotFound, "article not found")
			return
		}

		var shares int64
		if d.Engagement != nil {
			n, err := d.Engagement.IncrementShares(r.Context(), id)
			if err != nil {
				d.Logger.Warn("failed to count share",
					logger.String("article", id), logger.Error(err))
			} else {
				shares = n
			}
		}
		writeJSON(w, http.StatusOK, shareResponse{Shares: shares})
	}
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
