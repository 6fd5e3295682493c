package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/regiomag/regiomag/internal/domain"
	"github.com/regiomag/regiomag/internal/httpserver/deps"
	"github.com/regiomag/regiomag/internal/library"
)

// SaveArticle creates or updates one content item in the library. Edits are
// local and instant; nothing reaches the store until an explicit sync.
func SaveArticle(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var a domain.Article
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			writeError(w, http.StatusBadRequest, "invalid article payload")
			return
		}

		if a.Title == "" {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}
		if a.Kind == "" {
			a.Kind = domain.KindArticle
		}
		if a.Kind != domain.KindArticle && a.Kind != domain.KindPage {
			writeError(w, http.StatusBadRequest, "unknown content type")
			return
		}
		if a.Kind == domain.KindArticle && !slices.Contains(d.Library.Categories(), a.Category) {
			writeError(w, http.StatusBadRequest, "unknown category: "+a.Category)
			return
		}

		created := a.ID == ""
		if created {
			a.ID = uuid.NewString()
		}
		if a.PublishedAt == "" {
			a.PublishedAt = time.Now().UTC().Format(time.RFC3339)
		}

		d.Library.UpsertArticle(a)
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writeJSON(w, status, a)
	}
}

// DeleteArticle removes one content item from the library.
func DeleteArticle(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !d.Library.DeleteArticle(chi.URLParam(r, "id")) {
			writeError(w, http.StatusNotFound, "article not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// SaveBusiness creates or updates one directory entry.
func SaveBusiness(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var b domain.Business
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			writeError(w, http.StatusBadRequest, "invalid business payload")
			return
		}

		if b.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		if !domain.ValidBusinessCategory(b.Category) {
			writeError(w, http.StatusBadRequest, "unknown directory category: "+string(b.Category))
			return
		}

		created := b.ID == ""
		if created {
			b.ID = uuid.NewString()
		}

		d.Library.UpsertBusiness(b)
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writeJSON(w, status, b)
	}
}

// DeleteBusiness removes one directory entry.
func DeleteBusiness(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !d.Library.DeleteBusiness(chi.URLParam(r, "id")) {
			writeError(w, http.StatusNotFound, "business not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type categoryRequest struct {
	Name string `json:"name"`
}

// AddCategory adds an editorial category.
func AddCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			writeError(w, http.StatusBadRequest, "category name is required")
			return
		}

		if err := d.Library.AddCategory(req.Name); err != nil {
			if errors.Is(err, library.ErrCategoryExists) {
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, categoriesResponse{Categories: d.Library.Categories()})
	}
}

// RemoveCategory deletes an editorial category. Categories still referenced
// by an article cannot be removed.
func RemoveCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if err := d.Library.RemoveCategory(name); err != nil {
			switch {
			case errors.Is(err, library.ErrCategoryInUse):
				writeError(w, http.StatusConflict, err.Error())
			case errors.Is(err, library.ErrNotFound):
				writeError(w, http.StatusNotFound, err.Error())
			default:
				writeError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusOK, categoriesResponse{Categories: d.Library.Categories()})
	}
}
