package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/regiomag/regiomag/internal/domain"
	"github.com/regiomag/regiomag/internal/httpserver/deps"
	"github.com/regiomag/regiomag/internal/library"
	"github.com/regiomag/regiomag/internal/logger"
)

func browseDeps(t *testing.T) deps.Deps {
	t.Helper()
	lib := library.New([]string{"Technologie", "Regional"})
	lib.Replace(domain.Snapshot{
		Articles: []domain.Article{
			{ID: "a1", Kind: domain.KindArticle, Title: "Drohnen für Dach- und Kamininspektionen", Category: "Technologie", PublishedAt: "2026-08-10", Featured: true},
			{ID: "a2", Kind: domain.KindArticle, Title: "Fernwärmeausbau in der Metropolregion", Category: "Regional", PublishedAt: "2026-08-12"},
			{ID: "p1", Kind: domain.KindPage, Title: "Impressum", Category: "Page"},
		},
		Directory: []domain.Business{
			{ID: "d1", Name: "Lüftungsbau Schmidt", Category: domain.CategoryVentilation, City: "Weinheim"},
			{ID: "d2", Name: "Heizungstechnik Müller GmbH", Category: domain.CategoryHeating, City: "Mannheim"},
		},
	})
	return deps.Deps{Logger: logger.NewNop(), Library: lib}
}

func browseRouter(d deps.Deps) chi.Router {
	r := chi.NewRouter()
	r.Get("/api/articles", ListArticles(d))
	r.Get("/api/articles/featured", GetFeatured(d))
	r.Get("/api/articles/{id}", GetArticle(d))
	r.Post("/api/articles/{id}/share", ShareArticle(d))
	r.Get("/api/pages", ListPages(d))
	r.Get("/api/directory", ListDirectory(d))
	r.Get("/api/directory/{id}", GetBusiness(d))
	r.Get("/api/categories", ListCategories(d))
	return r
}

func get(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestListArticles(t *testing.T) {
	r := browseRouter(browseDeps(t))

	tests := []struct {
		name    string
		target  string
		wantIDs []string
	}{
		{name: "all newest first", target: "/api/articles", wantIDs: []string{"a2", "a1"}},
		{name: "category filter", target: "/api/articles?category=Technologie", wantIDs: []string{"a1"}},
		{name: "search", target: "/api/articles?search=fernwärme", wantIDs: []string{"a2"}},
		{name: "pagination", target: "/api/articles?offset=1&limit=1", wantIDs: []string{"a1"}},
		{name: "no match", target: "/api/articles?category=Energie", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, r, tt.target)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			var resp articleListResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			var ids []string
			for _, a := range resp.Articles {
				ids = append(ids, a.ID)
			}
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("ids = %v, want %v", ids, tt.wantIDs)
			}
			for i := range ids {
				if ids[i] != tt.wantIDs[i] {
					t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
					break
				}
			}
		})
	}
}

func TestGetArticle(t *testing.T) {
	r := browseRouter(browseDeps(t))

	w := get(t, r, "/api/articles/a1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var a domain.Article
	if err := json.Unmarshal(w.Body.Bytes(), &a); err != nil {
		t.Fatal(err)
	}
	if a.ID != "a1" {
		t.Errorf("article = %+v", a)
	}

	if w := get(t, r, "/api/articles/nope"); w.Code != http.StatusNotFound {
		t.Errorf("missing article status = %d", w.Code)
	}
}

func TestGetFeatured(t *testing.T) {
	r := browseRouter(browseDeps(t))
	w := get(t, r, "/api/articles/featured")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"a1"`) {
		t.Errorf("featured = %d %s", w.Code, w.Body.String())
	}
}

func TestListPages(t *testing.T) {
	r := browseRouter(browseDeps(t))
	w := get(t, r, "/api/pages")
	var resp articleListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Articles) != 1 || resp.Articles[0].ID != "p1" {
		t.Errorf("pages = %+v", resp.Articles)
	}
}

func TestListDirectory(t *testing.T) {
	r := browseRouter(browseDeps(t))

	w := get(t, r, "/api/directory")
	var resp directoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	// sorted by name
	if len(resp.Businesses) != 2 || resp.Businesses[0].ID != "d2" {
		t.Errorf("directory = %+v", resp.Businesses)
	}
	if len(resp.Categories) != len(domain.BusinessCategories) {
		t.Errorf("categories = %v", resp.Categories)
	}

	w = get(t, r, "/api/directory?category=Lüftung")
	resp = directoryResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Businesses) != 1 || resp.Businesses[0].ID != "d1" {
		t.Errorf("filtered directory = %+v", resp.Businesses)
	}

	if w := get(t, r, "/api/directory?category=Dachdecker"); w.Code != http.StatusBadRequest {
		t.Errorf("unknown trade status = %d", w.Code)
	}
}

func TestListCategories(t *testing.T) {
	r := browseRouter(browseDeps(t))
	w := get(t, r, "/api/categories")
	var resp categoriesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Categories) != 2 {
		t.Errorf("categories = %v", resp.Categories)
	}
}

func TestShareWithoutRedis(t *testing.T) {
	r := browseRouter(browseDeps(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/articles/a1/share", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp shareResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Shares != 0 {
		t.Errorf("shares without redis = %d", resp.Shares)
	}
}
