package handlers

import (
	"context"
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
	"github.com/regiomag/regiomag/internal/scheduler"
)

func cmsDeps(t *testing.T) deps.Deps {
	t.Helper()
	lib := library.New([]string{"Technologie"})
	lib.Replace(domain.Snapshot{
		Articles: []domain.Article{
			{ID: "a1", Kind: domain.KindArticle, Title: "Bestand", Category: "Technologie", PublishedAt: "2026-08-01"},
		},
		Directory: []domain.Business{
			{ID: "d1", Name: "Elektro-Technik Fischer", Category: domain.CategoryElectrical},
		},
	})
	return deps.Deps{Logger: logger.NewNop(), Library: lib}
}

func cmsRouter(d deps.Deps) chi.Router {
	r := chi.NewRouter()
	r.Put("/api/cms/articles", SaveArticle(d))
	r.Delete("/api/cms/articles/{id}", DeleteArticle(d))
	r.Put("/api/cms/directory", SaveBusiness(d))
	r.Delete("/api/cms/directory/{id}", DeleteBusiness(d))
	r.Post("/api/cms/categories", AddCategory(d))
	r.Delete("/api/cms/categories/{name}", RemoveCategory(d))
	r.Get("/api/cms/stats", GetStats(d))
	r.Post("/api/cms/sync", SyncNow(d))
	return r
}

func do(t *testing.T, r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSaveArticleCreate(t *testing.T) {
	d := cmsDeps(t)
	r := cmsRouter(d)

	w := do(t, r, http.MethodPut, "/api/cms/articles",
		`{"title":"Neu","type":"article","category":"Technologie"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var a domain.Article
	if err := json.Unmarshal(w.Body.Bytes(), &a); err != nil {
		t.Fatal(err)
	}
	if a.ID == "" {
		t.Error("create should mint an ID")
	}
	if a.PublishedAt == "" {
		t.Error("create should stamp publishedAt")
	}
	if _, ok := d.Library.Article(a.ID); !ok {
		t.Error("created article not in library")
	}
}

func TestSaveArticleUpdate(t *testing.T) {
	d := cmsDeps(t)
	r := cmsRouter(d)

	w := do(t, r, http.MethodPut, "/api/cms/articles",
		`{"id":"a1","title":"Geändert","type":"article","category":"Technologie","publishedAt":"2026-08-01"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	a, _ := d.Library.Article("a1")
	if a.Title != "Geändert" {
		t.Errorf("title = %q", a.Title)
	}
}

func TestSaveArticleRejections(t *testing.T) {
	r := cmsRouter(cmsDeps(t))

	tests := []struct {
		name string
		body string
	}{
		{name: "missing title", body: `{"type":"article","category":"Technologie"}`},
		{name: "unknown category", body: `{"title":"X","type":"article","category":"Unbekannt"}`},
		{name: "unknown type", body: `{"title":"X","type":"video","category":"Technologie"}`},
		{name: "garbage", body: `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(t, r, http.MethodPut, "/api/cms/articles", tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d", w.Code)
			}
		})
	}
}

func TestDeleteArticle(t *testing.T) {
	d := cmsDeps(t)
	r := cmsRouter(d)

	if w := do(t, r, http.MethodDelete, "/api/cms/articles/a1", ""); w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if _, ok := d.Library.Article("a1"); ok {
		t.Error("article still present")
	}
	if w := do(t, r, http.MethodDelete, "/api/cms/articles/a1", ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d", w.Code)
	}
}

func TestSaveBusiness(t *testing.T) {
	d := cmsDeps(t)
	r := cmsRouter(d)

	w := do(t, r, http.MethodPut, "/api/cms/directory",
		`{"name":"Bad & Fliese Lehmann","category":"Sanitär","city":"Speyer"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	if w := do(t, r, http.MethodPut, "/api/cms/directory",
		`{"name":"X","category":"Dachdecker"}`); w.Code != http.StatusBadRequest {
		t.Errorf("open-set category accepted: %d", w.Code)
	}
}

func TestDeleteBusiness(t *testing.T) {
	d := cmsDeps(t)
	r := cmsRouter(d)
	if w := do(t, r, http.MethodDelete, "/api/cms/directory/d1", ""); w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if w := do(t, r, http.MethodDelete, "/api/cms/directory/d1", ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d", w.Code)
	}
}

func TestCategoryEndpoints(t *testing.T) {
	d := cmsDeps(t)
	r := cmsRouter(d)

	if w := do(t, r, http.MethodPost, "/api/cms/categories", `{"name":"Messen"}`); w.Code != http.StatusCreated {
		t.Fatalf("add status = %d", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/api/cms/categories", `{"name":"Messen"}`); w.Code != http.StatusConflict {
		t.Errorf("duplicate add status = %d", w.Code)
	}

	// Technologie is referenced by a1
	if w := do(t, r, http.MethodDelete, "/api/cms/categories/Technologie", ""); w.Code != http.StatusConflict {
		t.Errorf("in-use delete status = %d", w.Code)
	}
	if w := do(t, r, http.MethodDelete, "/api/cms/categories/Messen", ""); w.Code != http.StatusOK {
		t.Errorf("delete status = %d", w.Code)
	}
	if w := do(t, r, http.MethodDelete, "/api/cms/categories/Nie", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing delete status = %d", w.Code)
	}
}

func TestGetStats(t *testing.T) {
	r := cmsRouter(cmsDeps(t))
	w := do(t, r, http.MethodGet, "/api/cms/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["articles"] != float64(1) {
		t.Errorf("stats = %v", resp)
	}
}

func TestSyncNow(t *testing.T) {
	d := cmsDeps(t)
	d.RunSync = func(ctx context.Context) error { return nil }
	r := cmsRouter(d)

	w := do(t, r, http.MethodPost, "/api/cms/sync", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"success"`) {
		t.Fatalf("sync = %d %s", w.Code, w.Body.String())
	}
}

func TestSyncNowInFlight(t *testing.T) {
	d := cmsDeps(t)
	d.RunSync = func(ctx context.Context) error { return scheduler.ErrSyncInFlight }
	r := cmsRouter(d)

	if w := do(t, r, http.MethodPost, "/api/cms/sync", ""); w.Code != http.StatusConflict {
		t.Errorf("in-flight status = %d", w.Code)
	}
}
