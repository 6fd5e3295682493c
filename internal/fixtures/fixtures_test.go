package fixtures

import (
	"testing"

	"github.com/regiomag/regiomag/internal/domain"
)

func TestLoad(t *testing.T) {
	snap, categories, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(snap.Articles) == 0 {
		t.Fatal("expected seed articles")
	}
	if len(snap.Directory) == 0 {
		t.Fatal("expected seed directory entries")
	}

	wantCategories := []string{
		"Branchen-News",
		"Betriebs-Features",
		"Personal & Karriere",
		"Technologie",
		"Energie & Nachhaltigkeit",
		"Regional",
	}
	if len(categories) != len(wantCategories) {
		t.Fatalf("categories = %v, want %v", categories, wantCategories)
	}
	for i, c := range wantCategories {
		if categories[i] != c {
			t.Errorf("categories[%d] = %q, want %q", i, categories[i], c)
		}
	}
}

func TestLoadHasPagesAndFeatured(t *testing.T) {
	snap, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	var pages, featured int
	for _, a := range snap.Articles {
		if a.IsPage() {
			pages++
		}
		if a.Featured {
			featured++
		}
	}
	if pages == 0 {
		t.Error("expected at least one static page in the seed content")
	}
	if featured != 1 {
		t.Errorf("featured articles = %d, want exactly 1", featured)
	}
}

func TestLoadDirectoryCategoriesAreClosedSet(t *testing.T) {
	snap, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for _, b := range snap.Directory {
		if !domain.ValidBusinessCategory(b.Category) {
			t.Errorf("business %s has category %q outside the closed set", b.ID, b.Category)
		}
	}
}
