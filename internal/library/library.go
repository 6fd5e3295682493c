package library

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/regiomag/regiomag/internal/domain"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrCategoryExists = errors.New("category already exists")
	ErrCategoryInUse  = errors.New("category still referenced by articles")
)

// Library is the single owning store for the whole in-memory content set:
// articles, static pages, directory entries and the ordered category list.
// All browsing and every CMS edit goes through it; Replace is the one entry
// point that swaps the entire set (after a sync round trip).
//
// The category list is client-side state only. It never travels through the
// remote snapshot; Replace rebuilds it from the defaults plus any category a
// synced article references, preserving default order.
type Library struct {
	mu          sync.RWMutex
	articles    []domain.Article
	directory   []domain.Business
	categories  []string
	defaults    []string // default category order, fixed at construction
	lastReplace time.Time
}

// New creates an empty library with the given default category list.
func New(defaultCategories []string) *Library {
	defaults := make([]string, len(defaultCategories))
	copy(defaults, defaultCategories)
	categories := make([]string, len(defaults))
	copy(categories, defaults)
	return &Library{
		articles:   []domain.Article{},
		directory:  []domain.Business{},
		categories: categories,
		defaults:   defaults,
	}
}

// Replace swaps the entire content set for the given snapshot and rebuilds
// the category list. This is the adoption step after a successful sync: the
// echoed snapshot becomes the new source of truth wholesale.
func (l *Library) Replace(snap domain.Snapshot) {
	snap = snap.Clone()
	domain.Normalize(&snap)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.articles = snap.Articles
	l.directory = snap.Directory
	l.categories = l.rebuildCategoriesLocked()
	l.lastReplace = time.Now()
}

// rebuildCategoriesLocked returns defaults plus any extra category referenced
// by an article, extras appended in first-seen order.
func (l *Library) rebuildCategoriesLocked() []string {
	out := make([]string, len(l.defaults))
	copy(out, l.defaults)
	seen := make(map[string]bool, len(out))
	for _, c := range out {
		seen[c] = true
	}
	for i := range l.articles {
		a := &l.articles[i]
		if a.IsPage() || a.Category == "" || seen[a.Category] {
			continue
		}
		seen[a.Category] = true
		out = append(out, a.Category)
	}
	return out
}

// Snapshot exports a deep copy of the content set in wire form.
func (l *Library) Snapshot() domain.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return domain.Snapshot{Articles: l.articles, Directory: l.directory}.Clone()
}

// LastReplace returns when the content set was last swapped wholesale.
func (l *Library) LastReplace() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastReplace
}

// --- Articles

// Query filters the article listing.
type Query struct {
	Kind     domain.Kind // empty = articles and pages
	Category string      // empty = all categories
	Search   string      // case-insensitive match over title, summary, content
	Offset   int
	Limit    int // 0 = no limit
}

// Articles returns the filtered, newest-first page of items plus the total
// number of matches before pagination. A free-text search overrides the
// category filter, mirroring the magazine front-end behavior.
func (l *Library) Articles(q Query) ([]domain.Article, int) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(q.Search))

	matched := make([]domain.Article, 0, len(l.articles))
	for i := range l.articles {
		a := l.articles[i]
		if q.Kind != "" && a.Kind != q.Kind {
			continue
		}
		if search != "" {
			if !strings.Contains(strings.ToLower(a.Title), search) &&
				!strings.Contains(strings.ToLower(a.Summary), search) &&
				!strings.Contains(strings.ToLower(a.Content), search) {
				continue
			}
		} else if q.Category != "" && a.Category != q.Category {
			continue
		}
		matched = append(matched, a)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].PublishedAt > matched[j].PublishedAt
	})

	total := len(matched)
	if q.Offset > 0 {
		if q.Offset >= total {
			return []domain.Article{}, total
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, total
}

// Article retrieves a single item by ID.
func (l *Library) Article(id string) (domain.Article, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := range l.articles {
		if l.articles[i].ID == id {
			return l.articles[i], true
		}
	}
	return domain.Article{}, false
}

// Featured returns the homepage lead article, if any.
func (l *Library) Featured() (domain.Article, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := range l.articles {
		if l.articles[i].Featured && !l.articles[i].IsPage() {
			return l.articles[i], true
		}
	}
	return domain.Article{}, false
}

// UpsertArticle inserts or replaces an item by ID. Edits are local and
// optimistic; nothing is pushed remotely until an explicit sync.
func (l *Library) UpsertArticle(a domain.Article) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.articles {
		if l.articles[i].ID == a.ID {
			l.articles[i] = a
			l.categories = l.rebuildCategoriesLocked()
			return
		}
	}
	l.articles = append(l.articles, a)
	l.categories = l.rebuildCategoriesLocked()
}

// DeleteArticle removes an item. No tombstone, no undo.
func (l *Library) DeleteArticle(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.articles {
		if l.articles[i].ID == id {
			l.articles = append(l.articles[:i], l.articles[i+1:]...)
			return true
		}
	}
	return false
}

// --- Directory

// Businesses returns directory entries, optionally filtered by trade
// category, sorted by name.
func (l *Library) Businesses(category domain.BusinessCategory) []domain.Business {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Business, 0, len(l.directory))
	for i := range l.directory {
		if category != "" && l.directory[i].Category != category {
			continue
		}
		out = append(out, l.directory[i])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Business retrieves a directory entry by ID.
func (l *Library) Business(id string) (domain.Business, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := range l.directory {
		if l.directory[i].ID == id {
			return l.directory[i], true
		}
	}
	return domain.Business{}, false
}

// UpsertBusiness inserts or replaces a directory entry by ID.
func (l *Library) UpsertBusiness(b domain.Business) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.directory {
		if l.directory[i].ID == b.ID {
			l.directory[i] = b
			return
		}
	}
	l.directory = append(l.directory, b)
}

// DeleteBusiness removes a directory entry.
func (l *Library) DeleteBusiness(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.directory {
		if l.directory[i].ID == id {
			l.directory = append(l.directory[:i], l.directory[i+1:]...)
			return true
		}
	}
	return false
}

// --- Categories

// Categories returns the ordered category list; order drives the navigation
// menu.
func (l *Library) Categories() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, len(l.categories))
	copy(out, l.categories)
	return out
}

// AddCategory appends a new category name.
func (l *Library) AddCategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("empty category name")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, c := range l.categories {
		if c == name {
			return ErrCategoryExists
		}
	}
	l.categories = append(l.categories, name)
	return nil
}

// RemoveCategory deletes a category. Removal is refused while any article
// still references it, closing the category/content drift the UI used to
// allow.
func (l *Library) RemoveCategory(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.articles {
		if !l.articles[i].IsPage() && l.articles[i].Category == name {
			return ErrCategoryInUse
		}
	}
	for i, c := range l.categories {
		if c == name {
			l.categories = append(l.categories[:i], l.categories[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// --- Dashboard stats

// Stats are the CMS dashboard numbers.
type Stats struct {
	Articles    int `json:"articles"`
	Pages       int `json:"pages"`
	Businesses  int `json:"businesses"`
	Categories  int `json:"categories"`
	TotalViews  int `json:"totalViews"`
	AvgReadTime int `json:"avgReadTime"` // minutes, over articles only
}

// Stats computes the dashboard aggregate over the current content set.
func (l *Library) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var s Stats
	var readTotal int
	for i := range l.articles {
		a := &l.articles[i]
		if a.IsPage() {
			s.Pages++
			continue
		}
		s.Articles++
		s.TotalViews += a.Views
		readTotal += a.ReadTime
	}
	if s.Articles > 0 {
		s.AvgReadTime = readTotal / s.Articles
	}
	s.Businesses = len(l.directory)
	s.Categories = len(l.categories)
	return s
}
