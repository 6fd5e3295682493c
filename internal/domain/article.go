package domain

// Kind distinguishes editorial articles from static pages.
// Both live in the same collection and travel through the same snapshot.
type Kind string

const (
	KindArticle Kind = "article"
	KindPage    Kind = "page"
)

// Article is the canonical content item: a magazine article or a static page.
//
// It is a plain serializable record. There is no identity beyond ID, and the
// engagement counters (Views, Shares, ReadTime) are display-only: they are
// carried through sync unchanged and never recomputed by the server.
type Article struct {
	// ID is an opaque unique identifier within the content set.
	ID string `json:"id" yaml:"id"`

	// Kind is "article" or "page". Pages are excluded from category
	// navigation and from the magazine grid.
	Kind Kind `json:"type" yaml:"type"`

	Title   string `json:"title" yaml:"title"`
	Summary string `json:"summary" yaml:"summary"`

	// Content is authored rich HTML. It is stored verbatim.
	Content string `json:"content" yaml:"content"`

	ImageURL string `json:"imageUrl" yaml:"imageUrl"`

	// Category is a free-form name. For Kind "article" it is expected to
	// match an entry of the client-side category list; pages carry a
	// placeholder and have no membership requirement.
	Category string `json:"category" yaml:"category"`

	Author      string `json:"author" yaml:"author"`
	PublishedAt string `json:"publishedAt" yaml:"publishedAt"`

	// Featured marks the homepage lead. At most one article should carry
	// it; Normalize enforces this at the write boundary.
	Featured bool `json:"featured" yaml:"featured"`

	Views    int `json:"views" yaml:"views"`
	Shares   int `json:"shares" yaml:"shares"`
	ReadTime int `json:"readTime" yaml:"readTime"`

	VideoURL string `json:"videoUrl,omitempty" yaml:"videoUrl,omitempty"`
}

// IsPage reports whether the item is a static page.
func (a *Article) IsPage() bool { return a.Kind == KindPage }
