package domain

import (
	"fmt"
)

// ValidationError describes a snapshot rejected at the write boundary.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid snapshot: " + e.Reason
}

// Validate checks the invariants every stored snapshot must hold:
// unique IDs across articles and across directory entries, non-empty IDs,
// known kinds, and directory categories from the closed set.
// Violations are rejected rather than silently persisted.
func Validate(s Snapshot) error {
	seen := make(map[string]struct{}, len(s.Articles))
	for i := range s.Articles {
		a := &s.Articles[i]
		if a.ID == "" {
			return &ValidationError{Reason: fmt.Sprintf("article %d has empty id", i)}
		}
		if _, dup := seen[a.ID]; dup {
			return &ValidationError{Reason: fmt.Sprintf("duplicate article id %q", a.ID)}
		}
		seen[a.ID] = struct{}{}
		if a.Kind != KindArticle && a.Kind != KindPage {
			return &ValidationError{Reason: fmt.Sprintf("article %q has unknown type %q", a.ID, a.Kind)}
		}
	}

	seen = make(map[string]struct{}, len(s.Directory))
	for i := range s.Directory {
		b := &s.Directory[i]
		if b.ID == "" {
			return &ValidationError{Reason: fmt.Sprintf("directory entry %d has empty id", i)}
		}
		if _, dup := seen[b.ID]; dup {
			return &ValidationError{Reason: fmt.Sprintf("duplicate directory id %q", b.ID)}
		}
		seen[b.ID] = struct{}{}
		if !ValidBusinessCategory(b.Category) {
			return &ValidationError{Reason: fmt.Sprintf("directory entry %q has unknown category %q", b.ID, b.Category)}
		}
	}

	return nil
}

// Normalize repairs the soft invariants that are normalized instead of
// rejected: at most one article carries the featured flag. When several do,
// the most recently published one keeps it (PublishedAt is ISO-8601, so the
// lexical maximum is the latest timestamp). Pages never stay featured.
func Normalize(s *Snapshot) {
	best := -1
	for i := range s.Articles {
		a := &s.Articles[i]
		if !a.Featured {
			continue
		}
		if a.IsPage() {
			a.Featured = false
			continue
		}
		if best == -1 || a.PublishedAt > s.Articles[best].PublishedAt {
			best = i
		}
	}
	if best == -1 {
		return
	}
	for i := range s.Articles {
		s.Articles[i].Featured = i == best
	}
}
