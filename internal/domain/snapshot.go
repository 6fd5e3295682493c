package domain

// Snapshot is the wire and storage representation of the entire content set:
// exactly {articles, directory}. The category list is deliberately not part of
// the snapshot; it is client-side state rebuilt from defaults and from the
// categories the synced articles reference.
type Snapshot struct {
	Articles  []Article  `json:"articles"`
	Directory []Business `json:"directory"`
}

// EmptySnapshot returns the canonical empty content set. An absent, empty or
// unparsable remote document is normalized to this value.
func EmptySnapshot() Snapshot {
	return Snapshot{Articles: []Article{}, Directory: []Business{}}
}

// IsEmpty reports whether the snapshot holds no content at all.
func (s Snapshot) IsEmpty() bool {
	return len(s.Articles) == 0 && len(s.Directory) == 0
}

// Clone returns a deep copy. Articles and businesses are value types, so
// copying the slices is sufficient.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Articles:  make([]Article, len(s.Articles)),
		Directory: make([]Business, len(s.Directory)),
	}
	copy(out.Articles, s.Articles)
	copy(out.Directory, s.Directory)
	return out
}
