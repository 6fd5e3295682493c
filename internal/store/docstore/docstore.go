// Package docstore persists the content snapshot as a single JSON document
// in Badger. The document is only ever replaced wholesale, never patched; a
// monotonic revision accompanies every write so callers can opt into
// compare-and-swap semantics instead of silent last-writer-wins.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/regiomag/regiomag/internal/domain"
)

const (
	keyMeta     = "doc:meta"
	keyContent  = "doc:content"
	keyRevision = "doc:rev"
)

var (
	// ErrNotInitialized means Setup has not been run for this data
	// directory. Recoverable only by running setup out-of-band.
	ErrNotInitialized = errors.New("document store not initialized, run setup")

	// ErrRevisionConflict means a compare-and-swap write lost the race.
	ErrRevisionConflict = errors.New("document revision conflict")
)

// Meta records the backing document's identity, written once by Setup.
type Meta struct {
	DocID     string    `json:"docId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store is the Badger-backed document store.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens an ephemeral store. Used in tests.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Setup creates the backing document once: a fresh opaque identifier, the
// canonical empty snapshot and revision zero. If the document already exists
// the call is a no-op. The returned Meta describes the document either way.
func (s *Store) Setup(ctx context.Context) (Meta, bool, error) {
	var meta Meta
	created := false

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyMeta))
		if err == nil {
			return item.Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			})
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		now := time.Now().UTC()
		meta = Meta{DocID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
		created = true

		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		body, err := json.MarshalIndent(domain.EmptySnapshot(), "", "  ")
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(keyMeta), metaJSON); err != nil {
			return err
		}
		if err := txn.Set([]byte(keyContent), body); err != nil {
			return err
		}
		return txn.Set([]byte(keyRevision), []byte("0"))
	})
	if err != nil {
		return Meta{}, false, fmt.Errorf("setup failed: %w", err)
	}
	return meta, created, nil
}

// Initialized reports whether Setup has been run.
func (s *Store) Initialized(ctx context.Context) (bool, error) {
	var ok bool
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyMeta))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		ok = true
		return nil
	})
	return ok, err
}

// Text returns the raw document body and its revision. An absent or
// whitespace-only body is normalized to the pretty-printed empty snapshot, so
// the read path always answers with valid JSON.
func (s *Store) Text(ctx context.Context) (string, uint64, error) {
	var text string
	var rev uint64

	err := s.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(keyMeta)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotInitialized
		} else if err != nil {
			return err
		}

		item, err := txn.Get([]byte(keyContent))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err == nil {
			if err := item.Value(func(val []byte) error {
				text = string(val)
				return nil
			}); err != nil {
				return err
			}
		}

		rev, err = readRevision(txn)
		return err
	})
	if err != nil {
		return "", 0, err
	}

	if strings.TrimSpace(text) == "" {
		body, _ := json.MarshalIndent(domain.EmptySnapshot(), "", "  ")
		text = string(body)
	}
	return text, rev, nil
}

// Load returns the parsed snapshot and its revision. An unparsable body is
// treated as the empty snapshot rather than an error.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, uint64, error) {
	text, rev, err := s.Text(ctx)
	if err != nil {
		return domain.Snapshot{}, 0, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(text), &snap); err != nil {
		return domain.EmptySnapshot(), rev, nil
	}
	if snap.Articles == nil {
		snap.Articles = []domain.Article{}
	}
	if snap.Directory == nil {
		snap.Directory = []domain.Business{}
	}
	return snap, rev, nil
}

// Replace overwrites the entire document with the given snapshot:
// last-writer-wins, no conflict detection. Returns the new revision and the
// write timestamp.
func (s *Store) Replace(ctx context.Context, snap domain.Snapshot) (uint64, time.Time, error) {
	return s.write(ctx, snap, nil)
}

// CompareAndSwap overwrites the document only if its current revision equals
// expected, turning concurrent overwrites into a detectable
// ErrRevisionConflict instead of silent data loss.
func (s *Store) CompareAndSwap(ctx context.Context, snap domain.Snapshot, expected uint64) (uint64, time.Time, error) {
	return s.write(ctx, snap, &expected)
}

func (s *Store) write(ctx context.Context, snap domain.Snapshot, expected *uint64) (uint64, time.Time, error) {
	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	now := time.Now().UTC()
	var newRev uint64

	err = s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyMeta))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotInitialized
		}
		if err != nil {
			return err
		}

		rev, err := readRevision(txn)
		if err != nil {
			return err
		}
		if expected != nil && rev != *expected {
			return ErrRevisionConflict
		}
		newRev = rev + 1

		var meta Meta
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		}); err != nil {
			return err
		}
		meta.UpdatedAt = now
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return err
		}

		if err := txn.Set([]byte(keyContent), body); err != nil {
			return err
		}
		if err := txn.Set([]byte(keyRevision), []byte(strconv.FormatUint(newRev, 10))); err != nil {
			return err
		}
		return txn.Set([]byte(keyMeta), metaJSON)
	})
	if err != nil {
		return 0, time.Time{}, err
	}
	return newRev, now, nil
}

func readRevision(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get([]byte(keyRevision))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var rev uint64
	err = item.Value(func(val []byte) error {
		rev, err = strconv.ParseUint(string(val), 10, 64)
		return err
	})
	return rev, err
}
