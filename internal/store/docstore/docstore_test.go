package docstore

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regiomag/regiomag/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Articles: []domain.Article{
			{ID: "a1", Kind: domain.KindArticle, Title: "Wärmepumpen im Bestand", Category: "Technologie", PublishedAt: "2026-05-01"},
		},
		Directory: []domain.Business{
			{ID: "d1", Name: "Müller Haustechnik", Category: "Heizung", City: "Koblenz"},
		},
	}
}

func TestSetupIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	meta, created, err := s.Setup(ctx)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, meta.DocID)

	again, created, err := s.Setup(ctx)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, meta.DocID, again.DocID)
}

func TestLoadBeforeSetup(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, _, err = s.Text(context.Background())
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestFreshStoreIsEmptySnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, _, err := s.Setup(ctx)
	require.NoError(t, err)

	snap, rev, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), rev)
	assert.NotNil(t, snap.Articles)
	assert.NotNil(t, snap.Directory)
	assert.True(t, snap.IsEmpty())

	text, _, err := s.Text(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, `"articles": []`)
	assert.Contains(t, text, `"directory": []`)
}

func TestReplaceRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, _, err := s.Setup(ctx)
	require.NoError(t, err)

	rev, _, err := s.Replace(ctx, sampleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rev)

	snap, got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, rev, got)
	require.Len(t, snap.Articles, 1)
	assert.Equal(t, "Wärmepumpen im Bestand", snap.Articles[0].Title)
	require.Len(t, snap.Directory, 1)
	assert.Equal(t, "Müller Haustechnik", snap.Directory[0].Name)

	// stored body is pretty-printed
	text, _, err := s.Text(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "{\n"))
}

func TestReplaceBeforeSetup(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.Replace(context.Background(), sampleSnapshot())
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestReplaceIsLastWriterWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, _, err := s.Setup(ctx)
	require.NoError(t, err)

	first := sampleSnapshot()
	_, _, err = s.Replace(ctx, first)
	require.NoError(t, err)

	second := domain.Snapshot{
		Articles:  []domain.Article{{ID: "a9", Kind: domain.KindArticle, Title: "Neue Azubis gesucht"}},
		Directory: []domain.Business{},
	}
	rev, _, err := s.Replace(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), rev)

	snap, _, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Articles, 1)
	assert.Equal(t, "a9", snap.Articles[0].ID)
	assert.Empty(t, snap.Directory)
}

func TestCompareAndSwap(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, _, err := s.Setup(ctx)
	require.NoError(t, err)

	rev, _, err := s.CompareAndSwap(ctx, sampleSnapshot(), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rev)

	// stale revision loses
	_, _, err = s.CompareAndSwap(ctx, domain.EmptySnapshot(), 0)
	assert.ErrorIs(t, err, ErrRevisionConflict)

	// current revision wins
	rev, _, err = s.CompareAndSwap(ctx, domain.EmptySnapshot(), rev)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), rev)
}
