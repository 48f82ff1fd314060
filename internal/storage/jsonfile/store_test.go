package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "approvals.json")
	s, err := Open(path)
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"approvedReviewIds": []}`, string(b))

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap.ApprovedReviewIDs)
	assert.Empty(t, snap.ApprovedReviewIDs)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "approvals.json")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Approve(ctx, "7453")
	require.NoError(t, err)
	_, err = s.Approve(ctx, "7455")
	require.NoError(t, err)
	_, err = s.Approve(ctx, "7453")
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)
	snap, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"7453", "7455"}, snap.ApprovedReviewIDs)

	snap, err = reopened.Unapprove(ctx, "7453")
	require.NoError(t, err)
	assert.Equal(t, []string{"7455"}, snap.ApprovedReviewIDs)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"approvedReviewIds": ["7455"]}`, string(b))
}

func TestStore_DedupsHandEditedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "approvals.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"approvedReviewIds":["a","b","a"]}`), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, snap.ApprovedReviewIDs)

	_, err = s.Unapprove(context.Background(), "zzz")
	require.NoError(t, err)
	b, _ := os.ReadFile(path)
	assert.JSONEq(t, `{"approvedReviewIds":["a","b"]}`, string(b))
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "approvals.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Load(context.Background())
	assert.Error(t, err)
	_, err = s.Approve(context.Background(), "a")
	assert.Error(t, err)
}

func TestStore_ConcurrentApprovalsLoseNothing(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "approvals.json"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Approve(context.Background(), fmt.Sprint(i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.ApprovedReviewIDs, 25)
}

func TestStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "approvals.json"))
	require.NoError(t, err)
	_, err = s.Approve(context.Background(), "a")
	require.NoError(t, err)

	ents, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, ents, 1)
	assert.Equal(t, "approvals.json", ents[0].Name())
}
