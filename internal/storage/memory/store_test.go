package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ApproveIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Approve(ctx, "7453")
	require.NoError(t, err)
	snap, err := s.Approve(ctx, "7453")
	require.NoError(t, err)
	assert.Equal(t, []string{"7453"}, snap.ApprovedReviewIDs)
}

func TestStore_UnapproveAbsentIsNoop(t *testing.T) {
	s := New("a")
	snap, err := s.Unapprove(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, snap.ApprovedReviewIDs)
}

func TestStore_InitialDedup(t *testing.T) {
	snap, err := New("a", "b", "a").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, snap.ApprovedReviewIDs)
}

func TestStore_LoadReturnsCopy(t *testing.T) {
	s := New("a")
	snap, _ := s.Load(context.Background())
	snap.ApprovedReviewIDs[0] = "x"

	again, _ := s.Load(context.Background())
	assert.Equal(t, []string{"a"}, again.ApprovedReviewIDs)
}

func TestStore_EmptyLoadIsNonNil(t *testing.T) {
	snap, err := New().Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap.ApprovedReviewIDs)
	assert.Empty(t, snap.ApprovedReviewIDs)
}

func TestStore_ConcurrentApprovals(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.Approve(context.Background(), fmt.Sprint(i))
		}(i)
	}
	wg.Wait()
	snap, _ := s.Load(context.Background())
	assert.Len(t, snap.ApprovedReviewIDs, 50)
}
