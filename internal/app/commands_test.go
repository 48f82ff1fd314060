package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property_reviews/internal/app"
	"property_reviews/internal/domain"
	"property_reviews/internal/storage/memory"
)

type countingStore struct {
	*memory.Store
	mutations int
}

func (c *countingStore) Approve(ctx context.Context, id string) (domain.ApprovalSnapshot, error) {
	c.mutations++
	return c.Store.Approve(ctx, id)
}

func (c *countingStore) Unapprove(ctx context.Context, id string) (domain.ApprovalSnapshot, error) {
	c.mutations++
	return c.Store.Unapprove(ctx, id)
}

func TestApprovalService_RejectsBlankIDWithoutTouchingStore(t *testing.T) {
	st := &countingStore{Store: memory.New()}
	svc := app.NewApprovalService(st)

	for _, id := range []string{"", "   "} {
		_, err := svc.Approve(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrMissingID)
		_, err = svc.Unapprove(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrMissingID)
	}
	assert.Equal(t, 0, st.mutations)
}

func TestApprovalService_RoundTrip(t *testing.T) {
	st := memory.New("a")
	svc := app.NewApprovalService(st)
	ctx := context.Background()

	snap, err := svc.Approve(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, snap.ApprovedReviewIDs)

	snap, err = svc.Approve(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, snap.ApprovedReviewIDs)

	snap, err = svc.Unapprove(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, snap.ApprovedReviewIDs)
	assert.Equal(t, "ephemeral", svc.Persistence())
}
