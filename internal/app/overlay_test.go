package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property_reviews/internal/app"
	"property_reviews/internal/domain"
)

func TestOverlay_ApprovedEverywhereItAppears(t *testing.T) {
	// r1 appears in two listings; approval is keyed by id only
	rs := decodeSource(t, `[
		{"id": "r1", "listingName": "A", "rating": 5},
		{"id": "r2", "listingName": "A", "rating": 4},
		{"id": "r1", "listingName": "B", "rating": 3},
		{"id": "r3", "listingName": "B"}
	]`)
	n, err := app.Normalize(rs)
	require.NoError(t, err)

	out := app.Overlay(n, domain.ApprovalSnapshot{ApprovedReviewIDs: []string{"r1"}})

	for name, l := range out {
		for _, r := range l.Reviews {
			assert.Equal(t, r.ID == "r1", r.Approved, "listing %s review %s", name, r.ID)
		}
	}
	assert.True(t, out["A"].Reviews[0].Approved)
	assert.True(t, out["B"].Reviews[0].Approved)
}

func TestOverlay_DoesNotMutateInputs(t *testing.T) {
	rs := decodeSource(t, `[{"id": "r1", "listingName": "A", "rating": 5}]`)
	n, err := app.Normalize(rs)
	require.NoError(t, err)
	snap := domain.ApprovalSnapshot{ApprovedReviewIDs: []string{"r1", "zz"}}

	out := app.Overlay(n, snap)
	out["A"].Reviews[0].ListingName = "changed"

	assert.Equal(t, []string{"r1", "zz"}, snap.ApprovedReviewIDs)
	assert.Equal(t, "A", n.Listings["A"].Reviews[0].ListingName)
	assert.Equal(t, n.Listings["A"].Aggregates, out["A"].Aggregates)
}

func TestOverlay_EmptySnapshot(t *testing.T) {
	rs := decodeSource(t, `[{"id": 1, "listingName": "A"}, {"id": 2, "listingName": "A"}]`)
	n, err := app.Normalize(rs)
	require.NoError(t, err)

	out := app.Overlay(n, domain.ApprovalSnapshot{})
	for _, r := range out["A"].Reviews {
		assert.False(t, r.Approved)
	}
}
