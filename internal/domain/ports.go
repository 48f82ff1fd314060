package domain

import "context"

// ApprovalStore holds the approved review ids. Mutators are idempotent and
// serialize their read-modify-write.
type ApprovalStore interface {
	Load(ctx context.Context) (ApprovalSnapshot, error)
	Approve(ctx context.Context, id string) (ApprovalSnapshot, error)
	Unapprove(ctx context.Context, id string) (ApprovalSnapshot, error)
	// Kind is the persistence label echoed to clients (ephemeral|file|redis|mysql).
	Kind() string
}

// ReviewSource loads raw property reviews.
type ReviewSource interface {
	Fetch(ctx context.Context) (SourceBatch, error)
}

// PlacesClient fetches rating and reviews for one place id.
type PlacesClient interface {
	Details(ctx context.Context, placeID string) (PlaceDetails, error)
}
