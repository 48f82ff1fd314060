package app

import (
	"property_reviews/internal/adapters/hostaway"
	"property_reviews/internal/adapters/places"
	"property_reviews/internal/domain"
	"property_reviews/internal/shared"
)

// Services bundles everything the API and the CLI call into.
type Services struct {
	Queries   *QueryService
	Approvals *ApprovalService
	Places    *PlaceReviewsService
}

// NewServices wires the upstream clients and store from cfg. Live Hostaway
// mode is attempted only when both credentials are set.
func NewServices(cfg shared.Config, store domain.ApprovalStore) Services {
	var live domain.ReviewSource
	if cfg.HostawayLive() {
		live = hostaway.New(cfg.HostawayBase, cfg.HostawayAccountID, cfg.HostawayKey, cfg.UpstreamTimeout)
	}
	pc := places.New(cfg.PlacesBase, cfg.PlacesKey, cfg.UpstreamTimeout)
	return Services{
		Queries:   NewQueryService(live, hostaway.NewFixture(), store),
		Approvals: NewApprovalService(store),
		Places:    NewPlaceReviewsService(pc, NewRandomPicker(cfg.PlaceIDs, nil)),
	}
}
