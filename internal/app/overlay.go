package app

import "property_reviews/internal/domain"

// Overlay joins normalized listings with an approval snapshot. Neither input is
// mutated.
func Overlay(n domain.Normalized, snap domain.ApprovalSnapshot) domain.OverlaidListings {
	approved := snap.Set()
	out := make(domain.OverlaidListings, len(n.Listings))
	for name, l := range n.Listings {
		views := make([]domain.ReviewView, len(l.Reviews))
		for i, r := range l.Reviews {
			_, ok := approved[r.ID]
			views[i] = domain.ReviewView{CanonicalReview: r, Approved: ok}
		}
		out[name] = domain.ListingView{Reviews: views, Aggregates: l.Aggregates}
	}
	return out
}
