package app

import (
	"fmt"
	"math"
	"strings"

	"property_reviews/internal/domain"
)

const unknownChannel = "unknown"

// Normalize maps source reviews into canonical reviews grouped by listing name
// and computes per-listing aggregates. It fails on the first record without an
// id or listing name; there is no fallback id generation.
//
// Duplicate ids across listings are kept as-is. Approval is keyed by id alone,
// so both copies share one approval state.
func Normalize(in []domain.SourceReview) (domain.Normalized, error) {
	out := domain.Normalized{Listings: make(map[string]domain.Listing)}
	order := make([]string, 0)
	grouped := make(map[string][]domain.CanonicalReview)

	for i, sr := range in {
		cr, err := canonical(sr)
		if err != nil {
			return domain.Normalized{}, fmt.Errorf("review #%d: %w", i, err)
		}
		if _, seen := grouped[cr.ListingName]; !seen {
			order = append(order, cr.ListingName)
		}
		grouped[cr.ListingName] = append(grouped[cr.ListingName], cr)
	}

	for _, name := range order {
		rs := grouped[name]
		out.Listings[name] = domain.Listing{Reviews: rs, Aggregates: aggregate(rs)}
		out.Meta.ReviewCount += len(rs)
	}
	out.Meta.ListingCount = len(order)
	return out, nil
}

func canonical(sr domain.SourceReview) (domain.CanonicalReview, error) {
	if !sr.ID.Valid {
		return domain.CanonicalReview{}, fmt.Errorf("%w: id is required", domain.ErrMalformedSource)
	}
	listing := strings.TrimSpace(sr.ListingName)
	if listing == "" {
		return domain.CanonicalReview{}, fmt.Errorf("%w: review %s has no listingName", domain.ErrMalformedSource, sr.ID.Value)
	}

	cats := make(map[string]float64, len(sr.ReviewCategory))
	scores := make([]float64, 0, len(sr.ReviewCategory))
	for _, c := range sr.ReviewCategory {
		if c.Category == "" || c.Rating == nil {
			continue
		}
		cats[c.Category] = *c.Rating
		scores = append(scores, *c.Rating)
	}

	var rating *float64
	switch {
	case sr.Rating != nil:
		r := *sr.Rating
		rating = &r
	case len(scores) > 0:
		r := roundHalfUp(mean(scores), 1)
		rating = &r
	}

	channel := sr.Channel
	if channel == "" {
		channel = unknownChannel
	}
	body := ""
	if sr.PublicReview != nil {
		body = *sr.PublicReview
	}

	return domain.CanonicalReview{
		ID:           sr.ID.Value,
		ListingName:  listing,
		Channel:      channel,
		GuestName:    sr.GuestName,
		Type:         sr.Type,
		Status:       sr.Status,
		Rating:       rating,
		Categories:   cats,
		PublicReview: body,
		SubmittedAt:  sr.SubmittedAt,
	}, nil
}

func aggregate(rs []domain.CanonicalReview) domain.Aggregates {
	agg := domain.Aggregates{Count: len(rs), PerCategoryAverages: map[string]float64{}}

	var sum float64
	var n int
	catSum := map[string]float64{}
	catN := map[string]int{}
	for _, r := range rs {
		if r.Rating != nil {
			sum += *r.Rating
			n++
		}
		for c, v := range r.Categories {
			catSum[c] += v
			catN[c]++
		}
	}
	if n > 0 {
		avg := sum / float64(n)
		agg.AvgOverall = &avg
	}
	for c, s := range catSum {
		agg.PerCategoryAverages[c] = s / float64(catN[c])
	}
	return agg
}

func mean(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

// roundHalfUp rounds non-negative x to the given number of decimals, halves up.
// The small bias absorbs binary representation error (4.45 -> 4.5).
func roundHalfUp(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Floor(x*p+0.5+1e-9) / p
}
