package app

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"

	"property_reviews/internal/domain"
)

// Picker chooses a place id when the caller does not supply one.
type Picker func() string

// NewRandomPicker picks uniformly from ids. A nil src uses the global generator.
func NewRandomPicker(ids []string, src rand.Source) Picker {
	cands := append([]string(nil), ids...)
	var r *rand.Rand
	if src != nil {
		r = rand.New(src)
	}
	return func() string {
		if len(cands) == 0 {
			return ""
		}
		if r != nil {
			return cands[r.IntN(len(cands))]
		}
		return cands[rand.IntN(len(cands))]
	}
}

// FixedPicker always returns id.
func FixedPicker(id string) Picker { return func() string { return id } }

type PlaceReviews struct {
	Status           string               `json:"status"`
	Mode             string               `json:"mode"`
	PlaceID          string               `json:"placeId"`
	Rating           *float64             `json:"rating"`
	UserRatingsTotal int                  `json:"userRatingsTotal"`
	Reviews          []domain.PlaceReview `json:"reviews"`
}

type PlaceReviewsService struct {
	client domain.PlacesClient
	pick   Picker
}

func NewPlaceReviewsService(c domain.PlacesClient, pick Picker) *PlaceReviewsService {
	return &PlaceReviewsService{client: c, pick: pick}
}

// Fetch returns live reviews for placeID, or for a picked place when placeID is
// blank. Every failure is a *domain.UpstreamError.
func (s *PlaceReviewsService) Fetch(ctx context.Context, placeID string) (PlaceReviews, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" && s.pick != nil {
		placeID = s.pick()
	}
	if placeID == "" {
		return PlaceReviews{}, &domain.UpstreamError{Code: domain.CodeMissingPlaceID, Message: "Missing placeId query parameter"}
	}

	d, err := s.client.Details(ctx, placeID)
	if err != nil {
		var ue *domain.UpstreamError
		if errors.As(err, &ue) {
			return PlaceReviews{}, ue
		}
		return PlaceReviews{}, &domain.UpstreamError{Code: domain.CodeNetwork, Message: "Places lookup failed", Detail: err.Error(), Err: err}
	}

	reviews := d.Reviews
	if reviews == nil {
		reviews = []domain.PlaceReview{}
	}
	return PlaceReviews{
		Status:           "success",
		Mode:             domain.ModeLive,
		PlaceID:          placeID,
		Rating:           d.Rating,
		UserRatingsTotal: d.UserRatingsTotal,
		Reviews:          reviews,
	}, nil
}
