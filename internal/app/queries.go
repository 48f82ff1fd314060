package app

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"property_reviews/internal/domain"
)

// PropertyReviews is the approval-augmented view served to the dashboard.
type PropertyReviews struct {
	Mode        string
	Endpoint    string
	Listings    domain.OverlaidListings
	Meta        domain.Meta
	Persistence string
}

type QueryService struct {
	live    domain.ReviewSource // nil when live mode is not configured
	fixture domain.ReviewSource
	store   domain.ApprovalStore
}

func NewQueryService(live, fixture domain.ReviewSource, store domain.ApprovalStore) *QueryService {
	return &QueryService{live: live, fixture: fixture, store: store}
}

// PropertyReviews loads the current approval set, fetches and normalizes the
// source reviews, and overlays approval status. The live source falls back to
// the fixture when credentials are missing or upstream answers non-2xx.
func (s *QueryService) PropertyReviews(ctx context.Context) (PropertyReviews, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return PropertyReviews{}, err
	}

	batch, err := s.fetch(ctx)
	if err != nil {
		return PropertyReviews{}, err
	}

	n, err := Normalize(batch.Reviews)
	if err != nil {
		return PropertyReviews{}, err
	}

	return PropertyReviews{
		Mode:        batch.Mode,
		Endpoint:    batch.Endpoint,
		Listings:    Overlay(n, snap),
		Meta:        n.Meta,
		Persistence: s.store.Kind(),
	}, nil
}

// Approvals returns the current approval snapshot.
func (s *QueryService) Approvals(ctx context.Context) (domain.ApprovalSnapshot, error) {
	return s.store.Load(ctx)
}

// Persistence is the label of the backing approval store.
func (s *QueryService) Persistence() string { return s.store.Kind() }

func (s *QueryService) fetch(ctx context.Context) (domain.SourceBatch, error) {
	if s.live == nil {
		return s.fixture.Fetch(ctx)
	}
	batch, err := s.live.Fetch(ctx)
	if err == nil {
		return batch, nil
	}
	if !fallsBackToFixture(err) {
		return domain.SourceBatch{}, err
	}
	log.Warn().Err(err).Msg("live property reviews unavailable, serving fixture")
	return s.fixture.Fetch(ctx)
}

func fallsBackToFixture(err error) bool {
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) {
		return false
	}
	return ue.Code == domain.CodeMissingCredentials || strings.HasPrefix(ue.Code, "HTTP_")
}
