package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"property_reviews/internal/adapters/observability"
	"property_reviews/internal/domain"
)

type ApprovalService struct {
	store domain.ApprovalStore
}

func NewApprovalService(store domain.ApprovalStore) *ApprovalService {
	return &ApprovalService{store: store}
}

// Approve marks id approved. A blank id is rejected before the store is touched.
func (s *ApprovalService) Approve(ctx context.Context, id string) (domain.ApprovalSnapshot, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ApprovalSnapshot{}, domain.ErrMissingID
	}
	snap, err := s.store.Approve(ctx, id)
	if err != nil {
		observability.ObserveApproval("approve", "error")
		return domain.ApprovalSnapshot{}, err
	}
	observability.ObserveApproval("approve", "ok")
	log.Info().Str("review_id", id).Int("approved", len(snap.ApprovedReviewIDs)).Msg("review approved")
	return snap, nil
}

// Unapprove clears the approval of id. Removing an absent id is a no-op.
func (s *ApprovalService) Unapprove(ctx context.Context, id string) (domain.ApprovalSnapshot, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ApprovalSnapshot{}, domain.ErrMissingID
	}
	snap, err := s.store.Unapprove(ctx, id)
	if err != nil {
		observability.ObserveApproval("unapprove", "error")
		return domain.ApprovalSnapshot{}, err
	}
	observability.ObserveApproval("unapprove", "ok")
	log.Info().Str("review_id", id).Int("approved", len(snap.ApprovedReviewIDs)).Msg("review unapproved")
	return snap, nil
}

func (s *ApprovalService) Persistence() string { return s.store.Kind() }
