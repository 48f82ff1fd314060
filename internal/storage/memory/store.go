package memory

import (
	"context"
	"sync"

	"property_reviews/internal/domain"
)

// Store keeps approvals in process memory; they are lost on restart.
type Store struct {
	mu   sync.RWMutex
	snap domain.ApprovalSnapshot
}

func New(initial ...string) *Store {
	return &Store{snap: domain.ApprovalSnapshot{ApprovedReviewIDs: initial}.Dedup()}
}

func (s *Store) Load(ctx context.Context) (domain.ApprovalSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone(), nil
}

func (s *Store) Approve(ctx context.Context, id string) (domain.ApprovalSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = s.snap.With(id)
	return s.snap.Clone(), nil
}

func (s *Store) Unapprove(ctx context.Context, id string) (domain.ApprovalSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = s.snap.Without(id)
	return s.snap.Clone(), nil
}

func (s *Store) Kind() string { return "ephemeral" }
