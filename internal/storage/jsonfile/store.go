// Package jsonfile persists approvals as a small JSON document:
//
//	{"approvedReviewIds": ["7453", "7455"]}
//
// Writes go to a temp file in the same directory and are renamed into place,
// so readers see either the old or the new document.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"property_reviews/internal/domain"
)

type Store struct {
	path string
	mu   sync.Mutex
}

// Open returns a store at path, creating an empty document (and parent
// directories) when none exists.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("approvals dir: %w", err)
		}
		if err := s.write(domain.ApprovalSnapshot{ApprovedReviewIDs: []string{}}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat approvals: %w", err)
	}
	return s, nil
}

func (s *Store) Load(ctx context.Context) (domain.ApprovalSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *Store) Approve(ctx context.Context, id string) (domain.ApprovalSnapshot, error) {
	return s.update(func(cur domain.ApprovalSnapshot) domain.ApprovalSnapshot { return cur.With(id) })
}

func (s *Store) Unapprove(ctx context.Context, id string) (domain.ApprovalSnapshot, error) {
	return s.update(func(cur domain.ApprovalSnapshot) domain.ApprovalSnapshot { return cur.Without(id) })
}

func (s *Store) Kind() string { return "file" }

// update runs read-modify-write under the store lock. The file is rewritten
// even when nothing changed so a hand-edited document gets deduplicated.
func (s *Store) update(fn func(domain.ApprovalSnapshot) domain.ApprovalSnapshot) (domain.ApprovalSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.read()
	if err != nil {
		return domain.ApprovalSnapshot{}, err
	}
	next := fn(cur)
	if err := s.write(next); err != nil {
		return domain.ApprovalSnapshot{}, err
	}
	return next.Clone(), nil
}

func (s *Store) read() (domain.ApprovalSnapshot, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ApprovalSnapshot{ApprovedReviewIDs: []string{}}, nil
	}
	if err != nil {
		return domain.ApprovalSnapshot{}, fmt.Errorf("read approvals: %w", err)
	}
	var snap domain.ApprovalSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return domain.ApprovalSnapshot{}, fmt.Errorf("parse approvals %s: %w", s.path, err)
	}
	return snap.Dedup(), nil
}

func (s *Store) write(snap domain.ApprovalSnapshot) error {
	b, err := json.MarshalIndent(snap.Clone(), "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".approvals-*.json")
	if err != nil {
		return fmt.Errorf("write approvals: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(b, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write approvals: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write approvals: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write approvals: %w", err)
	}
	return nil
}
