package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// SourceID is the upstream review identifier. Hostaway sends numbers, other
// exports send strings; both decode to the same textual form.
type SourceID struct {
	Value string
	Valid bool
}

func (s *SourceID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = SourceID{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = SourceID{Value: v, Valid: v != ""}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("review id: %w", err)
	}
	*s = SourceID{Value: n.String(), Valid: true}
	return nil
}

func (s SourceID) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(s.Value, 10, 64); err == nil {
		return []byte(s.Value), nil
	}
	return json.Marshal(s.Value)
}

// SourceReview is a review record as the property-management API returns it.
type SourceReview struct {
	ID             SourceID         `json:"id"`
	Type           string           `json:"type,omitempty"`
	Status         string           `json:"status,omitempty"`
	Rating         *float64         `json:"rating"`
	PublicReview   *string          `json:"publicReview,omitempty"`
	ReviewCategory []CategoryRating `json:"reviewCategory,omitempty"`
	SubmittedAt    string           `json:"submittedAt,omitempty"`
	GuestName      string           `json:"guestName,omitempty"`
	ListingName    string           `json:"listingName"`
	Channel        string           `json:"channel,omitempty"`
}

type CategoryRating struct {
	Category string   `json:"category"`
	Rating   *float64 `json:"rating"`
}

// CanonicalReview is the source-agnostic review shape. Approval status is
// never stored here; see ReviewView.
type CanonicalReview struct {
	ID           string             `json:"id"`
	ListingName  string             `json:"listingName"`
	Channel      string             `json:"channel"`
	GuestName    string             `json:"guestName,omitempty"`
	Type         string             `json:"type,omitempty"`
	Status       string             `json:"status,omitempty"`
	Rating       *float64           `json:"rating"`
	Categories   map[string]float64 `json:"categories"`
	PublicReview string             `json:"publicReview"`
	SubmittedAt  string             `json:"submittedAt"`
}

type Aggregates struct {
	AvgOverall          *float64           `json:"avgOverall"`
	Count               int                `json:"count"`
	PerCategoryAverages map[string]float64 `json:"perCategoryAverages"`
}

type Listing struct {
	Reviews    []CanonicalReview `json:"reviews"`
	Aggregates Aggregates        `json:"aggregates"`
}

type Meta struct {
	ListingCount int `json:"listingCount"`
	ReviewCount  int `json:"reviewCount"`
}

// Normalized is the Normalizer output: listings keyed by listing name.
type Normalized struct {
	Listings map[string]Listing `json:"listings"`
	Meta     Meta               `json:"meta"`
}

// ReviewView is a CanonicalReview joined with the approval set at read time.
type ReviewView struct {
	CanonicalReview
	Approved bool `json:"approved"`
}

type ListingView struct {
	Reviews    []ReviewView `json:"reviews"`
	Aggregates Aggregates   `json:"aggregates"`
}

type OverlaidListings map[string]ListingView

// ApprovalSnapshot is a read-only copy of the approved id set, in insertion order.
type ApprovalSnapshot struct {
	ApprovedReviewIDs []string `json:"approvedReviewIds"`
}

// Contains reports whether id is approved.
func (s ApprovalSnapshot) Contains(id string) bool {
	for _, v := range s.ApprovedReviewIDs {
		if v == id {
			return true
		}
	}
	return false
}

// Set returns the ids as a lookup set.
func (s ApprovalSnapshot) Set() map[string]struct{} {
	out := make(map[string]struct{}, len(s.ApprovedReviewIDs))
	for _, v := range s.ApprovedReviewIDs {
		out[v] = struct{}{}
	}
	return out
}

// With returns a copy with id appended unless already present.
func (s ApprovalSnapshot) With(id string) ApprovalSnapshot {
	out := s.Clone()
	if !s.Contains(id) {
		out.ApprovedReviewIDs = append(out.ApprovedReviewIDs, id)
	}
	return out
}

// Without returns a copy with every occurrence of id removed.
func (s ApprovalSnapshot) Without(id string) ApprovalSnapshot {
	out := ApprovalSnapshot{ApprovedReviewIDs: make([]string, 0, len(s.ApprovedReviewIDs))}
	for _, v := range s.ApprovedReviewIDs {
		if v != id {
			out.ApprovedReviewIDs = append(out.ApprovedReviewIDs, v)
		}
	}
	return out
}

// Clone returns a deep copy; a nil id list becomes empty.
func (s ApprovalSnapshot) Clone() ApprovalSnapshot {
	ids := make([]string, len(s.ApprovedReviewIDs))
	copy(ids, s.ApprovedReviewIDs)
	return ApprovalSnapshot{ApprovedReviewIDs: ids}
}

// Dedup drops repeated ids, keeping first occurrences.
func (s ApprovalSnapshot) Dedup() ApprovalSnapshot {
	seen := make(map[string]struct{}, len(s.ApprovedReviewIDs))
	out := ApprovalSnapshot{ApprovedReviewIDs: make([]string, 0, len(s.ApprovedReviewIDs))}
	for _, v := range s.ApprovedReviewIDs {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out.ApprovedReviewIDs = append(out.ApprovedReviewIDs, v)
	}
	return out
}
