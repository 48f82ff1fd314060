package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceID_Decode(t *testing.T) {
	tests := []struct {
		in    string
		want  SourceID
		fails bool
	}{
		{`7453`, SourceID{Value: "7453", Valid: true}, false},
		{`"abc-1"`, SourceID{Value: "abc-1", Valid: true}, false},
		{`""`, SourceID{}, false},
		{`null`, SourceID{}, false},
		{`true`, SourceID{}, true},
		{`{"x":1}`, SourceID{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var r struct {
				ID SourceID `json:"id"`
			}
			err := json.Unmarshal([]byte(`{"id":`+tt.in+`}`), &r)
			if tt.fails {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.ID)
		})
	}
}

func TestSourceID_AbsentIsInvalid(t *testing.T) {
	var r SourceReview
	require.NoError(t, json.Unmarshal([]byte(`{"listingName":"A"}`), &r))
	assert.False(t, r.ID.Valid)
}

func TestSourceID_Encode(t *testing.T) {
	b, _ := json.Marshal(SourceID{Value: "7453", Valid: true})
	assert.Equal(t, `7453`, string(b))
	b, _ = json.Marshal(SourceID{Value: "g-1", Valid: true})
	assert.Equal(t, `"g-1"`, string(b))
	b, _ = json.Marshal(SourceID{})
	assert.Equal(t, `null`, string(b))
}

func TestApprovalSnapshot_Ops(t *testing.T) {
	var empty ApprovalSnapshot
	assert.NotNil(t, empty.Clone().ApprovedReviewIDs)

	s := empty.With("a").With("b").With("a")
	assert.Equal(t, []string{"a", "b"}, s.ApprovedReviewIDs)
	assert.True(t, s.Contains("b"))
	assert.False(t, s.Contains("c"))

	w := s.Without("a")
	assert.Equal(t, []string{"b"}, w.ApprovedReviewIDs)
	assert.Equal(t, []string{"a", "b"}, s.ApprovedReviewIDs, "receiver unchanged")

	assert.Equal(t, []string{"b", "a"},
		ApprovalSnapshot{ApprovedReviewIDs: []string{"b", "a", "b", "a"}}.Dedup().ApprovedReviewIDs)
	assert.Len(t, ApprovalSnapshot{ApprovedReviewIDs: []string{"x", "x"}}.Set(), 1)
}

func TestApprovalSnapshot_JSONShape(t *testing.T) {
	b, err := json.Marshal(ApprovalSnapshot{}.Clone())
	require.NoError(t, err)
	assert.JSONEq(t, `{"approvedReviewIds":[]}`, string(b))
}

func TestUpstreamError(t *testing.T) {
	cause := errors.New("dial failed")
	var err error = &UpstreamError{Code: CodeNetwork, Message: "net", Err: cause}

	assert.True(t, IsCode(err, CodeNetwork))
	assert.False(t, IsCode(err, CodeParse))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "NETWORK: net: dial failed", err.Error())
	assert.Equal(t, "HTTP_503", HTTPCode(503))
	assert.False(t, IsCode(cause, CodeNetwork))
}
