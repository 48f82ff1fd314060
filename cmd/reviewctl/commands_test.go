package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), out.String())
	return out.Bytes()
}

func setupEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "approvals.json")
	t.Setenv("APPROVAL_BACKEND", "file")
	t.Setenv("APPROVALS_FILE", path)
	t.Setenv("HOSTAWAY_ACCOUNT_ID", "")
	t.Setenv("HOSTAWAY_API_KEY", "")
	t.Setenv("REVIEWS_CONFIG", "")
	return path
}

func TestApprovalsCommands(t *testing.T) {
	path := setupEnv(t)

	run(t, "approvals", "approve", "7453")
	run(t, "approvals", "approve", "7455")
	out := run(t, "approvals", "unapprove", "7453")

	var body struct {
		IDs         []string `json:"approvedReviewIds"`
		Persistence string   `json:"persistence"`
	}
	require.NoError(t, json.Unmarshal(out, &body))
	assert.Equal(t, []string{"7455"}, body.IDs)
	assert.Equal(t, "file", body.Persistence)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"approvedReviewIds":["7455"]}`, string(b))

	require.NoError(t, json.Unmarshal(run(t, "approvals", "list"), &body))
	assert.Equal(t, []string{"7455"}, body.IDs)
}

func TestApprovalsBlankIDFails(t *testing.T) {
	setupEnv(t)
	cmd := rootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"approvals", "approve", "  "})
	assert.Error(t, cmd.Execute())
}

func TestNormalizeRawFromFile(t *testing.T) {
	setupEnv(t)
	src := filepath.Join(t.TempDir(), "reviews.json")
	require.NoError(t, os.WriteFile(src, []byte(`[
		{"id": 1, "listingName": "Flat A", "rating": 8},
		{"id": 2, "listingName": "Flat A", "rating": null,
		 "reviewCategory": [{"category": "cleanliness", "rating": 6}]}
	]`), 0o644))

	var n struct {
		Listings map[string]struct {
			Aggregates struct {
				AvgOverall *float64 `json:"avgOverall"`
				Count      int      `json:"count"`
			} `json:"aggregates"`
		} `json:"listings"`
		Meta struct {
			ListingCount int `json:"listingCount"`
			ReviewCount  int `json:"reviewCount"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(run(t, "normalize", "--file", src, "--raw"), &n))
	require.Contains(t, n.Listings, "Flat A")
	agg := n.Listings["Flat A"].Aggregates
	assert.Equal(t, 2, agg.Count)
	require.NotNil(t, agg.AvgOverall)
	assert.InDelta(t, 7.0, *agg.AvgOverall, 1e-9)
	assert.Equal(t, 1, n.Meta.ListingCount)
	assert.Equal(t, 2, n.Meta.ReviewCount)
}

func TestNormalizeOverlaysApprovals(t *testing.T) {
	setupEnv(t)
	run(t, "approvals", "approve", "7454")

	var body struct {
		Mode     string `json:"mode"`
		Listings map[string]struct {
			Reviews []struct {
				ID       string `json:"id"`
				Approved bool   `json:"approved"`
			} `json:"reviews"`
		} `json:"listings"`
	}
	require.NoError(t, json.Unmarshal(run(t, "normalize"), &body))
	assert.Equal(t, "mock", body.Mode)
	approved := 0
	for _, l := range body.Listings {
		for _, r := range l.Reviews {
			if r.Approved {
				approved++
				assert.Equal(t, "7454", r.ID)
			}
		}
	}
	assert.Equal(t, 1, approved)
}
