// internal/adapters/hostaway/client.go
package hostaway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"property_reviews/internal/adapters/observability"
	"property_reviews/internal/domain"
)

const DefaultBase = "https://api.hostaway.com/v1"

// reviewFields is the extraction priority for live bodies: the first key
// holding a JSON array wins.
var reviewFields = []string{"result", "reviews"}

type Client struct {
	base      string
	hc        *http.Client
	accountID string
	key       string
}

func New(base, accountID, key string, timeout time.Duration) *Client {
	if base == "" {
		base = DefaultBase
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		base:      base,
		hc:        &http.Client{Timeout: timeout},
		accountID: accountID,
		key:       key,
	}
}

func (c *Client) endpoint() string {
	q := url.Values{}
	q.Set("accountId", c.accountID)
	q.Set("limit", "100")
	q.Set("page", "1")
	return c.base + "/reviews?" + q.Encode()
}

// Fetch loads reviews from the live API. Missing credentials and non-2xx
// replies are reported as *domain.UpstreamError so callers can fall back.
func (c *Client) Fetch(ctx context.Context) (domain.SourceBatch, error) {
	if c.accountID == "" || c.key == "" {
		return domain.SourceBatch{}, &domain.UpstreamError{
			Code:    domain.CodeMissingCredentials,
			Message: "HOSTAWAY_ACCOUNT_ID and HOSTAWAY_API_KEY are required for live mode",
		}
	}

	u := c.endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.SourceBatch{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("X-Account-Id", c.accountID)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("hostaway", "reviews", 0, time.Since(start))
		return domain.SourceBatch{}, &domain.UpstreamError{
			Code:    domain.CodeNetwork,
			Message: "Network error contacting Hostaway",
			Detail:  err.Error(),
			Err:     err,
		}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	observability.ObserveExternal("hostaway", "reviews", resp.StatusCode, time.Since(start))
	if err != nil {
		return domain.SourceBatch{}, &domain.UpstreamError{Code: domain.CodeNetwork, Message: "read Hostaway body", Detail: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var detail any
		if json.Unmarshal(body, &detail) != nil {
			detail = map[string]string{"raw": string(body)}
		}
		return domain.SourceBatch{}, &domain.UpstreamError{
			Code:       domain.HTTPCode(resp.StatusCode),
			Message:    fmt.Sprintf("Hostaway responded %d", resp.StatusCode),
			HTTPStatus: resp.StatusCode,
			Upstream:   detail,
		}
	}

	reviews, err := extractReviews(body)
	if err != nil {
		return domain.SourceBatch{}, err
	}
	return domain.SourceBatch{Reviews: reviews, Mode: domain.ModeLive, Endpoint: u}, nil
}

// extractReviews walks reviewFields in order. A body without any of them
// yields an empty batch.
func extractReviews(body []byte) ([]domain.SourceReview, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &domain.UpstreamError{
			Code:    domain.CodeParse,
			Message: "Invalid JSON from Hostaway",
			Raw:     excerpt(body),
			Err:     err,
		}
	}
	for _, field := range reviewFields {
		raw, ok := envelope[field]
		if !ok || !isArray(raw) {
			continue
		}
		var out []domain.SourceReview
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("%w: hostaway %s: %v", domain.ErrMalformedSource, field, err)
		}
		return out, nil
	}
	return []domain.SourceReview{}, nil
}

func isArray(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '['
}

func excerpt(b []byte) string {
	if len(b) > 400 {
		b = b[:400]
	}
	return string(b)
}
