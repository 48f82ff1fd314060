// internal/adapters/places/client.go
package places

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"property_reviews/internal/adapters/observability"
	"property_reviews/internal/domain"
)

const (
	DefaultBase = "https://maps.googleapis.com/maps/api"

	// maxText bounds both review text and the raw-body excerpt on parse failures.
	maxText       = 400
	detailsFields = "rating,user_ratings_total,reviews"
	statusOK      = "OK"
)

type Client struct {
	base string
	hc   *http.Client
	key  string
}

type Option func(*Client)

// WithHTTPClient replaces the default client (used by tests to intercept transport).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// New builds a Places details client. An empty key is accepted here; every
// call then fails with NO_API_KEY before any request is made.
func New(base, key string, timeout time.Duration, opts ...Option) *Client {
	if base == "" {
		base = DefaultBase
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	c := &Client{base: base, hc: &http.Client{Timeout: timeout}, key: key}
	for _, o := range opts {
		o(c)
	}
	return c
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       *struct {
		Rating           *float64 `json:"rating"`
		UserRatingsTotal *int     `json:"user_ratings_total"`
		Reviews          []struct {
			AuthorName string   `json:"author_name"`
			Rating     *float64 `json:"rating"`
			Time       int64    `json:"time"`
			Text       string   `json:"text"`
		} `json:"reviews"`
	} `json:"result"`
}

// Details fetches rating, rating count and reviews for placeID. Single attempt,
// no retry. Failures are classified in order: NETWORK, PARSE, HTTP_<status>,
// then the upstream status field.
func (c *Client) Details(ctx context.Context, placeID string) (domain.PlaceDetails, error) {
	if c.key == "" {
		return domain.PlaceDetails{}, &domain.UpstreamError{
			Code:    domain.CodeNoAPIKey,
			Message: "GOOGLE_PLACES_API_KEY missing",
		}
	}

	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", detailsFields)
	q.Set("key", c.key)
	u := c.base + "/place/details/json?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.PlaceDetails{}, networkErr(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "property-reviews/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("places", "details", 0, time.Since(start))
		return domain.PlaceDetails{}, networkErr(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	observability.ObserveExternal("places", "details", resp.StatusCode, time.Since(start))
	if err != nil {
		return domain.PlaceDetails{}, networkErr(err)
	}

	var upstream any
	if err := json.Unmarshal(body, &upstream); err != nil {
		return domain.PlaceDetails{}, &domain.UpstreamError{
			Code:       domain.CodeParse,
			Message:    "Invalid JSON from Google Places",
			HTTPStatus: resp.StatusCode,
			Raw:        truncate(string(body), maxText),
			Err:        err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.PlaceDetails{}, &domain.UpstreamError{
			Code:       domain.HTTPCode(resp.StatusCode),
			Message:    "Non-200 from Google Places",
			HTTPStatus: resp.StatusCode,
			Upstream:   upstream,
		}
	}

	var dr detailsResponse
	_ = json.Unmarshal(body, &dr) // shape already validated as JSON; mismatched fields stay zero
	if dr.Status != statusOK {
		code := dr.Status
		if code == "" {
			code = domain.CodeGoogleError
		}
		msg := dr.ErrorMessage
		if msg == "" {
			msg = "Google Places returned non-OK status"
		}
		return domain.PlaceDetails{}, &domain.UpstreamError{
			Code:       code,
			Message:    msg,
			HTTPStatus: resp.StatusCode,
			Upstream:   upstream,
			Detail:     dr.ErrorMessage,
		}
	}

	out := domain.PlaceDetails{Reviews: []domain.PlaceReview{}}
	if dr.Result == nil {
		return out, nil
	}
	out.Rating = dr.Result.Rating
	if dr.Result.UserRatingsTotal != nil {
		out.UserRatingsTotal = *dr.Result.UserRatingsTotal
	}
	for _, rv := range dr.Result.Reviews {
		out.Reviews = append(out.Reviews, domain.PlaceReview{
			ID:     strconv.FormatInt(rv.Time, 10),
			Author: rv.AuthorName,
			Rating: rv.Rating,
			Time:   rv.Time,
			Text:   truncate(rv.Text, maxText),
		})
	}
	return out, nil
}

func networkErr(err error) error {
	return &domain.UpstreamError{
		Code:    domain.CodeNetwork,
		Message: "Network error contacting Google Places",
		Detail:  err.Error(),
		Err:     err,
	}
}

// truncate keeps at most n characters (runes), never splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
