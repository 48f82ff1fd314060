package hostaway

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"property_reviews/internal/domain"
)

// FixtureEndpoint labels batches served from the bundled dataset.
const FixtureEndpoint = "mock:hostawayReviews.json"

//go:embed fixtures/hostawayReviews.json
var bundled []byte

// Fixture serves a static review dataset. It decodes on every Fetch so the
// returned slice is never shared between requests.
type Fixture struct {
	data []byte
}

// NewFixture returns the bundled dataset.
func NewFixture() *Fixture { return &Fixture{data: bundled} }

// NewFixtureFromBytes serves data instead of the bundled dataset.
func NewFixtureFromBytes(data []byte) *Fixture { return &Fixture{data: data} }

func (f *Fixture) Fetch(ctx context.Context) (domain.SourceBatch, error) {
	var rs []domain.SourceReview
	dec := json.NewDecoder(bytes.NewReader(f.data))
	if err := dec.Decode(&rs); err != nil {
		return domain.SourceBatch{}, fmt.Errorf("%w: fixture: %v", domain.ErrMalformedSource, err)
	}
	return domain.SourceBatch{Reviews: rs, Mode: domain.ModeMock, Endpoint: FixtureEndpoint}, nil
}
