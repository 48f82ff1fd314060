package domain

// PlaceDetails is what the places upstream reports for one place.
type PlaceDetails struct {
	Rating           *float64      `json:"rating"`
	UserRatingsTotal int           `json:"userRatingsTotal"`
	Reviews          []PlaceReview `json:"reviews"`
}

type PlaceReview struct {
	ID     string   `json:"id"`
	Author string   `json:"author"`
	Rating *float64 `json:"rating"`
	Time   int64    `json:"time"`
	Text   string   `json:"text"`
}

// SourceBatch is one load of raw property reviews plus where they came from.
type SourceBatch struct {
	Reviews  []SourceReview
	Mode     string // live|mock
	Endpoint string
}

const (
	ModeLive = "live"
	ModeMock = "mock"
)
