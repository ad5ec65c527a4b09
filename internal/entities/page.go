package entities

// Default pagination values applied when a caller leaves them unset.
const (
	DefaultLimit  = 10
	DefaultOffset = 0
	MaxLimit      = 100
)

// ListParams carries pagination and entity-specific filters for list and
// search calls. A zero Limit means DefaultLimit.
type ListParams struct {
	Limit   int
	Offset  int
	Filters map[string]string
}

// Page is the list payload returned inside the backend envelope.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}
