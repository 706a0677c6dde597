package search

import (
	"errors"
	"strings"
)

const (
	// DefaultLimit is the number of hits returned when no limit is given.
	DefaultLimit = 10
	// MaxLimit caps the number of hits per request.
	MaxLimit = 100
)

// ErrEmptyQuery is returned for blank search queries.
var ErrEmptyQuery = errors.New("query cannot be empty")

// ProcessQuery trims the query and clamps limit into [1, MaxLimit],
// using DefaultLimit for non-positive values.
func ProcessQuery(query string, limit int) (string, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", 0, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return query, limit, nil
}
