package dto

import (
	"math"
	"strconv"
	"strings"

	"github.com/jsamuelsen/quotevault/internal/domain"
)

// DefaultLimit is the default number of items per page.
const DefaultLimit = domain.DefaultPageLimit

// MaxLimit is the maximum allowed items per page.
const MaxLimit = domain.MaxPageLimit

// PaginationRequest represents pagination parameters from the request.
type PaginationRequest struct {
	// Cursor is the id of the last item of the previous page.
	Cursor string `form:"cursor" json:"cursor"`

	// Limit is the maximum number of items to return (1-100, default 20).
	// A present but out-of-range value is rejected rather than clamped.
	Limit *int `form:"limit" json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the limit with defaults applied.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit == nil || *p.Limit <= 0 {
		return DefaultLimit
	}

	if *p.Limit > MaxLimit {
		return MaxLimit
	}

	return *p.Limit
}

// PaginatedResponse is a generic paginated response structure.
type PaginatedResponse[T any] struct {
	// Items is the array of items for this page.
	Items []T `json:"items"`

	// NextCursor is the cursor to use for the next page.
	// Empty if there are no more items.
	NextCursor string `json:"nextCursor,omitempty"`
}

// NewPaginatedResponse creates a paginated response. A nil slice is
// rendered as an empty JSON array.
func NewPaginatedResponse[T any](items []T, nextCursor string) *PaginatedResponse[T] {
	if items == nil {
		items = []T{}
	}

	return &PaginatedResponse[T]{
		Items:      items,
		NextCursor: nextCursor,
	}
}

// LenientLimit reads a limit query value the forgiving way: leading
// digits are used, a missing, zero or unparsable value falls back to def,
// and the result is clamped to 1..maxLimit.
func LenientLimit(raw string, def, maxLimit int) int {
	n := leadingInt(raw)
	if n == 0 {
		n = def
	}

	return min(max(n, 1), maxLimit)
}

// leadingInt parses an optionally signed run of leading digits,
// returning 0 when there is none.
func leadingInt(raw string) int {
	s := strings.TrimSpace(raw)

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}

	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	if end == digits {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Only overflow gets here; treat it as the largest request.
		if s[0] == '-' {
			return -1
		}

		return math.MaxInt
	}

	return n
}
