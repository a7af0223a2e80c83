package domain

import (
	"strings"
	"time"
)

// Field limits applied after sanitization.
const (
	MaxTitleLength   = 500
	MaxContentLength = 10000
	MaxAuthorLength  = 200
)

// Paging limits for the read operations.
const (
	DefaultPageLimit    = 20
	MaxPageLimit        = 100
	SuggestLimit        = 10
	DefaultShuffleLimit = 50
	MaxShuffleLimit     = 100
	DefaultTagLimit     = 20
	MaxTagLimit         = 100
)

// Language is the optional language of a quote.
type Language string

const (
	// LanguageUnset means the quote has no recorded language.
	LanguageUnset Language = ""

	// LanguageEnglish marks an English quote.
	LanguageEnglish Language = "en"

	// LanguageSpanish marks a Spanish quote.
	LanguageSpanish Language = "es"
)

// ParseLanguage returns the language for exactly "en" or "es".
// Any other value is treated as unset rather than rejected.
func ParseLanguage(s string) Language {
	switch Language(s) {
	case LanguageEnglish, LanguageSpanish:
		return Language(s)
	default:
		return LanguageUnset
	}
}

// IsSet reports whether the language is one of the known values.
func (l Language) IsSet() bool {
	return l == LanguageEnglish || l == LanguageSpanish
}

// SortOrder selects the createdAt ordering of list results.
type SortOrder string

const (
	// SortNewest orders by createdAt descending. It is the default.
	SortNewest SortOrder = "newest"

	// SortOldest orders by createdAt ascending.
	SortOldest SortOrder = "oldest"
)

// ParseSortOrder maps the query value onto a SortOrder.
// An empty value selects SortNewest.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "", SortNewest:
		return SortNewest, nil
	case SortOldest:
		return SortOldest, nil
	default:
		return "", NewValidationErrorWithValue("sort", "must be one of: newest oldest", s)
	}
}

// Quote is the central entity of the collection.
type Quote struct {
	// ID is assigned at creation and never changes.
	ID string

	// CreatedAt is assigned at creation. It is the sole sort and pagination key.
	CreatedAt time.Time

	Title   string
	Content string

	// Author is nil for unattributed quotes.
	Author *string

	Language Language

	// Hashtags are normalized tag names, unique within the quote.
	Hashtags []string
}

// QuoteSummary is the minimal projection used for title autocomplete.
type QuoteSummary struct {
	ID    string
	Title string
}

// QuoteFilter carries the search, filter and pagination inputs of a list query.
// Blank Query and Author, an empty Tags slice and an unset Language each mean
// "no filter" for that dimension.
type QuoteFilter struct {
	Query    string
	Author   string
	Tags     []string
	Language Language
	Sort     SortOrder

	// Cursor is the ID of the last quote of the previous page.
	Cursor string

	Limit int
}

// QuotePage is one page of list results.
type QuotePage struct {
	Items []Quote

	// NextCursor is empty when there are no further pages.
	NextCursor string
}

// HasMore reports whether another page follows.
func (p *QuotePage) HasMore() bool {
	return p.NextCursor != ""
}

// TagFilter carries the inputs of a tag suggestion query.
type TagFilter struct {
	Prefix   string
	Language Language
	Limit    int
}

// NewQuote carries the already-sanitized fields of a quote to be created.
type NewQuote struct {
	Title    string
	Content  string
	Author   *string
	Language Language
	Hashtags []string
}

// QuotePatch is a partial update. Nil pointers and false Set flags leave the
// stored value untouched.
type QuotePatch struct {
	Title   *string
	Content *string

	// AuthorSet with a nil Author clears the author.
	AuthorSet bool
	Author    *string

	LanguageSet bool
	Language    Language

	// HashtagsSet replaces the whole tag set with Hashtags.
	HashtagsSet bool
	Hashtags    []string
}

// IsEmpty reports whether the patch changes nothing.
func (p *QuotePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && !p.AuthorSet && !p.LanguageSet && !p.HashtagsSet
}

// ParseTagList normalizes the comma-separated tags query parameter:
// each name is trimmed, lowercased and stripped of one leading '#'.
// Empty names are dropped, so an empty input yields no tag filter.
func ParseTagList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))

	for _, p := range parts {
		name := NormalizeTagName(p)
		if name == "" {
			continue
		}

		if _, dup := seen[name]; dup {
			continue
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names
}

// NormalizeTagName trims, lowercases and removes one leading '#'.
func NormalizeTagName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimSpace(strings.TrimPrefix(s, "#"))
}
