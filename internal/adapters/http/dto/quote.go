package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/jsamuelsen/quotevault/internal/app"
	"github.com/jsamuelsen/quotevault/internal/domain"
)

// TimestampLayout renders createdAt as ISO-8601 UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var jsonNull = []byte("null")

// ErrHashtagsType is returned when hashtags is neither a string nor a list of strings.
var ErrHashtagsType = errors.New("hashtags must be a string or an array of strings")

// QuoteResponse is the HTTP response structure for a quote.
type QuoteResponse struct {
	ID        string   `json:"id"`
	CreatedAt string   `json:"createdAt"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Author    *string  `json:"author"`
	Language  *string  `json:"language"`
	Hashtags  []string `json:"hashtags"`
}

// NewQuoteResponse converts a domain Quote to an HTTP response.
func NewQuoteResponse(q *domain.Quote) *QuoteResponse {
	resp := &QuoteResponse{
		ID:        q.ID,
		CreatedAt: FormatTimestamp(q.CreatedAt),
		Title:     q.Title,
		Content:   q.Content,
		Author:    q.Author,
		Hashtags:  q.Hashtags,
	}

	if q.Language.IsSet() {
		lang := string(q.Language)
		resp.Language = &lang
	}

	if resp.Hashtags == nil {
		resp.Hashtags = []string{}
	}

	return resp
}

// NewQuoteResponses converts a slice of quotes, never returning nil.
func NewQuoteResponses(quotes []domain.Quote) []*QuoteResponse {
	out := make([]*QuoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, NewQuoteResponse(&quotes[i]))
	}

	return out
}

// QuoteSummaryResponse is a title suggestion.
type QuoteSummaryResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ItemsResponse wraps a list that is not paginated.
type ItemsResponse[T any] struct {
	Items []T `json:"items"`
}

// NewSummaryItems converts title suggestions into their response envelope.
func NewSummaryItems(summaries []domain.QuoteSummary) *ItemsResponse[QuoteSummaryResponse] {
	items := make([]QuoteSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, QuoteSummaryResponse{ID: s.ID, Title: s.Title})
	}

	return &ItemsResponse[QuoteSummaryResponse]{Items: items}
}

// DeleteResponse acknowledges a deletion.
type DeleteResponse struct {
	Success bool `json:"success"`
}

// ListQuotesRequest holds the list/search query parameters.
type ListQuotesRequest struct {
	PaginationRequest

	Query    string `form:"q" json:"q"`
	Author   string `form:"author" json:"author"`
	Tags     string `form:"tags" json:"tags"`
	Language string `form:"language" json:"language"`
	Sort     string `form:"sort" json:"sort" validate:"omitempty,oneof=newest oldest"`
}

// ToInput converts the request to the service input.
func (r *ListQuotesRequest) ToInput() app.ListQuotesInput {
	return app.ListQuotesInput{
		Query:    r.Query,
		Author:   r.Author,
		Tags:     r.Tags,
		Language: r.Language,
		Sort:     r.Sort,
		Cursor:   r.Cursor,
		Limit:    r.GetLimit(),
	}
}

// HashtagsInput accepts either a single string ("#a #b") or a list of strings.
type HashtagsInput []string

// UnmarshalJSON implements json.Unmarshaler.
func (h *HashtagsInput) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	if bytes.Equal(trimmed, jsonNull) {
		*h = nil
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}

		*h = HashtagsInput{s}

		return nil
	}

	var list []string
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return ErrHashtagsType
	}

	*h = list

	return nil
}

// NullableString distinguishes an absent JSON field from an explicit null.
type NullableString struct {
	// Set is true when the field appeared in the document, even as null.
	Set   bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true

	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		n.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	n.Value = &s

	return nil
}

// CreateQuoteRequest is the body of POST /quotes.
type CreateQuoteRequest struct {
	Title    string        `json:"title" validate:"required,max=500"`
	Content  string        `json:"content" validate:"required,max=10000"`
	Author   *string       `json:"author" validate:"omitempty,max=200"`
	Language *string       `json:"language" validate:"omitempty,language"`
	Hashtags HashtagsInput `json:"hashtags"`
}

// Validate rejects a supplied language outside the known set. An empty
// string counts as supplied; only null or an absent field leaves it unset.
func (r *CreateQuoteRequest) Validate() error {
	if r.Language != nil && !domain.ParseLanguage(*r.Language).IsSet() {
		return domain.NewValidationError("language", validationMessages["language"])
	}

	return nil
}

// ToInput converts the request to the service input.
func (r *CreateQuoteRequest) ToInput() app.CreateQuoteInput {
	return app.CreateQuoteInput{
		Title:    r.Title,
		Content:  r.Content,
		Author:   r.Author,
		Language: r.Language,
		Hashtags: r.Hashtags,
	}
}

// UpdateQuoteRequest is the body of PATCH /quotes/:id. Every field is
// optional; author and language may be null to clear them.
type UpdateQuoteRequest struct {
	Title    *string        `json:"title" validate:"omitempty,min=1,max=500"`
	Content  *string        `json:"content" validate:"omitempty,min=1,max=10000"`
	Author   NullableString `json:"author"`
	Language NullableString `json:"language"`
	Hashtags *HashtagsInput `json:"hashtags"`
}

// Validate checks the nullable fields that struct tags cannot reach.
func (r *UpdateQuoteRequest) Validate() error {
	if r.Author.Value != nil && utf8.RuneCountInString(*r.Author.Value) > domain.MaxAuthorLength {
		return domain.NewValidationError("author", "must be at most 200 characters")
	}

	if r.Language.Value != nil && !domain.ParseLanguage(*r.Language.Value).IsSet() {
		return domain.NewValidationError("language", validationMessages["language"])
	}

	return nil
}

// ToInput converts the request to the service input.
func (r *UpdateQuoteRequest) ToInput() app.UpdateQuoteInput {
	in := app.UpdateQuoteInput{
		Title:       r.Title,
		Content:     r.Content,
		AuthorSet:   r.Author.Set,
		Author:      r.Author.Value,
		LanguageSet: r.Language.Set,
		Language:    r.Language.Value,
	}

	if r.Hashtags != nil {
		in.HashtagsSet = true
		in.Hashtags = *r.Hashtags
	}

	return in
}

// LoginRequest is the body of POST /auth/login. A missing or non-string
// password is treated as empty.
type LoginRequest struct {
	Password json.RawMessage `json:"password"`
}

// PasswordString returns the password when it is a JSON string, else "".
func (r *LoginRequest) PasswordString() string {
	var s string
	if err := json.Unmarshal(r.Password, &s); err != nil {
		return ""
	}

	return s
}

// OKResponse acknowledges login and logout.
type OKResponse struct {
	OK bool `json:"ok"`
}

// SessionResponse reports whether the caller holds a valid admin session.
type SessionResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

// FormatTimestamp renders t the way quote timestamps are rendered.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
