package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotevault/internal/app"
	"github.com/jsamuelsen/quotevault/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestNewQuoteResponse(t *testing.T) {
	tests := []struct {
		name  string
		input *domain.Quote
		want  string
	}{
		{
			name: "full quote",
			input: &domain.Quote{
				ID:        "q-1",
				CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 6_000_000, time.FixedZone("CET", 3600)),
				Title:     "Title",
				Content:   "Content",
				Author:    strPtr("Author"),
				Language:  domain.LanguageSpanish,
				Hashtags:  []string{"a", "b"},
			},
			want: `{
				"id": "q-1",
				"createdAt": "2025-01-02T02:04:05.006Z",
				"title": "Title",
				"content": "Content",
				"author": "Author",
				"language": "es",
				"hashtags": ["a", "b"]
			}`,
		},
		{
			name: "optional fields render as null and empty list",
			input: &domain.Quote{
				ID:        "q-2",
				CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
				Title:     "Title",
				Content:   "Content",
			},
			want: `{
				"id": "q-2",
				"createdAt": "2025-01-02T03:04:05.000Z",
				"title": "Title",
				"content": "Content",
				"author": null,
				"language": null,
				"hashtags": []
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(NewQuoteResponse(tt.input))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(body))
		})
	}
}

func TestNewQuoteResponses_NeverNil(t *testing.T) {
	body, err := json.Marshal(ItemsResponse[*QuoteResponse]{Items: NewQuoteResponses(nil)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(body))
}

func TestNewSummaryItems(t *testing.T) {
	got := NewSummaryItems([]domain.QuoteSummary{{ID: "q-1", Title: "One"}})

	assert.Equal(t, []QuoteSummaryResponse{{ID: "q-1", Title: "One"}}, got.Items)
	assert.Empty(t, NewSummaryItems(nil).Items)
	assert.NotNil(t, NewSummaryItems(nil).Items)
}

func TestHashtagsInput_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    HashtagsInput
		wantErr error
	}{
		{name: "single string", input: `"#a #b"`, want: HashtagsInput{"#a #b"}},
		{name: "list", input: `["a","b"]`, want: HashtagsInput{"a", "b"}},
		{name: "empty list", input: `[]`, want: HashtagsInput{}},
		{name: "null", input: `null`, want: nil},
		{name: "number", input: `7`, wantErr: ErrHashtagsType},
		{name: "mixed list", input: `["a",1]`, wantErr: ErrHashtagsType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got HashtagsInput
			err := json.Unmarshal([]byte(tt.input), &got)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNullableString_UnmarshalJSON(t *testing.T) {
	type body struct {
		Author NullableString `json:"author"`
	}

	tests := []struct {
		name      string
		input     string
		wantSet   bool
		wantValue *string
		wantErr   bool
	}{
		{name: "absent", input: `{}`},
		{name: "null", input: `{"author":null}`, wantSet: true},
		{name: "value", input: `{"author":"Ada"}`, wantSet: true, wantValue: strPtr("Ada")},
		{name: "empty string", input: `{"author":""}`, wantSet: true, wantValue: strPtr("")},
		{name: "wrong type", input: `{"author":3}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got body
			err := json.Unmarshal([]byte(tt.input), &got)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSet, got.Author.Set)
			assert.Equal(t, tt.wantValue, got.Author.Value)
		})
	}
}

func TestUpdateQuoteRequest_ToInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  app.UpdateQuoteInput
	}{
		{
			name:  "empty body changes nothing",
			input: `{}`,
			want:  app.UpdateQuoteInput{},
		},
		{
			name:  "null clears author and language",
			input: `{"author":null,"language":null}`,
			want:  app.UpdateQuoteInput{AuthorSet: true, LanguageSet: true},
		},
		{
			name:  "null hashtags are ignored",
			input: `{"hashtags":null}`,
			want:  app.UpdateQuoteInput{},
		},
		{
			name:  "fields are carried",
			input: `{"title":"T","content":"C","author":"A","language":"en","hashtags":"x y"}`,
			want: app.UpdateQuoteInput{
				Title:       strPtr("T"),
				Content:     strPtr("C"),
				AuthorSet:   true,
				Author:      strPtr("A"),
				LanguageSet: true,
				Language:    strPtr("en"),
				HashtagsSet: true,
				Hashtags:    []string{"x y"},
			},
		},
		{
			name:  "empty hashtag list clears tags",
			input: `{"hashtags":[]}`,
			want:  app.UpdateQuoteInput{HashtagsSet: true, Hashtags: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateQuoteRequest
			require.NoError(t, json.Unmarshal([]byte(tt.input), &req))
			require.NoError(t, ValidateAll(&req))

			assert.Equal(t, tt.want, req.ToInput())
		})
	}
}

func TestUpdateQuoteRequest_Validate(t *testing.T) {
	long := make([]byte, domain.MaxAuthorLength+1)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name    string
		req     UpdateQuoteRequest
		wantErr bool
	}{
		{name: "empty", req: UpdateQuoteRequest{}},
		{name: "author at limit", req: UpdateQuoteRequest{Author: NullableString{Set: true, Value: strPtr(string(long[1:]))}}},
		{name: "author too long", req: UpdateQuoteRequest{Author: NullableString{Set: true, Value: strPtr(string(long))}}, wantErr: true},
		{name: "supported language", req: UpdateQuoteRequest{Language: NullableString{Set: true, Value: strPtr("es")}}},
		{name: "unsupported language", req: UpdateQuoteRequest{Language: NullableString{Set: true, Value: strPtr("de")}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()

			if tt.wantErr {
				assert.True(t, domain.IsValidation(err))
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestCreateQuoteRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		language *string
		wantErr  bool
	}{
		{name: "absent", language: nil},
		{name: "english", language: strPtr("en")},
		{name: "spanish", language: strPtr("es")},
		{name: "empty string", language: strPtr(""), wantErr: true},
		{name: "unknown", language: strPtr("fr"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := CreateQuoteRequest{Title: "t", Content: "c", Language: tt.language}
			err := req.Validate()

			if tt.wantErr {
				assert.True(t, domain.IsValidation(err))
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestLoginRequest_PasswordString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: `{"password":"secret"}`, want: "secret"},
		{input: `{"password":42}`, want: ""},
		{input: `{"password":null}`, want: ""},
		{input: `{"password":["secret"]}`, want: ""},
		{input: `{}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var req LoginRequest
			require.NoError(t, json.Unmarshal([]byte(tt.input), &req))
			assert.Equal(t, tt.want, req.PasswordString())
		})
	}
}

func TestListQuotesRequest_ToInput(t *testing.T) {
	req := ListQuotesRequest{
		PaginationRequest: PaginationRequest{Cursor: "q-9", Limit: intPtr(5)},
		Query:             "love",
		Author:            "Ada",
		Tags:              "a,b",
		Language:          "en",
		Sort:              "oldest",
	}

	assert.Equal(t, app.ListQuotesInput{
		Query:    "love",
		Author:   "Ada",
		Tags:     "a,b",
		Language: "en",
		Sort:     "oldest",
		Cursor:   "q-9",
		Limit:    5,
	}, req.ToInput())
}
