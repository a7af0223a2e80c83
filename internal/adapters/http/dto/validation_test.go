package dto

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotevault/internal/domain"
)

func jsonContext(t *testing.T, body string) *gin.Context {
	t.Helper()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	return c
}

func TestValidator(t *testing.T) {
	v1 := Validator()
	v2 := Validator()

	assert.NotNil(t, v1)
	assert.Same(t, v1, v2)
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		errType error
	}{
		{name: "valid", body: `{"title":"t","content":"c","language":"en"}`},
		{name: "malformed json", body: `{invalid}`, errType: ErrBinding},
		{name: "missing content", body: `{"title":"t"}`, errType: ErrValidation},
		{name: "unsupported language", body: `{"title":"t","content":"c","language":"fr"}`, errType: ErrValidation},
		{name: "empty language string", body: `{"title":"t","content":"c","language":""}`, errType: ErrValidation},
		{name: "author too long", body: `{"title":"t","content":"c","author":"` + strings.Repeat("a", 201) + `"}`, errType: ErrValidation},
		{name: "null language is allowed", body: `{"title":"t","content":"c","language":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateQuoteRequest
			err := BindAndValidate(jsonContext(t, tt.body), &req)

			if tt.errType != nil {
				require.ErrorIs(t, err, tt.errType)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestBindQueryAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		errType error
	}{
		{name: "valid query", query: "?limit=10&cursor=abc&sort=oldest"},
		{name: "empty query", query: ""},
		{name: "limit out of range", query: "?limit=150", errType: ErrValidation},
		{name: "negative limit", query: "?limit=-1", errType: ErrValidation},
		{name: "unknown sort", query: "?sort=random", errType: ErrValidation},
		{name: "non-numeric limit", query: "?limit=ten", errType: ErrBinding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/quotes"+tt.query, nil)

			var req ListQuotesRequest
			err := BindQueryAndValidate(c, &req)

			if tt.errType != nil {
				require.ErrorIs(t, err, tt.errType)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestValidationErrors(t *testing.T) {
	err := Validate(&CreateQuoteRequest{Content: strings.Repeat("c", 10001)})
	require.Error(t, err)

	got := ValidationErrors(err)

	assert.Equal(t, map[string]string{
		"title":   "this field is required",
		"content": "must be at most 10000 characters",
	}, got)

	t.Run("non-validation error returns empty map", func(t *testing.T) {
		assert.Empty(t, ValidationErrors(errors.New("some error")))
	})
}

func TestValidationDetails(t *testing.T) {
	err := ValidateAll(&UpdateQuoteRequest{Language: NullableString{Set: true, Value: strPtr("de")}})
	require.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, map[string]string{"language": "must be one of: en es"}, ValidationDetails(err))
}

func TestBindFailure(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
		wantField   string
	}{
		{name: "malformed", body: `{"title":`, wantMessage: MessageInvalidRequest},
		{name: "hashtags not strings", body: `{"title":"t","content":"c","hashtags":{"a":1}}`, wantMessage: MessageValidationFailed, wantField: "hashtags"},
		{name: "title wrong type", body: `{"title":5,"content":"c"}`, wantMessage: MessageValidationFailed, wantField: "title"},
		{name: "missing title", body: `{"content":"c"}`, wantMessage: MessageValidationFailed, wantField: "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateQuoteRequest
			err := BindAndValidate(jsonContext(t, tt.body), &req)
			require.Error(t, err)

			msg, details := BindFailure(err)

			assert.Equal(t, tt.wantMessage, msg)

			if tt.wantField == "" {
				assert.Nil(t, details)
			} else {
				assert.Contains(t, details, tt.wantField)
			}
		})
	}
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(Validate(&CreateQuoteRequest{})))
	assert.False(t, IsValidationError(errors.New("some error")))
	assert.False(t, IsValidationError(nil))
}

func TestValidationMessage(t *testing.T) {
	type testStruct struct {
		Name     string `validate:"required"`
		UUID     string `validate:"uuid"`
		Count    int    `validate:"min=1,max=10"`
		Sort     string `validate:"oneof=newest oldest"`
		Text     string `validate:"min=5,max=100"`
		Age      int    `validate:"gte=0,lte=120"`
		Username string `validate:"notempty"`
		Language string `validate:"language"`
	}

	input := &testStruct{
		Name:     "",
		UUID:     "not-a-uuid",
		Count:    20,
		Sort:     "random",
		Text:     "abc",
		Age:      150,
		Username: "  ",
		Language: "de",
	}

	err := Validator().Struct(input)

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)

	expectedMessages := map[string]string{
		"Name":     "this field is required",
		"UUID":     "must be a valid UUID",
		"Count":    "must be at most 10",
		"Sort":     "must be one of: newest oldest",
		"Text":     "must be at least 5 characters",
		"Age":      "must be less than or equal to 120",
		"Username": "must not be empty",
		"Language": "must be one of: en es",
	}

	assert.Len(t, validationErrs, len(expectedMessages))

	for _, fe := range validationErrs {
		assert.Equal(t, expectedMessages[fe.Field()], validationMessage(fe), "field: %s", fe.Field())
	}
}

func TestMinMaxMessage(t *testing.T) {
	tests := []struct {
		name  string
		tag   string
		param string
		kind  reflect.Kind
		want  string
	}{
		{name: "min for string", tag: "min", param: "5", kind: reflect.String, want: "must be at least 5 characters"},
		{name: "max for string", tag: "max", param: "500", kind: reflect.String, want: "must be at most 500 characters"},
		{name: "min for int", tag: "min", param: "1", kind: reflect.Int, want: "must be at least 1"},
		{name: "max for int", tag: "max", param: "10", kind: reflect.Int, want: "must be at most 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, minMaxMessage(tt.tag, tt.param, tt.kind))
		})
	}
}

func TestValidateUUID(t *testing.T) {
	type testStruct struct {
		ID string `validate:"uuid"`
	}

	assert.NoError(t, Validator().Struct(&testStruct{ID: "123e4567-e89b-12d3-a456-426614174000"}))
	assert.NoError(t, Validator().Struct(&testStruct{ID: ""}))
	assert.Error(t, Validator().Struct(&testStruct{ID: "not-a-uuid"}))
}

func TestValidateNotEmpty(t *testing.T) {
	type testStruct struct {
		Name string `validate:"notempty"`
	}

	assert.NoError(t, Validator().Struct(&testStruct{Name: "  hello  "}))
	assert.Error(t, Validator().Struct(&testStruct{Name: ""}))
	assert.Error(t, Validator().Struct(&testStruct{Name: "\t  \n"}))
}

type validatableTestStruct struct {
	Name string `validate:"required"`
}

func (v *validatableTestStruct) Validate() error {
	if v.Name == "forbidden" {
		return domain.NewValidationError("name", "cannot be forbidden")
	}

	return nil
}

func TestValidateAll(t *testing.T) {
	var _ Validatable = (*validatableTestStruct)(nil)

	tests := []struct {
		name    string
		input   *validatableTestStruct
		wantErr bool
	}{
		{name: "valid input", input: &validatableTestStruct{Name: "valid"}},
		{name: "struct validation fails", input: &validatableTestStruct{Name: ""}, wantErr: true},
		{name: "custom validation fails", input: &validatableTestStruct{Name: "forbidden"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAll(tt.input)

			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				return
			}

			require.NoError(t, err)
		})
	}
}
