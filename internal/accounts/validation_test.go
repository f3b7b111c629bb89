package accounts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCreateRequest(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		secret string
		cause  string
	}{
		{"valid", "Valid123Id", "Goodpass1", ""},
		{"id at minimum length", "abc123", "Goodpass1", ""},
		{"id at maximum length", strings.Repeat("a", 20), "Goodpass1", ""},
		{"secret with symbols", "Valid123Id", "P@ss~w0rd!", ""},
		{"secret at minimum length", "Valid123Id", "Secret12", ""},
		{"secret at maximum length", "Valid123Id", strings.Repeat("x", 20), ""},
		{"secret of only symbols at maximum length", "Valid123Id", "!#$%&'()*+,-./:;<=>?", ""},
		{"secret one under minimum", "Valid123Id", "Secret1", "secret must be 8-20 ASCII characters without spaces or control codes"},
		{"id too short", "ab123", "Goodpass1", "id must be 6-20 alphanumeric characters"},
		{"id too long", strings.Repeat("a", 21), "Goodpass1", "id must be 6-20 alphanumeric characters"},
		{"id with space", "has space", "Goodpass1", "id must be 6-20 alphanumeric characters"},
		{"id with symbol", "abc_123", "Goodpass1", "id must be 6-20 alphanumeric characters"},
		{"id non ascii", "abcdéf12", "Goodpass1", "id must be 6-20 alphanumeric characters"},
		{"secret too short", "Valid123Id", "short1!", "secret must be 8-20 ASCII characters without spaces or control codes"},
		{"secret too long", "Valid123Id", strings.Repeat("x", 21), "secret must be 8-20 ASCII characters without spaces or control codes"},
		{"secret with space", "Valid123Id", "Good pass1", "secret must be 8-20 ASCII characters without spaces or control codes"},
		{"secret with control byte", "Valid123Id", "Goodpass\x01", "secret must be 8-20 ASCII characters without spaces or control codes"},
		{"id reported before secret", "ab123", "short", "id must be 6-20 alphanumeric characters"},
		{"missing id", "", "Goodpass1", "required id and secret"},
		{"missing secret", "Valid123Id", "", "required id and secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreateRequest(&CreateAccountRequest{ID: tt.id, Secret: tt.secret})
			if tt.cause == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsErrorType(err, AccountErrorTypeValidationFailed))

			var accErr *AccountError
			require.ErrorAs(t, err, &accErr)
			assert.Equal(t, tt.cause, accErr.Message)
		})
	}
}

func TestValidateUpdateRequest(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name  string
		req   UpdateAccountRequest
		cause string
	}{
		{"empty request", UpdateAccountRequest{}, ""},
		{"empty values", UpdateAccountRequest{DisplayName: str(""), Note: str("")}, ""},
		{"display name at limit", UpdateAccountRequest{DisplayName: str(strings.Repeat("n", 30))}, ""},
		{"note at limit", UpdateAccountRequest{Note: str(strings.Repeat("c", 100))}, ""},
		{"multibyte counted as runes", UpdateAccountRequest{DisplayName: str(strings.Repeat("é", 30))}, ""},
		{"display name too long", UpdateAccountRequest{DisplayName: str(strings.Repeat("n", 31))}, "displayName too long"},
		{"note too long", UpdateAccountRequest{Note: str(strings.Repeat("c", 101))}, "note too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpdateRequest("abcdef123", &tt.req)
			if tt.cause == "" {
				assert.NoError(t, err)
				return
			}
			var accErr *AccountError
			require.ErrorAs(t, err, &accErr)
			assert.Equal(t, AccountErrorTypeValidationFailed, accErr.Type)
			assert.Equal(t, tt.cause, accErr.Message)
		})
	}
}

func TestUpdateAccountRequestPatch(t *testing.T) {
	note := "hi"
	req := UpdateAccountRequest{Note: &note, ID: []byte(`"other"`), Secret: []byte(`null`)}

	patch := req.Patch()
	assert.Nil(t, patch.DisplayName)
	assert.Equal(t, &note, patch.Note)
	assert.Equal(t, []string{"id", "secret"}, patch.Immutable)
}
