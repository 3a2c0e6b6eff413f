package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilterTerm(t *testing.T) {
	tests := []struct {
		name        string
		term        string
		expectError bool
		expected    string
	}{
		{
			name:     "empty term",
			term:     "",
			expected: "",
		},
		{
			name:     "simple title",
			term:     "The Go Programming Language",
			expected: "The Go Programming Language",
		},
		{
			name:     "trims whitespace",
			term:     "  tolkien  ",
			expected: "tolkien",
		},
		{
			name:     "author with punctuation",
			term:     "O'Brien, Flann",
			expected: "O'Brien, Flann",
		},
		{
			name:        "too long",
			term:        strings.Repeat("a", MaxFilterLength+1),
			expectError: true,
		},
		{
			name:        "control characters rejected",
			term:        "title\x00",
			expectError: true,
		},
		{
			name:        "angle brackets rejected",
			term:        "<script>",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateFilterTerm(tt.term)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "", EscapeLike(""))
	assert.Equal(t, "plain", EscapeLike("plain"))
	assert.Equal(t, "100\\% proof", EscapeLike("100% proof"))
	assert.Equal(t, "under\\_score", EscapeLike("under_score"))
	assert.Equal(t, "back\\\\slash", EscapeLike("back\\slash"))
}
