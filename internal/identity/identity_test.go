package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/apperr"
)

func TestNormalize_PriorityOrder(t *testing.T) {
	tests := []struct {
		name   string
		claims Claims
		want   string
	}{
		{
			name: "sub wins over everything",
			claims: Claims{
				"sub":              "user-123",
				"username":         "jdoe",
				"cognito:username": "jdoe-cognito",
				"email":            "jdoe@example.com",
			},
			want: "user-123",
		},
		{
			name: "username wins when sub absent",
			claims: Claims{
				"username":         "jdoe",
				"cognito:username": "jdoe-cognito",
				"email":            "jdoe@example.com",
			},
			want: "jdoe",
		},
		{
			name: "cognito username wins over email",
			claims: Claims{
				"cognito:username": "jdoe-cognito",
				"email":            "jdoe@example.com",
			},
			want: "jdoe-cognito",
		},
		{
			name:   "email is the last resort",
			claims: Claims{"email": "jdoe@example.com"},
			want:   "jdoe@example.com",
		},
		{
			name: "blank sub falls through to username",
			claims: Claims{
				"sub":      "   ",
				"username": "jdoe",
			},
			want: "jdoe",
		},
		{
			name: "non-string sub falls through",
			claims: Claims{
				"sub":   42,
				"email": "jdoe@example.com",
			},
			want: "jdoe@example.com",
		},
		{
			name:   "whitespace is trimmed",
			claims: Claims{"sub": "  user-123  "},
			want:   "user-123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.claims)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	claims := Claims{"username": "jdoe", "email": "jdoe@example.com"}

	first, err := Normalize(claims)
	require.NoError(t, err)
	second, err := Normalize(claims)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Two distinct bags sharing the same candidate at the same position
	// must produce the same id.
	other, err := Normalize(Claims{"email": "a@b.com"})
	require.NoError(t, err)
	same, err := Normalize(Claims{"email": "a@b.com", "unrelated": "x"})
	require.NoError(t, err)
	assert.Equal(t, other, same)
}

func TestNormalize_FailsClosed(t *testing.T) {
	for _, claims := range []Claims{
		nil,
		{},
		{"sub": "", "email": "   "},
		{"sub": 1, "email": []string{"a@b.com"}},
		{"irrelevant": "value"},
	} {
		_, err := Normalize(claims)
		require.Error(t, err)
		assert.True(t, apperr.IsAuthorization(err))
	}
}
