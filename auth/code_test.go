package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAccessCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{"valid code", "1023", false},
		{"too short", "123", true},
		{"too long", "12345", true},
		{"empty", "", true},
		{"letters", "12ab", true},
		{"with space", "12 3", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAccessCode(tt.code)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHashAndCheckAccessCode(t *testing.T) {
	hash, err := HashAccessCode("9001")
	require.NoError(t, err)
	assert.NotEqual(t, "9001", hash)

	assert.NoError(t, CheckAccessCode("9001", hash))
	assert.Error(t, CheckAccessCode("9002", hash))
}

func TestHashAccessCode_RejectsInvalid(t *testing.T) {
	_, err := HashAccessCode("abcd")
	assert.Error(t, err)
}
