package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pscheid92/forumclient/internal/platform/errors"
)

func validRegistration() Registration {
	return Registration{Username: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "L", Password: "Secret123"}
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Registration)
		wantErr string
	}{
		{"valid", func(*Registration) {}, ""},
		{"empty password allowed", func(r *Registration) { r.Password = "" }, ""},
		{"username too short", func(r *Registration) { r.Username = "a" }, "username"},
		{"username too long", func(r *Registration) { r.Username = strings.Repeat("x", 51) }, "username"},
		{"username at max", func(r *Registration) { r.Username = strings.Repeat("x", 50) }, ""},
		{"bad email", func(r *Registration) { r.Email = "not-an-email" }, "email"},
		{"email with display name", func(r *Registration) { r.Email = "Alice <alice@example.com>" }, "email"},
		{"password too short", func(r *Registration) { r.Password = "Ab1" }, "password"},
		{"password too long", func(r *Registration) { r.Password = "Abcdefghij1234567890x" }, "password"},
		{"password without upper", func(r *Registration) { r.Password = "secret123" }, "uppercase"},
		{"password without digit", func(r *Registration) { r.Password = "SecretPass" }, "digit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRegistration()
			tt.mutate(&r)

			err := ValidateRegistration(r)

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.TypeValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateRegistration_ListsEveryField(t *testing.T) {
	err := ValidateRegistration(Registration{Username: "a", Email: "x", Password: "short"})

	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "username")
	assert.Contains(t, msg, "email")
	assert.Contains(t, msg, "password")
}

func TestValidatePatch(t *testing.T) {
	assert.NoError(t, ValidatePatch(UserPatch{}))
	assert.NoError(t, ValidatePatch(UserPatch{FirstName: strPtr("")}))
	assert.NoError(t, ValidatePatch(UserPatch{Password: strPtr("")}))
	assert.Error(t, ValidatePatch(UserPatch{Username: strPtr("x")}))
	assert.Error(t, ValidatePatch(UserPatch{Password: strPtr("nocaps123")}))
}

func TestGeneratePassword(t *testing.T) {
	seen := make(map[string]bool)
	for range 200 {
		p, err := GeneratePassword()
		require.NoError(t, err)

		assert.Len(t, p, 8)
		for _, r := range p {
			assert.Contains(t, passwordAlphabet, string(r))
		}
		assert.Empty(t, checkPassword(p), p)
		assert.NoError(t, ValidatePatch(UserPatch{Password: &p}))
		seen[p] = true
	}
	assert.Greater(t, len(seen), 1)
}
