package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserPatch_Apply(t *testing.T) {
	u := User{ID: "1", Username: "alice", Email: "a@example.com", FirstName: "Alice", LastName: "Liddell"}

	got := UserPatch{FirstName: strPtr("Alicia"), Avatar: strPtr("https://cdn/a.png")}.Apply(u)

	assert.Equal(t, "Alicia", got.FirstName)
	assert.Equal(t, "Liddell", got.LastName)
	assert.Equal(t, "alice", got.Username)
	require.NotNil(t, got.Avatar)
	assert.Equal(t, "https://cdn/a.png", *got.Avatar)
	assert.Equal(t, "Alice", u.FirstName, "original must not change")
}

func TestUserPatch_PasswordNeverMerged(t *testing.T) {
	u := User{ID: "1", Username: "alice"}

	got := UserPatch{Password: strPtr("Secret123")}.Apply(u)

	assert.Equal(t, u, got)
}

func TestUserPatch_IsEmpty(t *testing.T) {
	assert.True(t, UserPatch{}.IsEmpty())
	assert.False(t, UserPatch{LastName: strPtr("x")}.IsEmpty())
}

func TestUser_Clone(t *testing.T) {
	u := &User{ID: "1", Avatar: strPtr("a.png")}

	c := u.Clone()
	*c.Avatar = "b.png"

	assert.Equal(t, "a.png", *u.Avatar)
	assert.Nil(t, (*User)(nil).Clone())
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Alice Liddell", (&User{Username: "alice", FirstName: "Alice", LastName: "Liddell"}).DisplayName())
	assert.Equal(t, "Alice", (&User{Username: "alice", FirstName: "Alice"}).DisplayName())
	assert.Equal(t, "alice", (&User{Username: "alice"}).DisplayName())
}

func TestUser_JSONShape(t *testing.T) {
	data, err := json.Marshal(User{ID: "42", Username: "bob"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":"42","username":"bob","email":"","firstName":"","lastName":"","avatar":null}`, string(data))
}

func TestUserPatch_JSONOmitsUnsetFields(t *testing.T) {
	data, err := json.Marshal(UserPatch{LastName: strPtr("Smith")})
	require.NoError(t, err)

	assert.JSONEq(t, `{"lastName":"Smith"}`, string(data))
}
