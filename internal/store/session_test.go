package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macracrm/macra-crm/internal/entity"
)

func TestLoginWithDemoCredentials(t *testing.T) {
	cases := []struct {
		username string
		password string
		role     entity.Role
	}{
		{"admin", "admin123", entity.RoleAdmin},
		{"manager", "manager123", entity.RoleManager},
		{"user", "user123", entity.RoleUser},
	}

	for _, tc := range cases {
		s := NewSessionStore(nil)
		ok := s.Login(tc.username, tc.password)

		assert.True(t, ok, "login must succeed for %s", tc.username)
		assert.True(t, s.IsAuthenticated())
		assert.Empty(t, s.Err())
		require.NotNil(t, s.User())
		assert.Equal(t, tc.role, s.User().Role)
		assert.False(t, s.IsLoading())
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	cases := []struct{ username, password string }{
		{"admin", "wrong"},
		{"Admin", "admin123"}, // matching is case-sensitive
		{"ghost", "ghost123"},
		{"", ""},
	}

	for _, tc := range cases {
		s := NewSessionStore(nil)
		ok := s.Login(tc.username, tc.password)

		assert.False(t, ok, "login must fail for %q/%q", tc.username, tc.password)
		assert.False(t, s.IsAuthenticated())
		assert.Nil(t, s.User())
		assert.Equal(t, "Invalid credentials", s.Err())
	}
}

func TestFailedLoginAfterSuccessReturnsToAnonymous(t *testing.T) {
	s := NewSessionStore(nil)
	require.True(t, s.Login("admin", "admin123"))

	assert.False(t, s.Login("admin", "nope"))
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
}

func TestLogoutClearsSession(t *testing.T) {
	s := NewSessionStore(nil)
	require.True(t, s.Login("manager", "manager123"))

	s.Logout()

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.Empty(t, s.Err())
}

func TestHasPermission(t *testing.T) {
	s := NewSessionStore(nil)

	// Anonymous: everything is denied.
	assert.False(t, s.HasPermission("view_leads"))

	require.True(t, s.Login("user", "user123"))
	assert.True(t, s.HasPermission("view_leads"))
	assert.True(t, s.HasPermission("create_interactions"))
	assert.False(t, s.HasPermission("delete_leads"))
	assert.False(t, s.HasPermission("manage_users"))

	s.Logout()
	require.True(t, s.Login("admin", "admin123"))
	assert.True(t, s.HasPermission("delete_leads"))
	assert.True(t, s.HasPermission("manage_users"))
}

func TestSessionSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crm-auth.json")

	s := NewSessionStore(NewSessionFile(path))
	require.True(t, s.Login("manager", "manager123"))

	// A fresh store on the same file rehydrates verbatim, no re-validation.
	restored := NewSessionStore(NewSessionFile(path))
	assert.True(t, restored.IsAuthenticated())
	require.NotNil(t, restored.User())
	assert.Equal(t, "manager", restored.User().Username)
	assert.Equal(t, entity.RoleManager, restored.User().Role)
}

func TestLogoutSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crm-auth.json")

	s := NewSessionStore(NewSessionFile(path))
	require.True(t, s.Login("admin", "admin123"))
	s.Logout()

	restored := NewSessionStore(NewSessionFile(path))
	assert.False(t, restored.IsAuthenticated())
	assert.Nil(t, restored.User())
}

func TestSessionFileNeverStoresPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crm-auth.json")

	s := NewSessionStore(NewSessionFile(path))
	require.True(t, s.Login("admin", "admin123"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "admin123")
	assert.Contains(t, string(raw), `"isAuthenticated": true`)
}

func TestSessionFileLoadMissingIsNotAnError(t *testing.T) {
	f := NewSessionFile(filepath.Join(t.TempDir(), "does-not-exist.json"))

	state, err := f.Load()
	assert.NoError(t, err)
	assert.Nil(t, state)
}

func TestSessionFileRoundTrip(t *testing.T) {
	f := NewSessionFile(filepath.Join(t.TempDir(), "nested", "crm-auth.json"))
	user := entity.User{ID: "3", Username: "user", Name: "Sales Representative", Role: entity.RoleUser, Email: "user@macracrm.com", CreatedAt: "2025-01-10T00:00:00.000Z"}

	require.NoError(t, f.Save(SessionState{User: &user, Authenticated: true}))

	state, err := f.Load()
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.True(t, state.Authenticated)
	assert.Equal(t, user, *state.User)
}
