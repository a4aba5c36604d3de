package store

import (
	"sync"

	"github.com/macracrm/macra-crm/internal/entity"
)

// Demo credential table. This is a stub authority for the demo deployment,
// not a real identity provider; matching is case-sensitive on both fields.
type demoUser struct {
	entity.User
	password string
}

var demoUsers = []demoUser{
	{
		User: entity.User{
			ID:        "1",
			Username:  "admin",
			Name:      "Administrator",
			Email:     "admin@macracrm.com",
			Role:      entity.RoleAdmin,
			CreatedAt: "2025-01-01T00:00:00.000Z",
		},
		password: "admin123",
	},
	{
		User: entity.User{
			ID:        "2",
			Username:  "manager",
			Name:      "Sales Manager",
			Email:     "manager@macracrm.com",
			Role:      entity.RoleManager,
			CreatedAt: "2025-01-05T00:00:00.000Z",
		},
		password: "manager123",
	},
	{
		User: entity.User{
			ID:        "3",
			Username:  "user",
			Name:      "Sales Representative",
			Email:     "user@macracrm.com",
			Role:      entity.RoleUser,
			CreatedAt: "2025-01-10T00:00:00.000Z",
		},
		password: "user123",
	},
}

// SessionStore is a two-state machine: Anonymous (no user) or Authenticated.
// The user record and the authenticated flag — never the password — survive
// restarts through the session file and rehydrate verbatim without
// re-validating credentials.
type SessionStore struct {
	file *SessionFile // nil disables persistence

	mu            sync.Mutex
	user          *entity.User
	authenticated bool
	loading       bool
	lastErr       string
}

// NewSessionStore rehydrates from the session file when one is given. A
// missing or unreadable file just means starting Anonymous.
func NewSessionStore(file *SessionFile) *SessionStore {
	s := &SessionStore{file: file}
	if file != nil {
		if state, err := file.Load(); err == nil && state != nil {
			s.user = state.User
			s.authenticated = state.Authenticated
		}
	}
	return s
}

// Login matches the pair against the demo table. It never fails out: the
// return value is the success indicator, and a mismatch leaves the store
// Anonymous with "Invalid credentials" in the error slot. Concurrent calls
// are not serialized — last resolved wins.
func (s *SessionStore) Login(username, password string) bool {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	var found *entity.User
	for _, du := range demoUsers {
		if du.Username == username && du.password == password {
			u := du.User
			found = &u
			break
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if found == nil {
		s.user = nil
		s.authenticated = false
		s.lastErr = "Invalid credentials"
		s.persistLocked()
		return false
	}
	s.user = found
	s.authenticated = true
	s.persistLocked()
	return true
}

// Logout unconditionally returns to Anonymous. Synchronous.
func (s *SessionStore) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.authenticated = false
	s.lastErr = ""
	s.persistLocked()
}

// HasPermission is a pure function of the current role: false when Anonymous
// or when the permission is absent from the role's fixed allow-list.
func (s *SessionStore) HasPermission(permission string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return false
	}
	return s.user.Role.Can(permission)
}

func (s *SessionStore) User() *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	out := *s.user
	return &out
}

func (s *SessionStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *SessionStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *SessionStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// persistLocked writes the current state through the session file. Callers
// hold the mutex. Persistence failures are swallowed: losing the saved
// session only means logging in again next launch.
func (s *SessionStore) persistLocked() {
	if s.file == nil {
		return
	}
	state := SessionState{Authenticated: s.authenticated}
	if s.user != nil {
		u := *s.user
		state.User = &u
	}
	_ = s.file.Save(state)
}
