package sandbox

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/ochronus/gopastebin/internal/config"
)

// Accounts checks dev keys and credentials, and hands out user keys. A user
// key stays valid until the same user logs in again.
type Accounts struct {
	mu        sync.Mutex
	devKeys   map[string]struct{}
	passwords map[string]string
	sessions  map[string]string // user key -> username
	current   map[string]string // username -> user key
}

// NewAccounts builds the account registry. With no dev keys any non-empty
// key is accepted, with no accounts any login is.
func NewAccounts(devKeys []string, accounts []config.AccountConfig) *Accounts {
	a := &Accounts{
		devKeys:   make(map[string]struct{}, len(devKeys)),
		passwords: make(map[string]string, len(accounts)),
		sessions:  make(map[string]string),
		current:   make(map[string]string),
	}
	for _, key := range devKeys {
		a.devKeys[key] = struct{}{}
	}
	for _, account := range accounts {
		a.passwords[account.Username] = account.Password
	}
	return a
}

// ValidDevKey reports whether key may use the API.
func (a *Accounts) ValidDevKey(key string) bool {
	if key == "" {
		return false
	}
	if len(a.devKeys) == 0 {
		return true
	}
	_, ok := a.devKeys[key]
	return ok
}

// Login checks the credentials and returns a fresh user key, revoking the
// previous one.
func (a *Accounts) Login(username, password string) (string, bool) {
	if username == "" {
		return "", false
	}
	if len(a.passwords) > 0 {
		expected, ok := a.passwords[username]
		if !ok || expected != password {
			return "", false
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if old, ok := a.current[username]; ok {
		delete(a.sessions, old)
	}
	userKey := strings.ReplaceAll(uuid.New().String(), "-", "")
	a.sessions[userKey] = username
	a.current[username] = userKey
	return userKey, true
}

// User returns the username a user key belongs to.
func (a *Accounts) User(userKey string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	username, ok := a.sessions[userKey]
	return username, ok
}
