package devserver

import (
	"sync"

	"github.com/Thanhnebe/hoainamprj/internal/config"
	"github.com/Thanhnebe/hoainamprj/internal/domain"
)

// User is a backend account.
type User struct {
	ID    string
	Token string
	domain.Profile
}

// Users is an in-memory user repository.
type Users struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byToken map[string]string
}

// NewUsers creates an empty repository.
func NewUsers() *Users {
	return &Users{byID: make(map[string]*User), byToken: make(map[string]string)}
}

// SeedUsers creates a repository holding the configured development user, if any.
func SeedUsers(cfg config.DevServer) *Users {
	users := NewUsers()
	if cfg.UserID != "" {
		users.Put(User{
			ID:      cfg.UserID,
			Token:   cfg.UserToken,
			Profile: domain.Profile{Email: cfg.UserEmail, Name: cfg.UserName},
		})
	}
	return users
}

// Put inserts or replaces a user.
func (u *Users) Put(user User) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if old, ok := u.byID[user.ID]; ok && old.Token != "" {
		delete(u.byToken, old.Token)
	}
	stored := user
	u.byID[user.ID] = &stored
	if user.Token != "" {
		u.byToken[user.Token] = user.ID
	}
}

// ByID returns a copy of the user with id.
func (u *Users) ByID(id string) (User, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	user, ok := u.byID[id]
	if !ok {
		return User{}, false
	}
	return *user, true
}

// ByToken returns the user owning token.
func (u *Users) ByToken(token string) (User, bool) {
	u.mu.RLock()
	id, ok := u.byToken[token]
	u.mu.RUnlock()
	if !ok {
		return User{}, false
	}
	return u.ByID(id)
}

// Update applies fn to the stored user and returns the result.
func (u *Users) Update(id string, fn func(p *domain.Profile)) (User, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.byID[id]
	if !ok {
		return User{}, false
	}
	fn(&user.Profile)
	return *user, true
}
