package domain

import "context"

// SessionKey is the storage key the mobile app persists its login record under.
const SessionKey = "auth"

// Session is the persisted login record. PhotoURL is only used by the home
// header; the profile workflow reads UserID and AccessToken.
type Session struct {
	UserID      string `json:"id"`
	AccessToken string `json:"accesstoken"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}

// HasUser reports whether the record identifies a user.
func (s *Session) HasUser() bool {
	return s != nil && s.UserID != ""
}

// SessionStore reads the persisted session. A nil session with a nil error
// means no usable record exists.
type SessionStore interface {
	Get(ctx context.Context) (*Session, error)
}
