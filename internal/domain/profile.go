package domain

// Profile is the user identity data edited on the profile screen.
// An empty PhotoURL means the user has no remote avatar.
type Profile struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// Clone returns an independent copy.
func (p *Profile) Clone() Profile {
	if p == nil {
		return Profile{}
	}
	return *p
}

// OTPResult is the backend's answer to a verification request.
type OTPResult struct {
	Code    string
	Message string
}
