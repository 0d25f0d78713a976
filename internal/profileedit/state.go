package profileedit

// State is the controller's position in the profile editing workflow.
type State int

const (
	StateIdle State = iota
	StateResolvingSession
	StateLoadingProfile
	StateReady
	StateSubmittingImage
	StateRequestingOTP
	StateHandedOff
	StateError
)

var stateNames = map[State]string{
	StateIdle:             "idle",
	StateResolvingSession: "resolving_session",
	StateLoadingProfile:   "loading_profile",
	StateReady:            "ready",
	StateSubmittingImage:  "submitting_image",
	StateRequestingOTP:    "requesting_otp",
	StateHandedOff:        "handed_off",
	StateError:            "error",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// editable reports whether the working copy may be changed in s.
func (s State) editable() bool {
	switch s {
	case StateReady, StateSubmittingImage, StateRequestingOTP, StateHandedOff:
		return true
	}
	return false
}
