package profileedit

import "github.com/Thanhnebe/hoainamprj/internal/domain"

// ResolveDisplayImage picks the avatar to show: the pending local selection,
// then the working copy's remote photo, then the placeholder.
func ResolveDisplayImage(pending string, working domain.Profile, placeholder string) string {
	if img := ResolveHandoffImage(pending, working); img != nil {
		return *img
	}
	return placeholder
}

// ResolveHandoffImage applies the same precedence without the placeholder,
// returning nil when the user has no image at all.
func ResolveHandoffImage(pending string, working domain.Profile) *string {
	switch {
	case pending != "":
		return &pending
	case working.PhotoURL != "":
		url := working.PhotoURL
		return &url
	}
	return nil
}
