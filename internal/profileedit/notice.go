package profileedit

import "context"

// Level separates informational notices from errors.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Kind classifies a notice so callers can react without parsing text.
type Kind string

const (
	KindNoSession       Kind = "no_session"
	KindUnauthorized    Kind = "unauthorized"
	KindFetchError      Kind = "fetch_error"
	KindUploadError     Kind = "upload_error"
	KindUploaded        Kind = "uploaded"
	KindOTPRequestError Kind = "otp_request_error"
	KindOTPSent         Kind = "otp_sent"
)

// Notice is a user-visible message, the equivalent of an alert dialog.
type Notice struct {
	Level   Level  `json:"level"`
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

// ImagePicker asks the user for an image. ok is false when the user cancels.
type ImagePicker interface {
	PickImage(ctx context.Context) (uri string, ok bool, err error)
}

// PickerFunc adapts a function to ImagePicker.
type PickerFunc func(ctx context.Context) (string, bool, error)

func (f PickerFunc) PickImage(ctx context.Context) (string, bool, error) {
	return f(ctx)
}

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, Notice) error { return nil }
