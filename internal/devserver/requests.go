package devserver

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// envelope is the response body of every endpoint.
type envelope struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// VerificationRequest is the body of POST /auth/verification.
type VerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdateProfileRequest is the body of POST /users/update-profile. Code must be
// a live OTP issued for Email.
type UpdateProfileRequest struct {
	Code  string  `json:"code" validate:"required,numeric"`
	Email string  `json:"email" validate:"required,email"`
	Name  string  `json:"name" validate:"max=100"`
	Image *string `json:"image"`
}

type codeData struct {
	Code string `json:"code"`
}

type photoData struct {
	PhotoURL string `json:"photoUrl"`
}
