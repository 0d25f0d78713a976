package domain

import "context"

// ScreenOTPVerification is the navigation target that owns verification.
const ScreenOTPVerification = "OTPVerification"

// OTPHandoffPayload is handed to the verification screen once an OTP request
// succeeds. It is passed by value; receivers get their own copy.
type OTPHandoffPayload struct {
	Code   string  `json:"code"`
	Email  string  `json:"email"`
	UserID *string `json:"userId"`
	Name   string  `json:"name"`
	Image  *string `json:"image"`
	Token  string  `json:"token"`
}

// Navigator requests a screen change carrying an OTP handoff.
type Navigator interface {
	Navigate(ctx context.Context, screen string, payload OTPHandoffPayload) error
}
