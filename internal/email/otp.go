package email

import (
	"fmt"
	"html"
	"time"
)

// OTPSubject is the subject line of verification emails.
const OTPSubject = "Mã xác thực OTP"

// OTPBody renders the HTML body of a verification email.
func OTPBody(code string, ttl time.Duration) string {
	return fmt.Sprintf(
		`<p>Mã OTP của bạn là <strong>%s</strong>.</p><p>Mã có hiệu lực trong %d phút.</p>`,
		html.EscapeString(code), int(ttl.Round(time.Minute)/time.Minute),
	)
}
