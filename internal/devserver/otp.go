package devserver

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Thanhnebe/hoainamprj/internal/domain"
	"github.com/Thanhnebe/hoainamprj/internal/email"
	gocache "github.com/patrickmn/go-cache"
)

const otpDigits = 6

// OTPIssuer issues single-use verification codes and mails them out.
type OTPIssuer struct {
	codes  *gocache.Cache
	ttl    time.Duration
	sender domain.EmailSender
}

// NewOTPIssuer creates an issuer whose codes expire after ttl.
func NewOTPIssuer(ttl time.Duration, sender domain.EmailSender) *OTPIssuer {
	return &OTPIssuer{codes: gocache.New(ttl, time.Minute), ttl: ttl, sender: sender}
}

// Issue generates a code for address, stores it and emails it. A new code
// replaces any earlier one for the same address.
func (o *OTPIssuer) Issue(ctx context.Context, address string) (string, error) {
	code, err := generateCode(otpDigits)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	if err := o.sender.Send(ctx, address, email.OTPSubject, email.OTPBody(code, o.ttl)); err != nil {
		return "", fmt.Errorf("failed to send otp email: %w", err)
	}
	o.codes.Set(otpKey(address), code, gocache.DefaultExpiration)
	return code, nil
}

// Consume reports whether code is the live code for address and, if so,
// invalidates it.
func (o *OTPIssuer) Consume(address, code string) bool {
	key := otpKey(address)
	v, ok := o.codes.Get(key)
	if !ok {
		return false
	}
	stored, _ := v.(string)
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false
	}
	o.codes.Delete(key)
	return true
}

func otpKey(address string) string {
	return "otp:" + strings.ToLower(strings.TrimSpace(address))
}

func generateCode(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
