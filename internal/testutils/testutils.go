// Package testutils holds fixtures shared by the package tests.
package testutils

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Thanhnebe/hoainamprj/internal/config"
	"github.com/joho/godotenv"
)

// PNG is the header of a 1x1 PNG, enough for content sniffing to recognize it.
var PNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// ConfigForTests loads the project's .env.test file, if any, into the test's
// environment and returns the resulting configuration. The session directory
// is always a fresh temporary directory.
func ConfigForTests(t *testing.T) *config.Config {
	t.Helper()

	if root, ok := projectRoot(); ok {
		env, err := godotenv.Read(filepath.Join(root, ".env.test"))
		if err == nil {
			for key, value := range env {
				t.Setenv(key, value)
			}
		}
	}
	t.Setenv("SHOP_SESSION_DIR", t.TempDir())

	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("invalid test configuration: %v", err)
	}
	return cfg
}

// projectRoot walks up from the working directory to the directory holding go.mod.
func projectRoot() (string, bool) {
	path, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			return path, true
		}
		if path == filepath.Dir(path) {
			return "", false
		}
		path = filepath.Dir(path)
	}
}

// Email is one message captured by RecordingSender.
type Email struct {
	To      string
	Subject string
	Body    string
}

// RecordingSender is an EmailSender that keeps every message in memory.
type RecordingSender struct {
	mu   sync.Mutex
	sent []Email
	Err  error
}

func (r *RecordingSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Email{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// Sent returns a copy of the captured messages.
func (r *RecordingSender) Sent() []Email {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Email(nil), r.sent...)
}
