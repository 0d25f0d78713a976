package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// DefaultAPIBaseURL is the backend address the Android emulator sees for the host machine.
const DefaultAPIBaseURL = "http://10.0.2.2:3001"

// DefaultAvatarPlaceholder is shown when the user has neither a pending nor a remote photo.
const DefaultAvatarPlaceholder = "https://via.placeholder.com/100"

// Config holds all configuration for the client and the development backend.
type Config struct {
	APIBaseURL        string        `validate:"required,url"`
	HTTPTimeout       time.Duration `validate:"gt=0"`
	SessionDir        string        `validate:"required"`
	AvatarPlaceholder string        `validate:"required"`
	// SignedUploads attaches the bearer token to photo uploads. The mobile app
	// uploads anonymously, so this stays off unless explicitly enabled.
	SignedUploads bool
	Lang          string `validate:"oneof=vi en"`
	LogFormat     string `validate:"oneof=text json"`
	LogLevel      string `validate:"oneof=debug info warn error"`

	Dev DevServer
}

// DevServer configures the development backend.
type DevServer struct {
	Addr              string `validate:"required"`
	PublicURL         string `validate:"required,url"`
	UploadDir         string `validate:"required"`
	MaxUploadBytes    int64  `validate:"gt=0"`
	AllowedImageTypes []string
	UserID            string
	UserToken         string
	UserEmail         string `validate:"omitempty,email"`
	UserName          string
	OTPTTL            time.Duration `validate:"gt=0"`
	OTPReturnCode     bool
	EmailProvider     string `validate:"oneof=log resend"`
	EmailAPIKey       string
	EmailSender       string
}

var validate = validator.New()

// New loads configuration from the environment, reading a .env file first when present.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// slog is not configured yet at this point.
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		APIBaseURL:        strings.TrimRight(getEnvString("SHOP_API_URL", DefaultAPIBaseURL), "/"),
		HTTPTimeout:       getEnvDuration("SHOP_HTTP_TIMEOUT", 15*time.Second),
		SessionDir:        getEnvString("SHOP_SESSION_DIR", defaultSessionDir()),
		AvatarPlaceholder: getEnvString("SHOP_AVATAR_PLACEHOLDER", DefaultAvatarPlaceholder),
		SignedUploads:     getEnvBool("SHOP_SIGNED_UPLOADS", false),
		Lang:              getEnvString("SHOP_LANG", "vi"),
		LogFormat:         getEnvString("LOG_FORMAT", "text"),
		LogLevel:          getEnvString("LOG_LEVEL", "info"),
		Dev: DevServer{
			Addr:              getEnvString("DEV_ADDR", ":3001"),
			PublicURL:         strings.TrimRight(getEnvString("DEV_PUBLIC_URL", "http://localhost:3001"), "/"),
			UploadDir:         getEnvString("DEV_UPLOAD_DIR", "uploads"),
			MaxUploadBytes:    getEnvInt64("DEV_MAX_UPLOAD_BYTES", 5<<20),
			AllowedImageTypes: getEnvList("DEV_ALLOWED_IMAGE_TYPES", []string{"image/jpeg", "image/png", "image/webp"}),
			UserID:            os.Getenv("DEV_USER_ID"),
			UserToken:         os.Getenv("DEV_USER_TOKEN"),
			UserEmail:         os.Getenv("DEV_USER_EMAIL"),
			UserName:          os.Getenv("DEV_USER_NAME"),
			OTPTTL:            getEnvDuration("OTP_TTL", 5*time.Minute),
			OTPReturnCode:     getEnvBool("OTP_RETURN_CODE", true),
			EmailProvider:     getEnvString("EMAIL_PROVIDER", "log"),
			EmailAPIKey:       os.Getenv("EMAIL_API_KEY"),
			EmailSender:       os.Getenv("EMAIL_SENDER"),
		},
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func defaultSessionDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".hoainam"
	}
	return filepath.Join(dir, "hoainam")
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
