// Package devserver is a local stand-in for the shop backend. It implements
// the profile, photo upload and verification endpoints the client talks to.
package devserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Thanhnebe/hoainamprj/internal/config"
	"github.com/Thanhnebe/hoainamprj/internal/domain"
	"github.com/Thanhnebe/hoainamprj/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// verificationRate caps OTP requests per client IP and second.
const verificationRate = 5

// Server holds the dependencies for the HTTP server.
type Server struct {
	E       *echo.Echo
	Users   *Users
	handler *Handler
	addr    string
	logger  *slog.Logger
}

// New creates a new Server instance.
func New(cfg config.DevServer, users *Users, photos storage.Store, sender domain.EmailSender, logger *slog.Logger) *Server {
	handler := NewHandler(users, photos, NewOTPIssuer(cfg.OTPTTL, sender), HandlerConfig{
		PublicURL:         cfg.PublicURL,
		MaxFileSize:       cfg.MaxUploadBytes,
		AllowedImageTypes: cfg.AllowedImageTypes,
		ReturnCode:        cfg.OTPReturnCode,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(logger))
	e.Use(middleware.Recover())

	s := &Server{E: e, Users: users, handler: handler, addr: cfg.Addr, logger: logger}
	s.RegisterRoutes()
	return s
}

// RegisterRoutes wires the endpoints.
func (s *Server) RegisterRoutes() {
	auth := BearerAuth(s.Users)

	users := s.E.Group("/users")
	users.GET("/get-profile", s.handler.GetProfile, auth)
	// Photo upload is anonymous in the mobile app's contract.
	users.POST("/upload-photo", s.handler.UploadPhoto)
	users.POST("/update-profile", s.handler.UpdateProfile, auth)

	s.E.POST("/auth/verification", s.handler.RequestVerification, RateLimiter(verificationRate))
	s.E.GET(photoRoute+"/*", s.handler.ServePhoto)
}

// Start runs the server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("Starting dev server", "address", s.addr)
	if err := s.E.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down dev server")
	return s.E.Shutdown(ctx)
}
