package devserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/Thanhnebe/hoainamprj/internal/domain"
	"github.com/Thanhnebe/hoainamprj/internal/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
)

const photoRoute = "/uploads"

// Handler serves the profile backend endpoints.
type Handler struct {
	users            *Users
	photos           storage.Store
	otp              *OTPIssuer
	publicURL        string
	maxFileSize      int64
	allowedMimeTypes map[string]bool
	returnCode       bool
}

// HandlerConfig carries the tunables of a Handler.
type HandlerConfig struct {
	PublicURL         string
	MaxFileSize       int64
	AllowedImageTypes []string
	// ReturnCode echoes issued OTP codes in the verification response, the
	// behaviour the mobile app depends on.
	ReturnCode bool
}

// NewHandler creates a new Handler.
func NewHandler(users *Users, photos storage.Store, otp *OTPIssuer, cfg HandlerConfig) *Handler {
	mimeTypesMap := make(map[string]bool)
	for _, mimeType := range cfg.AllowedImageTypes {
		mimeTypesMap[strings.TrimSpace(mimeType)] = true
	}
	return &Handler{
		users:            users,
		photos:           photos,
		otp:              otp,
		publicURL:        strings.TrimRight(cfg.PublicURL, "/"),
		maxFileSize:      cfg.MaxFileSize,
		allowedMimeTypes: mimeTypesMap,
		returnCode:       cfg.ReturnCode,
	}
}

// GetProfile handles GET /users/get-profile?uid=. Users may only read their own profile.
func (h *Handler) GetProfile(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, envelope{Message: "unauthorized"})
	}
	uid := c.QueryParam("uid")
	if uid == "" {
		return c.JSON(http.StatusBadRequest, envelope{Message: "uid is required"})
	}
	if uid != user.ID {
		FromContext(c.Request().Context()).Warn("profile read for another user refused", "user_id", user.ID, "uid", uid)
		return c.JSON(http.StatusForbidden, envelope{Message: "forbidden"})
	}
	target, found := h.users.ByID(uid)
	if !found {
		return c.JSON(http.StatusNotFound, envelope{Message: "user not found"})
	}
	return c.JSON(http.StatusOK, envelope{Data: target.Profile})
}

// UploadPhoto handles POST /users/upload-photo with multipart parts image and userId.
func (h *Handler) UploadPhoto(c echo.Context) error {
	ctx := c.Request().Context()
	logger := FromContext(ctx)

	userID := c.FormValue("userId")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, envelope{Message: "userId is required"})
	}
	if _, found := h.users.ByID(userID); !found {
		return c.JSON(http.StatusNotFound, envelope{Message: "user not found"})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Message: "image is required"})
	}
	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		return c.JSON(http.StatusRequestEntityTooLarge, envelope{
			Message: fmt.Sprintf("File size of %d bytes exceeds the limit of %d bytes", fileHeader.Size, h.maxFileSize),
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, envelope{Message: "failed to open uploaded file"})
	}
	defer src.Close()

	// The declared part type is not trusted; sniff the content instead.
	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Message: "could not read image"})
	}
	if len(h.allowedMimeTypes) > 0 && !h.allowedMimeTypes[mt.String()] {
		return c.JSON(http.StatusUnsupportedMediaType, envelope{Message: fmt.Sprintf("File type '%s' is not allowed", mt.String())})
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return c.JSON(http.StatusInternalServerError, envelope{Message: "failed to read uploaded file"})
	}

	storagePath := storage.PhotoPath(userID, mt.Extension())
	if _, err := h.photos.Save(ctx, storagePath, src); err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return c.JSON(http.StatusRequestEntityTooLarge, envelope{Message: err.Error()})
		}
		logger.Error("Failed to save photo to storage", "error", err)
		return c.JSON(http.StatusInternalServerError, envelope{Message: "failed to save file"})
	}

	photoURL := h.publicURL + photoRoute + "/" + storagePath
	if _, found := h.users.Update(userID, func(p *domain.Profile) { p.PhotoURL = photoURL }); !found {
		_ = h.photos.Delete(ctx, storagePath)
		return c.JSON(http.StatusNotFound, envelope{Message: "user not found"})
	}

	logger.Info("photo uploaded", "user_id", userID, "path", storagePath, "mime_type", mt.String())
	return c.JSON(http.StatusOK, envelope{Data: photoData{PhotoURL: photoURL}, Message: "uploaded"})
}

// ServePhoto handles GET /uploads/*.
func (h *Handler) ServePhoto(c echo.Context) error {
	ctx := c.Request().Context()
	p := path.Clean("/" + c.Param("*"))[1:]
	if p == "" {
		return c.NoContent(http.StatusNotFound)
	}

	f, err := h.photos.Open(ctx, p)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		FromContext(ctx).Error("Failed to read stored photo", "path", p, "error", err)
		return c.NoContent(http.StatusInternalServerError)
	}
	return c.Blob(http.StatusOK, mimetype.Detect(data).String(), data)
}

// RequestVerification handles POST /auth/verification.
func (h *Handler) RequestVerification(c echo.Context) error {
	ctx := c.Request().Context()

	var req VerificationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Message: "Invalid request format."})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Message: "a valid email is required"})
	}

	code, err := h.otp.Issue(ctx, req.Email)
	if err != nil {
		FromContext(ctx).Error("Failed to issue otp", "email", req.Email, "error", err)
		return c.JSON(http.StatusInternalServerError, envelope{Message: "could not send verification email"})
	}

	resp := envelope{Message: "verification code sent"}
	if h.returnCode {
		resp.Data = codeData{Code: code}
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateProfile handles POST /users/update-profile. It applies the handed-off
// edits once the OTP sent to the new email is confirmed.
func (h *Handler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	logger := FromContext(ctx)

	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, envelope{Message: "unauthorized"})
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Message: "Invalid request format."})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Message: err.Error()})
	}
	if !h.otp.Consume(req.Email, req.Code) {
		return c.JSON(http.StatusBadRequest, envelope{Message: "invalid or expired code"})
	}

	updated, found := h.users.Update(user.ID, func(p *domain.Profile) {
		p.Email = req.Email
		p.Name = req.Name
		if req.Image != nil {
			// Device-local URIs mean the upload never reached us; keep the stored photo.
			if strings.HasPrefix(*req.Image, "http://") || strings.HasPrefix(*req.Image, "https://") {
				p.PhotoURL = *req.Image
			}
		}
	})
	if !found {
		return c.JSON(http.StatusNotFound, envelope{Message: "user not found"})
	}

	logger.Info("profile updated", "user_id", user.ID)
	return c.JSON(http.StatusOK, envelope{Data: updated.Profile, Message: "profile updated"})
}
