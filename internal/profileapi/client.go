// Package profileapi is the HTTP client for the user profile backend.
package profileapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/Thanhnebe/hoainamprj/internal/domain"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

const (
	profilePath      = "/users/get-profile"
	uploadPath       = "/users/upload-photo"
	verificationPath = "/auth/verification"

	// maxResponseSize caps how much of a response body is read.
	maxResponseSize = 1 << 20
)

// Client talks to the profile backend.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	fs            afero.Fs
	logger        *slog.Logger
	signedUploads bool
}

// Option customizes a Client.
type Option func(*Client)

// WithSignedUploads attaches the bearer token to photo uploads.
func WithSignedUploads(enabled bool) Option {
	return func(c *Client) { c.signedUploads = enabled }
}

// WithFs sets the filesystem local image URIs are read from.
func WithFs(fs afero.Fs) Option {
	return func(c *Client) { c.fs = fs }
}

// NewClient creates a client for the backend at baseURL.
func NewClient(httpClient *http.Client, baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		fs:         afero.NewOsFs(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the backend's response wrapper.
type envelope[T any] struct {
	Data    *T     `json:"data"`
	Message string `json:"message"`
}

type photoData struct {
	PhotoURL string `json:"photoUrl"`
}

type codeData struct {
	Code flexString `json:"code"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// FetchProfile loads the profile of userID using a bearer token.
func (c *Client) FetchProfile(ctx context.Context, userID, token string) (*domain.Profile, error) {
	const op = "fetch profile"
	if token == "" {
		return nil, &domain.RemoteError{Op: op, Err: domain.ErrUnauthorized}
	}

	reqURL := c.baseURL + profilePath + "?" + url.Values{"uid": {userID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &domain.RemoteError{Op: op, Err: fmt.Errorf("%w: %v", domain.ErrNetwork, err)}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("profile request failed", "user_id", userID, "error", err)
		return nil, &domain.RemoteError{Op: op, Err: fmt.Errorf("%w: %v", domain.ErrNetwork, err)}
	}
	defer resp.Body.Close()

	var body envelope[domain.Profile]
	decodeErr := decode(resp.Body, &body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &domain.RemoteError{Op: op, Status: resp.StatusCode, Message: body.Message, Err: domain.ErrUnauthorized}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &domain.RemoteError{Op: op, Status: resp.StatusCode, Message: body.Message, Err: domain.ErrNotFound}
	case resp.StatusCode != http.StatusOK:
		c.logger.Error("profile backend returned an error status", "user_id", userID, "http_status", resp.StatusCode)
		return nil, &domain.RemoteError{Op: op, Status: resp.StatusCode, Message: body.Message, Err: domain.ErrNetwork}
	}

	if decodeErr != nil {
		return nil, &domain.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("%w: decode response: %v", domain.ErrNetwork, decodeErr)}
	}
	if body.Data == nil {
		return nil, &domain.RemoteError{Op: op, Status: resp.StatusCode, Message: body.Message, Err: domain.ErrNotFound}
	}
	return body.Data, nil
}

// UploadImage sends the image at localURI as the user's new photo and returns
// its remote URL. The token is only sent when signed uploads are enabled.
func (c *Client) UploadImage(ctx context.Context, userID, token, localURI string) (string, error) {
	const op = "upload photo"
	fail := func(status int, msg string, err error) error {
		if err == nil {
			return &domain.RemoteError{Op: op, Status: status, Message: msg, Err: domain.ErrUpload}
		}
		return &domain.RemoteError{Op: op, Status: status, Message: msg, Err: fmt.Errorf("%w: %v", domain.ErrUpload, err)}
	}

	path, err := localPath(localURI)
	if err != nil {
		return "", fail(0, "", err)
	}
	content, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return "", fail(0, "", fmt.Errorf("read local image: %w", err))
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filepath.Base(path)))
	header.Set("Content-Type", imageContentType(content))
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fail(0, "", err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fail(0, "", err)
	}
	if err := mw.WriteField("userId", userID); err != nil {
		return "", fail(0, "", err)
	}
	if err := mw.Close(); err != nil {
		return "", fail(0, "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, &buf)
	if err != nil {
		return "", fail(0, "", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.signedUploads && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("photo upload failed", "user_id", userID, "error", err)
		return "", fail(0, "", err)
	}
	defer resp.Body.Close()

	var body envelope[photoData]
	decodeErr := decode(resp.Body, &body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("photo upload rejected", "user_id", userID, "http_status", resp.StatusCode)
		return "", fail(resp.StatusCode, body.Message, nil)
	}
	if decodeErr != nil {
		return "", fail(resp.StatusCode, "", fmt.Errorf("decode response: %w", decodeErr))
	}
	if body.Data == nil || body.Data.PhotoURL == "" {
		return "", fail(resp.StatusCode, body.Message, errors.New("response carries no photoUrl"))
	}
	return body.Data.PhotoURL, nil
}

// RequestOTP asks the backend to email a verification code to email.
// The backend also echoes the code in its response; it is returned as-is.
func (c *Client) RequestOTP(ctx context.Context, email string) (*domain.OTPResult, error) {
	const op = "request otp"

	payload, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return nil, &domain.RemoteError{Op: op, Err: fmt.Errorf("%w: %v", domain.ErrOTPRequest, err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+verificationPath, bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.RemoteError{Op: op, Err: fmt.Errorf("%w: %v", domain.ErrOTPRequest, err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("otp request failed", "error", err)
		return nil, &domain.RemoteError{Op: op, Err: fmt.Errorf("%w: %v", domain.ErrOTPRequest, err)}
	}
	defer resp.Body.Close()

	var body envelope[codeData]
	decodeErr := decode(resp.Body, &body)
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("otp request rejected", "http_status", resp.StatusCode, "message", body.Message)
		return nil, &domain.RemoteError{Op: op, Status: resp.StatusCode, Message: body.Message, Err: domain.ErrOTPRequest}
	}
	if decodeErr != nil {
		return nil, &domain.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("%w: decode response: %v", domain.ErrOTPRequest, decodeErr)}
	}

	result := &domain.OTPResult{Message: body.Message}
	if body.Data != nil {
		result.Code = string(body.Data.Code)
	}
	return result, nil
}

func decode(r io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(r, maxResponseSize))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New("empty response body")
	}
	return json.Unmarshal(data, v)
}

// localPath turns a picker URI (file:///..., or a bare path) into a filesystem path.
func localPath(uri string) (string, error) {
	if uri == "" {
		return "", errors.New("empty image uri")
	}
	if !strings.Contains(uri, "://") {
		return uri, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid image uri: %w", err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported image uri scheme %q", u.Scheme)
	}
	return u.Path, nil
}

// imageContentType sniffs the image type, defaulting to JPEG like the mobile app.
func imageContentType(content []byte) string {
	mt := mimetype.Detect(content)
	if strings.HasPrefix(mt.String(), "image/") {
		return mt.String()
	}
	return "image/jpeg"
}
