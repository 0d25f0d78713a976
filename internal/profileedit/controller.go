// Package profileedit implements the profile editing workflow: session
// resolution, profile load, local edits, optimistic avatar upload and the OTP
// request that hands the changes over to verification.
package profileedit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Thanhnebe/hoainamprj/internal/domain"
	"github.com/Thanhnebe/hoainamprj/internal/i18n"
	"golang.org/x/text/message"
)

var (
	// ErrClosed is returned when a result arrives after Close.
	ErrClosed = errors.New("profile editor closed")
	// ErrOTPInFlight is returned when an OTP request is already running.
	ErrOTPInFlight = errors.New("otp request already in progress")
)

// ProfileAPI is the subset of the backend the workflow needs.
type ProfileAPI interface {
	FetchProfile(ctx context.Context, userID, token string) (*domain.Profile, error)
	UploadImage(ctx context.Context, userID, token, localURI string) (string, error)
	RequestOTP(ctx context.Context, email string) (*domain.OTPResult, error)
}

// StateObserver is called on every state change, in order, after the
// controller has released its lock. It may read the controller but must not
// drive it.
type StateObserver func(from, to State)

// Dependencies are injected once at construction.
type Dependencies struct {
	Sessions     domain.SessionStore
	API          ProfileAPI
	Picker       ImagePicker
	Notifier     Notifier
	Navigator    domain.Navigator
	Printer      *message.Printer
	Logger       *slog.Logger
	Placeholder  string
	OnTransition StateObserver
}

// View is a consistent snapshot of the controller for display.
type View struct {
	State        State          `json:"state"`
	UserID       string         `json:"userId,omitempty"`
	Profile      domain.Profile `json:"profile"`
	PendingImage string         `json:"pendingImage,omitempty"`
	DisplayImage string         `json:"displayImage"`
}

// Controller owns the profile screen's state. All fields below mu are only
// touched with mu held.
type Controller struct {
	sessions     domain.SessionStore
	api          ProfileAPI
	picker       ImagePicker
	notifier     Notifier
	navigator    domain.Navigator
	printer      *message.Printer
	logger       *slog.Logger
	placeholder  string
	onTransition StateObserver

	uploads sync.WaitGroup

	// observeMu keeps observer calls in transition order.
	observeMu   sync.Mutex
	transitions []transition

	mu        sync.Mutex
	state     State
	session   *domain.Session
	loadedFor string
	working   domain.Profile
	pending   string
	uploadSeq uint64
	uploading bool
	closed    bool
}

// New creates a controller in the Idle state.
func New(deps Dependencies) *Controller {
	c := &Controller{
		sessions:     deps.Sessions,
		api:          deps.API,
		picker:       deps.Picker,
		notifier:     deps.Notifier,
		navigator:    deps.Navigator,
		printer:      deps.Printer,
		logger:       deps.Logger,
		placeholder:  deps.Placeholder,
		onTransition: deps.OnTransition,
		state:        StateIdle,
	}
	if c.notifier == nil {
		c.notifier = discardNotifier{}
	}
	if c.printer == nil {
		c.printer = i18n.NewPrinter("vi")
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Initialize resolves the stored session once and, when it names a user,
// loads that user's profile. A missing session is not an error here: the form
// becomes usable and remote actions report the problem when attempted.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	c.setState(StateResolvingSession)
	c.unlock()

	sess, err := c.sessions.Get(ctx)
	if err != nil {
		c.logger.Warn("session lookup failed, continuing without session", "error", err)
		sess = nil
	}

	c.mu.Lock()
	if c.closed {
		c.unlock()
		return ErrClosed
	}
	c.session = sess
	if !sess.HasUser() {
		c.logger.Info("no stored session, profile will not be loaded")
		c.setState(c.restingState())
		c.unlock()
		return nil
	}
	if c.loadedFor == sess.UserID {
		c.setState(c.restingState())
		c.unlock()
		return nil
	}
	c.unlock()

	return c.LoadProfile(ctx)
}

// LoadProfile fetches the remote profile for the resolved user and replaces
// the working copy with it. On failure the working copy is reset to empty so
// the form stays usable.
func (c *Controller) LoadProfile(ctx context.Context) error {
	c.mu.Lock()
	sess := c.session
	if !sess.HasUser() {
		c.unlock()
		return domain.ErrNoSession
	}
	if sess.AccessToken == "" {
		c.setState(c.restingState())
		c.unlock()
		c.notify(ctx, c.errorNotice(KindUnauthorized, i18n.MsgNoToken))
		return domain.ErrUnauthorized
	}
	c.setState(StateLoadingProfile)
	c.unlock()

	profile, err := c.api.FetchProfile(ctx, sess.UserID, sess.AccessToken)

	c.mu.Lock()
	if c.closed {
		c.unlock()
		c.logger.Debug("discarding profile load after close", "user_id", sess.UserID)
		return ErrClosed
	}
	if err != nil {
		c.working = domain.Profile{}
		c.setState(StateError)
		c.setState(c.restingState())
		c.unlock()

		c.logger.Error("failed to load profile", "user_id", sess.UserID, "error", err)
		if errors.Is(err, domain.ErrUnauthorized) {
			c.notify(ctx, c.errorNotice(KindUnauthorized, i18n.MsgNoToken))
		} else {
			c.notify(ctx, c.errorNotice(KindFetchError, i18n.MsgFetchFailed))
		}
		return fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}

	c.working = profile.Clone()
	c.loadedFor = sess.UserID
	c.setState(c.restingState())
	c.unlock()

	c.logger.Info("profile loaded", "user_id", sess.UserID)
	return nil
}

// SetName changes the working copy's name.
func (c *Controller) SetName(name string) error {
	return c.edit(func(p *domain.Profile) { p.Name = name })
}

// SetEmail changes the working copy's email. The OTP request goes to this address.
func (c *Controller) SetEmail(email string) error {
	return c.edit(func(p *domain.Profile) { p.Email = email })
}

func (c *Controller) edit(fn func(p *domain.Profile)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.editable() {
		return fmt.Errorf("%w (state %s)", domain.ErrNotReady, c.state)
	}
	fn(&c.working)
	return nil
}

// PickImage asks the picker for an image, shows it immediately as the pending
// image and uploads it in the background. Only the most recent pick may
// update the profile; older uploads finishing later are ignored.
func (c *Controller) PickImage(ctx context.Context) error {
	c.mu.Lock()
	if !c.state.editable() {
		state := c.state
		c.unlock()
		return fmt.Errorf("%w (state %s)", domain.ErrNotReady, state)
	}
	c.unlock()

	uri, ok, err := c.picker.PickImage(ctx)
	if err != nil {
		return fmt.Errorf("pick image: %w", err)
	}
	if !ok || uri == "" {
		c.logger.Debug("image pick cancelled")
		return nil
	}

	c.mu.Lock()
	if c.closed {
		c.unlock()
		return ErrClosed
	}
	c.pending = uri
	c.uploadSeq++
	seq := c.uploadSeq
	sess := c.session
	if !sess.HasUser() {
		// Keep the preview; there is nobody to upload it for.
		c.uploading = false
		c.unlock()
		c.notify(ctx, c.errorNotice(KindNoSession, i18n.MsgNoSession))
		return domain.ErrNoSession
	}
	c.uploading = true
	if c.state == StateReady {
		c.setState(StateSubmittingImage)
	}
	c.uploads.Add(1)
	c.unlock()

	go c.upload(context.WithoutCancel(ctx), seq, *sess, uri)
	return nil
}

func (c *Controller) upload(ctx context.Context, seq uint64, sess domain.Session, uri string) {
	defer c.uploads.Done()

	url, err := c.api.UploadImage(ctx, sess.UserID, sess.AccessToken, uri)

	c.mu.Lock()
	if c.closed || seq != c.uploadSeq {
		latest, closed := c.uploadSeq, c.closed
		c.unlock()
		c.logger.Debug("discarding stale upload result", "seq", seq, "latest", latest, "closed", closed)
		return
	}

	c.uploading = false
	var n Notice
	if err != nil {
		// The local preview stays; only the remote copy is out of date.
		if c.state == StateSubmittingImage {
			c.setState(StateError)
		}
		n = c.errorNotice(KindUploadError, i18n.MsgUploadFail)
	} else {
		c.working.PhotoURL = url
		c.pending = ""
		n = c.infoNotice(KindUploaded, i18n.TitleSuccess, i18n.MsgUploadOK)
	}
	if c.state == StateSubmittingImage || c.state == StateError {
		c.setState(StateReady)
	}
	c.unlock()

	if err != nil {
		c.logger.Warn("photo upload failed, keeping local preview", "user_id", sess.UserID, "error", err)
	} else {
		c.logger.Info("photo uploaded", "user_id", sess.UserID, "photo_url", url)
	}
	c.notify(ctx, n)
}

// RequestOTP asks the backend to send a code to the working copy's email and,
// on success, hands the edited profile over to the verification screen.
func (c *Controller) RequestOTP(ctx context.Context) (domain.OTPHandoffPayload, error) {
	c.mu.Lock()
	if c.state == StateRequestingOTP {
		c.unlock()
		return domain.OTPHandoffPayload{}, ErrOTPInFlight
	}
	if !c.state.editable() {
		state := c.state
		c.unlock()
		return domain.OTPHandoffPayload{}, fmt.Errorf("%w (state %s)", domain.ErrNotReady, state)
	}
	sess := c.session
	if sess == nil || sess.AccessToken == "" {
		c.unlock()
		if sess == nil {
			c.notify(ctx, c.errorNotice(KindNoSession, i18n.MsgNoSession))
			return domain.OTPHandoffPayload{}, domain.ErrNoSession
		}
		c.notify(ctx, c.errorNotice(KindUnauthorized, i18n.MsgNoToken))
		return domain.OTPHandoffPayload{}, domain.ErrUnauthorized
	}
	email := c.working.Email
	c.setState(StateRequestingOTP)
	c.unlock()

	res, err := c.api.RequestOTP(ctx, email)

	c.mu.Lock()
	if c.closed {
		c.unlock()
		c.logger.Debug("discarding otp response after close")
		return domain.OTPHandoffPayload{}, ErrClosed
	}
	if err != nil {
		c.setState(StateError)
		c.setState(c.restingState())
		c.unlock()

		c.logger.Error("otp request failed", "email", email, "error", err)
		n := c.errorNotice(KindOTPRequestError, i18n.MsgOTPFailed)
		if msg := domain.ServerMessage(err); msg != "" {
			n.Message = msg
		}
		c.notify(ctx, n)
		return domain.OTPHandoffPayload{}, err
	}

	payload := domain.OTPHandoffPayload{
		Code:  res.Code,
		Email: email,
		Name:  c.working.Name,
		Image: ResolveHandoffImage(c.pending, c.working),
		Token: sess.AccessToken,
	}
	if sess.UserID != "" {
		uid := sess.UserID
		payload.UserID = &uid
	}
	c.setState(StateHandedOff)
	c.unlock()

	c.notify(ctx, c.infoNotice(KindOTPSent, i18n.TitleNotice, i18n.MsgOTPSent))
	if c.navigator != nil {
		if err := c.navigator.Navigate(ctx, domain.ScreenOTPVerification, payload); err != nil {
			c.logger.Error("failed to open otp verification", "error", err)
			return payload, fmt.Errorf("navigate to %s: %w", domain.ScreenOTPVerification, err)
		}
	}
	return payload, nil
}

// DisplayImage returns the avatar the screen should show right now.
func (c *Controller) DisplayImage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ResolveDisplayImage(c.pending, c.working, c.placeholder)
}

// Snapshot returns the current state for display.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		State:        c.state,
		Profile:      c.working,
		PendingImage: c.pending,
		DisplayImage: ResolveDisplayImage(c.pending, c.working, c.placeholder),
	}
	if c.session != nil {
		v.UserID = c.session.UserID
	}
	return v
}

// State returns the current workflow state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Wait blocks until every upload started so far has finished.
func (c *Controller) Wait() {
	c.uploads.Wait()
}

// Close tears the controller down. Results of requests still in flight are
// dropped when they arrive.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// restingState is where the controller settles between user actions.
func (c *Controller) restingState() State {
	if c.uploading {
		return StateSubmittingImage
	}
	return StateReady
}

type transition struct {
	from, to State
}

// setState must be called with mu held. The observer is called once mu is
// released through unlock.
func (c *Controller) setState(to State) {
	from := c.state
	if from == to {
		return
	}
	c.state = to
	c.logger.Debug("profile editor state changed", "from", from.String(), "to", to.String())
	if c.onTransition != nil {
		c.transitions = append(c.transitions, transition{from: from, to: to})
	}
}

// unlock releases mu and reports the transitions recorded while it was held.
func (c *Controller) unlock() {
	c.mu.Unlock()
	if c.onTransition == nil {
		return
	}

	c.observeMu.Lock()
	defer c.observeMu.Unlock()
	c.mu.Lock()
	pending := c.transitions
	c.transitions = nil
	c.mu.Unlock()
	for _, t := range pending {
		c.onTransition(t.from, t.to)
	}
}

func (c *Controller) errorNotice(kind Kind, key string) Notice {
	return Notice{
		Level:   LevelError,
		Kind:    kind,
		Title:   c.printer.Sprintf(i18n.TitleError),
		Message: c.printer.Sprintf(key),
	}
}

func (c *Controller) infoNotice(kind Kind, titleKey, key string) Notice {
	return Notice{
		Level:   LevelInfo,
		Kind:    kind,
		Title:   c.printer.Sprintf(titleKey),
		Message: c.printer.Sprintf(key),
	}
}

func (c *Controller) notify(ctx context.Context, n Notice) {
	if err := c.notifier.Notify(ctx, n); err != nil {
		c.logger.Warn("failed to deliver notice", "kind", string(n.Kind), "error", err)
	}
}
