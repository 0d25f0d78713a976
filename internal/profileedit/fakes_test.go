package profileedit

import (
	"context"
	"sync"

	"github.com/Thanhnebe/hoainamprj/internal/domain"
)

type fakeSessions struct {
	sess *domain.Session
	err  error

	mu    sync.Mutex
	calls int
}

func (f *fakeSessions) Get(ctx context.Context) (*domain.Session, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.sess == nil {
		return nil, f.err
	}
	sess := *f.sess
	return &sess, f.err
}

type uploadResult struct {
	url string
	err error
}

// fakeAPI records calls. Uploads block until released per URI when gated.
type fakeAPI struct {
	profile  *domain.Profile
	fetchErr error
	otp      *domain.OTPResult
	otpErr   error
	otpGate  chan struct{}
	gated    bool

	mu          sync.Mutex
	fetchCalls  []string
	otpEmails   []string
	uploadURIs  []string
	uploadDone  int
	gates       map[string]chan uploadResult
	uploadURLs  map[string]string
	uploadErrs  map[string]error
	uploadToken []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		otp:        &domain.OTPResult{Code: "123456", Message: "sent"},
		gates:      make(map[string]chan uploadResult),
		uploadURLs: make(map[string]string),
		uploadErrs: make(map[string]error),
	}
}

func (f *fakeAPI) FetchProfile(ctx context.Context, userID, token string) (*domain.Profile, error) {
	f.mu.Lock()
	f.fetchCalls = append(f.fetchCalls, userID+"/"+token)
	f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	p := f.profile.Clone()
	return &p, nil
}

func (f *fakeAPI) gate(uri string) chan uploadResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.gates[uri]
	if !ok {
		ch = make(chan uploadResult, 1)
		f.gates[uri] = ch
	}
	return ch
}

// release lets the gated upload of uri finish with the given result.
func (f *fakeAPI) release(uri, url string, err error) {
	f.gate(uri) <- uploadResult{url: url, err: err}
}

func (f *fakeAPI) UploadImage(ctx context.Context, userID, token, localURI string) (string, error) {
	f.mu.Lock()
	f.uploadURIs = append(f.uploadURIs, localURI)
	f.uploadToken = append(f.uploadToken, token)
	gated := f.gated
	url, err := f.uploadURLs[localURI], f.uploadErrs[localURI]
	f.mu.Unlock()

	if gated {
		res := <-f.gate(localURI)
		url, err = res.url, res.err
	}

	f.mu.Lock()
	f.uploadDone++
	f.mu.Unlock()
	return url, err
}

func (f *fakeAPI) RequestOTP(ctx context.Context, email string) (*domain.OTPResult, error) {
	f.mu.Lock()
	f.otpEmails = append(f.otpEmails, email)
	gate := f.otpGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.otpErr != nil {
		return nil, f.otpErr
	}
	res := *f.otp
	return &res, nil
}

func (f *fakeAPI) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetchCalls)
}

func (f *fakeAPI) otpCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.otpEmails...)
}

func (f *fakeAPI) uploadsFinished() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploadDone
}

// queuePicker hands out URIs in order; an empty entry means the user cancelled.
type queuePicker struct {
	mu   sync.Mutex
	uris []string
}

func (p *queuePicker) PickImage(ctx context.Context) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.uris) == 0 {
		return "", false, nil
	}
	uri := p.uris[0]
	p.uris = p.uris[1:]
	return uri, uri != "", nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recordingNotifier) Notify(ctx context.Context, n Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
	return nil
}

func (r *recordingNotifier) kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kinds []Kind
	for _, n := range r.notices {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

func (r *recordingNotifier) last() Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

type navigation struct {
	screen  string
	payload domain.OTPHandoffPayload
}

type recordingNavigator struct {
	mu    sync.Mutex
	calls []navigation
}

func (r *recordingNavigator) Navigate(ctx context.Context, screen string, payload domain.OTPHandoffPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, navigation{screen: screen, payload: payload})
	return nil
}

func (r *recordingNavigator) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type transitionLog struct {
	mu     sync.Mutex
	states []string
}

func (l *transitionLog) observe(from, to State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, from.String()+">"+to.String())
}

func (l *transitionLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.states...)
}
