package profileedit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Thanhnebe/hoainamprj/internal/domain"
	"github.com/Thanhnebe/hoainamprj/internal/i18n"
	"github.com/Thanhnebe/hoainamprj/internal/logging"
	"github.com/Thanhnebe/hoainamprj/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusWiring(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bridge := pubsub.NewWatermillBridge(logging.Discard())
	defer bridge.Close()

	notices := make(chan Notice, 8)
	navigations := make(chan NavigationRequest, 1)
	states := make(chan StateChange, 16)
	require.NoError(t, pubsub.Subscribe(ctx, bridge, NoticeEvent, func(ctx context.Context, n Notice) error {
		notices <- n
		return nil
	}))
	require.NoError(t, pubsub.Subscribe(ctx, bridge, NavigationEvent, func(ctx context.Context, r NavigationRequest) error {
		navigations <- r
		return nil
	}))
	require.NoError(t, pubsub.Subscribe(ctx, bridge, StateEvent, func(ctx context.Context, s StateChange) error {
		states <- s
		return nil
	}))

	api := newFakeAPI()
	api.profile = &domain.Profile{Email: "x@y.com", Name: "X"}
	c := New(Dependencies{
		Sessions:     &fakeSessions{sess: &domain.Session{UserID: "u1", AccessToken: "t1"}},
		API:          api,
		Notifier:     BusNotifier{Publisher: bridge},
		Navigator:    BusNavigator{Publisher: bridge},
		Printer:      i18n.NewPrinter("en"),
		Logger:       logging.Discard(),
		OnTransition: PublishStates(ctx, bridge, logging.Discard()),
	})
	defer c.Close()

	require.NoError(t, c.Initialize(ctx))
	_, err := c.RequestOTP(ctx)
	require.NoError(t, err)

	select {
	case r := <-navigations:
		assert.Equal(t, domain.ScreenOTPVerification, r.Screen)
		assert.Equal(t, "x@y.com", r.Payload.Email)
		require.NotNil(t, r.Payload.UserID)
		assert.Equal(t, "u1", *r.Payload.UserID)
		assert.Nil(t, r.Payload.Image)
	case <-time.After(2 * time.Second):
		t.Fatal("navigation request was not published")
	}

	select {
	case n := <-notices:
		assert.Equal(t, KindOTPSent, n.Kind)
		assert.Equal(t, LevelInfo, n.Level)
	case <-time.After(2 * time.Second):
		t.Fatal("notice was not published")
	}

	var seen []string
	require.Eventually(t, func() bool {
		for {
			select {
			case s := <-states:
				seen = append(seen, s.To)
			default:
				return len(seen) > 0 && seen[len(seen)-1] == StateHandedOff.String()
			}
		}
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"resolving_session", "loading_profile", "ready", "requesting_otp", "handed_off"}, seen)
}

func TestBusWiring_FailingStateSubscriber(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bridge := pubsub.NewWatermillBridge(logging.Discard())
	defer bridge.Close()

	require.NoError(t, pubsub.Subscribe(ctx, bridge, StateEvent, func(ctx context.Context, s StateChange) error {
		return errors.New("write |1: broken pipe")
	}))

	api := newFakeAPI()
	api.profile = &domain.Profile{Email: "x@y.com", Name: "X"}
	c := New(Dependencies{
		Sessions:     &fakeSessions{sess: &domain.Session{UserID: "u1", AccessToken: "t1"}},
		API:          api,
		Printer:      i18n.NewPrinter("en"),
		Logger:       logging.Discard(),
		OnTransition: PublishStates(ctx, bridge, logging.Discard()),
	})
	defer c.Close()

	done := make(chan error, 1)
	go func() {
		if err := c.Initialize(ctx); err != nil {
			done <- err
			return
		}
		_, err := c.RequestOTP(ctx)
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("controller blocked by a failing state subscriber")
	}
	assert.Equal(t, StateHandedOff, c.State())
}

func TestObserverRunsOutsideLock(t *testing.T) {
	api := newFakeAPI()
	api.profile = &domain.Profile{Email: "x@y.com"}

	var c *Controller
	var seen []State
	c = New(Dependencies{
		Sessions: &fakeSessions{sess: &domain.Session{UserID: "u1", AccessToken: "t1"}},
		API:      api,
		Logger:   logging.Discard(),
		OnTransition: func(from, to State) {
			// Reading the controller here would deadlock if mu were held.
			seen = append(seen, c.State())
		},
	})
	defer c.Close()

	require.NoError(t, c.Initialize(context.Background()))
	require.NotEmpty(t, seen)
	assert.Equal(t, StateReady, seen[len(seen)-1])
}
