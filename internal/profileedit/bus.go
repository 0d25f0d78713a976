package profileedit

import (
	"context"
	"log/slog"

	"github.com/Thanhnebe/hoainamprj/internal/domain"
	"github.com/Thanhnebe/hoainamprj/internal/pubsub"
)

// NavigationRequest asks the shell to open a screen with an OTP handoff.
type NavigationRequest struct {
	Screen  string                   `json:"screen"`
	Payload domain.OTPHandoffPayload `json:"payload"`
}

// StateChange reports a controller transition.
type StateChange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

var (
	NoticeEvent     = pubsub.NewEvent[Notice]("profile.notice", "User-visible alert raised by the profile editor")
	NavigationEvent = pubsub.NewEvent[NavigationRequest]("navigation.request", "Screen change requested by the profile editor")
	StateEvent      = pubsub.NewEvent[StateChange]("profile.state", "Profile editor state transition")
)

// BusNotifier publishes notices on the message bus.
type BusNotifier struct {
	Publisher pubsub.Publisher
}

func (n BusNotifier) Notify(ctx context.Context, notice Notice) error {
	return pubsub.Publish(ctx, n.Publisher, NoticeEvent, notice)
}

// BusNavigator publishes navigation requests on the message bus.
type BusNavigator struct {
	Publisher pubsub.Publisher
}

func (n BusNavigator) Navigate(ctx context.Context, screen string, payload domain.OTPHandoffPayload) error {
	return pubsub.Publish(ctx, n.Publisher, NavigationEvent, NavigationRequest{Screen: screen, Payload: payload})
}

// PublishStates returns an observer that publishes every transition. Publish
// failures are logged and otherwise ignored.
func PublishStates(ctx context.Context, p pubsub.Publisher, logger *slog.Logger) StateObserver {
	return func(from, to State) {
		change := StateChange{From: from.String(), To: to.String()}
		if err := pubsub.Publish(ctx, p, StateEvent, change); err != nil {
			logger.Warn("failed to publish state change", "from", change.From, "to", change.To, "error", err)
		}
	}
}
