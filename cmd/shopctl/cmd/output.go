package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/Thanhnebe/hoainamprj/internal/profileedit"
	"github.com/Thanhnebe/hoainamprj/internal/pubsub"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// printNotices writes every notice and navigation request published on the
// bus to w, and state transitions too when states is set.
func printNotices(ctx context.Context, sub pubsub.Subscriber, w io.Writer, states bool) error {
	if states {
		if err := pubsub.Subscribe(ctx, sub, profileedit.StateEvent, func(ctx context.Context, s profileedit.StateChange) error {
			_, err := fmt.Fprintf(w, "state: %s -> %s\n", s.From, s.To)
			return err
		}); err != nil {
			return err
		}
	}
	if err := pubsub.Subscribe(ctx, sub, profileedit.NoticeEvent, func(ctx context.Context, n profileedit.Notice) error {
		_, err := fmt.Fprintf(w, "[%s] %s\n", n.Title, n.Message)
		return err
	}); err != nil {
		return err
	}
	return pubsub.Subscribe(ctx, sub, profileedit.NavigationEvent, func(ctx context.Context, r profileedit.NavigationRequest) error {
		_, err := fmt.Fprintf(w, "-> %s\n", r.Screen)
		return err
	})
}

// flagPicker answers the first pick with the path given on the command line
// and treats later picks, or an empty path, as cancelled.
type flagPicker struct {
	path string
	used bool
}

func (p *flagPicker) PickImage(ctx context.Context) (string, bool, error) {
	if p.used || p.path == "" {
		return "", false, nil
	}
	p.used = true
	abs, err := filepath.Abs(p.path)
	if err != nil {
		return "", false, err
	}
	return "file://" + filepath.ToSlash(abs), true, nil
}
