// Package app wires the client-side services together.
package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Thanhnebe/hoainamprj/internal/config"
	"github.com/Thanhnebe/hoainamprj/internal/domain"
	"github.com/Thanhnebe/hoainamprj/internal/home"
	"github.com/Thanhnebe/hoainamprj/internal/i18n"
	"github.com/Thanhnebe/hoainamprj/internal/profileapi"
	"github.com/Thanhnebe/hoainamprj/internal/profileedit"
	"github.com/Thanhnebe/hoainamprj/internal/pubsub"
	"github.com/Thanhnebe/hoainamprj/internal/session"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"
	"golang.org/x/text/message"
)

// ProductDelay is how long the simulated catalog takes to answer.
const ProductDelay = time.Second

// Container holds the core services required by the commands.
type Container struct {
	injector do.Injector
}

// New registers every service. Services are built lazily on first use.
// fs backs the session record and local image reads.
func New(cfg *config.Config, logger *slog.Logger, fs afero.Fs) *Container {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, fs)

	do.Provide(injector, func(i do.Injector) (*message.Printer, error) {
		return i18n.NewPrinter(do.MustInvoke[*config.Config](i).Lang), nil
	})
	do.Provide(injector, func(i do.Injector) (*session.AferoKV, error) {
		return session.NewAferoKV(do.MustInvoke[afero.Fs](i), do.MustInvoke[*config.Config](i).SessionDir), nil
	})
	do.Provide(injector, func(i do.Injector) (*session.Store, error) {
		return session.NewStore(do.MustInvoke[*session.AferoKV](i), do.MustInvoke[*slog.Logger](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (*profileapi.Client, error) {
		c := do.MustInvoke[*config.Config](i)
		return profileapi.NewClient(
			&http.Client{Timeout: c.HTTPTimeout},
			c.APIBaseURL,
			do.MustInvoke[*slog.Logger](i),
			profileapi.WithSignedUploads(c.SignedUploads),
			profileapi.WithFs(do.MustInvoke[afero.Fs](i)),
		), nil
	})
	do.Provide(injector, func(i do.Injector) (*pubsub.WatermillBridge, error) {
		return pubsub.NewWatermillBridge(do.MustInvoke[*slog.Logger](i)), nil
	})
	do.Provide(injector, func(i do.Injector) (*home.Service, error) {
		products := home.SimulatedProducts{Delay: ProductDelay, Printer: do.MustInvoke[*message.Printer](i)}
		return home.NewService(do.MustInvoke[*session.Store](i), products, do.MustInvoke[*slog.Logger](i)), nil
	})

	return &Container{injector: injector}
}

// Config returns the loaded configuration.
func (c *Container) Config() *config.Config { return do.MustInvoke[*config.Config](c.injector) }

// Logger returns the application logger.
func (c *Container) Logger() *slog.Logger { return do.MustInvoke[*slog.Logger](c.injector) }

// Sessions returns the persisted session store.
func (c *Container) Sessions() *session.Store { return do.MustInvoke[*session.Store](c.injector) }

// SessionPath returns the file holding the session record.
func (c *Container) SessionPath() string {
	return do.MustInvoke[*session.AferoKV](c.injector).Path(domain.SessionKey)
}

// API returns the profile backend client.
func (c *Container) API() *profileapi.Client { return do.MustInvoke[*profileapi.Client](c.injector) }

// Bus returns the in-process message bus.
func (c *Container) Bus() *pubsub.WatermillBridge {
	return do.MustInvoke[*pubsub.WatermillBridge](c.injector)
}

// Home returns the home feed service.
func (c *Container) Home() *home.Service { return do.MustInvoke[*home.Service](c.injector) }

// Printer returns the message printer for the configured language.
func (c *Container) Printer() *message.Printer { return do.MustInvoke[*message.Printer](c.injector) }

// NewProfileEditor builds a profile editor whose notices, navigation requests
// and state changes go out on the bus.
func (c *Container) NewProfileEditor(picker profileedit.ImagePicker, onTransition profileedit.StateObserver) *profileedit.Controller {
	bus := c.Bus()
	return profileedit.New(profileedit.Dependencies{
		Sessions:     c.Sessions(),
		API:          c.API(),
		Picker:       picker,
		Notifier:     profileedit.BusNotifier{Publisher: bus},
		Navigator:    profileedit.BusNavigator{Publisher: bus},
		Printer:      c.Printer(),
		Logger:       c.Logger(),
		Placeholder:  c.Config().AvatarPlaceholder,
		OnTransition: onTransition,
	})
}

// Close shuts down every service that was built, the message bus included.
func (c *Container) Close() {
	c.injector.Shutdown()
}
