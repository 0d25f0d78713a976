package home

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Thanhnebe/hoainamprj/internal/domain"
	"github.com/Thanhnebe/hoainamprj/internal/i18n"
	"github.com/Thanhnebe/hoainamprj/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessions struct {
	sess *domain.Session
	err  error
}

func (s stubSessions) Get(ctx context.Context) (*domain.Session, error) {
	return s.sess, s.err
}

type failingProducts struct{}

func (failingProducts) TopProducts(ctx context.Context, n int) ([]domain.Product, error) {
	return nil, errors.New("catalog offline")
}

func TestSimulatedProducts(t *testing.T) {
	t.Run("vietnamese names", func(t *testing.T) {
		products, err := SimulatedProducts{Printer: i18n.NewPrinter("vi")}.TopProducts(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, products, 10)
		assert.Equal(t, domain.Product{ID: 0, Name: "Sản phẩm 1"}, products[0])
		assert.Equal(t, domain.Product{ID: 9, Name: "Sản phẩm 10"}, products[9])
	})

	t.Run("english names", func(t *testing.T) {
		products, err := SimulatedProducts{Printer: i18n.NewPrinter("en")}.TopProducts(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, "Product 2", products[1].Name)
	})

	t.Run("delay honours cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := SimulatedProducts{Delay: time.Hour}.TopProducts(ctx, 10)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestService_Load(t *testing.T) {
	ctx := context.Background()
	products := SimulatedProducts{Delay: 10 * time.Millisecond, Printer: i18n.NewPrinter("vi")}

	t.Run("session avatar", func(t *testing.T) {
		svc := NewService(stubSessions{sess: &domain.Session{UserID: "u1", PhotoURL: "https://cdn/me.jpg"}}, products, logging.Discard())

		feed, err := svc.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn/me.jpg", feed.Avatar)
		assert.Len(t, feed.Banners, 3)
		assert.Len(t, feed.Products, TopProductCount)
	})

	t.Run("fallback avatar without session", func(t *testing.T) {
		svc := NewService(stubSessions{}, products, logging.Discard())

		feed, err := svc.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, DefaultAvatar, feed.Avatar)
	})

	t.Run("session error only costs the avatar", func(t *testing.T) {
		svc := NewService(stubSessions{err: errors.New("io")}, products, logging.Discard())

		feed, err := svc.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, DefaultAvatar, feed.Avatar)
	})

	t.Run("product failure fails the feed", func(t *testing.T) {
		svc := NewService(stubSessions{}, failingProducts{}, logging.Discard())

		_, err := svc.Load(ctx)
		assert.ErrorContains(t, err, "catalog offline")
	})

	t.Run("banners are copies", func(t *testing.T) {
		b := Banners()
		b[0].URL = "changed"
		assert.NotEqual(t, "changed", Banners()[0].URL)
	})
}
