// Package home assembles the data shown on the shop's home screen.
package home

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Thanhnebe/hoainamprj/internal/domain"
	"github.com/Thanhnebe/hoainamprj/internal/i18n"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/message"
)

// DefaultAvatar is the header image used when the session has no photo.
const DefaultAvatar = "https://photo.znews.vn/w660/Uploaded/mdf_eioxrd/2021_07_06/2.jpg"

// TopProductCount is how many best sellers the home screen lists.
const TopProductCount = 10

var banners = []domain.Banner{
	{ID: 1, URL: "https://photo.znews.vn/w660/Uploaded/mdf_eioxrd/2021_07_06/2.jpg"},
	{ID: 2, URL: "https://d1hjkbq40fs2x4.cloudfront.net/2016-01-31/files/1045.jpg"},
	{ID: 3, URL: "https://tipyjakfotit.cz/wp-content/uploads/2017/02/shutterstock_1200858942.jpg"},
}

// Feed is everything the home screen renders.
type Feed struct {
	Avatar   string           `json:"avatar"`
	Banners  []domain.Banner  `json:"banners"`
	Products []domain.Product `json:"products"`
}

// ProductSource lists best-selling products.
type ProductSource interface {
	TopProducts(ctx context.Context, n int) ([]domain.Product, error)
}

// SimulatedProducts produces numbered placeholder products after Delay, the
// way the app fakes its catalog until a real endpoint exists.
type SimulatedProducts struct {
	Delay   time.Duration
	Printer *message.Printer
}

// TopProducts waits for Delay, then returns n products named with the
// i18n.MsgProductName key in the printer's language.
func (s SimulatedProducts) TopProducts(ctx context.Context, n int) ([]domain.Product, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	printer := s.Printer
	if printer == nil {
		printer = i18n.NewPrinter("vi")
	}
	products := make([]domain.Product, n)
	for i := range products {
		products[i] = domain.Product{ID: i, Name: printer.Sprintf(i18n.MsgProductName, i+1)}
	}
	return products, nil
}

// Service loads the home feed.
type Service struct {
	sessions domain.SessionStore
	products ProductSource
	logger   *slog.Logger
}

// NewService creates a home feed service.
func NewService(sessions domain.SessionStore, products ProductSource, logger *slog.Logger) *Service {
	return &Service{sessions: sessions, products: products, logger: logger}
}

// Banners returns a copy of the carousel slides.
func Banners() []domain.Banner {
	return append([]domain.Banner(nil), banners...)
}

// Load fetches the avatar and the product list concurrently. A missing or
// unreadable session only costs the avatar; a product failure fails the feed.
func (s *Service) Load(ctx context.Context) (*Feed, error) {
	feed := &Feed{Avatar: DefaultAvatar, Banners: Banners()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sess, err := s.sessions.Get(gctx)
		if err != nil {
			s.logger.Warn("could not read session for header avatar", "error", err)
			return nil
		}
		if sess != nil && sess.PhotoURL != "" {
			feed.Avatar = sess.PhotoURL
		}
		return nil
	})
	g.Go(func() error {
		products, err := s.products.TopProducts(gctx, TopProductCount)
		if err != nil {
			return fmt.Errorf("failed to load top products: %w", err)
		}
		feed.Products = products
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("home feed load failed", "error", err)
		return nil, err
	}
	return feed, nil
}
