package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Thanhnebe/hoainamprj/internal/config"
	"github.com/Thanhnebe/hoainamprj/internal/domain"
	"github.com/Thanhnebe/hoainamprj/internal/logging"
	"github.com/Thanhnebe/hoainamprj/internal/profileedit"
	"github.com/Thanhnebe/hoainamprj/internal/testutils"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainer(t *testing.T) {
	cfg := testutils.ConfigForTests(t)
	cfg.Lang = "vi"
	memFs := afero.NewMemMapFs()
	c := New(cfg, logging.Discard(), memFs)
	defer c.Close()

	assert.Same(t, c.Sessions(), c.Sessions(), "services are singletons")
	assert.Same(t, c.Bus(), c.Bus())
	assert.Equal(t, filepath.Join(cfg.SessionDir, "auth.json"), c.SessionPath())
	assert.Equal(t, "Lỗi", c.Printer().Sprintf("Error"))

	ctx := context.Background()
	require.NoError(t, c.Sessions().Save(ctx, domain.Session{UserID: "u1", AccessToken: "t1", PhotoURL: "https://cdn/me.jpg"}))

	exists, err := afero.Exists(memFs, c.SessionPath())
	require.NoError(t, err)
	assert.True(t, exists, "session is written through the injected filesystem")

	t.Run("home feed reads the session avatar", func(t *testing.T) {
		if testing.Short() {
			t.Skip("simulated catalog delay")
		}
		feed, err := c.Home().Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn/me.jpg", feed.Avatar)
		assert.Equal(t, "Sản phẩm 1", feed.Products[0].Name)
	})

	t.Run("profile editor without a backend", func(t *testing.T) {
		require.NoError(t, c.Sessions().Clear(ctx))
		editor := c.NewProfileEditor(profileedit.PickerFunc(func(context.Context) (string, bool, error) {
			return "", false, nil
		}), nil)
		defer editor.Close()

		require.NoError(t, editor.Initialize(ctx))
		assert.Equal(t, profileedit.StateReady, editor.State())
		assert.Equal(t, config.DefaultAvatarPlaceholder, editor.DisplayImage())
	})
}
