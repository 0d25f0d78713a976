package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Thanhnebe/hoainamprj/internal/domain"
	"github.com/Thanhnebe/hoainamprj/internal/logging"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *AferoKV, afero.Fs) {
	t.Helper()
	memFs := afero.NewMemMapFs()
	kv := NewAferoKV(memFs, "/data/session")
	return NewStore(kv, logging.Discard()), kv, memFs
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("missing record is no session", func(t *testing.T) {
		store, _, _ := newTestStore(t)
		sess, err := store.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, sess)
	})

	t.Run("malformed record is no session", func(t *testing.T) {
		store, kv, _ := newTestStore(t)
		require.NoError(t, kv.SetItem(ctx, domain.SessionKey, "{not json"))

		sess, err := store.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, sess)
	})

	t.Run("reads the mobile app record format", func(t *testing.T) {
		store, kv, _ := newTestStore(t)
		require.NoError(t, kv.SetItem(ctx, domain.SessionKey,
			`{"id":"u1","accesstoken":"t1","photoUrl":"https://cdn/p.jpg"}`))

		sess, err := store.Get(ctx)
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.Equal(t, "u1", sess.UserID)
		assert.Equal(t, "t1", sess.AccessToken)
		assert.Equal(t, "https://cdn/p.jpg", sess.PhotoURL)
		assert.True(t, sess.HasUser())
	})

	t.Run("record without id has no user", func(t *testing.T) {
		store, kv, _ := newTestStore(t)
		require.NoError(t, kv.SetItem(ctx, domain.SessionKey, `{"accesstoken":"t1"}`))

		sess, err := store.Get(ctx)
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.False(t, sess.HasUser())
	})
}

func TestStore_SaveAndClear(t *testing.T) {
	ctx := context.Background()
	store, kv, memFs := newTestStore(t)

	require.NoError(t, store.Save(ctx, domain.Session{UserID: "u1", AccessToken: "t1"}))

	exists, err := afero.Exists(memFs, kv.Path(domain.SessionKey))
	require.NoError(t, err)
	assert.True(t, exists)

	sess, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, &domain.Session{UserID: "u1", AccessToken: "t1"}, sess)

	require.NoError(t, store.Clear(ctx))
	sess, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)

	assert.NoError(t, store.Clear(ctx), "clearing twice is fine")
}

func TestWatch_FiresWhenRecordAppears(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session", "auth.json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	called := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, logging.Discard(), func() { called <- struct{}{} })
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(`{"id":"u1"}`), 0o600)
		select {
		case <-called:
			return true
		default:
			return false
		}
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
