package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Thanhnebe/hoainamprj/internal/config"
	"github.com/Thanhnebe/hoainamprj/internal/devserver"
	"github.com/Thanhnebe/hoainamprj/internal/domain"
	"github.com/Thanhnebe/hoainamprj/internal/logging"
	"github.com/Thanhnebe/hoainamprj/internal/storage"
	"github.com/Thanhnebe/hoainamprj/internal/testutils"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup starts a dev backend and points the CLI at it through the environment.
func setup(t *testing.T) string {
	t.Helper()
	devCfg := config.DevServer{
		PublicURL:         "http://dev.local",
		MaxUploadBytes:    1 << 20,
		AllowedImageTypes: []string{"image/png"},
		UserID:            "u1",
		UserToken:         "t1",
		UserEmail:         "x@y.com",
		UserName:          "X",
		OTPTTL:            time.Minute,
		OTPReturnCode:     true,
	}
	srv := devserver.New(devCfg, devserver.SeedUsers(devCfg), storage.NewAferoStore(afero.NewMemMapFs(), 0), &testutils.RecordingSender{}, logging.Discard())
	server := httptest.NewServer(srv.E)
	t.Cleanup(server.Close)

	cfg := testutils.ConfigForTests(t)
	t.Setenv("SHOP_API_URL", server.URL)
	return cfg.SessionDir
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "shopctl v")
}

func TestLoginLogout(t *testing.T) {
	dir := setup(t)

	out, _, err := run(t, "login", "--id", "u1", "--token", "t1")
	require.NoError(t, err)
	assert.Equal(t, "logged in as u1\n", out)

	data, err := os.ReadFile(filepath.Join(dir, "auth.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1","accesstoken":"t1"}`, string(data))

	_, _, err = run(t, "logout")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "auth.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestProfileShow(t *testing.T) {
	setup(t)
	_, _, err := run(t, "login", "--id", "u1", "--token", "t1")
	require.NoError(t, err)

	out, _, err := run(t, "profile", "show")
	require.NoError(t, err)

	var view struct {
		State   string         `json:"state"`
		UserID  string         `json:"userId"`
		Profile domain.Profile `json:"profile"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "u1", view.UserID)
	assert.Equal(t, "x@y.com", view.Profile.Email)
	assert.Equal(t, "X", view.Profile.Name)
}

func TestProfileEdit(t *testing.T) {
	setup(t)
	_, _, err := run(t, "login", "--id", "u1", "--token", "t1")
	require.NoError(t, err)

	image := filepath.Join(t.TempDir(), "avatar.png")
	require.NoError(t, os.WriteFile(image, testutils.PNG, 0o644))

	out, errOut, err := run(t, "profile", "edit", "--email", "x2@y.com", "--image", image)
	require.NoError(t, err)

	var payload domain.OTPHandoffPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "x2@y.com", payload.Email)
	assert.Equal(t, "X", payload.Name)
	assert.Equal(t, "t1", payload.Token)
	assert.Len(t, payload.Code, 6)
	require.NotNil(t, payload.UserID)
	assert.Equal(t, "u1", *payload.UserID)
	require.NotNil(t, payload.Image)
	assert.Contains(t, *payload.Image, "http://dev.local/uploads/photos/u1/")

	assert.Contains(t, errOut, "[Success] Photo uploaded!")
	assert.Contains(t, errOut, "[Notice] The OTP code has been sent to your email!")
	assert.Contains(t, errOut, "-> OTPVerification")
}

func TestProfileEdit_NoSession(t *testing.T) {
	setup(t)

	_, errOut, err := run(t, "profile", "edit", "--email", "x2@y.com")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Contains(t, errOut, "You are not logged in")
}

func TestFlagPicker(t *testing.T) {
	p := &flagPicker{path: "a.jpg"}
	uri, ok, err := p.PickImage(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Regexp(t, `^file:///?.*a\.jpg$`, uri)

	_, ok, _ = p.PickImage(context.Background())
	assert.False(t, ok, "second pick is a cancel")

	_, ok, _ = (&flagPicker{}).PickImage(context.Background())
	assert.False(t, ok)
}

func TestProfileShow_States(t *testing.T) {
	setup(t)
	_, _, err := run(t, "login", "--id", "u1", "--token", "t1")
	require.NoError(t, err)

	_, errOut, err := run(t, "profile", "show", "--states")
	require.NoError(t, err)
	assert.Contains(t, errOut, "state: idle -> resolving_session\n")
	assert.Contains(t, errOut, "state: loading_profile -> ready\n")
}

func TestTopics(t *testing.T) {
	out, _, err := run(t, "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "TOPIC")
	assert.Contains(t, out, "profile.notice")
	assert.Contains(t, out, "navigation.request")

	out, _, err = run(t, "topics", "--format", "json")
	require.NoError(t, err)
	var topics []topicInfo
	require.NoError(t, json.Unmarshal([]byte(out), &topics))
	require.Len(t, topics, 3)
	assert.Equal(t, "profile.state", topics[2].Name)

	_, _, err = run(t, "topics", "--format", "xml")
	assert.Error(t, err)
}
