package oidc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/session"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/webtest"
)

type fakeProvider struct {
	user      *models.User
	err       error
	logoutURL string
}

func (f *fakeProvider) GetAuthURL(state string) string {
	return "https://idp.test/authorize?state=" + url.QueryEscape(state)
}

func (f *fakeProvider) HandleCallback(_ context.Context, code string) (*models.User, error) {
	if code != "good" {
		return nil, errors.New("bad code")
	}

	return f.user, f.err
}

func (f *fakeProvider) GetLogoutURL(_, _ string) string { return f.logoutURL }

func newTestApp(t *testing.T, p Provider) (*fiber.App, *Service) {
	t.Helper()

	session.Init(nil)

	app := fiber.New()
	s := &Service{}
	s.Register(app, webtest.Config(), p)

	return app, s
}

func TestStateStore(t *testing.T) {
	st := NewStateStore()

	st.Add("fresh", time.Minute)
	st.Add("stale", -time.Second)
	assert.Equal(t, 2, st.Len())

	assert.False(t, st.Take("stale"))
	assert.True(t, st.Take("fresh"))
	assert.False(t, st.Take("fresh"), "states are single use")
	assert.False(t, st.Take("unknown"))

	st.Add("stale", -time.Second)
	st.Add("fresh", time.Minute)
	st.Cleanup()
	assert.Equal(t, 1, st.Len())
}

func TestLoginAndCallback(t *testing.T) {
	p := &fakeProvider{user: &models.User{ID: 3, Username: "carol@shop-a.test", ShopName: "shop-a"}}
	app, _ := newTestApp(t, p)

	resp, _ := webtest.Do(t, app, httptest.NewRequest(http.MethodGet, LoginPath, nil))
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	loc, err := url.Parse(resp.Header.Get(fiber.HeaderLocation))
	require.NoError(t, err)

	state := loc.Query().Get("state")
	require.NotEmpty(t, state)

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{name: "missing params", query: "", wantStatus: fiber.StatusBadRequest},
		{name: "unknown state", query: "?code=good&state=forged", wantStatus: fiber.StatusBadRequest},
		{name: "valid", query: "?code=good&state=" + url.QueryEscape(state), wantStatus: fiber.StatusFound},
		{name: "replayed state", query: "?code=good&state=" + url.QueryEscape(state), wantStatus: fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := webtest.Do(t, app, httptest.NewRequest(http.MethodGet, CallbackPath+tt.query, nil))
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == fiber.StatusFound {
				assert.Equal(t, handler.AppPath, resp.Header.Get(fiber.HeaderLocation))
				assert.Contains(t, resp.Header.Get(fiber.HeaderSetCookie), session.CookieName+"=")
			}
		})
	}
}

func TestCallback_ProviderError(t *testing.T) {
	p := &fakeProvider{}
	app, s := newTestApp(t, p)

	s.stateStore.Add("st", time.Minute)

	resp, _ := webtest.Do(t, app, httptest.NewRequest(http.MethodGet, CallbackPath+"?code=bad&state=st", nil))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLogout(t *testing.T) {
	for _, logoutURL := range []string{"", "https://idp.test/logout"} {
		app, _ := newTestApp(t, &fakeProvider{logoutURL: logoutURL})

		resp, _ := webtest.Do(t, app, httptest.NewRequest(http.MethodGet, LogoutPath, nil))
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)

		want := logoutURL
		if want == "" {
			want = handler.LoginPath
		}

		assert.Equal(t, want, resp.Header.Get(fiber.HeaderLocation))
	}
}
