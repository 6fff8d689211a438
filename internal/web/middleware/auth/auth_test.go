package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/session"
)

func writeSession(t *testing.T, user models.User) string {
	t.Helper()

	id, err := session.GenerateSessionID()
	require.NoError(t, err)
	require.NoError(t, (&session.Data{User: user}).Write(id, time.Minute))

	return id
}

func TestMiddleware(t *testing.T) {
	session.Init(nil)

	app := fiber.New()
	app.Use(Middleware)
	app.Get("/app", func(c *fiber.Ctx) error {
		u, ok := handler.CurrentUser(c)
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}

		return c.SendString(u.ShopName)
	})

	valid := writeSession(t, models.User{ID: 1, Username: "admin", ShopName: "shop-a"})
	noShop := writeSession(t, models.User{ID: 2, Username: "lost"})

	tests := []struct {
		name       string
		cookie     string
		wantStatus int
		wantLoc    string
	}{
		{name: "no cookie", wantStatus: fiber.StatusFound, wantLoc: handler.LoginPath},
		{name: "unknown session", cookie: "deadbeef", wantStatus: fiber.StatusFound, wantLoc: handler.LoginPath},
		{name: "user without shop", cookie: noShop, wantStatus: fiber.StatusFound, wantLoc: handler.LoginPath},
		{name: "valid", cookie: valid, wantStatus: fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/app", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tt.cookie})
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, resp.Header.Get("Location"))
			}
		})
	}
}

func TestIsSignedIn(t *testing.T) {
	session.Init(nil)

	valid := writeSession(t, models.User{ID: 1, ShopName: "shop-a"})

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if IsSignedIn(c) {
			return c.SendString("yes")
		}

		return c.SendString("no")
	})

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: valid})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := make([]byte, 3)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, "yes", string(body[:n]))
}
