package setup

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	controller "github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/setup"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/dbtest"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler"
	authmiddleware "github.com/mobile-app-connector/mobile-app-connector/internal/web/middleware/auth"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/session"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/webtest"
)

type testApp struct {
	app    *fiber.App
	db     *gorm.DB
	views  *webtest.Views
	cookie *http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	session.Init(nil)

	ta := &testApp{db: dbtest.Open(t), views: &webtest.Views{}}
	ta.app = fiber.New(fiber.Config{Views: ta.views})
	ta.cookie = webtest.SignIn(t, models.User{ID: 1, Username: "admin", ShopName: "shop-a"})

	s := &Service{}
	require.NoError(t, s.Init(ta.app.Group(handler.AppPath, authmiddleware.Middleware), webtest.Config(), ta.db))

	return ta
}

func (ta *testApp) do(t *testing.T, method string, form url.Values) *http.Response {
	t.Helper()

	var req *http.Request
	if form == nil {
		req = httptest.NewRequest(method, Path, nil)
	} else {
		req = httptest.NewRequest(method, Path, strings.NewReader(form.Encode()))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	}

	req.AddCookie(ta.cookie)

	resp, _ := webtest.Do(t, ta.app, req)

	return resp
}

func (ta *testApp) flashes(t *testing.T) []session.Flash {
	t.Helper()

	data := new(session.Data)
	require.NoError(t, data.Read(ta.cookie.Value))

	return data.Flashes
}

func validForm() url.Values {
	return url.Values{
		"companyName":   {"Acme"},
		"customerEmail": {"ops@acme.test"},
		"countryCode":   {"+49"},
		"customerPhone": {"15123456789"},
		"appName":       {"Acme Shop"},
	}
}

func TestGet(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.do(t, fiber.MethodGet, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	last := ta.views.Last()
	assert.Equal(t, TemplateName, last.Name)
	assert.Equal(t, []string{handler.BaseLayout}, last.Layouts)
	assert.Equal(t, "", last.Data["Form"].(*controller.Form).CompanyName)
	assert.Equal(t, "shop-a", last.Data["ShopName"])
}

func TestGet_RequiresSession(t *testing.T) {
	ta := newTestApp(t)

	resp, _ := webtest.Do(t, ta.app, httptest.NewRequest(fiber.MethodGet, Path, nil))
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, handler.LoginPath, resp.Header.Get(fiber.HeaderLocation))
}

func TestPost_SavedThenUpdated(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.do(t, fiber.MethodPost, validForm())
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, Path, resp.Header.Get(fiber.HeaderLocation))
	assert.Equal(t, []session.Flash{{Kind: session.FlashSuccess, Message: MessageSaved}}, ta.flashes(t))

	form := validForm()
	form.Set("appName", "Acme Mobile")

	resp = ta.do(t, fiber.MethodPost, form)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Contains(t, ta.flashes(t), session.Flash{Kind: session.FlashSuccess, Message: MessageUpdated})

	var rows []models.Setup
	require.NoError(t, ta.db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme Mobile", rows[0].AppName)
	assert.Equal(t, "shop-a", rows[0].ShopName)

	// the flash shows once on the next page
	ta.do(t, fiber.MethodGet, nil)
	assert.Len(t, ta.views.Last().Data["Flashes"], 2)
	assert.Empty(t, ta.flashes(t))
}

func TestPost_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{name: "company name too long", field: "companyName", value: strings.Repeat("a", 151)},
		{name: "bad email", field: "customerEmail", value: "not-an-email"},
		{name: "short phone", field: "customerPhone", value: "12345"},
		{name: "phone with letters", field: "customerPhone", value: "12345abcde"},
		{name: "app name too long", field: "appName", value: strings.Repeat("a", 51)},
		{name: "missing app name", field: "appName", value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)

			form := validForm()
			form.Set(tt.field, tt.value)

			resp := ta.do(t, fiber.MethodPost, form)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			fieldErrors, ok := ta.views.Last().Data["FieldErrors"].(map[string]string)
			require.True(t, ok)
			assert.Contains(t, fieldErrors, tt.field)

			exists, err := controller.Exists(ta.db, "shop-a")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}
