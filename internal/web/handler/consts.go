package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// AppPath prefixes every signed-in admin page.
	AppPath = RootPath + "app"

	// APIPath prefixes the key-guarded external API.
	APIPath = RootPath + "api"

	// LoginPath is the path to the login page.
	LoginPath = RootPath + "login"

	// LogoutPath is the path to the logout handler.
	LogoutPath = RootPath + "logout"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
