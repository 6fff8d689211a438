// Package navigation provides utilities for managing navigation state and breadcrumbs.
package navigation

// SectionApp is the only section, every signed-in page belongs to it.
const SectionApp = "app"

// Pages of the app section.
const (
	PageOverview = "overview"
	PageSetup    = "setup"
	PageTheme    = "theme"
	PageHome     = "home"
)

// MenuItem is one sidebar entry.
type MenuItem struct {
	Title string
	URL   string
	Page  string
}

// Menu is the sidebar of the app section, in the order a merchant fills it in.
var Menu = []MenuItem{ //nolint:gochecknoglobals
	{Title: "Overview", URL: "/app", Page: PageOverview},
	{Title: "Setup", URL: "/app/setup", Page: PageSetup},
	{Title: "Theme", URL: "/app/theme", Page: PageTheme},
	{Title: "Home page", URL: "/app/home", Page: PageHome},
}

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}

// ForPage returns the context of an app page with a Home > title trail.
func ForPage(title, page, url string) *Context {
	c := NewContext(title, SectionApp, page).AddBreadcrumb("Home", Menu[0].URL, page == PageOverview)
	if page != PageOverview {
		c.AddBreadcrumb(title, url, true)
	}

	return c
}

// Items returns the menu for templates.
func (c *Context) Items() []MenuItem {
	return Menu
}
