package config

import (
	"time"

	"github.com/mobile-app-connector/mobile-app-connector/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Log       logger.Log
	Webserver Webserver
	API       API
	Auth      Auth
	Shopify   Shopify
	Seed      Seed
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool    // disable recover middleware
	Port           int     // listening port for the webserver
	ShutDownTime   int     // seconds to answer 503 on /healthz before stopping
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// Key sources for the external API allow-list.
const (
	KeySourceConfig = "config"
	KeySourceDB     = "db"
)

// API holds the external API settings.
type API struct {
	// KeySource selects where the allow-list lives: "config" (Keys below) or "db" (api_keys table).
	KeySource string
	Keys      []APIKey `validate:"dive"`
}

// APIKey is one allow-list entry for the external API.
type APIKey struct {
	Name   string `validate:"required"`
	Key    string `validate:"required,min=16"`
	Active bool
}

// Auth selects the sign-in methods of the admin pages.
type Auth struct {
	LocalDB LocalDBAuth
	LDAP    LDAPAuth
	OIDC    OIDCAuth
}

// LocalDBAuth enables username/password sign-in against the users table.
type LocalDBAuth struct {
	Enabled bool
}

// LDAPAuth configures sign-in against an LDAP or Active Directory server.
type LDAPAuth struct {
	Enabled      bool
	Host         string
	Port         int
	UseSSL       bool // ldaps://
	UseTLS       bool // StartTLS on a plain connection
	SkipVerify   bool
	BindDN       string // service account for the user search, anonymous when empty
	BindPassword string
	BaseDN       string
	UserFilter   string // {username} is replaced, e.g. "(uid={username})"
	UsernameAttr string
	EmailAttr    string
	ShopAttr     string // entry attribute carrying the shop name
	DefaultShop  string // used when the attribute is missing
	Timeout      int    // seconds
}

// OIDCAuth configures OpenID Connect sign-in.
type OIDCAuth struct {
	Enabled      bool
	ProviderURL  string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	ShopClaim    string // id token claim carrying the shop name
	DefaultShop  string // used when the claim is missing
}

// Shopify holds the storefront platform settings.
type Shopify struct {
	ShopDomain      string
	APIVersion      string
	StorefrontToken string
	AdminToken      string
	BaseURL         string // overrides https://<ShopDomain>, used by tests and proxies
	Timeout         time.Duration
}

// Seed describes the admin account created on an empty users table.
type Seed struct {
	AdminUsername string
	AdminPassword string
	ShopName      string
}
