package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/auth"
	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler"
	authmiddleware "github.com/mobile-app-connector/mobile-app-connector/internal/web/middleware/auth"
)

const (
	// Path is the path to the login page.
	Path = handler.LoginPath

	// TemplateName is the standalone login template.
	TemplateName = "login"

	// AuthTypeLocal selects the users table.
	AuthTypeLocal = "local"

	// AuthTypeLDAP selects the directory.
	AuthTypeLDAP = "ldap"
)

// Form is the login form.
type Form struct {
	Username string `form:"username"`
	Password string `form:"password"`
	AuthType string `form:"auth_type"`
}

// PasswordAuthenticator checks a username and password.
type PasswordAuthenticator interface {
	Authenticate(username, password string) (*models.User, error)
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	localAuth PasswordAuthenticator
	ldapAuth  PasswordAuthenticator
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if router == nil || cfg == nil || db == nil {
		return errors.New("app or db is nil")
	}

	s.db = db
	s.cfg = cfg
	s.localAuth = auth.NewLocalProvider(db)
	s.ldapAuth = nil

	if cfg.Auth.LDAP.Enabled {
		ldapAuth, err := auth.NewLDAPProvider(cfg.Auth.LDAP, db)
		if err != nil {
			log.Warn().Err(err).Msg("ldap sign-in unavailable")
		} else {
			s.ldapAuth = ldapAuth
		}
	}

	router.Get(Path, s.Get)
	router.Post(Path, s.Post)

	return nil
}

func (s *Service) render(c *fiber.Ctx, err error) error {
	data := fiber.Map{
		"Title":            s.cfg.Title,
		"local_db_enabled": s.cfg.Auth.LocalDB.Enabled,
		"ldap_enabled":     s.cfg.Auth.LDAP.Enabled && s.ldapAuth != nil,
		"oidc_enabled":     s.cfg.Auth.OIDC.Enabled,
	}

	if err != nil {
		data["error"] = err.Error()
	}

	return c.Render(TemplateName, data)
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	if authmiddleware.IsSignedIn(c) {
		return c.Redirect(handler.AppPath)
	}

	return s.render(c, nil)
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return s.render(c, ErrInvalidFormData)
	}

	user, err := s.authenticate(form.AuthType, form.Username, form.Password)
	if err != nil {
		log.Info().Str("username", form.Username).Str("auth_type", form.AuthType).Err(err).Msg("login failed")
		return s.render(c, err)
	}

	if err = handler.StartSession(c, s.cfg, *user); err != nil {
		log.Error().Err(err).Msg("failed to start session")
		return s.render(c, ErrInternalServerError)
	}

	log.Info().Str("username", user.Username).Str("shop", user.ShopName).Msg("user logged in")

	return c.Redirect(handler.AppPath)
}

// pickAuthType resolves the requested sign-in method. Without one, local wins over ldap.
func (s *Service) pickAuthType(requested string) (string, error) {
	switch requested {
	case "":
		if s.cfg.Auth.LocalDB.Enabled {
			return AuthTypeLocal, nil
		}

		if s.cfg.Auth.LDAP.Enabled {
			return AuthTypeLDAP, nil
		}

		return "", ErrLocalAuthDisabled
	case AuthTypeLocal:
		if !s.cfg.Auth.LocalDB.Enabled {
			return "", ErrLocalAuthDisabled
		}

		return AuthTypeLocal, nil
	case AuthTypeLDAP:
		if !s.cfg.Auth.LDAP.Enabled || s.ldapAuth == nil {
			return "", ErrLDAPAuthDisabled
		}

		return AuthTypeLDAP, nil
	default:
		return "", ErrInvalidAuthMethod
	}
}

// authenticate maps provider errors to the messages shown on the login page.
func (s *Service) authenticate(authType, username, password string) (*models.User, error) {
	authType, err := s.pickAuthType(authType)
	if err != nil {
		return nil, err
	}

	provider := s.localAuth
	if authType == AuthTypeLDAP {
		provider = s.ldapAuth
	}

	user, err := provider.Authenticate(username, password)

	switch {
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		return nil, ErrInvalidCredentials
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return nil, ErrUserInactive
	case errors.Is(err, auth.ErrNoShop):
		return nil, ErrNoShop
	case errors.Is(err, auth.ErrMultipleUsersFound):
		log.Warn().Str("username", username).Msg("ldap user filter matches several entries")
		return nil, ErrInvalidCredentials
	case err != nil:
		log.Error().Err(err).Str("auth_type", authType).Msg("authentication failed")
		return nil, ErrInternalServerError
	}

	return user, nil
}
