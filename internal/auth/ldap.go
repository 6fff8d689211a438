package auth

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
)

// ldapConn is the part of *ldap.Conn the provider uses.
type ldapConn interface {
	Bind(username, password string) error
	Search(searchRequest *ldap.SearchRequest) (*ldap.SearchResult, error)
	Close() error
}

// LDAPProvider handles LDAP authentication.
type LDAPProvider struct {
	config config.LDAPAuth
	db     *gorm.DB
	dial   func() (ldapConn, error)
}

// NewLDAPProvider creates a new LDAP provider. No connection is made before the first sign-in.
func NewLDAPProvider(cfg config.LDAPAuth, db *gorm.DB) (*LDAPProvider, error) {
	if !cfg.Enabled {
		return nil, ErrLDAPDisabled
	}

	if cfg.UsernameAttr == "" {
		cfg.UsernameAttr = "uid"
	}

	if cfg.EmailAttr == "" {
		cfg.EmailAttr = "mail"
	}

	if cfg.UserFilter == "" {
		cfg.UserFilter = "(" + cfg.UsernameAttr + "={username})"
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 10
	}

	p := &LDAPProvider{
		config: cfg,
		db:     db,
	}
	p.dial = p.connect

	return p, nil
}

// connect dials the server and upgrades the connection with StartTLS when configured.
func (p *LDAPProvider) connect() (ldapConn, error) {
	hostPort := net.JoinHostPort(p.config.Host, strconv.Itoa(p.config.Port))

	ldapURL := "ldap://" + hostPort
	if p.config.UseSSL {
		ldapURL = "ldaps://" + hostPort
	}

	var tlsConfig *tls.Config
	if p.config.UseSSL || p.config.UseTLS {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: p.config.SkipVerify, //nolint:gosec // opt-in for test directories
			ServerName:         p.config.Host,
		}
	}

	conn, err := ldap.DialURL(ldapURL, ldap.DialWithTLSConfig(tlsConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP server: %w", err)
	}

	if !p.config.UseSSL && p.config.UseTLS {
		if errStartTLS := conn.StartTLS(tlsConfig); errStartTLS != nil {
			if errClose := conn.Close(); errClose != nil {
				log.Error().Err(errClose).Msg("failed to close LDAP connection")
			}

			return nil, fmt.Errorf("failed to start TLS: %w", errStartTLS)
		}
	}

	conn.SetTimeout(time.Duration(p.config.Timeout) * time.Second)

	return conn, nil
}

// Authenticate binds as username and returns the matching user.
// Unknown DNs are created, known ones get their email and shop refreshed.
func (p *LDAPProvider) Authenticate(username, password string) (*models.User, error) {
	// an empty password is an unauthenticated bind and always succeeds
	if username == "" || password == "" {
		return nil, ErrInvalidPassword
	}

	conn, err := p.dial()
	if err != nil {
		return nil, err
	}

	defer func() {
		if errClose := conn.Close(); errClose != nil {
			log.Warn().Err(errClose).Msg("failed to close LDAP connection")
		}
	}()

	if p.config.BindDN != "" {
		if err = conn.Bind(p.config.BindDN, p.config.BindPassword); err != nil {
			return nil, fmt.Errorf("failed to bind with service account: %w", err)
		}
	}

	entry, err := p.searchUserEntry(conn, username)
	if err != nil {
		return nil, err
	}

	if err = conn.Bind(entry.DN, password); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
			return nil, ErrInvalidPassword
		}

		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	return p.upsertUser(
		username,
		entry.DN,
		entry.GetAttributeValue(p.config.EmailAttr),
		ShopFromEntry(entry, p.config.ShopAttr, p.config.DefaultShop),
	)
}

// searchUserEntry returns the single entry matching the user filter.
func (p *LDAPProvider) searchUserEntry(conn ldapConn, username string) (*ldap.Entry, error) {
	attributes := []string{p.config.UsernameAttr, p.config.EmailAttr}
	if p.config.ShopAttr != "" {
		attributes = append(attributes, p.config.ShopAttr)
	}

	searchRequest := ldap.NewSearchRequest(
		p.config.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		2, //nolint:mnd // two are enough to detect an ambiguous filter
		p.config.Timeout,
		false,
		strings.ReplaceAll(p.config.UserFilter, "{username}", ldap.EscapeFilter(username)),
		attributes,
		nil,
	)

	result, err := conn.Search(searchRequest)
	if err != nil && !ldap.IsErrorWithCode(err, ldap.LDAPResultSizeLimitExceeded) {
		return nil, fmt.Errorf("failed to search for user: %w", err)
	}

	if result == nil {
		return nil, ErrUserNotFound
	}

	switch len(result.Entries) {
	case 0:
		return nil, ErrUserNotFound
	case 1:
		return result.Entries[0], nil
	default:
		return nil, ErrMultipleUsersFound
	}
}

// upsertUser finds or creates the ldap user for userDN.
func (p *LDAPProvider) upsertUser(username, userDN, email, shopName string) (*models.User, error) {
	var user models.User

	err := p.db.Where("external_id = ? AND auth_source = ?", userDN, models.AuthSourceLDAP).
		First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if shopName == "" {
			return nil, ErrNoShop
		}

		user = models.User{
			Active:     true,
			Username:   username,
			Email:      email,
			ShopName:   shopName,
			AuthSource: models.AuthSourceLDAP,
			ExternalID: userDN,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}

		if err = p.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to query user: %w", err)
	default:
		if !user.Active {
			return nil, ErrUserAccountDisabled
		}

		user.Email = email
		if shopName != "" {
			user.ShopName = shopName
		}

		user.UpdatedAt = time.Now()

		if err = p.db.Save(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	return &user, nil
}

// ShopFromEntry returns the first value of attr on entry, or fallback if it is missing or empty.
func ShopFromEntry(entry *ldap.Entry, attr, fallback string) string {
	if attr != "" && entry != nil {
		if v := strings.TrimSpace(entry.GetAttributeValue(attr)); v != "" {
			return v
		}
	}

	return fallback
}
