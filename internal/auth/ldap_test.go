package auth

import (
	"errors"
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/dbtest"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
)

const (
	serviceDN = "cn=connector,ou=services,dc=shop,dc=test"
	aliceDN   = "uid=alice,ou=people,dc=shop,dc=test"
)

// fakeDirectory answers binds from a DN -> password map and searches with fixed entries.
type fakeDirectory struct {
	passwords map[string]string
	entries   []*ldap.Entry
	searchErr error

	filters []string
	binds   []string
	closed  bool
}

func (f *fakeDirectory) Bind(username, password string) error {
	f.binds = append(f.binds, username)

	if want, ok := f.passwords[username]; ok && want == password {
		return nil
	}

	return ldap.NewError(ldap.LDAPResultInvalidCredentials, errors.New("invalid credentials"))
}

func (f *fakeDirectory) Search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	f.filters = append(f.filters, req.Filter)

	return &ldap.SearchResult{Entries: f.entries}, f.searchErr
}

func (f *fakeDirectory) Close() error {
	f.closed = true

	return nil
}

func newLDAPProvider(t *testing.T, cfg config.LDAPAuth, dir *fakeDirectory) *LDAPProvider {
	t.Helper()

	cfg.Enabled = true
	cfg.BindDN = serviceDN
	cfg.BindPassword = "svc-secret"
	cfg.BaseDN = "dc=shop,dc=test"

	p, err := NewLDAPProvider(cfg, dbtest.Open(t))
	require.NoError(t, err)

	p.dial = func() (ldapConn, error) { return dir, nil }

	return p
}

func alice(attrs map[string][]string) *ldap.Entry {
	if attrs == nil {
		attrs = map[string][]string{}
	}

	attrs["uid"] = []string{"alice"}
	attrs["mail"] = []string{"alice@shop-a.test"}

	return ldap.NewEntry(aliceDN, attrs)
}

func TestNewLDAPProvider(t *testing.T) {
	_, err := NewLDAPProvider(config.LDAPAuth{}, nil)
	require.ErrorIs(t, err, ErrLDAPDisabled)

	p, err := NewLDAPProvider(config.LDAPAuth{Enabled: true, UsernameAttr: "sAMAccountName"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "(sAMAccountName={username})", p.config.UserFilter)
	assert.Equal(t, "mail", p.config.EmailAttr)
	assert.Equal(t, 10, p.config.Timeout)
}

func TestLDAPProvider_Authenticate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.LDAPAuth
		entries     []*ldap.Entry
		searchErr   error
		username    string
		password    string
		servicePass string
		wantErr     error
		wantAnyErr  bool
		wantShop    string
	}{
		{
			name:     "shop from attribute",
			cfg:      config.LDAPAuth{ShopAttr: "shopName", DefaultShop: "shop-z"},
			entries:  []*ldap.Entry{alice(map[string][]string{"shopName": {" shop-a "}})},
			username: "alice", password: "s3cret",
			wantShop: "shop-a",
		},
		{
			name:     "default shop when attribute missing",
			cfg:      config.LDAPAuth{ShopAttr: "shopName", DefaultShop: "shop-z"},
			entries:  []*ldap.Entry{alice(nil)},
			username: "alice", password: "s3cret",
			wantShop: "shop-z",
		},
		{
			name:     "no shop",
			cfg:      config.LDAPAuth{ShopAttr: "shopName"},
			entries:  []*ldap.Entry{alice(nil)},
			username: "alice", password: "s3cret",
			wantErr: ErrNoShop,
		},
		{
			name:     "wrong password",
			cfg:      config.LDAPAuth{DefaultShop: "shop-a"},
			entries:  []*ldap.Entry{alice(nil)},
			username: "alice", password: "nope",
			wantErr: ErrInvalidPassword,
		},
		{
			name:     "empty password never binds",
			cfg:      config.LDAPAuth{DefaultShop: "shop-a"},
			entries:  []*ldap.Entry{alice(nil)},
			username: "alice",
			wantErr:  ErrInvalidPassword,
		},
		{
			name:     "unknown user",
			cfg:      config.LDAPAuth{DefaultShop: "shop-a"},
			username: "mallory", password: "s3cret",
			wantErr: ErrUserNotFound,
		},
		{
			name: "ambiguous filter",
			cfg:  config.LDAPAuth{DefaultShop: "shop-a"},
			entries: []*ldap.Entry{
				alice(nil),
				ldap.NewEntry("uid=alice,ou=contractors,dc=shop,dc=test", map[string][]string{"uid": {"alice"}}),
			},
			searchErr: ldap.NewError(ldap.LDAPResultSizeLimitExceeded, errors.New("size limit")),
			username:  "alice", password: "s3cret",
			wantErr: ErrMultipleUsersFound,
		},
		{
			name:     "service account rejected",
			cfg:      config.LDAPAuth{DefaultShop: "shop-a"},
			entries:  []*ldap.Entry{alice(nil)},
			username: "alice", password: "s3cret",
			servicePass: "rotated",
			wantAnyErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			servicePass := "svc-secret"
			if tt.servicePass != "" {
				servicePass = tt.servicePass
			}

			dir := &fakeDirectory{
				passwords: map[string]string{serviceDN: servicePass, aliceDN: "s3cret"},
				entries:   tt.entries,
				searchErr: tt.searchErr,
			}
			p := newLDAPProvider(t, tt.cfg, dir)

			user, err := p.Authenticate(tt.username, tt.password)

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			case tt.wantAnyErr:
				require.Error(t, err)
				assert.NotErrorIs(t, err, ErrInvalidPassword)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantShop, user.ShopName)
				assert.Equal(t, models.AuthSourceLDAP, user.AuthSource)
				assert.Equal(t, aliceDN, user.ExternalID)
				assert.Equal(t, "alice@shop-a.test", user.Email)
				assert.Equal(t, []string{serviceDN, aliceDN}, dir.binds)
			}

			if tt.password == "" {
				assert.Empty(t, dir.binds)
				assert.False(t, dir.closed)
			} else {
				assert.True(t, dir.closed)
			}
		})
	}
}

func TestLDAPProvider_FilterEscaping(t *testing.T) {
	dir := &fakeDirectory{}
	p := newLDAPProvider(t, config.LDAPAuth{DefaultShop: "shop-a"}, dir)

	_, err := p.Authenticate("a*)(uid=admin", "s3cret")
	require.ErrorIs(t, err, ErrUserNotFound)
	require.Len(t, dir.filters, 1)
	assert.Equal(t, `(uid=a\2a\29\28uid=admin)`, dir.filters[0])
}

func TestLDAPProvider_KnownUser(t *testing.T) {
	dir := &fakeDirectory{
		passwords: map[string]string{serviceDN: "svc-secret", aliceDN: "s3cret"},
		entries:   []*ldap.Entry{alice(map[string][]string{"shopName": {"shop-a"}})},
	}
	p := newLDAPProvider(t, config.LDAPAuth{ShopAttr: "shopName"}, dir)

	created, err := p.Authenticate("alice", "s3cret")
	require.NoError(t, err)

	// the attribute moved to another shop
	dir.entries = []*ldap.Entry{alice(map[string][]string{"shopName": {"shop-b"}})}

	updated, err := p.Authenticate("alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "shop-b", updated.ShopName)

	// the attribute is gone, the stored shop stays
	dir.entries = []*ldap.Entry{alice(nil)}

	kept, err := p.Authenticate("alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "shop-b", kept.ShopName)

	require.NoError(t, p.db.Model(&models.User{}).Where("id = ?", created.ID).Update("active", false).Error)

	_, err = p.Authenticate("alice", "s3cret")
	require.ErrorIs(t, err, ErrUserAccountDisabled)
}

func TestShopFromEntry(t *testing.T) {
	entry := ldap.NewEntry(aliceDN, map[string][]string{"shopName": {"shop-a"}, "blank": {"  "}})

	tests := []struct {
		name     string
		entry    *ldap.Entry
		attr     string
		fallback string
		want     string
	}{
		{name: "attribute present", entry: entry, attr: "shopName", fallback: "shop-z", want: "shop-a"},
		{name: "attribute blank", entry: entry, attr: "blank", fallback: "shop-z", want: "shop-z"},
		{name: "attribute missing", entry: entry, attr: "o", fallback: "shop-z", want: "shop-z"},
		{name: "no attribute configured", entry: entry, fallback: "", want: ""},
		{name: "no entry", attr: "shopName", fallback: "shop-z", want: "shop-z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShopFromEntry(tt.entry, tt.attr, tt.fallback))
		})
	}
}
