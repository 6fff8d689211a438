// Package auth signs admin users in.
//
// Three providers exist:
//   - LocalProvider checks a username and Argon2id password hash against the users table.
//   - LDAPProvider searches the user entry with a service account and binds as the user.
//   - OIDCProvider runs the OAuth2 authorization code flow against an OpenID Connect
//     provider and maps the subject to a user row.
//
// Every admin account manages exactly one shop. Local users get their shop when they
// are created (see the seed in the daemon). LDAP and OIDC users get it from a
// configurable entry attribute or id token claim, with a configured fallback.
package auth
