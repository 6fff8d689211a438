// Package oidc provides the OpenID Connect sign-in of the admin.
//
// The flow:
//   - /auth/oidc/login stores a state token and redirects to the provider
//   - /auth/oidc/callback checks the state, verifies the ID token and creates
//     or updates the local user, taking the shop from the configured claim
//   - /auth/oidc/logout ends the session and, when the provider supports it,
//     the provider session
//
// The routes are only registered when Auth.OIDC is enabled and discovery succeeds:
//
//	_ = oidc.Handler.Init(app, cfg, db)
package oidc
