// Package auth implements account management and session authentication.
//
// Accounts are identified by email and authenticated with bcrypt-hashed
// passwords. Sessions are server-side, stored in SQLite via scs, and carried
// by an HttpOnly cookie. There are no API tokens: the reader frontend is the
// only client and it authenticates with the session cookie.
//
// The package also ships the HTTP middleware around authentication: session
// load/save, CSRF protection, login rate limiting and security headers.
package auth
