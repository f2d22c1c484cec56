// Package api is the client for the library's loan web API.
//
// It exposes three independent request/response operations:
//
//   - Login: exchanges a username and password for an opaque bearer token.
//   - ListLoans: fetches the active loans of the authenticated patron.
//   - RenewLoan: asks the library to renew a single loan.
//
// The client keeps no state beyond its configuration. It does not retry,
// rate-limit or cache tokens; the refresh coordinator owns those policies.
//
// # Errors
//
// Login failures are reported as *AuthenticationError. Non-success statuses
// from the listing and renewal endpoints are reported as *TransportError,
// which carries the HTTP status so callers can react to 401/403.
package api
