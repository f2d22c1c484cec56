// Package coordinator owns the refresh cycle of a single library account.
//
// A Coordinator caches the bearer token, fetches and normalizes the loan
// listing, and publishes the resulting Snapshot for readers. When the
// listing is rejected with 401 or 403 the cached token is dropped and the
// cycle is retried exactly once with a fresh login. Every other failure is
// reported as *RefreshFailed and leaves the previously published snapshot
// untouched.
//
// Renewals go through the same coordinator so that a renewal and a
// scheduled refresh for the same account never overlap. Each renewal is
// followed by a refresh so observers see the new due date immediately.
//
// Listeners registered with AddListener are invoked after every completed
// refresh cycle, successful or not, while the coordinator still holds its
// operation lock. Listeners must not call back into Refresh, RenewLoan or
// RenewAll.
package coordinator
