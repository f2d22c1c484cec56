// Package integrity provides system health checks.
//
// Unlike the 'loans' package which serves loan data, this package validates
// the infrastructure the service depends on.
//
// # Checks Provided
//
//   - Registry: Validates that the entity registry table has every expected column.
//   - Archive: Compares the exports in the bucket with the running accounts.
//   - Accounts: Reports accounts whose last refresh failed or whose sensors lag behind their loans.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/registry : Runs the registry schema check.
//   - GET /integrity/archive : Runs the archive check (supports ?fix=true).
//   - GET /integrity/accounts : Runs the account health check.
package integrity
