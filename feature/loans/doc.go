// Package loans runs the configured library accounts and serves their loans
// over HTTP.
//
// A Store owns one coordinator and one reconciler per account. Setup runs
// the first refresh before anything is published, then starts the
// reconciler against the entity registry. The Service and Handler expose
// the store under /loans:
//
//	GET  /loans                     accounts and their loans
//	GET  /loans/:account            one account
//	GET  /loans/:account/sensors    rendered sensors
//	GET  /loans/:account/:loan      one loan sensor
//	POST /loans/refresh             refresh every account
//	POST /loans/renew               renew {"loan_id": "..."}
//	POST /loans/renew-all           renew every renewable loan
package loans
