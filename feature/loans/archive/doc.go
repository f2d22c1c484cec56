// Package archive exports account loan snapshots to object storage.
//
// After every successful refresh the loan summaries of an account are written
// as JSON to loans/<account_slug>/latest.json, overwriting the previous
// export. The archive can read an export back and list the accounts that
// have one.
package archive
