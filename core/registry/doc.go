// Package registry persists the identifiers of the sensor entities the
// service exposes.
//
// Each entry maps a stable unique key (for example "acct1_loan_42") to a
// human-facing entity identifier ("sensor.home_loan_42"). The identifier can
// change when an account is renamed, the unique key never does. Entries are
// stored with GORM in the registry_entries table, so the same code runs on
// MySQL and on SQLite.
//
// # Registry Interface
//
// Registry abstracts the store so callers can be tested with the testify mock
// in core/registry/mocks.
//
// # Usage
//
//	reg := registry.New(db)
//	if err := reg.Migrate(); err != nil {
//	    return err
//	}
//	entry, err := reg.GetOrCreate(ctx, registry.Entry{UniqueKey: key, AccountID: id}, "sensor.home_loan_42")
package registry
