// Package reconciler keeps the set of per-loan sensors of one account in
// line with the loans the coordinator publishes.
//
// On Start it removes registry entries left behind by loans that no longer
// exist, then creates a sensor for every current loan. After each successful
// refresh it diffs the current loan ids against the ids seen on the previous
// pass: new ids get a sensor, vanished ids lose their sensor and their
// registry entry. Failed refreshes are ignored so a transient error never
// tears sensors down.
//
// Sensor identifiers follow "sensor.<account_slug>_loan_<loan_id>". An
// existing entry is renamed onto that identifier unless another sensor
// already holds it, in which case the current identifier is kept.
package reconciler
