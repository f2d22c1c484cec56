// Package sensor derives the read-only views of an account's loans.
//
// Every projection is recomputed from the coordinator's last published
// snapshot on each call, so readers never see state that is out of step with
// the snapshot. Aggregates are computed over the flat loan list (including
// loans that carry no id), while per-loan sensors look their loan up by id.
package sensor
