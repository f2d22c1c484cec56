// Package schedule runs a job at fixed times of day.
//
// Refresh times are written as "H:MM" or "HH:MM" in local time. They can be
// given as a comma-separated string or as a list. Duplicates are dropped
// while keeping the first occurrence, and an empty configuration falls back
// to DefaultTime.
//
// Run blocks until its context is cancelled, firing the job at each
// configured time. Time is read through a Clock so tests can drive the loop
// without sleeping.
package schedule
