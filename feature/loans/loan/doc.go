// Package loan normalizes loan documents returned by the library API.
//
// The remote API is inconsistent about where the loan list lives in a
// response and about how individual fields are named and wrapped. This
// package hides those differences behind two entry points:
//
//   - LoansFrom: extracts the loan records from a raw decoded response by
//     trying a fixed, ordered list of extraction strategies.
//   - Field and the typed accessors (ID, Title, DueDate, Renewable, ...):
//     resolve a value from a record through a list of key aliases, unwrapping
//     value-carrying objects such as {"value": "20250101"}.
//
// None of the functions in this package return errors. Malformed input
// degrades to nil values or empty slices.
//
// # Index
//
// Index is the id-keyed snapshot of the current loans. It keeps document
// order and resolves duplicate ids with last-write-wins.
//
// # Usage
//
//	records := loan.LoansFrom(raw)
//	idx := loan.BuildIndex(records)
//	for _, rec := range idx.Records() {
//	    fmt.Println(loan.ID(rec), loan.TitleClean(rec))
//	}
package loan
