// Package account holds the configuration of a library account and its
// validation rules.
package account
