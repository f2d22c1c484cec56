// Package utils provides common utility functions for the loan-sync application.
// It includes helper functions for coercing loosely typed JSON values into Go
// scalars and other shared logic that doesn't fit into domain-specific packages.
package utils
