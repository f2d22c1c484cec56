package coordinator

import "fmt"

// RefreshFailed wraps any unrecovered failure of a refresh cycle.
type RefreshFailed struct {
	Err error
}

func (e *RefreshFailed) Error() string {
	return fmt.Sprintf("refresh failed: %v", e.Err)
}

func (e *RefreshFailed) Unwrap() error { return e.Err }

// UnexpectedStatusError reports a listing whose status field is not "ok".
type UnexpectedStatusError struct {
	Status string
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected listing status %q", e.Status)
}
