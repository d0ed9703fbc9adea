package storefront

import (
	"errors"
	"fmt"
)

var (
	// ErrNetworkUnavailable wraps transport-level failures so callers can show
	// a friendlier message than the raw dial/DNS error.
	ErrNetworkUnavailable = errors.New("storefront: unable to reach the server, please check your connection")

	// ErrAuthRequired is returned by guards on cart/booking/gift actions when
	// no user is signed in.
	ErrAuthRequired = errors.New("storefront: please sign in first")

	// ErrPasswordMismatch is the local pre-check failure for the
	// change-password form; no network call is made when it fires.
	ErrPasswordMismatch = errors.New("storefront: new passwords do not match")

	ErrEmptyCart       = errors.New("storefront: your cart is empty")
	ErrNothingStaged   = errors.New("storefront: no selection staged")
	ErrInvalidDate     = errors.New("storefront: date is not a valid calendar date")
	ErrPastDate        = errors.New("storefront: date cannot be in the past")
	ErrMissingRenderer = errors.New("storefront: renderer is not configured")
)

// StatusError reports a non-2xx response from the remote API.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("storefront: server responded with status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("storefront: server responded with status %d", e.Status)
}

// IsStatus reports whether err is a StatusError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}
