package collection

import "errors"

var (
	// ErrRecordNotFound is returned when an operation targets a key that is
	// not in the active collection (or a stale record instance for that key).
	ErrRecordNotFound = errors.New("notification record not found in collection")

	// ErrExtenderNotActive is returned when a lifetime extender ends an
	// extension it does not currently hold on the record.
	ErrExtenderNotActive = errors.New("lifetime extender is not active on record")

	// ErrInterceptorNotActive is returned when a dismiss interceptor ends an
	// interception it does not currently hold on the record.
	ErrInterceptorNotActive = errors.New("dismiss interceptor is not active on record")

	// ErrReentrantCall signals a synchronous reentrant mutation of a record
	// that is already mid-mutation. It is raised via panic: the violation
	// happens inside a plugin callback with no error path back to the caller
	// that broke the contract.
	ErrReentrantCall = errors.New("reentrant call for record already under mutation")
)
