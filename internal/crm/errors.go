package crm

import "errors"

// Sentinel errors for the storage backends. Callers decide whether a
// condition degrades or propagates with errors.Is at each call site.
var (
	// ErrNotFound reports an absent document.
	ErrNotFound = errors.New("record not found")

	// ErrMissingIndex reports a query that needs a composite index the
	// backend does not have. Recovered transparently by the order resolver.
	ErrMissingIndex = errors.New("query requires a missing index")

	// ErrPathNotFound reports a storage path that does not exist. The
	// graphics aggregator treats it as zero items for that root.
	ErrPathNotFound = errors.New("storage path does not exist")

	// ErrPermission reports a permission or retry-limit failure from the
	// object store. Never swallowed.
	ErrPermission = errors.New("storage permission denied")

	// ErrOrderNotFound is raised when an explicitly requested order id does
	// not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderOwnershipMismatch is raised when an explicitly requested order
	// belongs to a different customer. Never silently substituted.
	ErrOrderOwnershipMismatch = errors.New("order does not belong to this customer")

	// ErrStaffAccessDenied is returned when the signed-in principal has no
	// active staff record.
	ErrStaffAccessDenied = errors.New("no active staff permission for this account")
)
