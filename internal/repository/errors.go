package repository

import "errors"

// ErrStaleTicket is returned when a conditional write loses a concurrent
// race: the ticket row exists but its updated_at no longer matches the
// state the caller read. The caller maps this to a ConflictError.
var ErrStaleTicket = errors.New("ticket modified concurrently")
