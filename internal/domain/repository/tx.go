package repository

import "context"

// TransactionManager runs a unit of work inside a single database
// transaction. Repository calls made with the context passed to fn join
// that transaction; any error returned by fn rolls everything back.
// Checkout depends on this for its all-or-nothing guarantee.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
