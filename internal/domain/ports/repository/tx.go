package repository

import "context"

// Tx is an opaque database execution context. Repositories accept either a
// live transaction handle, a pool, or nil (meaning "use the default pool").
type Tx = any

// NoTX is passed where no transaction is wanted; kept for call-site clarity.
var NoTX Tx = nil

// TransactionManager runs fn inside a transaction, rolling back on error.
type TransactionManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
