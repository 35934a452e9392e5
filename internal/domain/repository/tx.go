package repository

import "context"

// TxRunner executes fn inside a single transaction. Repository calls made
// with the context passed to fn join that transaction, so a booking
// completion and its vehicle cascade commit or abort together.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
