package repository

import (
	"context"

	"autocare-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTxRunner implements TxRunner over a Mongo session. Callbacks
// receive the session context, so repository calls made with it join the
// transaction.
type MongoTxRunner struct {
	client *mongo.Client
}

// NewMongoTxRunner creates a new transaction runner
func NewMongoTxRunner(client *mongo.Client) repository.TxRunner {
	return &MongoTxRunner{
		client: client,
	}
}

// WithinTransaction runs fn inside a single transaction
func (r *MongoTxRunner) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
