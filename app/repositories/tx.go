package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner wraps a function in one atomic transaction: either every write
// inside fn commits, or none do. The checkout flow relies on this to keep
// wallet debit, stock decrement and order insert consistent under partial
// failure.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoTxRunner runs fn inside a MongoDB multi-document transaction.
// Requires the server to be a replica set (or mongos); standalone servers
// reject transactions.
type MongoTxRunner struct {
	client *mongo.Client
}

func NewTxRunner(client *mongo.Client) *MongoTxRunner {
	return &MongoTxRunner{client: client}
}

func (t *MongoTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
