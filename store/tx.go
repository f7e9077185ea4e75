package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner runs a function inside one mongo multi-document transaction.
// The checkout orchestrator uses it to make "write ledger lines, clear
// cart" a single atomic unit.
type TxRunner struct {
	Client *mongo.Client
}

// NewTxRunner creates a TxRunner for the given client.
func NewTxRunner(client *mongo.Client) *TxRunner {
	return &TxRunner{Client: client}
}

// WithTransaction executes fn within a session transaction. Collection
// operations inside fn must use the context it receives.
func (r *TxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.Client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
