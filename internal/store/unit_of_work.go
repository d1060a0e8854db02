package store

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tomiwa-code/recipe-share-api/internal/apperr"
)

// txn is the slice of a driver session the unit-of-work needs. Narrowed to an
// interface so the commit/abort/end sequencing can be tested without a live
// replica set.
type txn interface {
	// Context binds the session to ctx so nested reads and writes join the
	// transaction.
	Context(ctx context.Context) context.Context
	Abort(ctx context.Context) error
	Commit(ctx context.Context) error
	End(ctx context.Context)
}

// MongoUnitOfWork implements UnitOfWork over MongoDB sessions.
type MongoUnitOfWork struct {
	start  func(ctx context.Context) (txn, error)
	logger *slog.Logger
}

// NewUnitOfWork returns a unit-of-work backed by client sessions.
func NewUnitOfWork(client *mongo.Client, logger *slog.Logger) *MongoUnitOfWork {
	return &MongoUnitOfWork{
		logger: logger,
		start: func(ctx context.Context) (txn, error) {
			sess, err := client.StartSession()
			if err != nil {
				return nil, err
			}
			if err := sess.StartTransaction(); err != nil {
				sess.EndSession(ctx)
				return nil, err
			}
			return &mongoTxn{sess: sess}, nil
		},
	}
}

// Run executes body inside a transaction. A nil return from body commits; any
// error aborts and is returned unchanged. The session is always ended, and a
// failed commit surfaces as a distinct commit-failed error (never retried
// here).
func (u *MongoUnitOfWork) Run(ctx context.Context, body func(ctx context.Context) error) error {
	t, err := u.start(ctx)
	if err != nil {
		return err
	}

	active := true
	defer t.End(ctx)
	defer func() {
		if active {
			if abortErr := t.Abort(ctx); abortErr != nil {
				u.logger.Error("transaction abort failed", "error", abortErr)
			}
		}
	}()

	if err := body(t.Context(ctx)); err != nil {
		return err
	}

	active = false
	if err := t.Commit(ctx); err != nil {
		return apperr.CommitFailed(err)
	}
	return nil
}

type mongoTxn struct {
	sess mongo.Session
}

func (t *mongoTxn) Context(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, t.sess)
}

func (t *mongoTxn) Abort(ctx context.Context) error {
	return t.sess.AbortTransaction(ctx)
}

func (t *mongoTxn) Commit(ctx context.Context) error {
	return t.sess.CommitTransaction(ctx)
}

func (t *mongoTxn) End(ctx context.Context) {
	t.sess.EndSession(ctx)
}
