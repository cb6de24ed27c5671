// internal/app/system/txn/txn.go

// Package txn wraps multi-document mutations in MongoDB transactions.
//
// Every lifecycle operation that touches more than one document runs
// through WithTransaction so a failure partway leaves nothing applied.
// Transactions need a replica set or mongos; on a standalone server (local
// development) the callback runs without a session instead of failing.
package txn

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrAborted reports a multi-document mutation that could not complete
// atomically. The caller must treat the whole operation as not-happened.
var ErrAborted = errors.New("transaction aborted")

// Runner executes a callback atomically. Satisfied by *MongoRunner in
// production and by in-memory fakes in service tests.
type Runner interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoRunner runs callbacks inside MongoDB multi-document transactions.
type MongoRunner struct {
	client *mongo.Client
}

// NewRunner returns a Runner backed by the given client.
func NewRunner(client *mongo.Client) *MongoRunner {
	return &MongoRunner{client: client}
}

// InTransaction runs fn inside a session transaction. Business errors from
// fn abort the transaction and are returned unchanged; infrastructure
// failures (commit, session) are wrapped in ErrAborted. When the server
// does not support transactions, fn runs without a session.
func (r *MongoRunner) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, r.client, fn)
}

// WithTransaction is the function form of MongoRunner.InTransaction.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return fmt.Errorf("%w: start session: %v", ErrAborted, err)
	}
	defer sess.EndSession(ctx)

	var fnErr error
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		fnErr = fn(sc)
		return nil, fnErr
	})
	retry, resolved := resolveOutcome(err, fnErr)
	if retry {
		return fn(ctx)
	}
	return resolved
}

// resolveOutcome maps a session transaction result to the caller-visible
// error. retry means the server cannot run transactions and the callback
// should be re-run without a session. On a standalone server the first
// write inside the callback is what fails with a transactions-unavailable
// code, so that check must come before the callback error is surfaced.
func resolveOutcome(err, fnErr error) (retry bool, resolved error) {
	if err == nil {
		return false, nil
	}
	if IsNotSupported(err) {
		return true, nil
	}
	if err == fnErr || errors.Is(err, fnErr) {
		// The callback's own error; surface it untouched.
		return false, fnErr
	}
	return false, fmt.Errorf("%w: %v", ErrAborted, err)
}

// Server error codes that mean transactions are unavailable:
// 20 IllegalOperation variants on standalone, 51 and 263 for operations
// not allowed in a transaction context.
var notSupportedCodes = map[int32]bool{20: true, 51: true, 263: true}

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (standalone mongod, old wire version).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return notSupportedCodes[ce.Code]
	}

	msg := strings.ToLower(err.Error())
	has := func(s string) bool { return strings.Contains(msg, s) }
	switch {
	case has("illegal operation"):
		return true
	case has("transaction") && has("replica set"):
		return true
	case has("transaction") && has("session"):
		return true
	case has("session") && has("not supported"):
		return true
	}
	return false
}
