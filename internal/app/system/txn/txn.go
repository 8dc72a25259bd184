// Package txn runs multi-document mutations inside a Mongo transaction
// when the deployment supports one (replica set / mongos), and falls
// back to plain sequential execution when it does not (standalone
// servers reject transactions). The cascade engine routes every
// multi-document delete through Run so no partial cascade is visible on
// transaction-capable deployments.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn transactionally. fn must use the ctx it is handed for
// every store call so the operations join the session. On deployments
// without transaction support the operations run directly; idempotent
// cascade steps make a rerun after a mid-sequence failure safe.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	client := db.Client()
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			log.Debug("transactions unsupported; running without session", zap.Error(err))
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		log.Debug("transactions unsupported; running without session", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err indicates the deployment cannot run
// multi-document transactions (standalone server, old wire version).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// 20 IllegalOperation (not a replica set member),
		// 51 and 263 are raised for transaction-incompatible operations.
		switch cmdErr.Code {
		case 20, 51, 263:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") &&
		(strings.Contains(msg, "replica set") || strings.Contains(msg, "session") || strings.Contains(msg, "illegal operation")) {
		return true
	}
	if strings.Contains(msg, "session") && strings.Contains(msg, "not supported") {
		return true
	}
	return false
}
