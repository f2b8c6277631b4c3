// Package store provides the gorm-backed implementations of the
// workflow and billing persistence ports. All mutating workflow
// operations run through DB.RunInTx; store methods called with the
// transaction's context join it automatically.
package store

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"loadlink/internal/apperrors"
)

type txKey struct{}

type DB struct {
	db *gorm.DB
}

func New(db *gorm.DB) *DB {
	return &DB{db: db}
}

// RunInTx implements workflow.TxManager. fn's context carries the
// transaction handle; nested store calls pick it up via conn.
func (s *DB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (s *DB) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return s.db.WithContext(ctx)
}

// mapUniqueViolation turns a postgres duplicate-key error into the
// taxonomy Conflict carrying msg. Unique indexes are the backstop for
// the in-transaction existence checks.
func mapUniqueViolation(err error, msg string) error {
	if err == nil {
		return nil
	}
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperrors.Conflict(msg)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Conflict(msg)
	}
	return err
}
