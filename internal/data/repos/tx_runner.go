package repos

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/domain/errs"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
)

// TxRunner is the shared transaction boundary. The version chain relies on it
// as the sole concurrency primitive: read-latest, insert, and prune all run
// inside one InTx call.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return errs.New(errs.CodeInternal, "repos.tx", "transaction runner has nil db")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

// IsSerializationFailure reports whether err is a Postgres concurrent-write
// conflict (serialization failure or deadlock) worth one transparent retry.
func IsSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 40001") || strings.Contains(msg, "SQLSTATE 40P01")
}
