package repository

import (
	"context"
	"database/sql"
	"fmt"

	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

// Executor is the query surface shared by *goqu.Database and *goqu.TxDatabase, so
// repositories run the same code inside and outside a transaction.
type Executor interface {
	From(from ...interface{}) *goqu.SelectDataset
	Select(cols ...interface{}) *goqu.SelectDataset
	Insert(table interface{}) *goqu.InsertDataset
	Update(table interface{}) *goqu.UpdateDataset
	Delete(table interface{}) *goqu.DeleteDataset
}

// Transactor hands out the plain executor for reads and runs fn in a transaction for writes.
type Transactor interface {
	Executor() Executor
	WithTransaction(ctx context.Context, fn func(tx Executor) error) error
}

type Repository struct {
	DB            *sql.DB
	GoquDBWrapper *goqu.Database
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:            db,
		GoquDBWrapper: goqu.New("postgres", db),
	}
}

func (r *Repository) Executor() Executor {
	return r.GoquDBWrapper
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(tx Executor) error) error {
	return WithTransaction(ctx, r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		return fn(tx)
	})
}

// WithTransaction runs fn in a serializable transaction. It commits when fn returns
// nil and rolls back on error or panic.
func WithTransaction(ctx context.Context, db *goqu.Database, fn func(tx *goqu.TxDatabase) error) (err error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else if commitErr := tx.Commit(); commitErr != nil {
			err = custom_error.FromDB(commitErr, "failed to commit transaction")
		}
	}()

	err = fn(tx)
	return
}

// Nullable turns a nil pointer into an untyped nil so goqu renders NULL.
func Nullable[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
