package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kountade/AFRIKTEXIA/internal/application/ledger"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con
// lock_timeout acotado: un bloqueo de fila que no se consigue a tiempo
// aborta la transacción con ErrLockTimeout en vez de esperar sin límite.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout <= 0 usa 2s.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	if lockTimeout <= 0 {
		lockTimeout = 2 * time.Second
	}
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ledger.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// SET LOCAL aplica solo a esta transacción.
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("set lock_timeout: %w", err)
	}

	repos := ledger.TxRepos{
		Entries:    NewStockEntryRepository(tx),
		Movements:  NewMovementRepository(tx),
		Audit:      NewAuditRepository(tx),
		Sales:      NewSaleRepository(tx),
		Transfers:  NewTransferRepository(tx),
		Warehouses: NewWarehouseRepository(tx),
	}

	if err := fn(repos); err != nil {
		return mapLockError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapLockError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
