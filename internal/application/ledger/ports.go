package ledger

import (
	"context"
	"errors"

	"github.com/Kountade/AFRIKTEXIA/internal/domain"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Entries    repository.StockEntryRepository
	Movements  repository.MovementRepository
	Audit      repository.AuditEntryRepository
	Sales      repository.SaleRepository
	Transfers  repository.TransferRepository
	Warehouses repository.WarehouseRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando
// repositorios atados a esa tx. Garantiza atomicidad: si fn devuelve error,
// nada de lo escrito dentro sobrevive (rollback). Es el mecanismo que hace
// que una confirmación multilínea sea todo-o-nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

// Retryable indica si el error amerita reintento automático transparente.
// Solo la contención (timeout de bloqueo, modificación concurrente) se
// reintenta; el resto es terminal para esa invocación.
func Retryable(err error) bool {
	return errors.Is(err, domain.ErrLockTimeout) || errors.Is(err, domain.ErrConcurrentModification)
}

// RunWithRetry ejecuta fn en transacción con reintentos acotados ante
// contención. Nunca reintenta errores de negocio.
func RunWithRetry(ctx context.Context, runner TxRunner, attempts int, fn func(repos TxRepos) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = runner.Run(ctx, fn)
		if err == nil || !Retryable(err) {
			return err
		}
	}
	return err
}
