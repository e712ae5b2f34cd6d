package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kountade/AFRIKTEXIA/internal/application/ledger"
	"github.com/Kountade/AFRIKTEXIA/internal/domain"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/entity"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/repository"
	"github.com/Kountade/AFRIKTEXIA/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestRun_CommitAplicaTodoElJournal(t *testing.T) {
	st := memory.NewStore(0)
	entries := memory.NewStockEntryRepository(st)
	movements := memory.NewMovementRepository(st)

	productID := uuid.New().String()
	warehouseID := uuid.New().String()

	err := st.Run(context.Background(), func(repos ledger.TxRepos) error {
		e, err := repos.Entries.GetForUpdate(productID, warehouseID)
		if err != nil {
			return err
		}
		e.Quantity = dec("7")
		if err := repos.Entries.Upsert(e); err != nil {
			return err
		}
		return repos.Movements.Create(&entity.Movement{
			ID:          uuid.New().String(),
			ProductID:   productID,
			WarehouseID: warehouseID,
			Kind:        entity.MovementKindIn,
			Quantity:    dec("7"),
			CreatedAt:   time.Now(),
		})
	})
	require.NoError(t, err)

	e, err := entries.Get(productID, warehouseID)
	require.NoError(t, err)
	assert.True(t, e.Quantity.Equal(dec("7")))

	movs, err := movements.List(repository.MovementFilter{ProductID: productID}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "el movimiento del journal se aplicó junto con la fila")
}

func TestRun_ErrorDescartaElJournal(t *testing.T) {
	st := memory.NewStore(0)
	entries := memory.NewStockEntryRepository(st)
	movements := memory.NewMovementRepository(st)

	productID := uuid.New().String()
	warehouseID := uuid.New().String()
	boom := errors.New("boom")

	err := st.Run(context.Background(), func(repos ledger.TxRepos) error {
		e, err := repos.Entries.GetForUpdate(productID, warehouseID)
		if err != nil {
			return err
		}
		e.Quantity = dec("7")
		if err := repos.Entries.Upsert(e); err != nil {
			return err
		}
		if err := repos.Movements.Create(&entity.Movement{
			ID:        uuid.New().String(),
			ProductID: productID,
			Kind:      entity.MovementKindIn,
			Quantity:  dec("7"),
			CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Ninguna escritura del journal sobrevivió.
	e, err := entries.Get(productID, warehouseID)
	require.NoError(t, err)
	assert.True(t, e.Quantity.IsZero(), "el Upsert dentro de la transacción fallida no se aplicó")

	movs, err := movements.List(repository.MovementFilter{ProductID: productID}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs, "el movimiento staged se descartó con el journal")
}

func TestRun_EscrituraInvisibleHastaCommit(t *testing.T) {
	st := memory.NewStore(0)
	entries := memory.NewStockEntryRepository(st)

	productID := uuid.New().String()
	warehouseID := uuid.New().String()

	err := st.Run(context.Background(), func(repos ledger.TxRepos) error {
		e, err := repos.Entries.GetForUpdate(productID, warehouseID)
		if err != nil {
			return err
		}
		e.Quantity = dec("3")
		if err := repos.Entries.Upsert(e); err != nil {
			return err
		}

		// Lectura externa durante la transacción: no ve la escritura staged.
		outside, err := entries.Get(productID, warehouseID)
		if err != nil {
			return err
		}
		assert.True(t, outside.Quantity.IsZero(), "sin lecturas sucias")

		// La propia transacción sí ve su escritura.
		inside, err := repos.Entries.Get(productID, warehouseID)
		if err != nil {
			return err
		}
		assert.True(t, inside.Quantity.Equal(dec("3")))
		return nil
	})
	require.NoError(t, err)
}

func TestRun_FilaBloqueadaExpiraConLockTimeout(t *testing.T) {
	st := memory.NewStore(50 * time.Millisecond)

	productID := uuid.New().String()
	warehouseID := uuid.New().String()

	holding := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- st.Run(context.Background(), func(repos ledger.TxRepos) error {
			if _, err := repos.Entries.GetForUpdate(productID, warehouseID); err != nil {
				return err
			}
			close(holding)
			<-release
			return nil
		})
	}()

	<-holding
	err := st.Run(context.Background(), func(repos ledger.TxRepos) error {
		_, err := repos.Entries.GetForUpdate(productID, warehouseID)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrLockTimeout, "la espera por la fila bloqueada es acotada")

	close(release)
	require.NoError(t, <-done)

	// Liberada la fila, la siguiente transacción entra sin problema.
	err = st.Run(context.Background(), func(repos ledger.TxRepos) error {
		_, err := repos.Entries.GetForUpdate(productID, warehouseID)
		return err
	})
	assert.NoError(t, err)
}

func TestRun_FilasDistintasNoContienden(t *testing.T) {
	st := memory.NewStore(50 * time.Millisecond)

	productID := uuid.New().String()
	holding := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- st.Run(context.Background(), func(repos ledger.TxRepos) error {
			if _, err := repos.Entries.GetForUpdate(productID, "bodega-a"); err != nil {
				return err
			}
			close(holding)
			<-release
			return nil
		})
	}()

	<-holding
	err := st.Run(context.Background(), func(repos ledger.TxRepos) error {
		_, err := repos.Entries.GetForUpdate(productID, "bodega-b")
		return err
	})
	assert.NoError(t, err, "otra bodega es otra fila: sin contención")

	close(release)
	require.NoError(t, <-done)
}

func TestRun_MismaTransaccionReentraEnSuFila(t *testing.T) {
	st := memory.NewStore(50 * time.Millisecond)

	productID := uuid.New().String()
	warehouseID := uuid.New().String()

	err := st.Run(context.Background(), func(repos ledger.TxRepos) error {
		if _, err := repos.Entries.GetForUpdate(productID, warehouseID); err != nil {
			return err
		}
		// Segundo acceso a la misma fila dentro de la misma transacción.
		_, err := repos.Entries.GetForUpdate(productID, warehouseID)
		return err
	})
	assert.NoError(t, err, "el bloqueo es reentrante dentro de la transacción")
}

func TestRun_ContextoCanceladoCortaLaEspera(t *testing.T) {
	st := memory.NewStore(10 * time.Second)

	productID := uuid.New().String()
	warehouseID := uuid.New().String()

	holding := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- st.Run(context.Background(), func(repos ledger.TxRepos) error {
			if _, err := repos.Entries.GetForUpdate(productID, warehouseID); err != nil {
				return err
			}
			close(holding)
			<-release
			return nil
		})
	}()

	<-holding
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := st.Run(ctx, func(repos ledger.TxRepos) error {
		_, err := repos.Entries.GetForUpdate(productID, warehouseID)
		return err
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)
}
