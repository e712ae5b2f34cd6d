package memory

import (
	"context"

	"github.com/Kountade/AFRIKTEXIA/internal/application/ledger"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/entity"
)

var _ ledger.TxRunner = (*Store)(nil)

// Tx transacción journaled. Los bloqueos de fila se adquieren al primer
// acceso de escritura y se retienen hasta el final; las escrituras quedan
// en el journal y se aplican todas juntas al commit. Un mismo Tx puede
// volver a tocar una fila ya bloqueada sin auto-bloquearse.
type Tx struct {
	st  *Store
	ctx context.Context

	stockLocks  map[*stockRow]bool
	stockOrder  []*stockRow
	entryWrites map[*stockRow]entity.StockEntry

	saleLocks   map[*saleRow]bool
	saleOrder   []*saleRow
	saleWrites  map[*saleRow]entity.Sale
	saleCreates []entity.Sale

	transferLocks   map[*transferRow]bool
	transferOrder   []*transferRow
	transferWrites  map[*transferRow]entity.Transfer
	transferCreates []entity.Transfer

	movements []entity.Movement
	audits    []entity.AuditEntry
}

func newTx(st *Store, ctx context.Context) *Tx {
	return &Tx{
		st:             st,
		ctx:            ctx,
		stockLocks:     make(map[*stockRow]bool),
		entryWrites:    make(map[*stockRow]entity.StockEntry),
		saleLocks:      make(map[*saleRow]bool),
		saleWrites:     make(map[*saleRow]entity.Sale),
		transferLocks:  make(map[*transferRow]bool),
		transferWrites: make(map[*transferRow]entity.Transfer),
	}
}

// Run ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn falla, el journal se descarta: ninguna escritura parcial sobrevive.
func (s *Store) Run(ctx context.Context, fn func(repos ledger.TxRepos) error) error {
	tx := newTx(s, ctx)
	defer tx.releaseAll()
	err := fn(ledger.TxRepos{
		Entries:    &stockEntryRepo{st: s, tx: tx},
		Movements:  &movementRepo{st: s, tx: tx},
		Audit:      &auditRepo{st: s, tx: tx},
		Sales:      &saleRepo{st: s, tx: tx},
		Transfers:  &transferRepo{st: s, tx: tx},
		Warehouses: &warehouseRepo{st: s},
	})
	if err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (tx *Tx) lockStock(row *stockRow) error {
	if tx.stockLocks[row] {
		return nil
	}
	if err := tx.st.acquire(tx.ctx, row.lock); err != nil {
		return err
	}
	tx.stockLocks[row] = true
	tx.stockOrder = append(tx.stockOrder, row)
	return nil
}

func (tx *Tx) lockSale(row *saleRow) error {
	if tx.saleLocks[row] {
		return nil
	}
	if err := tx.st.acquire(tx.ctx, row.lock); err != nil {
		return err
	}
	tx.saleLocks[row] = true
	tx.saleOrder = append(tx.saleOrder, row)
	return nil
}

func (tx *Tx) lockTransfer(row *transferRow) error {
	if tx.transferLocks[row] {
		return nil
	}
	if err := tx.st.acquire(tx.ctx, row.lock); err != nil {
		return err
	}
	tx.transferLocks[row] = true
	tx.transferOrder = append(tx.transferOrder, row)
	return nil
}

// commit aplica el journal bajo el lock global del almacén.
func (tx *Tx) commit() {
	st := tx.st
	st.mu.Lock()
	for row, entry := range tx.entryWrites {
		row.entry = entry
	}
	for row, sale := range tx.saleWrites {
		row.sale = sale
	}
	for _, sale := range tx.saleCreates {
		st.sales[sale.ID] = &saleRow{lock: newRowLock(), sale: sale}
	}
	for row, transfer := range tx.transferWrites {
		row.transfer = transfer
	}
	for _, transfer := range tx.transferCreates {
		st.transfers[transfer.ID] = &transferRow{lock: newRowLock(), transfer: transfer}
	}
	st.movements = append(st.movements, tx.movements...)
	st.audits = append(st.audits, tx.audits...)
	st.mu.Unlock()
}

// releaseAll libera todos los bloqueos de fila en orden inverso de adquisición.
func (tx *Tx) releaseAll() {
	for i := len(tx.stockOrder) - 1; i >= 0; i-- {
		<-tx.stockOrder[i].lock
	}
	tx.stockOrder = nil
	for i := len(tx.saleOrder) - 1; i >= 0; i-- {
		<-tx.saleOrder[i].lock
	}
	tx.saleOrder = nil
	for i := len(tx.transferOrder) - 1; i >= 0; i-- {
		<-tx.transferOrder[i].lock
	}
	tx.transferOrder = nil
}
