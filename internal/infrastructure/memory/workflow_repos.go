package memory

import (
	"sort"

	"github.com/Kountade/AFRIKTEXIA/internal/domain"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/entity"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/repository"
)

// saleRepo implementación en memoria del puerto de ventas.
type saleRepo struct {
	st *Store
	tx *Tx
}

// NewSaleRepository repositorio de ventas en modo autocommit.
func NewSaleRepository(st *Store) repository.SaleRepository {
	return &saleRepo{st: st}
}

func (r *saleRepo) Create(sale *entity.Sale) error {
	if r.tx != nil {
		r.tx.saleCreates = append(r.tx.saleCreates, copySale(*sale))
		return nil
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, exists := r.st.sales[sale.ID]; exists {
		return domain.ErrDuplicate
	}
	r.st.sales[sale.ID] = &saleRow{lock: newRowLock(), sale: copySale(*sale)}
	return nil
}

func (r *saleRepo) row(id string) *saleRow {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return r.st.sales[id]
}

func (r *saleRepo) GetByID(id string) (*entity.Sale, error) {
	row := r.row(id)
	if row == nil {
		return nil, nil
	}
	if r.tx != nil {
		if staged, ok := r.tx.saleWrites[row]; ok {
			s := copySale(staged)
			return &s, nil
		}
	}
	r.st.mu.RLock()
	s := copySale(row.sale)
	r.st.mu.RUnlock()
	return &s, nil
}

func (r *saleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	if r.tx == nil {
		return r.GetByID(id)
	}
	row := r.row(id)
	if row == nil {
		return nil, nil
	}
	if err := r.tx.lockSale(row); err != nil {
		return nil, err
	}
	if staged, ok := r.tx.saleWrites[row]; ok {
		s := copySale(staged)
		return &s, nil
	}
	r.st.mu.RLock()
	s := copySale(row.sale)
	r.st.mu.RUnlock()
	return &s, nil
}

func (r *saleRepo) Update(sale *entity.Sale) error {
	row := r.row(sale.ID)
	if row == nil {
		return domain.ErrNotFound
	}
	if r.tx != nil {
		if err := r.tx.lockSale(row); err != nil {
			return err
		}
		r.tx.saleWrites[row] = copySale(*sale)
		return nil
	}
	r.st.mu.Lock()
	row.sale = copySale(*sale)
	r.st.mu.Unlock()
	return nil
}

func (r *saleRepo) ReplaceLines(saleID string, lines []entity.SaleLine) error {
	sale, err := r.GetForUpdate(saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	sale.Lines = lines
	return r.Update(sale)
}

func (r *saleRepo) List(status string, limit, offset int) ([]*entity.Sale, error) {
	r.st.mu.RLock()
	sales := make([]entity.Sale, 0, len(r.st.sales))
	for _, row := range r.st.sales {
		if status == "" || row.sale.Status == status {
			sales = append(sales, copySale(row.sale))
		}
	}
	r.st.mu.RUnlock()
	sort.Slice(sales, func(i, j int) bool {
		if !sales[i].CreatedAt.Equal(sales[j].CreatedAt) {
			return sales[i].CreatedAt.After(sales[j].CreatedAt)
		}
		return sales[i].Number > sales[j].Number
	})
	if offset > len(sales) {
		offset = len(sales)
	}
	sales = sales[offset:]
	if limit > 0 && limit < len(sales) {
		sales = sales[:limit]
	}
	out := make([]*entity.Sale, 0, len(sales))
	for i := range sales {
		s := sales[i]
		out = append(out, &s)
	}
	return out, nil
}

// transferRepo implementación en memoria del puerto de traslados.
type transferRepo struct {
	st *Store
	tx *Tx
}

// NewTransferRepository repositorio de traslados en modo autocommit.
func NewTransferRepository(st *Store) repository.TransferRepository {
	return &transferRepo{st: st}
}

func (r *transferRepo) Create(transfer *entity.Transfer) error {
	if r.tx != nil {
		r.tx.transferCreates = append(r.tx.transferCreates, copyTransfer(*transfer))
		return nil
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, exists := r.st.transfers[transfer.ID]; exists {
		return domain.ErrDuplicate
	}
	r.st.transfers[transfer.ID] = &transferRow{lock: newRowLock(), transfer: copyTransfer(*transfer)}
	return nil
}

func (r *transferRepo) row(id string) *transferRow {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return r.st.transfers[id]
}

func (r *transferRepo) GetByID(id string) (*entity.Transfer, error) {
	row := r.row(id)
	if row == nil {
		return nil, nil
	}
	if r.tx != nil {
		if staged, ok := r.tx.transferWrites[row]; ok {
			t := copyTransfer(staged)
			return &t, nil
		}
	}
	r.st.mu.RLock()
	t := copyTransfer(row.transfer)
	r.st.mu.RUnlock()
	return &t, nil
}

func (r *transferRepo) GetForUpdate(id string) (*entity.Transfer, error) {
	if r.tx == nil {
		return r.GetByID(id)
	}
	row := r.row(id)
	if row == nil {
		return nil, nil
	}
	if err := r.tx.lockTransfer(row); err != nil {
		return nil, err
	}
	if staged, ok := r.tx.transferWrites[row]; ok {
		t := copyTransfer(staged)
		return &t, nil
	}
	r.st.mu.RLock()
	t := copyTransfer(row.transfer)
	r.st.mu.RUnlock()
	return &t, nil
}

func (r *transferRepo) Update(transfer *entity.Transfer) error {
	row := r.row(transfer.ID)
	if row == nil {
		return domain.ErrNotFound
	}
	if r.tx != nil {
		if err := r.tx.lockTransfer(row); err != nil {
			return err
		}
		r.tx.transferWrites[row] = copyTransfer(*transfer)
		return nil
	}
	r.st.mu.Lock()
	row.transfer = copyTransfer(*transfer)
	r.st.mu.Unlock()
	return nil
}

func (r *transferRepo) ReplaceLines(transferID string, lines []entity.TransferLine) error {
	transfer, err := r.GetForUpdate(transferID)
	if err != nil {
		return err
	}
	if transfer == nil {
		return domain.ErrNotFound
	}
	transfer.Lines = lines
	return r.Update(transfer)
}

func (r *transferRepo) List(status string, limit, offset int) ([]*entity.Transfer, error) {
	r.st.mu.RLock()
	transfers := make([]entity.Transfer, 0, len(r.st.transfers))
	for _, row := range r.st.transfers {
		if status == "" || row.transfer.Status == status {
			transfers = append(transfers, copyTransfer(row.transfer))
		}
	}
	r.st.mu.RUnlock()
	sort.Slice(transfers, func(i, j int) bool {
		if !transfers[i].CreatedAt.Equal(transfers[j].CreatedAt) {
			return transfers[i].CreatedAt.After(transfers[j].CreatedAt)
		}
		return transfers[i].Reference > transfers[j].Reference
	})
	if offset > len(transfers) {
		offset = len(transfers)
	}
	transfers = transfers[offset:]
	if limit > 0 && limit < len(transfers) {
		transfers = transfers[:limit]
	}
	out := make([]*entity.Transfer, 0, len(transfers))
	for i := range transfers {
		t := transfers[i]
		out = append(out, &t)
	}
	return out, nil
}
