package repository

import "github.com/Kountade/AFRIKTEXIA/internal/domain/entity"

// TransferRepository puerto de persistencia para traslados y sus líneas.
type TransferRepository interface {
	Create(transfer *entity.Transfer) error
	GetByID(id string) (*entity.Transfer, error)
	GetForUpdate(id string) (*entity.Transfer, error)
	Update(transfer *entity.Transfer) error
	ReplaceLines(transferID string, lines []entity.TransferLine) error
	List(status string, limit, offset int) ([]*entity.Transfer, error)
}
