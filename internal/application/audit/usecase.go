package audit

import (
	"github.com/Kountade/AFRIKTEXIA/internal/application/dto"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/repository"
)

// UseCase superficie de consulta del registro de auditoría. Estrictamente de
// solo lectura: la escritura ocurre únicamente dentro de las transacciones
// de los workflows y del ajuste manual; ningún consumidor externo puede
// construir, editar ni eliminar una entrada.
type UseCase struct {
	repo repository.AuditEntryRepository
}

// NewUseCase construye la superficie de consulta de auditoría.
func NewUseCase(repo repository.AuditEntryRepository) *UseCase {
	return &UseCase{repo: repo}
}

// List histórico de auditoría con filtros por actor, acción, entidad y fechas.
func (uc *UseCase) List(filter repository.AuditFilter, limit, offset int) (*dto.AuditListResponse, error) {
	list, err := uc.repo.List(filter, limit, offset)
	if err != nil {
		return nil, err
	}
	resp := &dto.AuditListResponse{Page: dto.PageResponse{Limit: limit, Offset: offset}}
	for _, e := range list {
		resp.Items = append(resp.Items, dto.AuditEntryResponse{
			ID:         e.ID,
			Actor:      e.Actor,
			Action:     e.Action,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Details:    e.Details,
			CreatedAt:  e.CreatedAt,
		})
	}
	return resp, nil
}
