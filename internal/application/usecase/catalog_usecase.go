package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/Kountade/AFRIKTEXIA/internal/application/dto"
	"github.com/Kountade/AFRIKTEXIA/internal/domain"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/entity"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/repository"
)

// CatalogUseCase altas y consultas de los datos de referencia restantes del
// catálogo: categorías, proveedores y clientes.
type CatalogUseCase struct {
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	clientRepo   repository.ClientRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	clientRepo repository.ClientRepository,
) *CatalogUseCase {
	return &CatalogUseCase{
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		clientRepo:   clientRepo,
	}
}

// CreateCategory crea una categoría.
func (uc *CatalogUseCase) CreateCategory(in dto.CreateCategoryRequest, actor string) (*dto.CategoryResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	category := &entity.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   time.Now(),
		CreatedBy:   actor,
	}
	if err := uc.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
	}, nil
}

// ListCategories lista categorías.
func (uc *CatalogUseCase) ListCategories(limit, offset int) ([]dto.CategoryResponse, error) {
	list, err := uc.categoryRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.CategoryResponse{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			CreatedAt:   c.CreatedAt,
		})
	}
	return items, nil
}

// CreateSupplier crea un proveedor.
func (uc *CatalogUseCase) CreateSupplier(in dto.CreateSupplierRequest, actor string) (*dto.SupplierResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Contact:   in.Contact,
		Phone:     in.Phone,
		Email:     in.Email,
		CreatedAt: time.Now(),
		CreatedBy: actor,
	}
	if err := uc.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}
	return &dto.SupplierResponse{
		ID:        supplier.ID,
		Name:      supplier.Name,
		Contact:   supplier.Contact,
		Phone:     supplier.Phone,
		Email:     supplier.Email,
		CreatedAt: supplier.CreatedAt,
	}, nil
}

// ListSuppliers lista proveedores.
func (uc *CatalogUseCase) ListSuppliers(limit, offset int) ([]dto.SupplierResponse, error) {
	list, err := uc.supplierRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.SupplierResponse{
			ID:        s.ID,
			Name:      s.Name,
			Contact:   s.Contact,
			Phone:     s.Phone,
			Email:     s.Email,
			CreatedAt: s.CreatedAt,
		})
	}
	return items, nil
}

// CreateClient crea un cliente (retail por defecto).
func (uc *CatalogUseCase) CreateClient(in dto.CreateClientRequest, actor string) (*dto.ClientResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	clientType := in.Type
	if clientType == "" {
		clientType = entity.ClientTypeRetail
	}
	if clientType != entity.ClientTypeRetail && clientType != entity.ClientTypeWholesale {
		return nil, domain.ErrInvalidInput
	}
	client := &entity.Client{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Type:      clientType,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		CreatedAt: time.Now(),
		CreatedBy: actor,
	}
	if err := uc.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return &dto.ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Type:      client.Type,
		Phone:     client.Phone,
		Email:     client.Email,
		Address:   client.Address,
		CreatedAt: client.CreatedAt,
	}, nil
}

// ListClients lista clientes.
func (uc *CatalogUseCase) ListClients(limit, offset int) ([]dto.ClientResponse, error) {
	list, err := uc.clientRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.ClientResponse{
			ID:        c.ID,
			Name:      c.Name,
			Type:      c.Type,
			Phone:     c.Phone,
			Email:     c.Email,
			Address:   c.Address,
			CreatedAt: c.CreatedAt,
		})
	}
	return items, nil
}
