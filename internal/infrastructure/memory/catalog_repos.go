package memory

import (
	"sort"

	"github.com/Kountade/AFRIKTEXIA/internal/domain"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/entity"
	"github.com/Kountade/AFRIKTEXIA/internal/domain/repository"
)

// Repositorios de catálogo en memoria. Los datos de referencia no participan
// en las transacciones del ledger: mutan bajo el lock global del almacén.

type productRepo struct{ st *Store }

// NewProductRepository repositorio de productos.
func NewProductRepository(st *Store) repository.ProductRepository {
	return &productRepo{st: st}
}

func (r *productRepo) Create(product *entity.Product) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, exists := r.st.products[product.ID]; exists {
		return domain.ErrDuplicate
	}
	for _, p := range r.st.products {
		if p.Code == product.Code {
			return domain.ErrDuplicate
		}
	}
	r.st.products[product.ID] = *product
	return nil
}

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	p, ok := r.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetByCode(code string) (*entity.Product, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	for _, p := range r.st.products {
		if p.Code == code {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (r *productRepo) Update(product *entity.Product) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st.products[product.ID] = *product
	return nil
}

func (r *productRepo) List(limit, offset int) ([]*entity.Product, error) {
	r.st.mu.RLock()
	products := make([]entity.Product, 0, len(r.st.products))
	for _, p := range r.st.products {
		products = append(products, p)
	}
	r.st.mu.RUnlock()
	sort.Slice(products, func(i, j int) bool { return products[i].Code < products[j].Code })
	if offset > len(products) {
		offset = len(products)
	}
	products = products[offset:]
	if limit > 0 && limit < len(products) {
		products = products[:limit]
	}
	out := make([]*entity.Product, 0, len(products))
	for i := range products {
		p := products[i]
		out = append(out, &p)
	}
	return out, nil
}

func (r *productRepo) Delete(id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.st.products, id)
	return nil
}

type warehouseRepo struct{ st *Store }

// NewWarehouseRepository repositorio de bodegas.
func NewWarehouseRepository(st *Store) repository.WarehouseRepository {
	return &warehouseRepo{st: st}
}

func (r *warehouseRepo) Create(warehouse *entity.Warehouse) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, exists := r.st.warehouses[warehouse.ID]; exists {
		return domain.ErrDuplicate
	}
	r.st.warehouses[warehouse.ID] = *warehouse
	return nil
}

func (r *warehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	w, ok := r.st.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *warehouseRepo) Update(warehouse *entity.Warehouse) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.warehouses[warehouse.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st.warehouses[warehouse.ID] = *warehouse
	return nil
}

func (r *warehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	r.st.mu.RLock()
	warehouses := make([]entity.Warehouse, 0, len(r.st.warehouses))
	for _, w := range r.st.warehouses {
		warehouses = append(warehouses, w)
	}
	r.st.mu.RUnlock()
	sort.Slice(warehouses, func(i, j int) bool { return warehouses[i].Name < warehouses[j].Name })
	if offset > len(warehouses) {
		offset = len(warehouses)
	}
	warehouses = warehouses[offset:]
	if limit > 0 && limit < len(warehouses) {
		warehouses = warehouses[:limit]
	}
	out := make([]*entity.Warehouse, 0, len(warehouses))
	for i := range warehouses {
		w := warehouses[i]
		out = append(out, &w)
	}
	return out, nil
}

type categoryRepo struct{ st *Store }

// NewCategoryRepository repositorio de categorías.
func NewCategoryRepository(st *Store) repository.CategoryRepository {
	return &categoryRepo{st: st}
}

func (r *categoryRepo) Create(category *entity.Category) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, exists := r.st.categories[category.ID]; exists {
		return domain.ErrDuplicate
	}
	r.st.categories[category.ID] = *category
	return nil
}

func (r *categoryRepo) GetByID(id string) (*entity.Category, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	c, ok := r.st.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *categoryRepo) List(limit, offset int) ([]*entity.Category, error) {
	r.st.mu.RLock()
	categories := make([]entity.Category, 0, len(r.st.categories))
	for _, c := range r.st.categories {
		categories = append(categories, c)
	}
	r.st.mu.RUnlock()
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	if offset > len(categories) {
		offset = len(categories)
	}
	categories = categories[offset:]
	if limit > 0 && limit < len(categories) {
		categories = categories[:limit]
	}
	out := make([]*entity.Category, 0, len(categories))
	for i := range categories {
		c := categories[i]
		out = append(out, &c)
	}
	return out, nil
}

type supplierRepo struct{ st *Store }

// NewSupplierRepository repositorio de proveedores.
func NewSupplierRepository(st *Store) repository.SupplierRepository {
	return &supplierRepo{st: st}
}

func (r *supplierRepo) Create(supplier *entity.Supplier) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, exists := r.st.suppliers[supplier.ID]; exists {
		return domain.ErrDuplicate
	}
	r.st.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *supplierRepo) GetByID(id string) (*entity.Supplier, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	s, ok := r.st.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *supplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	r.st.mu.RLock()
	suppliers := make([]entity.Supplier, 0, len(r.st.suppliers))
	for _, s := range r.st.suppliers {
		suppliers = append(suppliers, s)
	}
	r.st.mu.RUnlock()
	sort.Slice(suppliers, func(i, j int) bool { return suppliers[i].Name < suppliers[j].Name })
	if offset > len(suppliers) {
		offset = len(suppliers)
	}
	suppliers = suppliers[offset:]
	if limit > 0 && limit < len(suppliers) {
		suppliers = suppliers[:limit]
	}
	out := make([]*entity.Supplier, 0, len(suppliers))
	for i := range suppliers {
		s := suppliers[i]
		out = append(out, &s)
	}
	return out, nil
}

type clientRepo struct{ st *Store }

// NewClientRepository repositorio de clientes.
func NewClientRepository(st *Store) repository.ClientRepository {
	return &clientRepo{st: st}
}

func (r *clientRepo) Create(client *entity.Client) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, exists := r.st.clients[client.ID]; exists {
		return domain.ErrDuplicate
	}
	r.st.clients[client.ID] = *client
	return nil
}

func (r *clientRepo) GetByID(id string) (*entity.Client, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	c, ok := r.st.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *clientRepo) List(limit, offset int) ([]*entity.Client, error) {
	r.st.mu.RLock()
	clients := make([]entity.Client, 0, len(r.st.clients))
	for _, c := range r.st.clients {
		clients = append(clients, c)
	}
	r.st.mu.RUnlock()
	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	if offset > len(clients) {
		offset = len(clients)
	}
	clients = clients[offset:]
	if limit > 0 && limit < len(clients) {
		clients = clients[:limit]
	}
	out := make([]*entity.Client, 0, len(clients))
	for i := range clients {
		c := clients[i]
		out = append(out, &c)
	}
	return out, nil
}
