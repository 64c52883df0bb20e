package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/halil-bekli/northwind-orders-webapi/internal/domain"
)

// referenceCatalog хранит справочные данные, из которых при чтении
// восстанавливаются display-поля проекций — как это делают JOIN'ы
// в PostgreSQL-реализации.
type referenceCatalog struct {
	customers map[string]domain.Customer
	employees map[int64]domain.Employee
	shippers  map[int64]domain.Shipper
	products  map[int64]domain.Product
}

// defaultCatalog зеркалирует справочные данные миграции 0002.
func defaultCatalog() referenceCatalog {
	catalog := referenceCatalog{
		customers: make(map[string]domain.Customer),
		employees: make(map[int64]domain.Employee),
		shippers:  make(map[int64]domain.Shipper),
		products:  make(map[int64]domain.Product),
	}

	for _, c := range []domain.Customer{
		{Code: domain.CustomerCode{Code: "ALFKI"}, CompanyName: "Alfreds Futterkiste"},
		{Code: domain.CustomerCode{Code: "ANATR"}, CompanyName: "Ana Trujillo Emparedados y helados"},
		{Code: domain.CustomerCode{Code: "AROUT"}, CompanyName: "Around the Horn"},
	} {
		catalog.customers[c.Code.Code] = c
	}

	for _, e := range []domain.Employee{
		{ID: 1, FirstName: "Nancy", LastName: "Davolio", Country: "USA"},
		{ID: 2, FirstName: "Andrew", LastName: "Fuller", Country: "USA"},
	} {
		catalog.employees[e.ID] = e
	}

	for _, s := range []domain.Shipper{
		{ID: 1, CompanyName: "Speedy Express"},
		{ID: 2, CompanyName: "United Package"},
		{ID: 3, CompanyName: "Federal Shipping"},
	} {
		catalog.shippers[s.ID] = s
	}

	for _, p := range []domain.Product{
		{ID: 1, Name: "Chai", CategoryID: 1, Category: "Beverages", SupplierID: 1, Supplier: "Exotic Liquids"},
		{ID: 2, Name: "Chang", CategoryID: 1, Category: "Beverages", SupplierID: 1, Supplier: "Exotic Liquids"},
		{ID: 3, Name: "Aniseed Syrup", CategoryID: 2, Category: "Condiments", SupplierID: 1, Supplier: "Exotic Liquids"},
		{ID: 4, Name: "Chef Anton's Cajun Seasoning", CategoryID: 2, Category: "Condiments", SupplierID: 2, Supplier: "New Orleans Cajun Delights"},
		{ID: 5, Name: "Chef Anton's Gumbo Mix", CategoryID: 2, Category: "Condiments", SupplierID: 2, Supplier: "New Orleans Cajun Delights"},
		{ID: 6, Name: "Grandma's Boysenberry Spread", CategoryID: 2, Category: "Condiments", SupplierID: 3, Supplier: "Grandma Kelly's Homestead"},
		{ID: 7, Name: "Uncle Bob's Organic Dried Pears", CategoryID: 7, Category: "Produce", SupplierID: 3, Supplier: "Grandma Kelly's Homestead"},
		{ID: 8, Name: "Northwoods Cranberry Sauce", CategoryID: 2, Category: "Condiments", SupplierID: 3, Supplier: "Grandma Kelly's Homestead"},
	} {
		catalog.products[p.ID] = p
	}

	return catalog
}

// orderRepositoryInMemory — in-memory реализация OrderRepository для локальной
// разработки и тестов. Заказы хранятся в «нормализованном» виде: только
// внешние ключи, display-поля восстанавливаются из catalog при чтении.
type orderRepositoryInMemory struct {
	mu      sync.RWMutex
	catalog referenceCatalog
	orders  map[int64]domain.Order
	nextID  int64
}

// NewOrderRepository возвращает in-memory репозиторий со справочными данными,
// совпадающими с сидом PostgreSQL-миграций.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		catalog: defaultCatalog(),
		orders:  make(map[int64]domain.Order),
		nextID:  1,
	}
}

// GetOrder возвращает полную проекцию заказа или ErrOrderNotFound.
func (r *orderRepositoryInMemory) GetOrder(orderID int64) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return r.hydrate(stored, true), nil
}

// ListOrders возвращает окно [skip, skip+count) кратких проекций,
// отсортированных по возрастанию идентификатора.
func (r *orderRepositoryInMemory) ListOrders(skip, count int) ([]domain.Order, error) {
	if skip < 0 || count <= 0 {
		return nil, fmt.Errorf("%w: skip must be >= 0 and count > 0", domain.ErrInvalidArgument)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.orders))
	for id := range r.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if skip >= len(ids) {
		return []domain.Order{}, nil
	}
	end := skip + count
	if end > len(ids) {
		end = len(ids)
	}

	result := make([]domain.Order, 0, end-skip)
	for _, id := range ids[skip:end] {
		result = append(result, r.hydrate(r.orders[id], false))
	}
	return result, nil
}

// AddOrder валидирует позиции, проверяет внешние ключи и сохраняет заказ,
// присваивая сгенерированный идентификатор.
func (r *orderRepositoryInMemory) AddOrder(order domain.Order) (int64, error) {
	if violations := order.ValidateDetails(); len(violations) > 0 {
		return 0, domain.ValidationError(violations)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkReferences(order); err != nil {
		return 0, err
	}

	orderID := r.nextID
	r.nextID++
	r.orders[orderID] = normalize(order, orderID)
	return orderID, nil
}

// RemoveOrder удаляет заказ вместе с позициями.
func (r *orderRepositoryInMemory) RemoveOrder(orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[orderID]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.orders, orderID)
	return nil
}

// UpdateOrder перезаписывает заказ целиком: full replace набора позиций.
func (r *orderRepositoryInMemory) UpdateOrder(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	if violations := order.ValidateDetails(); len(violations) > 0 {
		return domain.ValidationError(violations)
	}
	if err := r.checkReferences(order); err != nil {
		return err
	}

	r.orders[order.ID] = normalize(order, order.ID)
	return nil
}

// checkReferences отклоняет неизвестные внешние ключи — аналог
// нарушения FK-ограничения в PostgreSQL.
func (r *orderRepositoryInMemory) checkReferences(order domain.Order) error {
	if _, ok := r.catalog.customers[order.Customer.Code.Code]; !ok {
		return domain.PersistenceError("insert order", fmt.Errorf("unknown customer %q", order.Customer.Code.Code))
	}
	if _, ok := r.catalog.employees[order.Employee.ID]; !ok {
		return domain.PersistenceError("insert order", fmt.Errorf("unknown employee %d", order.Employee.ID))
	}
	if _, ok := r.catalog.shippers[order.Shipper.ID]; !ok {
		return domain.PersistenceError("insert order", fmt.Errorf("unknown shipper %d", order.Shipper.ID))
	}
	for _, detail := range order.Details {
		if _, ok := r.catalog.products[detail.Product.ID]; !ok {
			return domain.PersistenceError("insert order detail", fmt.Errorf("unknown product %d", detail.Product.ID))
		}
	}
	return nil
}

// normalize приводит агрегат к хранимому виду: display-поля сбрасываются,
// позиции копируются, обратные ссылки указывают на присвоенный идентификатор.
func normalize(order domain.Order, orderID int64) domain.Order {
	stored := order
	stored.ID = orderID
	stored.Customer = domain.Customer{Code: order.Customer.Code}
	stored.Employee = domain.Employee{ID: order.Employee.ID}
	stored.Shipper = domain.Shipper{ID: order.Shipper.ID}
	if order.ShippedDate != nil {
		shipped := *order.ShippedDate
		stored.ShippedDate = &shipped
	}

	stored.Details = make([]domain.OrderDetail, 0, len(order.Details))
	for _, detail := range order.Details {
		stored.Details = append(stored.Details, domain.OrderDetail{
			OrderID:   orderID,
			Product:   domain.Product{ID: detail.Product.ID},
			UnitPrice: detail.UnitPrice,
			Quantity:  detail.Quantity,
			Discount:  detail.Discount,
		})
	}
	return stored
}

// hydrate восстанавливает display-поля из справочников.
// При full=false позиции опускаются (краткая проекция).
func (r *orderRepositoryInMemory) hydrate(stored domain.Order, full bool) domain.Order {
	order := stored
	if c, ok := r.catalog.customers[stored.Customer.Code.Code]; ok {
		order.Customer = c
	}
	if e, ok := r.catalog.employees[stored.Employee.ID]; ok {
		order.Employee = e
	}
	if s, ok := r.catalog.shippers[stored.Shipper.ID]; ok {
		order.Shipper = s
	}
	if stored.ShippedDate != nil {
		shipped := *stored.ShippedDate
		order.ShippedDate = &shipped
	}

	if !full {
		order.Details = nil
		return order
	}

	order.Details = make([]domain.OrderDetail, len(stored.Details))
	copy(order.Details, stored.Details)
	sort.Slice(order.Details, func(i, j int) bool {
		return order.Details[i].Product.ID < order.Details[j].Product.ID
	})
	for i := range order.Details {
		if p, ok := r.catalog.products[order.Details[i].Product.ID]; ok {
			order.Details[i].Product = p
		}
	}
	return order
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
