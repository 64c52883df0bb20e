package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/halil-bekli/northwind-orders-webapi/internal/domain"
)

// writeOrder собирает заказ так, как его подаёт транспортный слой:
// в справочных проекциях заполнены только идентификаторы.
func writeOrder() domain.Order {
	orderDate := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	return domain.Order{
		Customer:     domain.Customer{Code: domain.CustomerCode{Code: "ALFKI"}},
		Employee:     domain.Employee{ID: 1},
		Shipper:      domain.Shipper{ID: 1},
		OrderDate:    orderDate,
		RequiredDate: orderDate.AddDate(0, 0, 14),
		Freight:      12.5,
		ShipName:     "Alfreds Futterkiste",
		ShippingAddress: domain.ShippingAddress{
			Address:    "Obere Str. 57",
			City:       "Berlin",
			PostalCode: "12209",
			Country:    "Germany",
		},
		Details: []domain.OrderDetail{
			{Product: domain.Product{ID: 7}, UnitPrice: 10.0, Quantity: 3, Discount: 0.1},
		},
	}
}

func TestOrderRepository_PostgresAddGetRoundTrip(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	input := writeOrder()
	orderID, err := repo.AddOrder(input)
	if err != nil {
		t.Fatalf("add order: %v", err)
	}
	if orderID <= 0 {
		t.Fatalf("expected generated id, got %d", orderID)
	}

	got, err := repo.GetOrder(orderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}

	if got.ID != orderID {
		t.Fatalf("unexpected id: %d", got.ID)
	}
	if !got.OrderDate.Equal(input.OrderDate) || !got.RequiredDate.Equal(input.RequiredDate) {
		t.Fatalf("dates changed on round trip: %+v", got)
	}
	if got.ShippedDate != nil {
		t.Fatal("shipped date must stay NULL")
	}
	if got.Freight != input.Freight || got.ShipName != input.ShipName {
		t.Fatalf("scalar fields changed on round trip: %+v", got)
	}

	// Display-поля восстановлены из справочных таблиц, не из входного агрегата.
	if got.Customer.CompanyName != "Alfreds Futterkiste" {
		t.Fatalf("customer display fields not derived: %+v", got.Customer)
	}
	if got.Employee.LastName != "Davolio" {
		t.Fatalf("employee display fields not derived: %+v", got.Employee)
	}
	if got.Shipper.CompanyName != "Speedy Express" {
		t.Fatalf("shipper display fields not derived: %+v", got.Shipper)
	}

	if len(got.Details) != 1 {
		t.Fatalf("expected 1 detail, got %d", len(got.Details))
	}
	detail := got.Details[0]
	if detail.OrderID != orderID || detail.Product.ID != 7 {
		t.Fatalf("unexpected detail identity: %+v", detail)
	}
	if detail.UnitPrice != 10.0 || detail.Quantity != 3 || detail.Discount != 0.1 {
		t.Fatalf("detail payload changed on round trip: %+v", detail)
	}
	if detail.Product.Category != "Produce" || detail.Product.Supplier == "" {
		t.Fatalf("product names not joined: %+v", detail.Product)
	}
}

func TestOrderRepository_PostgresListWindow(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	ids := make([]int64, 0, 5)
	for i := 0; i < 5; i++ {
		id, err := repo.AddOrder(writeOrder())
		if err != nil {
			t.Fatalf("add order %d: %v", i, err)
		}
		ids = append(ids, id)
	}

	first, err := repo.ListOrders(0, 2)
	if err != nil {
		t.Fatalf("list first window: %v", err)
	}
	second, err := repo.ListOrders(2, 3)
	if err != nil {
		t.Fatalf("list second window: %v", err)
	}
	all, err := repo.ListOrders(0, 5)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}

	if len(first) != 2 || len(second) != 3 || len(all) != 5 {
		t.Fatalf("unexpected window sizes: %d %d %d", len(first), len(second), len(all))
	}

	// Окна смежны и не пересекаются, порядок — по возрастанию идентификатора.
	combined := append(append([]domain.Order{}, first...), second...)
	for i, order := range combined {
		if order.ID != all[i].ID {
			t.Fatalf("windows are not contiguous at %d: %d vs %d", i, order.ID, all[i].ID)
		}
		if order.ID != ids[i] {
			t.Fatalf("unexpected order id at %d: %d", i, order.ID)
		}
		if len(order.Details) != 0 {
			t.Fatal("brief projection must omit details")
		}
		if i > 0 && combined[i-1].ID >= order.ID {
			t.Fatal("orders must be sorted by ascending id")
		}
	}

	if _, err := repo.ListOrders(-1, 5); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for negative skip, got %v", err)
	}
	if _, err := repo.ListOrders(5, 0); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for zero count, got %v", err)
	}
}

func TestOrderRepository_PostgresUpdateReplacesDetails(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	input := writeOrder()
	input.Details = []domain.OrderDetail{
		{Product: domain.Product{ID: 1}, UnitPrice: 18, Quantity: 2, Discount: 0},
		{Product: domain.Product{ID: 2}, UnitPrice: 19, Quantity: 1, Discount: 0},
		{Product: domain.Product{ID: 3}, UnitPrice: 10, Quantity: 4, Discount: 0.05},
	}
	orderID, err := repo.AddOrder(input)
	if err != nil {
		t.Fatalf("add order: %v", err)
	}

	updated := writeOrder()
	updated.ID = orderID
	updated.Freight = 99.5
	updated.Details = []domain.OrderDetail{
		{Product: domain.Product{ID: 5}, UnitPrice: 21.35, Quantity: 10, Discount: 0.2},
	}
	if err := repo.UpdateOrder(updated); err != nil {
		t.Fatalf("update order: %v", err)
	}

	got, err := repo.GetOrder(orderID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Freight != 99.5 {
		t.Fatalf("scalar fields not overwritten: %+v", got)
	}
	if len(got.Details) != 1 || got.Details[0].Product.ID != 5 {
		t.Fatalf("details must be fully replaced, got %+v", got.Details)
	}
}

func TestOrderRepository_PostgresValidationLeavesStateUntouched(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	orderID, err := repo.AddOrder(writeOrder())
	if err != nil {
		t.Fatalf("add order: %v", err)
	}

	bad := writeOrder()
	bad.ID = orderID
	bad.Details = []domain.OrderDetail{
		{Product: domain.Product{ID: 1}, UnitPrice: 18, Quantity: 0, Discount: 0},
	}
	if err := repo.UpdateOrder(bad); !errors.Is(err, domain.ErrOrderValidation) {
		t.Fatalf("expected ErrOrderValidation, got %v", err)
	}

	got, err := repo.GetOrder(orderID)
	if err != nil {
		t.Fatalf("get after failed update: %v", err)
	}
	if len(got.Details) != 1 || got.Details[0].Product.ID != 7 {
		t.Fatalf("failed update must not change details, got %+v", got.Details)
	}

	bad.ID = 0
	if _, err := repo.AddOrder(bad); !errors.Is(err, domain.ErrOrderValidation) {
		t.Fatalf("expected ErrOrderValidation on add, got %v", err)
	}
}

func TestOrderRepository_PostgresRemove(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	if err := repo.RemoveOrder(424242); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	orderID, err := repo.AddOrder(writeOrder())
	if err != nil {
		t.Fatalf("add order: %v", err)
	}

	if err := repo.RemoveOrder(orderID); err != nil {
		t.Fatalf("remove order: %v", err)
	}
	if _, err := repo.GetOrder(orderID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound after removal, got %v", err)
	}

	// Осиротевших позиций быть не должно.
	var orphans int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM order_details WHERE order_id = $1`, orderID).Scan(&orphans); err != nil {
		t.Fatalf("count orphan details: %v", err)
	}
	if orphans != 0 {
		t.Fatalf("expected no orphan details, got %d", orphans)
	}
}

func TestOrderRepository_PostgresUnknownReferences(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	bad := writeOrder()
	bad.Details = []domain.OrderDetail{
		{Product: domain.Product{ID: 9999}, UnitPrice: 1, Quantity: 1, Discount: 0},
	}
	if _, err := repo.AddOrder(bad); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence for unknown product, got %v", err)
	}

	var leftovers int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&leftovers); err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if leftovers != 0 {
		t.Fatalf("failed add must roll back the order row, found %d", leftovers)
	}

	if _, err := repo.GetOrder(424242); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestPgViolationHelpers(t *testing.T) {
	t.Parallel()

	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("expected unique violation for code 23505")
	}
	if !isForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("expected foreign key violation for code 23503")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) || isForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("violation predicates must not overlap")
	}
	if isUniqueViolation(errors.New("plain error")) {
		t.Fatal("plain error must not be unique violation")
	}
}
