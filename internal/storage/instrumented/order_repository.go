package instrumented

import (
	"time"

	"github.com/halil-bekli/northwind-orders-webapi/internal/domain"
	"github.com/halil-bekli/northwind-orders-webapi/internal/metrics"
)

// orderRepository оборачивает любую реализацию OrderRepository
// и записывает метрики по каждой операции.
type orderRepository struct {
	next    domain.OrderRepository
	metrics *metrics.RepositoryMetrics
}

// NewOrderRepository возвращает инструментированный репозиторий заказов.
func NewOrderRepository(next domain.OrderRepository, m *metrics.RepositoryMetrics) domain.OrderRepository {
	return &orderRepository{next: next, metrics: m}
}

func (r *orderRepository) GetOrder(orderID int64) (domain.Order, error) {
	started := time.Now()
	r.metrics.RecordOperationStarted()

	order, err := r.next.GetOrder(orderID)
	r.metrics.RecordOperationFinished("get_order", started, err)
	return order, err
}

func (r *orderRepository) ListOrders(skip, count int) ([]domain.Order, error) {
	started := time.Now()
	r.metrics.RecordOperationStarted()

	orders, err := r.next.ListOrders(skip, count)
	r.metrics.RecordOperationFinished("list_orders", started, err)
	return orders, err
}

func (r *orderRepository) AddOrder(order domain.Order) (int64, error) {
	started := time.Now()
	r.metrics.RecordOperationStarted()

	orderID, err := r.next.AddOrder(order)
	r.metrics.RecordOperationFinished("add_order", started, err)
	return orderID, err
}

func (r *orderRepository) RemoveOrder(orderID int64) error {
	started := time.Now()
	r.metrics.RecordOperationStarted()

	err := r.next.RemoveOrder(orderID)
	r.metrics.RecordOperationFinished("remove_order", started, err)
	return err
}

func (r *orderRepository) UpdateOrder(order domain.Order) error {
	started := time.Now()
	r.metrics.RecordOperationStarted()

	err := r.next.UpdateOrder(order)
	r.metrics.RecordOperationFinished("update_order", started, err)
	return err
}

var _ domain.OrderRepository = (*orderRepository)(nil)
