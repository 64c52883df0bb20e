package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/halil-bekli/northwind-orders-webapi/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

// selectOrderHead выбирает заказ вместе со справочными проекциями.
// Порядок колонок согласован с orderRow.scanTargets.
const selectOrderHead = `
	SELECT o.order_id, o.customer_id, c.company_name,
	       o.employee_id, e.first_name, e.last_name, e.country,
	       o.ship_via, s.company_name,
	       o.order_date, o.required_date, o.shipped_date,
	       o.freight, o.ship_name, o.ship_address, o.ship_city,
	       o.ship_region, o.ship_postal_code, o.ship_country
	FROM orders o
	JOIN customers c ON c.customer_id = o.customer_id
	JOIN employees e ON e.employee_id = o.employee_id
	JOIN shippers s ON s.shipper_id = o.ship_via
`

const selectOrderDetails = `
	SELECT d.order_id, d.product_id, p.product_name,
	       p.category_id, cat.category_name,
	       p.supplier_id, sup.company_name,
	       d.unit_price, d.quantity, d.discount
	FROM order_details d
	JOIN products p ON p.product_id = d.product_id
	JOIN categories cat ON cat.category_id = p.category_id
	JOIN suppliers sup ON sup.supplier_id = p.supplier_id
	WHERE d.order_id = $1
	ORDER BY d.product_id ASC
`

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию domain.OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// GetOrder возвращает заказ в полной проекции: справочные поля и позиции
// с именами товара, категории и поставщика.
func (r *orderRepository) GetOrder(orderID int64) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var row orderRow
	err := r.db.QueryRowContext(ctx, selectOrderHead+` WHERE o.order_id = $1`, orderID).
		Scan(row.scanTargets()...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	details, err := r.loadDetails(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	return fullOrderFromRows(row, details), nil
}

// ListOrders возвращает окно [skip, skip+count) в краткой проекции.
// Сортировка по order_id фиксирует границы окон между вызовами.
func (r *orderRepository) ListOrders(skip, count int) ([]domain.Order, error) {
	if skip < 0 || count <= 0 {
		return nil, fmt.Errorf("%w: skip must be >= 0 and count > 0", domain.ErrInvalidArgument)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, selectOrderHead+` ORDER BY o.order_id ASC OFFSET $1 LIMIT $2`, skip, count)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, count)
	for rows.Next() {
		var row orderRow
		if err := rows.Scan(row.scanTargets()...); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, briefOrderFromRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

// AddOrder валидирует позиции, затем в одной транзакции вставляет строку заказа
// и все строки позиций. Возвращает сгенерированный базой идентификатор.
func (r *orderRepository) AddOrder(order domain.Order) (int64, error) {
	if violations := order.ValidateDetails(); len(violations) > 0 {
		return 0, domain.ValidationError(violations)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, domain.PersistenceError("begin tx", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var orderID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			customer_id, employee_id, order_date, required_date, shipped_date,
			ship_via, freight, ship_name, ship_address, ship_city, ship_region,
			ship_postal_code, ship_country
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING order_id
	`, insertOrderArgs(order)...).Scan(&orderID)
	if err != nil {
		return 0, domain.PersistenceError(pgErrorHint("insert order", err), err)
	}

	if err = insertOrderDetails(ctx, tx, orderID, order.Details); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, domain.PersistenceError("commit add order", err)
	}

	return orderID, nil
}

// RemoveOrder удаляет заказ атомарно: сначала позиции, затем строку заказа.
func (r *orderRepository) RemoveOrder(orderID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.PersistenceError("begin tx", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = lockOrderRow(ctx, tx, orderID); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM order_details WHERE order_id = $1`, orderID); err != nil {
		return domain.PersistenceError("delete order details", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM orders WHERE order_id = $1`, orderID); err != nil {
		return domain.PersistenceError(pgErrorHint("delete order", err), err)
	}

	if err = tx.Commit(); err != nil {
		return domain.PersistenceError("commit remove order", err)
	}

	return nil
}

// UpdateOrder перезаписывает скалярные поля и полностью заменяет набор позиций.
// Это replace, а не merge: строки, отсутствующие во входящем агрегате, удаляются.
func (r *orderRepository) UpdateOrder(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.PersistenceError("begin tx", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Сначала наличие заказа, затем валидация: до этой точки строки не изменялись.
	if err = lockOrderRow(ctx, tx, order.ID); err != nil {
		return err
	}

	if violations := order.ValidateDetails(); len(violations) > 0 {
		err = domain.ValidationError(violations)
		return err
	}

	args := append(insertOrderArgs(order), order.ID)
	if _, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET customer_id = $1,
		    employee_id = $2,
		    order_date = $3,
		    required_date = $4,
		    shipped_date = $5,
		    ship_via = $6,
		    freight = $7,
		    ship_name = $8,
		    ship_address = $9,
		    ship_city = $10,
		    ship_region = $11,
		    ship_postal_code = $12,
		    ship_country = $13
		WHERE order_id = $14
	`, args...); err != nil {
		return domain.PersistenceError(pgErrorHint("update order", err), err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM order_details WHERE order_id = $1`, order.ID); err != nil {
		return domain.PersistenceError("delete order details", err)
	}

	if err = insertOrderDetails(ctx, tx, order.ID, order.Details); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return domain.PersistenceError("commit update order", err)
	}

	return nil
}

func (r *orderRepository) loadDetails(ctx context.Context, orderID int64) ([]orderDetailRow, error) {
	rows, err := r.db.QueryContext(ctx, selectOrderDetails, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order details: %w", err)
	}
	defer rows.Close()

	details := make([]orderDetailRow, 0)
	for rows.Next() {
		var d orderDetailRow
		if err := rows.Scan(d.scanTargets()...); err != nil {
			return nil, fmt.Errorf("scan order detail: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order details: %w", err)
	}

	return details, nil
}

// lockOrderRow блокирует строку заказа на время транзакции
// или возвращает ErrOrderNotFound.
func lockOrderRow(ctx context.Context, tx *sql.Tx, orderID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT order_id FROM orders WHERE order_id = $1 FOR UPDATE`, orderID).Scan(&id)
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrOrderNotFound
	}
	return domain.PersistenceError("lock order row", err)
}

func insertOrderDetails(ctx context.Context, tx *sql.Tx, orderID int64, details []domain.OrderDetail) error {
	for _, d := range details {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_details (order_id, product_id, unit_price, quantity, discount)
			VALUES ($1,$2,$3,$4,$5)
		`, orderID, d.Product.ID, d.UnitPrice, d.Quantity, d.Discount); err != nil {
			return domain.PersistenceError(pgErrorHint("insert order detail", err), err)
		}
	}
	return nil
}

// pgErrorHint дополняет описание операции смыслом нарушенного ограничения PostgreSQL.
func pgErrorHint(op string, err error) string {
	switch {
	case isForeignKeyViolation(err):
		return op + ": referenced row does not exist"
	case isUniqueViolation(err):
		return op + ": duplicate key"
	default:
		return op
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
