package domain

// OrderRepository описывает требования к хранилищу заказов.
// Каждая операция записи выполняется в одной атомарной транзакции:
// при ошибке хранилище не оставляет частичных изменений.
type OrderRepository interface {
	// GetOrder возвращает заказ в полной проекции (с позициями и именами
	// категории/поставщика) или ErrOrderNotFound, если его нет.
	GetOrder(orderID int64) (Order, error)
	// ListOrders возвращает окно [skip, skip+count) заказов в краткой проекции
	// (без позиций), отсортированных по возрастанию идентификатора.
	// При skip < 0 или count <= 0 возвращается ErrInvalidArgument.
	ListOrders(skip, count int) ([]Order, error)
	// AddOrder сохраняет новый заказ со всеми позициями и возвращает
	// сгенерированный хранилищем идентификатор.
	AddOrder(order Order) (int64, error)
	// RemoveOrder удаляет заказ вместе со всеми позициями
	// или возвращает ErrOrderNotFound.
	RemoveOrder(orderID int64) error
	// UpdateOrder перезаписывает скалярные поля заказа и полностью заменяет
	// набор позиций набором из входящего агрегата (replace, не merge).
	UpdateOrder(order Order) error
}
