package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOrderNotFound возвращается, если заказ с таким идентификатором не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidArgument — некорректные параметры пагинации от вызывающей стороны.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOrderValidation агрегирует нарушения инвариантов позиций заказа.
	// Запись при этой ошибке не выполняется.
	ErrOrderValidation = errors.New("order validation failed")
	// ErrPersistence — хранилище не смогло выполнить атомарную запись.
	// Исходная причина сохраняется в цепочке ошибки.
	ErrPersistence = errors.New("persistence failure")

	// Ошибка неположительного идентификатора товара в позиции.
	ErrProductIDInvalid = errors.New("product id must be greater than zero")
	// Ошибка отрицательной цены позиции.
	ErrUnitPriceNegative = errors.New("unit price must be non-negative")
	// Ошибка неположительного количества.
	ErrQuantityInvalid = errors.New("quantity must be greater than zero")
	// Ошибка скидки за пределами [0, 1].
	ErrDiscountOutOfRange = errors.New("discount must be between 0 and 1")
	// Ошибка повторяющегося товара в пределах одного заказа.
	ErrDuplicateProduct = errors.New("order already contains this product")
	// Ошибка отрицательной стоимости доставки.
	ErrFreightNegative = errors.New("freight must be non-negative")
)

// ValidationError сворачивает список нарушений в одну ошибку
// с ErrOrderValidation в цепочке. Пустой список означает отсутствие ошибки.
func ValidationError(violations []error) error {
	if len(violations) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(violations))
	for _, v := range violations {
		msgs = append(msgs, v.Error())
	}
	return fmt.Errorf("%w: %s", ErrOrderValidation, strings.Join(msgs, "; "))
}

// PersistenceError помечает ошибку хранилища, сохраняя исходную причину в цепочке.
func PersistenceError(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, cause)
}

// IsNotFound проверяет, является ли ошибка отсутствием заказа.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}
