package domain

import "time"

// CustomerCode — строковый код клиента в формате Northwind (например, "ALFKI").
type CustomerCode struct {
	Code string
}

// ShippingAddress описывает адрес доставки заказа.
// Region может быть пустым: соответствующая колонка в схеме nullable.
type ShippingAddress struct {
	Address    string
	City       string
	Region     string
	PostalCode string
	Country    string
}

// Customer — проекция клиента внутри заказа: код плюс отображаемое имя компании.
type Customer struct {
	Code        CustomerCode
	CompanyName string
}

// Employee — проекция сотрудника, оформившего заказ.
type Employee struct {
	ID        int64
	FirstName string
	LastName  string
	Country   string
}

// Shipper — проекция перевозчика.
type Shipper struct {
	ID          int64
	CompanyName string
}

// Product — проекция товара с денормализованными именами категории и поставщика.
// Display-поля заполняются хранилищем при чтении; на записи учитывается только ID,
// встроенный текст игнорируется.
type Product struct {
	ID         int64
	Name       string
	CategoryID int64
	Category   string
	SupplierID int64
	Supplier   string
}

// OrderDetail — одна позиция заказа. Позиция не существует вне заказа
// и идентифицируется парой (OrderID, Product.ID).
type OrderDetail struct {
	// OrderID — структурная обратная ссылка на владеющий заказ.
	// Для transient-заказов остаётся нулевой до генерации идентификатора.
	OrderID int64

	Product   Product
	UnitPrice float64
	Quantity  int64
	Discount  float64
}

// Order — агрегат заказа: скалярные поля, справочные проекции и позиции.
type Order struct {
	ID              int64
	Customer        Customer
	Employee        Employee
	Shipper         Shipper
	OrderDate       time.Time
	RequiredDate    time.Time
	ShippedDate     *time.Time
	Freight         float64
	ShipName        string
	ShippingAddress ShippingAddress
	Details         []OrderDetail
}

// ValidateDetails проверяет инварианты позиций заказа и возвращает список нарушений.
// Проверка выполняется перед любой записью: при непустом списке хранилище
// не должно изменить ни одной строки.
func (o *Order) ValidateDetails() []error {
	var errs []error

	if o.Freight < 0 {
		errs = append(errs, ErrFreightNegative)
	}

	seen := make(map[int64]struct{}, len(o.Details))
	for _, detail := range o.Details {
		if detail.Product.ID <= 0 {
			errs = append(errs, ErrProductIDInvalid)
		}
		if detail.UnitPrice < 0 {
			errs = append(errs, ErrUnitPriceNegative)
		}
		if detail.Quantity <= 0 {
			errs = append(errs, ErrQuantityInvalid)
		}
		if detail.Discount < 0 || detail.Discount > 1 {
			errs = append(errs, ErrDiscountOutOfRange)
		}
		// Пара (заказ, товар) уникальна: зеркало составного ключа order_details.
		if _, dup := seen[detail.Product.ID]; dup {
			errs = append(errs, ErrDuplicateProduct)
		}
		seen[detail.Product.ID] = struct{}{}
	}

	return errs
}
