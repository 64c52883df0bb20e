package postgres

import (
	"database/sql"
	"time"
)

// orderRow — строка orders вместе с присоединёнными справочными таблицами
// (customers, employees, shippers). Табличная форма, независимая от доменной.
type orderRow struct {
	OrderID         int64
	CustomerID      string
	CompanyName     string
	EmployeeID      int64
	FirstName       string
	LastName        string
	EmployeeCountry sql.NullString
	ShipVia         int64
	ShipperName     string
	OrderDate       time.Time
	RequiredDate    time.Time
	ShippedDate     sql.NullTime
	Freight         float64
	ShipName        string
	ShipAddress     string
	ShipCity        string
	ShipRegion      sql.NullString
	ShipPostalCode  string
	ShipCountry     string
}

// scanTargets возвращает указатели на поля в порядке колонок selectOrderHead.
func (r *orderRow) scanTargets() []any {
	return []any{
		&r.OrderID, &r.CustomerID, &r.CompanyName,
		&r.EmployeeID, &r.FirstName, &r.LastName, &r.EmployeeCountry,
		&r.ShipVia, &r.ShipperName,
		&r.OrderDate, &r.RequiredDate, &r.ShippedDate,
		&r.Freight, &r.ShipName, &r.ShipAddress, &r.ShipCity,
		&r.ShipRegion, &r.ShipPostalCode, &r.ShipCountry,
	}
}

// orderDetailRow — строка order_details с присоединёнными products,
// categories и suppliers.
type orderDetailRow struct {
	OrderID      int64
	ProductID    int64
	ProductName  string
	CategoryID   int64
	CategoryName string
	SupplierID   int64
	SupplierName string
	UnitPrice    float64
	Quantity     int64
	Discount     float64
}

func (r *orderDetailRow) scanTargets() []any {
	return []any{
		&r.OrderID, &r.ProductID, &r.ProductName,
		&r.CategoryID, &r.CategoryName,
		&r.SupplierID, &r.SupplierName,
		&r.UnitPrice, &r.Quantity, &r.Discount,
	}
}
