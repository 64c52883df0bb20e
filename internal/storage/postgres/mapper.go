package postgres

import (
	"database/sql"
	"time"

	"github.com/halil-bekli/northwind-orders-webapi/internal/domain"
)

// briefOrderFromRow собирает краткую проекцию: заказ и display-поля
// справочных проекций без позиций.
func briefOrderFromRow(row orderRow) domain.Order {
	order := domain.Order{
		ID: row.OrderID,
		Customer: domain.Customer{
			Code:        domain.CustomerCode{Code: row.CustomerID},
			CompanyName: row.CompanyName,
		},
		Employee: domain.Employee{
			ID:        row.EmployeeID,
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Country:   row.EmployeeCountry.String,
		},
		Shipper: domain.Shipper{
			ID:          row.ShipVia,
			CompanyName: row.ShipperName,
		},
		OrderDate:    row.OrderDate,
		RequiredDate: row.RequiredDate,
		Freight:      row.Freight,
		ShipName:     row.ShipName,
		ShippingAddress: domain.ShippingAddress{
			Address:    row.ShipAddress,
			City:       row.ShipCity,
			Region:     row.ShipRegion.String,
			PostalCode: row.ShipPostalCode,
			Country:    row.ShipCountry,
		},
	}
	if row.ShippedDate.Valid {
		shipped := row.ShippedDate.Time
		order.ShippedDate = &shipped
	}
	return order
}

// fullOrderFromRows добавляет к краткой проекции позиции заказа
// с вложенными именами товара, категории и поставщика.
func fullOrderFromRows(row orderRow, detailRows []orderDetailRow) domain.Order {
	order := briefOrderFromRow(row)
	order.Details = make([]domain.OrderDetail, 0, len(detailRows))
	for _, d := range detailRows {
		order.Details = append(order.Details, domain.OrderDetail{
			OrderID: d.OrderID,
			Product: domain.Product{
				ID:         d.ProductID,
				Name:       d.ProductName,
				CategoryID: d.CategoryID,
				Category:   d.CategoryName,
				SupplierID: d.SupplierID,
				Supplier:   d.SupplierName,
			},
			UnitPrice: d.UnitPrice,
			Quantity:  d.Quantity,
			Discount:  d.Discount,
		})
	}
	return order
}

// insertOrderArgs извлекает из агрегата скалярные значения для записи строки orders.
// Display-поля проекций отбрасываются: хранилище выводит их из справочных строк,
// а не из копий, поданных вызывающей стороной.
func insertOrderArgs(order domain.Order) []any {
	return []any{
		order.Customer.Code.Code,
		order.Employee.ID,
		order.OrderDate,
		order.RequiredDate,
		nullableTime(order.ShippedDate),
		order.Shipper.ID,
		order.Freight,
		order.ShipName,
		order.ShippingAddress.Address,
		order.ShippingAddress.City,
		nullableString(order.ShippingAddress.Region),
		order.ShippingAddress.PostalCode,
		order.ShippingAddress.Country,
	}
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
