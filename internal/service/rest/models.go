package rest

import (
	"time"

	"github.com/halil-bekli/northwind-orders-webapi/internal/domain"
)

// briefOrder — плоская проекция заказа для списка и для записи:
// только внешние ключи, без display-полей.
type briefOrder struct {
	ID             int64              `json:"id"`
	CustomerID     string             `json:"customerId"`
	EmployeeID     int64              `json:"employeeId"`
	ShipperID      int64              `json:"shipperId"`
	OrderDate      time.Time          `json:"orderDate"`
	RequiredDate   time.Time          `json:"requiredDate"`
	ShippedDate    *time.Time         `json:"shippedDate,omitempty"`
	Freight        float64            `json:"freight"`
	ShipName       string             `json:"shipName"`
	ShipAddress    string             `json:"shipAddress"`
	ShipCity       string             `json:"shipCity"`
	ShipRegion     string             `json:"shipRegion,omitempty"`
	ShipPostalCode string             `json:"shipPostalCode"`
	ShipCountry    string             `json:"shipCountry"`
	OrderDetails   []briefOrderDetail `json:"orderDetails"`
}

type briefOrderDetail struct {
	ProductID int64   `json:"productId"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int64   `json:"quantity"`
	Discount  float64 `json:"discount"`
}

// fullOrder — полная проекция заказа с развёрнутыми справочными данными.
type fullOrder struct {
	ID              int64                `json:"id"`
	Customer        customerModel        `json:"customer"`
	Employee        employeeModel        `json:"employee"`
	Shipper         shipperModel         `json:"shipper"`
	OrderDate       time.Time            `json:"orderDate"`
	RequiredDate    time.Time            `json:"requiredDate"`
	ShippedDate     *time.Time           `json:"shippedDate,omitempty"`
	Freight         float64              `json:"freight"`
	ShipName        string               `json:"shipName"`
	ShippingAddress shippingAddressModel `json:"shippingAddress"`
	OrderDetails    []fullOrderDetail    `json:"orderDetails"`
}

type customerModel struct {
	Code        string `json:"code"`
	CompanyName string `json:"companyName"`
}

type employeeModel struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Country   string `json:"country"`
}

type shipperModel struct {
	ID          int64  `json:"id"`
	CompanyName string `json:"companyName"`
}

type shippingAddressModel struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type productModel struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CategoryID int64  `json:"categoryId"`
	Category   string `json:"category"`
	SupplierID int64  `json:"supplierId"`
	Supplier   string `json:"supplier"`
}

type fullOrderDetail struct {
	Product   productModel `json:"product"`
	UnitPrice float64      `json:"unitPrice"`
	Quantity  int64        `json:"quantity"`
	Discount  float64      `json:"discount"`
}

// addOrderResult — ответ на создание заказа.
type addOrderResult struct {
	OrderID int64 `json:"orderId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toFullOrder(order domain.Order) fullOrder {
	model := fullOrder{
		ID: order.ID,
		Customer: customerModel{
			Code:        order.Customer.Code.Code,
			CompanyName: order.Customer.CompanyName,
		},
		Employee: employeeModel{
			ID:        order.Employee.ID,
			FirstName: order.Employee.FirstName,
			LastName:  order.Employee.LastName,
			Country:   order.Employee.Country,
		},
		Shipper: shipperModel{
			ID:          order.Shipper.ID,
			CompanyName: order.Shipper.CompanyName,
		},
		OrderDate:    order.OrderDate,
		RequiredDate: order.RequiredDate,
		ShippedDate:  order.ShippedDate,
		Freight:      order.Freight,
		ShipName:     order.ShipName,
		ShippingAddress: shippingAddressModel{
			Address:    order.ShippingAddress.Address,
			City:       order.ShippingAddress.City,
			Region:     order.ShippingAddress.Region,
			PostalCode: order.ShippingAddress.PostalCode,
			Country:    order.ShippingAddress.Country,
		},
		OrderDetails: make([]fullOrderDetail, 0, len(order.Details)),
	}

	for _, detail := range order.Details {
		model.OrderDetails = append(model.OrderDetails, fullOrderDetail{
			Product: productModel{
				ID:         detail.Product.ID,
				Name:       detail.Product.Name,
				CategoryID: detail.Product.CategoryID,
				Category:   detail.Product.Category,
				SupplierID: detail.Product.SupplierID,
				Supplier:   detail.Product.Supplier,
			},
			UnitPrice: detail.UnitPrice,
			Quantity:  detail.Quantity,
			Discount:  detail.Discount,
		})
	}

	return model
}

func toBriefOrder(order domain.Order) briefOrder {
	return briefOrder{
		ID:             order.ID,
		CustomerID:     order.Customer.Code.Code,
		EmployeeID:     order.Employee.ID,
		ShipperID:      order.Shipper.ID,
		OrderDate:      order.OrderDate,
		RequiredDate:   order.RequiredDate,
		ShippedDate:    order.ShippedDate,
		Freight:        order.Freight,
		ShipName:       order.ShipName,
		ShipAddress:    order.ShippingAddress.Address,
		ShipCity:       order.ShippingAddress.City,
		ShipRegion:     order.ShippingAddress.Region,
		ShipPostalCode: order.ShippingAddress.PostalCode,
		ShipCountry:    order.ShippingAddress.Country,
		OrderDetails:   []briefOrderDetail{},
	}
}

// fromBriefOrder строит агрегат для записи: справочные проекции несут только
// идентификаторы, display-поля остаются пустыми.
func fromBriefOrder(model briefOrder, orderID int64) domain.Order {
	order := domain.Order{
		ID:           orderID,
		Customer:     domain.Customer{Code: domain.CustomerCode{Code: model.CustomerID}},
		Employee:     domain.Employee{ID: model.EmployeeID},
		Shipper:      domain.Shipper{ID: model.ShipperID},
		OrderDate:    model.OrderDate,
		RequiredDate: model.RequiredDate,
		ShippedDate:  model.ShippedDate,
		Freight:      model.Freight,
		ShipName:     model.ShipName,
		ShippingAddress: domain.ShippingAddress{
			Address:    model.ShipAddress,
			City:       model.ShipCity,
			Region:     model.ShipRegion,
			PostalCode: model.ShipPostalCode,
			Country:    model.ShipCountry,
		},
	}

	for _, detail := range model.OrderDetails {
		order.Details = append(order.Details, domain.OrderDetail{
			OrderID:   orderID,
			Product:   domain.Product{ID: detail.ProductID},
			UnitPrice: detail.UnitPrice,
			Quantity:  detail.Quantity,
			Discount:  detail.Discount,
		})
	}

	return order
}
