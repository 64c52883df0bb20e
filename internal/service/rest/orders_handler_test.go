package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/halil-bekli/northwind-orders-webapi/internal/domain"
	"github.com/halil-bekli/northwind-orders-webapi/internal/storage/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, domain.OrderRepository) {
	t.Helper()

	repo := memory.NewOrderRepository()
	router := chi.NewRouter()
	router.Use(RequestID)
	NewOrdersHandler(repo, nil).RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, repo
}

func orderPayload() briefOrder {
	shipped := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	return briefOrder{
		CustomerID:     "ALFKI",
		EmployeeID:     1,
		ShipperID:      1,
		OrderDate:      time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		RequiredDate:   time.Date(2024, 1, 24, 0, 0, 0, 0, time.UTC),
		ShippedDate:    &shipped,
		Freight:        32.38,
		ShipName:       "Alfreds Futterkiste",
		ShipAddress:    "Obere Str. 57",
		ShipCity:       "Berlin",
		ShipPostalCode: "12209",
		ShipCountry:    "Germany",
		OrderDetails: []briefOrderDetail{
			{ProductID: 7, UnitPrice: 30, Quantity: 12, Discount: 0.05},
		},
	}
}

func postOrder(t *testing.T, server *httptest.Server, payload briefOrder) int64 {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(server.URL+"/api/orders", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result addOrderResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Positive(t, result.OrderID)
	return result.OrderID
}

func TestAddAndGetOrder(t *testing.T) {
	server, _ := newTestServer(t)

	// Display-поля в payload записи игнорируются в пользу справочников.
	payload := orderPayload()
	orderID := postOrder(t, server, payload)

	resp, err := http.Get(fmt.Sprintf("%s/api/orders/%d", server.URL, orderID))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	var got fullOrder
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	require.Equal(t, orderID, got.ID)
	require.Equal(t, "ALFKI", got.Customer.Code)
	require.Equal(t, "Alfreds Futterkiste", got.Customer.CompanyName)
	require.Equal(t, "Nancy", got.Employee.FirstName)
	require.Equal(t, "Davolio", got.Employee.LastName)
	require.Equal(t, "Speedy Express", got.Shipper.CompanyName)
	require.Equal(t, "Berlin", got.ShippingAddress.City)
	require.NotNil(t, got.ShippedDate)

	require.Len(t, got.OrderDetails, 1)
	detail := got.OrderDetails[0]
	require.Equal(t, int64(7), detail.Product.ID)
	require.Equal(t, "Uncle Bob's Organic Dried Pears", detail.Product.Name)
	require.Equal(t, "Produce", detail.Product.Category)
	require.Equal(t, "Grandma Kelly's Homestead", detail.Product.Supplier)
	require.Equal(t, 30.0, detail.UnitPrice)
	require.Equal(t, int64(12), detail.Quantity)
	require.Equal(t, 0.05, detail.Discount)
}

func TestGetOrderNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/orders/999")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetOrderMalformedID(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/orders/abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListOrdersWindows(t *testing.T) {
	server, _ := newTestServer(t)

	ids := make([]int64, 0, 5)
	for i := 0; i < 5; i++ {
		ids = append(ids, postOrder(t, server, orderPayload()))
	}

	fetch := func(query string) []briefOrder {
		resp, err := http.Get(server.URL + "/api/orders" + query)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var orders []briefOrder
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&orders))
		return orders
	}

	first := fetch("?skip=0&count=2")
	second := fetch("?skip=2&count=2")
	require.Len(t, first, 2)
	require.Len(t, second, 2)
	require.Equal(t, ids[0], first[0].ID)
	require.Equal(t, ids[1], first[1].ID)
	require.Equal(t, ids[2], second[0].ID)
	require.Equal(t, ids[3], second[1].ID)

	// Краткая проекция: плоские внешние ключи, без позиций.
	require.Equal(t, "ALFKI", first[0].CustomerID)
	require.Equal(t, int64(1), first[0].EmployeeID)
	require.Empty(t, first[0].OrderDetails)

	// Значения по умолчанию: skip=0, count=10.
	all := fetch("")
	require.Len(t, all, 5)

	empty := fetch("?skip=100&count=5")
	require.Empty(t, empty)
}

func TestListOrdersInvalidArguments(t *testing.T) {
	server, _ := newTestServer(t)

	for _, query := range []string{"?skip=-1", "?count=0", "?count=-5", "?skip=abc", "?count=abc"} {
		resp, err := http.Get(server.URL + "/api/orders" + query)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "query %q", query)
	}
}

func TestAddOrderValidationFailure(t *testing.T) {
	server, _ := newTestServer(t)

	payload := orderPayload()
	payload.OrderDetails[0].Discount = 1.5

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(server.URL+"/api/orders", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var response errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	require.Contains(t, response.Error, "discount")
}

func TestAddOrderMalformedBody(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/orders", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddOrderUnknownReference(t *testing.T) {
	server, _ := newTestServer(t)

	payload := orderPayload()
	payload.CustomerID = "NOPE1"

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(server.URL+"/api/orders", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestUpdateOrderFullReplace(t *testing.T) {
	server, repo := newTestServer(t)

	orderID := postOrder(t, server, orderPayload())

	updated := orderPayload()
	updated.Freight = 99.99
	updated.OrderDetails = []briefOrderDetail{
		{ProductID: 3, UnitPrice: 10, Quantity: 4, Discount: 0.2},
	}

	body, err := json.Marshal(updated)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, fmt.Sprintf("%s/api/orders/%d", server.URL, orderID), bytes.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	got, err := repo.GetOrder(orderID)
	require.NoError(t, err)
	require.Equal(t, 99.99, got.Freight)
	require.Len(t, got.Details, 1)
	require.Equal(t, int64(3), got.Details[0].Product.ID)
}

func TestUpdateOrderNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	body, err := json.Marshal(orderPayload())
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/orders/777", bytes.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateOrderValidationFailure(t *testing.T) {
	server, _ := newTestServer(t)

	orderID := postOrder(t, server, orderPayload())

	payload := orderPayload()
	payload.OrderDetails[0].Quantity = 0

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, fmt.Sprintf("%s/api/orders/%d", server.URL, orderID), bytes.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRemoveOrder(t *testing.T) {
	server, _ := newTestServer(t)

	orderID := postOrder(t, server, orderPayload())

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/orders/%d", server.URL, orderID), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	getResp, err := http.Get(fmt.Sprintf("%s/api/orders/%d", server.URL, orderID))
	require.NoError(t, err)
	getResp.Body.Close()
	require.Equal(t, http.StatusNotFound, getResp.StatusCode)

	// Повторное удаление: заказа уже нет.
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRequestIDEchoed(t *testing.T) {
	server, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/orders", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "test-request-id")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "test-request-id", resp.Header.Get("X-Request-Id"))
}
