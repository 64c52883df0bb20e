package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/halil-bekli/northwind-orders-webapi/internal/domain"
)

const (
	defaultListSkip  = 0
	defaultListCount = 10
)

// OrdersHandler — HTTP-адаптер над OrderRepository.
type OrdersHandler struct {
	repository domain.OrderRepository
	logger     *log.Entry
}

// NewOrdersHandler создаёт HTTP-обработчик заказов.
func NewOrdersHandler(repository domain.OrderRepository, logger *log.Entry) *OrdersHandler {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &OrdersHandler{repository: repository, logger: logger}
}

// RegisterRoutes регистрирует маршруты заказов на роутере.
func (h *OrdersHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.listOrders)              // GET    /api/orders?skip=&count=
		r.Post("/", h.addOrder)               // POST   /api/orders
		r.Get("/{orderID}", h.getOrder)       // GET    /api/orders/{orderID}
		r.Put("/{orderID}", h.updateOrder)    // PUT    /api/orders/{orderID}
		r.Delete("/{orderID}", h.removeOrder) // DELETE /api/orders/{orderID}
	})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromRequest(r)
	if err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	order, err := h.repository.GetOrder(orderID)
	if err != nil {
		h.respondError(w, r, "get order", err)
		return
	}

	respond(w, http.StatusOK, toFullOrder(order))
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	skip, count, err := windowFromRequest(r)
	if err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	orders, err := h.repository.ListOrders(skip, count)
	if err != nil {
		h.respondError(w, r, "list orders", err)
		return
	}

	result := make([]briefOrder, 0, len(orders))
	for _, order := range orders {
		result = append(result, toBriefOrder(order))
	}
	respond(w, http.StatusOK, result)
}

func (h *OrdersHandler) addOrder(w http.ResponseWriter, r *http.Request) {
	var model briefOrder
	if err := json.NewDecoder(r.Body).Decode(&model); err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: "malformed order payload: " + err.Error()})
		return
	}

	orderID, err := h.repository.AddOrder(fromBriefOrder(model, 0))
	if err != nil {
		h.respondError(w, r, "add order", err)
		return
	}

	respond(w, http.StatusOK, addOrderResult{OrderID: orderID})
}

func (h *OrdersHandler) updateOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromRequest(r)
	if err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var model briefOrder
	if err := json.NewDecoder(r.Body).Decode(&model); err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: "malformed order payload: " + err.Error()})
		return
	}

	if err := h.repository.UpdateOrder(fromBriefOrder(model, orderID)); err != nil {
		h.respondError(w, r, "update order", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) removeOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDFromRequest(r)
	if err != nil {
		respond(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := h.repository.RemoveOrder(orderID); err != nil {
		h.respondError(w, r, "remove order", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// respondError отображает ошибки репозитория на HTTP-статусы:
// not found → 404, неверные аргументы → 400, нарушение валидации → 422,
// ошибка хранилища и всё прочее → 500.
func (h *OrdersHandler) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger := h.logger.WithField("request_id", RequestIDFromContext(r.Context()))

	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		logger.WithError(err).Warnf("%s: заказ не найден", op)
		respond(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidArgument):
		logger.WithError(err).Warnf("%s: неверные аргументы", op)
		respond(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrOrderValidation):
		logger.WithError(err).Warnf("%s: нарушение валидации", op)
		respond(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		logger.WithError(err).Errorf("%s: внутренняя ошибка", op)
		respond(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func orderIDFromRequest(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "orderID")
	orderID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("order id must be an integer")
	}
	return orderID, nil
}

func windowFromRequest(r *http.Request) (skip, count int, err error) {
	skip, count = defaultListSkip, defaultListCount

	if raw := r.URL.Query().Get("skip"); raw != "" {
		skip, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, errors.New("skip must be an integer")
		}
	}
	if raw := r.URL.Query().Get("count"); raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, errors.New("count must be an integer")
		}
	}
	return skip, count, nil
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
