package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderapp "github.com/shopfront/backend/internal/application/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
)

// IdempotencyKeyHeader carries the client's key for safe order retries
const IdempotencyKeyHeader = "Idempotency-Key"

// maxIdempotencyKeyLength bounds the header accepted from clients
const maxIdempotencyKeyLength = 255

// OrderHandler handles order placement and lifecycle endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// actor identifies the caller for ownership checks
func (h *OrderHandler) actor(c *gin.Context) (orderapp.Actor, bool) {
	userID, ok := h.currentUser(c)
	if !ok {
		return orderapp.Actor{}, false
	}
	return orderapp.Actor{UserID: userID, IsStaff: middleware.IsStaff(c)}, true
}

// Place godoc
// @Summary      Place an order
// @Description  Turn the current cart into a pending order, decrementing stock
// @Tags         orders
// @Produce      json
// @Param        Idempotency-Key header string false "Client key for safe retries"
// @Success      201 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Place(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	key := c.GetHeader(IdempotencyKeyHeader)
	if len(key) > maxIdempotencyKeyLength {
		h.ErrorWithCode(c, shared.CodeValidation, "Idempotency-Key is too long")
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), userID, key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// List godoc
// @Summary      List orders
// @Description  Return the caller's orders; staff see every order
// @Tags         orders
// @Produce      json
// @Param        status query string false "Order status"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]orderapp.OrderListItemResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var filter orderapp.OrderListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pageParams(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// Get godoc
// @Summary      Get an order
// @Description  Return one order with its items
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	h.withOrder(c, h.orderService.Get)
}

// Cancel godoc
// @Summary      Cancel an order
// @Description  Cancel a pending order and restore its stock
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.withOrder(c, h.orderService.Cancel)
}

// Confirm godoc
// @Summary      Confirm an order
// @Description  Confirm a pending order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *gin.Context) {
	h.withOrder(c, h.orderService.Confirm)
}

// Refund godoc
// @Summary      Refund an order
// @Description  Refund a confirmed order and restore its stock
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/refund [post]
func (h *OrderHandler) Refund(c *gin.Context) {
	h.withOrder(c, h.orderService.Refund)
}

type orderAction func(ctx context.Context, actor orderapp.Actor, orderID uuid.UUID) (*orderapp.OrderResponse, error)

func (h *OrderHandler) withOrder(c *gin.Context, action orderAction) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := action(c.Request.Context(), actor, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
