package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/shopfront/backend/internal/application/inventory"
)

// InventoryHandler exposes the stock ledger to staff
type InventoryHandler struct {
	BaseHandler
	ledger *inventoryapp.LedgerService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(ledger *inventoryapp.LedgerService) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// AdjustResponse reports the stock level after an adjustment
type AdjustResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// Get godoc
// @Summary      Get stock
// @Description  Return the stock level of a product
// @Tags         inventory
// @Produce      json
// @Param        product_id path string true "Product ID"
// @Success      200 {object} dto.Response{data=inventoryapp.InventoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/{product_id} [get]
func (h *InventoryHandler) Get(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "product_id")
	if !ok {
		return
	}

	inv, err := h.ledger.Get(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, inv)
}

// History godoc
// @Summary      Stock history
// @Description  Return the ledger entries of a product, newest first
// @Tags         inventory
// @Produce      json
// @Param        product_id path string true "Product ID"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]inventoryapp.HistoryResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/{product_id}/history [get]
func (h *InventoryHandler) History(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "product_id")
	if !ok {
		return
	}

	var filter inventoryapp.HistoryListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	entries, total, err := h.ledger.History(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pageParams(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, entries, total, page, pageSize)
}

// Adjust godoc
// @Summary      Adjust stock
// @Description  Apply a manual stock change
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        product_id path string true "Product ID"
// @Param        request body inventoryapp.AdjustStockRequest true "Delta and reason"
// @Success      200 {object} dto.Response{data=AdjustResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/{product_id}/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "product_id")
	if !ok {
		return
	}

	var req inventoryapp.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	quantity, err := h.ledger.Adjust(c.Request.Context(), productID, req.Delta, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, AdjustResponse{ProductID: productID, Quantity: quantity})
}

// SetLowStock godoc
// @Summary      Set low stock threshold
// @Description  Change the low stock threshold of a product
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        product_id path string true "Product ID"
// @Param        request body inventoryapp.SetLowStockRequest true "Threshold"
// @Success      200 {object} dto.Response{data=inventoryapp.InventoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/{product_id}/low-stock [put]
func (h *InventoryHandler) SetLowStock(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "product_id")
	if !ok {
		return
	}

	var req inventoryapp.SetLowStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.ledger.SetLowStock(c.Request.Context(), productID, req.Threshold)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, inv)
}
