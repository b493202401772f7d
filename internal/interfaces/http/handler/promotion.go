package handler

import (
	"github.com/gin-gonic/gin"
	promotionapp "github.com/shopfront/backend/internal/application/promotion"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
)

// PromotionHandler handles promotion endpoints. Anonymous callers and
// customers only see promotions that are currently valid.
type PromotionHandler struct {
	BaseHandler
	promotionService *promotionapp.PromotionService
}

// NewPromotionHandler creates a new PromotionHandler
func NewPromotionHandler(promotionService *promotionapp.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService}
}

// Create godoc
// @Summary      Create a promotion
// @Description  Add a promotion
// @Tags         promotions
// @Accept       json
// @Produce      json
// @Param        request body promotionapp.PromotionRequest true "Promotion"
// @Success      201 {object} dto.Response{data=promotionapp.PromotionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /promotions [post]
func (h *PromotionHandler) Create(c *gin.Context) {
	var req promotionapp.PromotionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	promo, err := h.promotionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, promo)
}

// Get godoc
// @Summary      Get a promotion
// @Description  Return one promotion; non-staff callers only see valid ones
// @Tags         promotions
// @Produce      json
// @Param        id path string true "Promotion ID"
// @Success      200 {object} dto.Response{data=promotionapp.PromotionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /promotions/{id} [get]
func (h *PromotionHandler) Get(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	promo, err := h.promotionService.Get(c.Request.Context(), id, middleware.IsStaff(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, promo)
}

// List godoc
// @Summary      List promotions
// @Description  Return a page of promotions
// @Tags         promotions
// @Produce      json
// @Param        search query string false "Name search"
// @Param        all query bool false "Include invalid promotions (staff only)"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]promotionapp.PromotionResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /promotions [get]
func (h *PromotionHandler) List(c *gin.Context) {
	var filter promotionapp.PromotionListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	promos, total, err := h.promotionService.List(c.Request.Context(), filter, middleware.IsStaff(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pageParams(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, promos, total, page, pageSize)
}

// Update godoc
// @Summary      Update a promotion
// @Description  Replace a promotion
// @Tags         promotions
// @Accept       json
// @Produce      json
// @Param        id path string true "Promotion ID"
// @Param        request body promotionapp.PromotionRequest true "Promotion"
// @Success      200 {object} dto.Response{data=promotionapp.PromotionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /promotions/{id} [put]
func (h *PromotionHandler) Update(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req promotionapp.PromotionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	promo, err := h.promotionService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, promo)
}

// Delete godoc
// @Summary      Delete a promotion
// @Description  Remove a promotion
// @Tags         promotions
// @Produce      json
// @Param        id path string true "Promotion ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /promotions/{id} [delete]
func (h *PromotionHandler) Delete(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.promotionService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Evaluate godoc
// @Summary      Evaluate a promotion
// @Description  Compute the discount a promotion gives on an amount
// @Tags         promotions
// @Accept       json
// @Produce      json
// @Param        id path string true "Promotion ID"
// @Param        request body promotionapp.EvaluateRequest true "Amount to discount"
// @Success      200 {object} dto.Response{data=promotionapp.EvaluateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /promotions/{id}/evaluate [post]
func (h *PromotionHandler) Evaluate(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req promotionapp.EvaluateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.promotionService.Evaluate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
