package handler

import (
	"github.com/gin-gonic/gin"
	blogapp "github.com/shopfront/backend/internal/application/blog"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
)

// BlogHandler handles blog post endpoints
type BlogHandler struct {
	BaseHandler
	blogService *blogapp.BlogService
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(blogService *blogapp.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

// Create godoc
// @Summary      Create a post
// @Description  Write a draft post authored by the current user
// @Tags         blog
// @Accept       json
// @Produce      json
// @Param        request body blogapp.PostRequest true "Post"
// @Success      201 {object} dto.Response{data=blogapp.PostResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /blog/posts [post]
func (h *BlogHandler) Create(c *gin.Context) {
	authorID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req blogapp.PostRequest
	if !h.BindJSON(c, &req) {
		return
	}

	post, err := h.blogService.Create(c.Request.Context(), authorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, post)
}

// GetBySlug godoc
// @Summary      Get a post
// @Description  Return a post by slug; drafts are only visible to staff
// @Tags         blog
// @Produce      json
// @Param        slug path string true "Post slug"
// @Success      200 {object} dto.Response{data=blogapp.PostResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /blog/posts/{slug} [get]
func (h *BlogHandler) GetBySlug(c *gin.Context) {
	post, err := h.blogService.GetBySlug(c.Request.Context(), c.Param("slug"), middleware.IsStaff(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, post)
}

// List godoc
// @Summary      List posts
// @Description  Return a page of posts
// @Tags         blog
// @Produce      json
// @Param        search query string false "Title search"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]blogapp.PostListItemResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /blog/posts [get]
func (h *BlogHandler) List(c *gin.Context) {
	var filter blogapp.PostListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	posts, total, err := h.blogService.List(c.Request.Context(), filter, middleware.IsStaff(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pageParams(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, posts, total, page, pageSize)
}

// Update godoc
// @Summary      Update a post
// @Description  Edit a post
// @Tags         blog
// @Accept       json
// @Produce      json
// @Param        id path string true "Post ID"
// @Param        request body blogapp.PostRequest true "Post"
// @Success      200 {object} dto.Response{data=blogapp.PostResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /blog/posts/{id} [put]
func (h *BlogHandler) Update(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req blogapp.PostRequest
	if !h.BindJSON(c, &req) {
		return
	}

	post, err := h.blogService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, post)
}

// Publish godoc
// @Summary      Publish a post
// @Description  Make a post public
// @Tags         blog
// @Produce      json
// @Param        id path string true "Post ID"
// @Success      200 {object} dto.Response{data=blogapp.PostResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /blog/posts/{id}/publish [post]
func (h *BlogHandler) Publish(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	post, err := h.blogService.Publish(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, post)
}

// Unpublish godoc
// @Summary      Unpublish a post
// @Description  Turn a post back into a draft
// @Tags         blog
// @Produce      json
// @Param        id path string true "Post ID"
// @Success      200 {object} dto.Response{data=blogapp.PostResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /blog/posts/{id}/unpublish [post]
func (h *BlogHandler) Unpublish(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	post, err := h.blogService.Unpublish(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, post)
}

// Delete godoc
// @Summary      Delete a post
// @Description  Remove a post
// @Tags         blog
// @Produce      json
// @Param        id path string true "Post ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /blog/posts/{id} [delete]
func (h *BlogHandler) Delete(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.blogService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
