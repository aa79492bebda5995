package handler

import (
	"net/http"

	"github.com/ashherx/coin-bounce/internal/logging"
	"github.com/ashherx/coin-bounce/internal/model"
	"github.com/ashherx/coin-bounce/internal/service"
	"github.com/gin-gonic/gin"
)

type BlogHandler struct {
	svc *service.BlogService
	log logging.Logger
}

func NewBlogHandler(svc *service.BlogService, log logging.Logger) *BlogHandler {
	return &BlogHandler{svc: svc, log: log}
}

// CreateBlog godoc
// @Summary Create a blog
// @Description photo is a base64 encoded image, optionally with a data URL prefix.
// @Tags blogs
// @Accept json
// @Produce json
// @Param request body model.CreateBlogRequest true "Blog"
// @Success 201 {object} model.BlogResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /blog [post]
func (h *BlogHandler) CreateBlog(c *gin.Context) {
	var req model.CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	blog, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, model.BlogResponse{Blog: blog})
}

// ListBlogs godoc
// @Summary List blogs
// @Tags blogs
// @Produce json
// @Success 200 {object} model.BlogListResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /blog/all [get]
func (h *BlogHandler) ListBlogs(c *gin.Context) {
	blogs, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.BlogListResponse{Blogs: blogs})
}

// GetBlog godoc
// @Summary Get a blog with its author
// @Tags blogs
// @Produce json
// @Param id path string true "Blog ID"
// @Success 200 {object} model.BlogResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /blog/{id} [get]
func (h *BlogHandler) GetBlog(c *gin.Context) {
	blog, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.BlogResponse{Blog: blog})
}

// UpdateBlog godoc
// @Summary Update a blog
// @Description A non-empty photo replaces the current image.
// @Tags blogs
// @Accept json
// @Produce json
// @Param request body model.UpdateBlogRequest true "Blog changes"
// @Success 200 {object} model.MessageResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /blog [put]
func (h *BlogHandler) UpdateBlog(c *gin.Context) {
	var req model.UpdateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	if err := h.svc.Update(c.Request.Context(), req); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Blog updated!"})
}

// DeleteBlog godoc
// @Summary Delete a blog and its comments
// @Tags blogs
// @Produce json
// @Param id path string true "Blog ID"
// @Success 200 {object} model.MessageResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /blog/{id} [delete]
func (h *BlogHandler) DeleteBlog(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Blog Deleted!"})
}
