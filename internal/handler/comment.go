package handler

import (
	"net/http"

	"github.com/ashherx/coin-bounce/internal/logging"
	"github.com/ashherx/coin-bounce/internal/model"
	"github.com/ashherx/coin-bounce/internal/service"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc *service.CommentService
	log logging.Logger
}

func NewCommentHandler(svc *service.CommentService, log logging.Logger) *CommentHandler {
	return &CommentHandler{svc: svc, log: log}
}

// CreateComment godoc
// @Summary Comment on a blog
// @Tags comments
// @Accept json
// @Produce json
// @Param request body model.CreateCommentRequest true "Comment"
// @Success 201 {object} model.MessageResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /comment [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	if err := h.svc.Create(c.Request.Context(), req); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, model.MessageResponse{Message: "Comment created"})
}

// ListComments godoc
// @Summary List the comments of a blog
// @Tags comments
// @Produce json
// @Param id path string true "Blog ID"
// @Success 200 {object} model.CommentListResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /comment/{id} [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.svc.ListByBlog(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.CommentListResponse{Data: comments})
}
