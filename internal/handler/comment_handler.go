package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inkwell-labs/inkwell/internal/service"
	"github.com/inkwell-labs/inkwell/pkg/response"
	"github.com/inkwell-labs/inkwell/pkg/validator"
)

type CommentHandler struct {
	service service.CommentService
}

func NewCommentHandler(service service.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

type addCommentRequest struct {
	BlogID         string `json:"_id" binding:"required,uuid"`
	Comment        string `json:"comment" binding:"required"`
	BlogAuthor     string `json:"blog_author" binding:"required,uuid"`
	ReplyingTo     string `json:"replying_to" binding:"omitempty,uuid"`
	NotificationID string `json:"notification_id" binding:"omitempty,uuid"`
}

func (h *CommentHandler) AddComment(c *gin.Context) {
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	in := service.AddCommentInput{
		BlogID:       uuid.MustParse(req.BlogID),
		BlogAuthorID: uuid.MustParse(req.BlogAuthor),
		Comment:      req.Comment,
	}
	if req.ReplyingTo != "" {
		id := uuid.MustParse(req.ReplyingTo)
		in.ReplyingTo = &id
	}
	if req.NotificationID != "" {
		id := uuid.MustParse(req.NotificationID)
		in.NotificationID = &id
	}

	comment, err := h.service.AddComment(c.Request.Context(), userID, in)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

type getCommentsRequest struct {
	BlogID string `json:"blog_id" binding:"required,uuid"`
	Skip   int    `json:"skip" binding:"min=0"`
}

func (h *CommentHandler) GetBlogComments(c *gin.Context) {
	var req getCommentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	comments, err := h.service.GetComments(c.Request.Context(), uuid.MustParse(req.BlogID), req.Skip)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

type getRepliesRequest struct {
	CommentID string `json:"_id" binding:"required,uuid"`
	Skip      int    `json:"skip" binding:"min=0"`
}

func (h *CommentHandler) GetReplies(c *gin.Context) {
	var req getRepliesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	replies, err := h.service.GetReplies(c.Request.Context(), uuid.MustParse(req.CommentID), req.Skip)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"replies": replies})
}

type deleteCommentRequest struct {
	CommentID string `json:"_id" binding:"required,uuid"`
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	var req deleteCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), userID, uuid.MustParse(req.CommentID)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "done"})
}
