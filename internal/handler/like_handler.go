package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inkwell-labs/inkwell/internal/service"
	"github.com/inkwell-labs/inkwell/pkg/response"
	"github.com/inkwell-labs/inkwell/pkg/validator"
)

type LikeHandler struct {
	service service.LikeService
}

func NewLikeHandler(service service.LikeService) *LikeHandler {
	return &LikeHandler{service: service}
}

type likeBlogRequest struct {
	BlogID      string `json:"_id" binding:"required,uuid"`
	LikedByUser bool   `json:"islikedByUser"`
}

func (h *LikeHandler) LikeBlog(c *gin.Context) {
	var req likeBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	liked, err := h.service.ToggleLike(c.Request.Context(), userID, uuid.MustParse(req.BlogID), req.LikedByUser)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked_by_user": liked})
}

type isLikedRequest struct {
	BlogID string `json:"_id" binding:"required,uuid"`
}

func (h *LikeHandler) IsLikedByUser(c *gin.Context) {
	var req isLikedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	liked, err := h.service.IsLikedByUser(c.Request.Context(), userID, uuid.MustParse(req.BlogID))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": liked})
}
