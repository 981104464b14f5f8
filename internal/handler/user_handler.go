package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-labs/inkwell/internal/service"
	"github.com/inkwell-labs/inkwell/pkg/response"
	"github.com/inkwell-labs/inkwell/pkg/validator"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type searchUsersRequest struct {
	Query string `json:"query" binding:"required"`
}

func (h *UserHandler) SearchUsers(c *gin.Context) {
	var req searchUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	users, err := h.service.SearchUsers(c.Request.Context(), req.Query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

type getProfileRequest struct {
	Username string `json:"username" binding:"required"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	var req getProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), req.Username)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
