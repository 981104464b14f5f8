package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-labs/inkwell/internal/service"
	"github.com/inkwell-labs/inkwell/pkg/response"
	"github.com/inkwell-labs/inkwell/pkg/validator"
)

type BlogHandler struct {
	service service.BlogService
}

func NewBlogHandler(service service.BlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

type createBlogRequest struct {
	Title   string          `json:"title" binding:"required"`
	Des     string          `json:"des" binding:"max=200"`
	Banner  string          `json:"banner"`
	Content json.RawMessage `json:"content"`
	Tags    []string        `json:"tags" binding:"max=10"`
	Draft   bool            `json:"draft"`
	ID      string          `json:"id"`
}

func (h *BlogHandler) CreateBlog(c *gin.Context) {
	var req createBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	blogID, err := h.service.PublishBlog(c.Request.Context(), userID, service.BlogInput{
		Title:   req.Title,
		Des:     req.Des,
		Banner:  req.Banner,
		Content: req.Content,
		Tags:    req.Tags,
		Draft:   req.Draft,
		BlogID:  req.ID,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": blogID})
}

type getBlogRequest struct {
	BlogID string `json:"blog_id" binding:"required"`
	Draft  bool   `json:"draft"`
	Mode   string `json:"mode"`
}

func (h *BlogHandler) GetBlog(c *gin.Context) {
	var req getBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	blog, err := h.service.GetBlog(c.Request.Context(), req.BlogID, req.Draft, req.Mode)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"blog": blog})
}

type latestBlogsRequest struct {
	Page int `json:"page" binding:"min=0"`
}

func (h *BlogHandler) LatestBlogs(c *gin.Context) {
	var req latestBlogsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	blogs, err := h.service.LatestBlogs(c.Request.Context(), req.Page)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"blogs": blogs})
}

func (h *BlogHandler) CountLatestBlogs(c *gin.Context) {
	count, err := h.service.CountLatestBlogs(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totalDocs": count})
}

func (h *BlogHandler) TrendingBlogs(c *gin.Context) {
	blogs, err := h.service.TrendingBlogs(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"blogs": blogs})
}

type searchBlogsRequest struct {
	Tag           string `json:"tag"`
	Query         string `json:"query"`
	Author        string `json:"author"`
	Page          int    `json:"page" binding:"min=0"`
	Limit         int    `json:"limit" binding:"min=0"`
	EliminateBlog string `json:"eliminate_blog"`
}

func (r searchBlogsRequest) toInput() service.BlogSearchInput {
	return service.BlogSearchInput{
		Tag:           r.Tag,
		Query:         r.Query,
		Author:        r.Author,
		Page:          r.Page,
		Limit:         r.Limit,
		EliminateBlog: r.EliminateBlog,
	}
}

func (h *BlogHandler) SearchBlogs(c *gin.Context) {
	var req searchBlogsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	blogs, err := h.service.SearchBlogs(c.Request.Context(), req.toInput())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"blogs": blogs})
}

func (h *BlogHandler) CountSearchBlogs(c *gin.Context) {
	var req searchBlogsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	count, err := h.service.CountSearchBlogs(c.Request.Context(), req.toInput())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totalDocs": count})
}

type userWrittenBlogsRequest struct {
	Page            int    `json:"page" binding:"min=0"`
	Draft           bool   `json:"draft"`
	Query           string `json:"query"`
	DeletedDocCount int    `json:"deletedDocCount" binding:"min=0"`
}

func (h *BlogHandler) UserWrittenBlogs(c *gin.Context) {
	var req userWrittenBlogsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	blogs, err := h.service.UserWrittenBlogs(c.Request.Context(), userID, req.Page, req.Draft, req.Query, req.DeletedDocCount)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"blogs": blogs})
}

func (h *BlogHandler) CountUserWrittenBlogs(c *gin.Context) {
	var req userWrittenBlogsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	count, err := h.service.CountUserWrittenBlogs(c.Request.Context(), userID, req.Draft, req.Query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totalDocs": count})
}

type deleteBlogRequest struct {
	BlogID string `json:"blog_id" binding:"required"`
}

func (h *BlogHandler) DeleteBlog(c *gin.Context) {
	var req deleteBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteBlog(c.Request.Context(), userID, req.BlogID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "done"})
}
