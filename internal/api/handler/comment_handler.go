package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pressbox/blog-api/internal/api/metrics"
	"github.com/pressbox/blog-api/internal/core/domain"
	"github.com/pressbox/blog-api/internal/core/ports"
)

type createCommentRequest struct {
	PostID  string `json:"post_id" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listCommentsResponse struct {
	Data       []commentResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// CommentHandler handles HTTP requests for comment operations.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// Create handles POST /v1/comments.
//
// @Summary      Create a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCommentRequest  true  "Comment details"
// @Success      201   {object}  commentResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	comment, err := h.service.Create(c.Request().Context(), principal, ports.CreateCommentInput{
		PostID:  req.PostID,
		Content: req.Content,
	})
	if err != nil {
		return err
	}

	metrics.CommentsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// Get handles GET /v1/comments/:id.
//
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment id"
// @Success      200  {object}  commentResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/comments/{id} [get]
func (h *CommentHandler) Get(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	comment, err := h.service.Get(c.Request().Context(), principal, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

// List handles GET /v1/comments.
//
// @Summary      List comments
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        post_id  query     string  false  "Scope to one post"
// @Param        page     query     int     false  "Page (1-based)"
// @Param        limit    query     int     false  "Page size (max 100)"
// @Success      200      {object}  listCommentsResponse
// @Failure      403      {object}  errorResponse
// @Router       /v1/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), principal, ports.ListCommentsInput{
		PostID: c.QueryParam("post_id"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	data := make([]commentResponse, 0, len(result.Items))
	for _, cm := range result.Items {
		data = append(data, toCommentResponse(cm))
	}

	return c.JSON(http.StatusOK, listCommentsResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Delete handles DELETE /v1/comments/:id.
//
// @Summary      Delete a comment
// @Tags         comments
// @Security     BearerAuth
// @Param        id  path  string  true  "Comment id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), principal, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toCommentResponse(cm *domain.Comment) commentResponse {
	return commentResponse{
		ID:        cm.ID,
		PostID:    cm.PostID,
		AuthorID:  cm.AuthorID,
		Content:   cm.Content,
		CreatedAt: cm.CreatedAt,
		UpdatedAt: cm.UpdatedAt,
	}
}
