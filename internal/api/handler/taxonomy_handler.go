package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pressbox/blog-api/internal/core/ports"
)

type saveTermRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// termResponse is the transport view of a category or tag. The slug is
// derived from the name server-side and read-only.
type termResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaxonomyHandler handles HTTP requests for categories and tags.
type TaxonomyHandler struct {
	service ports.TaxonomyService
}

func NewTaxonomyHandler(service ports.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{service: service}
}

// ListCategories handles GET /v1/categories.
//
// @Summary      List categories
// @Tags         taxonomy
// @Produce      json
// @Security     BearerAuth
// @Param        slug  query     string  false  "Filter by slug"
// @Success      200   {array}   termResponse
// @Router       /v1/categories [get]
func (h *TaxonomyHandler) ListCategories(c echo.Context) error {
	categories, err := h.service.ListCategories(c.Request().Context(), c.QueryParam("slug"))
	if err != nil {
		return err
	}

	resp := make([]termResponse, 0, len(categories))
	for _, cat := range categories {
		resp = append(resp, toTermResponse(cat.ID, cat.Name, cat.Slug, cat.CreatedAt, cat.UpdatedAt))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetCategory handles GET /v1/categories/:id.
//
// @Summary      Get a category
// @Tags         taxonomy
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Category id"
// @Success      200  {object}  termResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/categories/{id} [get]
func (h *TaxonomyHandler) GetCategory(c echo.Context) error {
	category, err := h.service.GetCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTermResponse(category.ID, category.Name, category.Slug, category.CreatedAt, category.UpdatedAt))
}

// CreateCategory handles POST /v1/categories (admin only).
//
// @Summary      Create a category
// @Tags         taxonomy
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveTermRequest  true  "Category name"
// @Success      201   {object}  termResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/categories [post]
func (h *TaxonomyHandler) CreateCategory(c echo.Context) error {
	var req saveTermRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	category, err := h.service.CreateCategory(c.Request().Context(), ports.SaveTermInput{Name: req.Name})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTermResponse(category.ID, category.Name, category.Slug, category.CreatedAt, category.UpdatedAt))
}

// UpdateCategory handles PUT /v1/categories/:id (admin only).
//
// @Summary      Rename a category
// @Tags         taxonomy
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Category id"
// @Param        body  body      saveTermRequest  true  "New name"
// @Success      200   {object}  termResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/categories/{id} [put]
func (h *TaxonomyHandler) UpdateCategory(c echo.Context) error {
	var req saveTermRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	category, err := h.service.UpdateCategory(c.Request().Context(), c.Param("id"), ports.SaveTermInput{Name: req.Name})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTermResponse(category.ID, category.Name, category.Slug, category.CreatedAt, category.UpdatedAt))
}

// ListTags handles GET /v1/tags.
//
// @Summary      List tags
// @Tags         taxonomy
// @Produce      json
// @Security     BearerAuth
// @Param        slug  query     string  false  "Filter by slug"
// @Success      200   {array}   termResponse
// @Router       /v1/tags [get]
func (h *TaxonomyHandler) ListTags(c echo.Context) error {
	tags, err := h.service.ListTags(c.Request().Context(), c.QueryParam("slug"))
	if err != nil {
		return err
	}

	resp := make([]termResponse, 0, len(tags))
	for _, t := range tags {
		resp = append(resp, toTermResponse(t.ID, t.Name, t.Slug, t.CreatedAt, t.UpdatedAt))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetTag handles GET /v1/tags/:id.
//
// @Summary      Get a tag
// @Tags         taxonomy
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Tag id"
// @Success      200  {object}  termResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/tags/{id} [get]
func (h *TaxonomyHandler) GetTag(c echo.Context) error {
	tag, err := h.service.GetTag(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTermResponse(tag.ID, tag.Name, tag.Slug, tag.CreatedAt, tag.UpdatedAt))
}

// CreateTag handles POST /v1/tags (admin only).
//
// @Summary      Create a tag
// @Tags         taxonomy
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveTermRequest  true  "Tag name"
// @Success      201   {object}  termResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/tags [post]
func (h *TaxonomyHandler) CreateTag(c echo.Context) error {
	var req saveTermRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	tag, err := h.service.CreateTag(c.Request().Context(), ports.SaveTermInput{Name: req.Name})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTermResponse(tag.ID, tag.Name, tag.Slug, tag.CreatedAt, tag.UpdatedAt))
}

// UpdateTag handles PUT /v1/tags/:id (admin only).
//
// @Summary      Rename a tag
// @Tags         taxonomy
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Tag id"
// @Param        body  body      saveTermRequest  true  "New name"
// @Success      200   {object}  termResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/tags/{id} [put]
func (h *TaxonomyHandler) UpdateTag(c echo.Context) error {
	var req saveTermRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	tag, err := h.service.UpdateTag(c.Request().Context(), c.Param("id"), ports.SaveTermInput{Name: req.Name})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTermResponse(tag.ID, tag.Name, tag.Slug, tag.CreatedAt, tag.UpdatedAt))
}

func toTermResponse(id, name, slug string, createdAt, updatedAt time.Time) termResponse {
	return termResponse{ID: id, Name: name, Slug: slug, CreatedAt: createdAt, UpdatedAt: updatedAt}
}
