package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/homequest/realty-api/internal/core/ports"
)

type PropertyHandler struct {
	service ports.PropertyService
}

func NewPropertyHandler(service ports.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

type createPropertyRequest struct {
	Title        string  `json:"title" validate:"required"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Address      string  `json:"address" validate:"required"`
	City         string  `json:"city" validate:"required"`
	State        string  `json:"state"`
	ZipCode      string  `json:"zip_code"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    int     `json:"bathrooms"`
	SquareFeet   int     `json:"square_feet"`
	PropertyType string  `json:"property_type"`
	ListingType  string  `json:"listing_type" validate:"required,oneof=SALE RENT PG"`
	ImageURL     string  `json:"image_url"`
}

type listPropertiesResponse struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// Create handles POST /v1/properties. Agents only.
//
// @Summary      Create a listing
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPropertyRequest  true  "Listing details"
// @Success      201   {object}  domain.Property
// @Failure      403   {object}  map[string]string
// @Router       /v1/properties [post]
func (h *PropertyHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createPropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	property, err := h.service.Create(c.Request().Context(), actor, ports.CreatePropertyInput{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		SquareFeet:   req.SquareFeet,
		PropertyType: req.PropertyType,
		ListingType:  req.ListingType,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, property)
}

// List handles GET /v1/properties with filter query parameters. Public.
//
// @Summary      List properties
// @Tags         properties
// @Produce      json
// @Param        city          query  string  false  "Filter by city"
// @Param        listing_type  query  string  false  "SALE, RENT or PG"
// @Param        min_price     query  number  false  "Minimum price"
// @Param        max_price     query  number  false  "Maximum price"
// @Param        search        query  string  false  "Match on title or address"
// @Param        page          query  int     false  "Page (1-based)"
// @Param        limit         query  int     false  "Page size (max 100)"
// @Success      200  {object}  listPropertiesResponse
// @Router       /v1/properties [get]
func (h *PropertyHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	minPrice, _ := strconv.ParseFloat(c.QueryParam("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(c.QueryParam("max_price"), 64)

	result, err := h.service.List(c.Request().Context(), ports.ListPropertiesFilter{
		City:           c.QueryParam("city"),
		State:          c.QueryParam("state"),
		ListingType:    c.QueryParam("listing_type"),
		Status:         c.QueryParam("status"),
		ApprovalStatus: c.QueryParam("approval_status"),
		OwnerID:        c.QueryParam("owner_id"),
		MinPrice:       minPrice,
		MaxPrice:       maxPrice,
		Search:         c.QueryParam("search"),
		Page:           page,
		Limit:          limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listPropertiesResponse{
		Items:      result.Items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Get handles GET /v1/properties/:id. Public.
func (h *PropertyHandler) Get(c echo.Context) error {
	property, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, property)
}

type moderateRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

// Moderate handles PUT /v1/admin/properties/:id/approval. Admin only.
func (h *PropertyHandler) Moderate(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req moderateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	property, err := h.service.Moderate(c.Request().Context(), actor, c.Param("id"), *req.Approved)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, property)
}

// Claim handles POST /v1/properties/:id/claim. Agents only; one-way.
func (h *PropertyHandler) Claim(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	property, err := h.service.Claim(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, property)
}
