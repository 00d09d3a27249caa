package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"carmarket/internal/service"
)

// CatalogHandler serves the brand/model/feature reference data.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListBrands godoc
// @Summary List all brands
// @Tags catalog
// @Produce json
// @Success 200 {array} model.Brand
// @Router /catalog/brands [get]
func (h *CatalogHandler) ListBrands(c echo.Context) error {
	brands, err := h.catalogService.Brands(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, brands)
}

// ListModels godoc
// @Summary List models of a brand
// @Description Backs the cascading brand→model selection in the listing and search forms.
// @Tags catalog
// @Produce json
// @Param id path int true "Brand ID"
// @Success 200 {array} model.CarModel
// @Failure 404 {object} errors.ErrorResponse
// @Router /catalog/brands/{id}/models [get]
func (h *CatalogHandler) ListModels(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	models, err := h.catalogService.ModelsForBrand(c.Request().Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, models)
}

// ListFeatures godoc
// @Summary List all feature tags
// @Tags catalog
// @Produce json
// @Success 200 {array} model.CarFeature
// @Router /catalog/features [get]
func (h *CatalogHandler) ListFeatures(c echo.Context) error {
	features, err := h.catalogService.Features(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, features)
}
