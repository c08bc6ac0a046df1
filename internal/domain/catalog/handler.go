package catalog

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	provider Provider
}

func NewHandler(provider Provider) *Handler {
	return &Handler{provider: provider}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/catalog/modes", h.ListModes)
	api.GET("/catalog/:mode", h.GetModeData)
	api.GET("/catalog/:mode/categories", h.ListCategories)
	api.GET("/catalog/:mode/items", h.ListItems)
}

func (h *Handler) ListModes(c echo.Context) error {
	return c.JSON(http.StatusOK, Modes())
}

func (h *Handler) GetModeData(c echo.Context) error {
	data, err := h.modeData(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) ListCategories(c echo.Context) error {
	data, err := h.modeData(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data.Categories)
}

// ListItems returns a mode's items, optionally filtered by ?category=.
func (h *Handler) ListItems(c echo.Context) error {
	data, err := h.modeData(c)
	if err != nil {
		return err
	}
	items := data.FilterByCategory(c.QueryParam("category"))
	if items == nil {
		items = []Item{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) modeData(c echo.Context) (*ModeData, error) {
	mode := TestMode(c.Param("mode"))
	data, err := h.provider.ModeData(c.Request().Context(), mode)
	if err != nil {
		if errors.Is(err, ErrUnknownMode) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "unknown test mode")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return data, nil
}
