package quotation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/catalog"
	"github.com/ddongsuya/chemonmanagement-sub003/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/sessions", h.StartSession)
	api.GET("/sessions/:id", h.GetSession)
	api.PATCH("/sessions/:id/context", h.PatchContext)
	api.PATCH("/sessions/:id/pricing", h.PatchPricing)
	api.POST("/sessions/:id/tests/:itemID/toggle", h.ToggleTest)
	api.GET("/sessions/:id/selected/:instanceID/options", h.GetOptions)
	api.POST("/sessions/:id/selected/:instanceID/options/choose", h.ChooseLevel)
	api.POST("/sessions/:id/selected/:instanceID/options/accept", h.AcceptOption)
	api.PATCH("/sessions/:id/selected/:instanceID", h.PatchSelected)
	api.DELETE("/sessions/:id/selected/:instanceID", h.RemoveSelected)
	api.POST("/sessions/:id/finalize", h.Finalize)

	api.GET("/quotations", h.ListQuotations)
	api.GET("/quotations/:id", h.GetQuotation)
}

func (h *Handler) StartSession(c echo.Context) error {
	var req struct {
		Mode catalog.TestMode `json:"mode"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	state, err := h.svc.Start(c.Request().Context(), req.Mode)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownMode) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown test mode")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, state)
}

func (h *Handler) GetSession(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	state, err := h.svc.State(id)
	if err != nil {
		return sessionError(err)
	}
	return c.JSON(http.StatusOK, state)
}

func (h *Handler) PatchContext(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var patch ContextPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	state, err := h.svc.SetContext(id, patch)
	if err != nil {
		return sessionError(err)
	}
	return c.JSON(http.StatusOK, state)
}

func (h *Handler) PatchPricing(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var upd PricingUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	state, err := h.svc.SetPricing(id, upd)
	if err != nil {
		return sessionError(err)
	}
	return c.JSON(http.StatusOK, state)
}

func (h *Handler) ToggleTest(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := strconv.Atoi(c.Param("itemID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}
	state, err := h.svc.Toggle(id, itemID)
	if err != nil {
		return sessionError(err)
	}
	return c.JSON(http.StatusOK, state)
}

func (h *Handler) GetOptions(c echo.Context) error {
	id, instanceID, err := pathSessionInstance(c)
	if err != nil {
		return err
	}
	view, err := h.svc.Options(id, instanceID)
	if err != nil {
		return sessionError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// ChooseLevel records one tree-navigation step: {"level":"method","value":"..."}.
func (h *Handler) ChooseLevel(c echo.Context) error {
	id, instanceID, err := pathSessionInstance(c)
	if err != nil {
		return err
	}
	var req struct {
		Level string `json:"level"`
		Value string `json:"value"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	view, err := h.svc.Choose(id, instanceID, req.Level, req.Value)
	if err != nil {
		return sessionError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// AcceptOption accepts either a direct offer ({"item_id":150}) or, with an
// empty body, the parent's currently resolved tree pick.
func (h *Handler) AcceptOption(c echo.Context) error {
	id, instanceID, err := pathSessionInstance(c)
	if err != nil {
		return err
	}
	var req struct {
		ItemID *int `json:"item_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	var state *State
	if req.ItemID != nil {
		state, err = h.svc.AcceptOffer(id, instanceID, *req.ItemID)
	} else {
		state, err = h.svc.AcceptTreePick(id, instanceID)
	}
	if err != nil {
		return sessionError(err)
	}
	return c.JSON(http.StatusOK, state)
}

// PatchSelected edits one row: manual price override and/or display name.
func (h *Handler) PatchSelected(c echo.Context) error {
	id, instanceID, err := pathSessionInstance(c)
	if err != nil {
		return err
	}
	var req struct {
		Price      *int64  `json:"price_override"`
		ClearPrice bool    `json:"clear_price_override"`
		Name       *string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	var state *State
	if req.Price != nil || req.ClearPrice {
		price := req.Price
		if req.ClearPrice {
			price = nil
		}
		state, err = h.svc.OverridePrice(id, instanceID, price)
		if err != nil {
			return sessionError(err)
		}
	}
	if req.Name != nil {
		state, err = h.svc.OverrideName(id, instanceID, *req.Name)
		if err != nil {
			return sessionError(err)
		}
	}
	if state == nil {
		state, err = h.svc.State(id)
		if err != nil {
			return sessionError(err)
		}
	}
	return c.JSON(http.StatusOK, state)
}

func (h *Handler) RemoveSelected(c echo.Context) error {
	id, instanceID, err := pathSessionInstance(c)
	if err != nil {
		return err
	}
	state, err := h.svc.Remove(id, instanceID)
	if err != nil {
		return sessionError(err)
	}
	return c.JSON(http.StatusOK, state)
}

func (h *Handler) Finalize(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	q, err := h.svc.Finalize(c.Request().Context(), id)
	if err != nil {
		return sessionError(err)
	}
	return c.JSON(http.StatusCreated, q)
}

func (h *Handler) GetQuotation(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	q, err := h.svc.Quotation(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "quotation not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, q)
}

func (h *Handler) ListQuotations(c echo.Context) error {
	p := pagination.FromContext(c)

	items, total, err := h.svc.ListQuotations(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Quotation{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func pathSessionInstance(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	id, err := pathUUID(c, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	instanceID, err := pathUUID(c, "instanceID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return id, instanceID, nil
}

func sessionError(err error) error {
	if errors.Is(err, ErrSessionNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "drafting session not found")
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}
