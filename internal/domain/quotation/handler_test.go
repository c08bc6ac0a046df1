package quotation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/catalog"
)

func newHandlerEnv() (*Handler, *echo.Echo) {
	return NewHandler(newTestService()), echo.New()
}

func jsonRequest(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) State {
	t.Helper()
	var state State
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return state
}

func startedSession(t *testing.T, h *Handler, e *echo.Echo) State {
	t.Helper()
	c, rec := jsonRequest(e, http.MethodPost, "/api/v1/sessions", `{"mode":"single"}`)
	if err := h.StartSession(c); err != nil {
		t.Fatalf("start session: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	return decodeState(t, rec)
}

func toggleItem(t *testing.T, h *Handler, e *echo.Echo, sessionID uuid.UUID, itemID int) State {
	t.Helper()
	c, rec := jsonRequest(e, http.MethodPost, "/api/v1/sessions/x/tests/x/toggle", "")
	c.SetParamNames("id", "itemID")
	c.SetParamValues(sessionID.String(), strconv.Itoa(itemID))
	if err := h.ToggleTest(c); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	return decodeState(t, rec)
}

func TestHandler_StartSession(t *testing.T) {
	h, e := newHandlerEnv()
	state := startedSession(t, h, e)
	if state.SessionID == uuid.Nil {
		t.Error("no session id in response")
	}
	if state.Context.Mode != catalog.ModeSingle {
		t.Errorf("mode = %s", state.Context.Mode)
	}
}

func TestHandler_StartSession_UnknownMode(t *testing.T) {
	h, e := newHandlerEnv()
	c, _ := jsonRequest(e, http.MethodPost, "/api/v1/sessions", `{"mode":"bogus"}`)

	err := h.StartSession(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_GetSession_NotFound(t *testing.T) {
	h, e := newHandlerEnv()
	c, _ := jsonRequest(e, http.MethodGet, "/api/v1/sessions/x", "")
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := h.GetSession(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_GetSession_BadID(t *testing.T) {
	h, e := newHandlerEnv()
	c, _ := jsonRequest(e, http.MethodGet, "/api/v1/sessions/x", "")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetSession(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_ToggleAndOptions(t *testing.T) {
	h, e := newHandlerEnv()
	session := startedSession(t, h, e)
	state := toggleItem(t, h, e, session.SessionID, 110)
	if len(state.Tests) != 1 {
		t.Fatalf("tests = %d, want 1", len(state.Tests))
	}
	main := state.Tests[0]

	c, rec := jsonRequest(e, http.MethodGet, "/api/v1/sessions/x/selected/x/options", "")
	c.SetParamNames("id", "instanceID")
	c.SetParamValues(session.SessionID.String(), main.InstanceID.String())
	if err := h.GetOptions(c); err != nil {
		t.Fatalf("options: %v", err)
	}

	var view OptionsView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode options: %v", err)
	}
	if len(view.Offers) == 0 || len(view.Methods) == 0 {
		t.Errorf("option panel empty: %+v", view)
	}
}

func TestHandler_ChooseThenAcceptTreePick(t *testing.T) {
	h, e := newHandlerEnv()
	session := startedSession(t, h, e)
	state := toggleItem(t, h, e, session.SessionID, 110)
	main := state.Tests[0]

	choose := func(level, value string) {
		t.Helper()
		c, _ := jsonRequest(e, http.MethodPost, "/api/v1/sessions/x/selected/x/options/choose",
			`{"level":"`+level+`","value":"`+value+`"}`)
		c.SetParamNames("id", "instanceID")
		c.SetParamValues(session.SessionID.String(), main.InstanceID.String())
		if err := h.ChooseLevel(c); err != nil {
			t.Fatalf("choose %s: %v", level, err)
		}
	}
	choose("method", "경정맥 채혈")
	choose("points", "4시점")

	c, rec := jsonRequest(e, http.MethodPost, "/api/v1/sessions/x/selected/x/options/accept", "")
	c.SetParamNames("id", "instanceID")
	c.SetParamValues(session.SessionID.String(), main.InstanceID.String())
	if err := h.AcceptOption(c); err != nil {
		t.Fatalf("accept: %v", err)
	}

	after := decodeState(t, rec)
	if len(after.Tests) != 2 {
		t.Fatalf("tests = %d, want 2", len(after.Tests))
	}
	if after.Tests[1].ItemID != 160 || !after.Tests[1].IsOption {
		t.Errorf("accepted row = %+v", after.Tests[1])
	}
}

func TestHandler_AcceptDirectOffer(t *testing.T) {
	h, e := newHandlerEnv()
	session := startedSession(t, h, e)
	state := toggleItem(t, h, e, session.SessionID, 110)
	main := state.Tests[0]

	c, rec := jsonRequest(e, http.MethodPost, "/api/v1/sessions/x/selected/x/options/accept", `{"item_id":150}`)
	c.SetParamNames("id", "instanceID")
	c.SetParamValues(session.SessionID.String(), main.InstanceID.String())
	if err := h.AcceptOption(c); err != nil {
		t.Fatalf("accept: %v", err)
	}

	after := decodeState(t, rec)
	if after.Totals.SubtotalTest != 96_000_000 {
		t.Errorf("subtotal = %d, want 96000000", after.Totals.SubtotalTest)
	}
}

func TestHandler_PatchContext(t *testing.T) {
	h, e := newHandlerEnv()
	session := startedSession(t, h, e)

	c, rec := jsonRequest(e, http.MethodPatch, "/api/v1/sessions/x/context", `{"route":"iv","standard":"glp-oecd"}`)
	c.SetParamNames("id")
	c.SetParamValues(session.SessionID.String())
	if err := h.PatchContext(c); err != nil {
		t.Fatalf("patch context: %v", err)
	}

	state := decodeState(t, rec)
	if state.Context.Route != "iv" || state.Context.Standard != "glp-oecd" {
		t.Errorf("context = %+v", state.Context)
	}

	c, _ = jsonRequest(e, http.MethodPatch, "/api/v1/sessions/x/context", `{"route":"nasal"}`)
	c.SetParamNames("id")
	c.SetParamValues(session.SessionID.String())
	err := h.PatchContext(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid route, got %v", err)
	}
}

func TestHandler_PatchPricingAndFinalize(t *testing.T) {
	h, e := newHandlerEnv()
	session := startedSession(t, h, e)
	toggleItem(t, h, e, session.SessionID, 110)

	c, rec := jsonRequest(e, http.MethodPatch, "/api/v1/sessions/x/pricing",
		`{"formulation_surcharge":5000000,"discount_rate":10,"discount_reason":"장기 고객"}`)
	c.SetParamNames("id")
	c.SetParamValues(session.SessionID.String())
	if err := h.PatchPricing(c); err != nil {
		t.Fatalf("patch pricing: %v", err)
	}
	state := decodeState(t, rec)
	if state.Totals.GrandTotal != 80_000_000+5_000_000-8_000_000 {
		t.Errorf("grand total = %d", state.Totals.GrandTotal)
	}

	c, rec = jsonRequest(e, http.MethodPost, "/api/v1/sessions/x/finalize", "")
	c.SetParamNames("id")
	c.SetParamValues(session.SessionID.String())
	if err := h.Finalize(c); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var q Quotation
	if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode quotation: %v", err)
	}

	// The finalized quotation is retrievable; the session is gone.
	c, rec = jsonRequest(e, http.MethodGet, "/api/v1/quotations/x", "")
	c.SetParamNames("id")
	c.SetParamValues(q.ID.String())
	if err := h.GetQuotation(c); err != nil {
		t.Fatalf("get quotation: %v", err)
	}

	c, _ = jsonRequest(e, http.MethodGet, "/api/v1/sessions/x", "")
	c.SetParamNames("id")
	c.SetParamValues(session.SessionID.String())
	err := h.GetSession(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404 after finalize, got %v", err)
	}
}

func TestHandler_PatchSelected(t *testing.T) {
	h, e := newHandlerEnv()
	session := startedSession(t, h, e)
	state := toggleItem(t, h, e, session.SessionID, 110)
	main := state.Tests[0]

	c, rec := jsonRequest(e, http.MethodPatch, "/api/v1/sessions/x/selected/x",
		`{"price_override":70000000,"name":"조건부 시험"}`)
	c.SetParamNames("id", "instanceID")
	c.SetParamValues(session.SessionID.String(), main.InstanceID.String())
	if err := h.PatchSelected(c); err != nil {
		t.Fatalf("patch selected: %v", err)
	}

	after := decodeState(t, rec)
	if after.Tests[0].Name != "조건부 시험" {
		t.Errorf("name = %q", after.Tests[0].Name)
	}
	if after.Totals.SubtotalTest != 70_000_000 {
		t.Errorf("subtotal = %d, want 70000000", after.Totals.SubtotalTest)
	}
}

func TestHandler_RemoveSelected(t *testing.T) {
	h, e := newHandlerEnv()
	session := startedSession(t, h, e)
	state := toggleItem(t, h, e, session.SessionID, 110)
	main := state.Tests[0]

	c, rec := jsonRequest(e, http.MethodDelete, "/api/v1/sessions/x/selected/x", "")
	c.SetParamNames("id", "instanceID")
	c.SetParamValues(session.SessionID.String(), main.InstanceID.String())
	if err := h.RemoveSelected(c); err != nil {
		t.Fatalf("remove: %v", err)
	}
	after := decodeState(t, rec)
	if len(after.Tests) != 0 {
		t.Errorf("tests = %d, want 0", len(after.Tests))
	}
}

func TestHandler_ListQuotations_Empty(t *testing.T) {
	h, e := newHandlerEnv()
	c, rec := jsonRequest(e, http.MethodGet, "/api/v1/quotations", "")
	if err := h.ListQuotations(c); err != nil {
		t.Fatalf("list: %v", err)
	}

	var resp struct {
		Items []Quotation `json:"items"`
		Total int         `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 0 || resp.Items == nil {
		t.Errorf("expected empty list, got %+v", resp)
	}
}
