package cart

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/grupo-inti/backend-quotes/internal/rates"
)

func newTestRouter(t *testing.T) (*chi.Mux, *Service) {
	t.Helper()
	catalog, err := rates.Parse(strings.NewReader(testTable))
	require.NoError(t, err)

	next := 0
	svc := &Service{
		Rates: catalog,
		Store: NewStore(),
		NewID: func() string {
			next++
			return "q-" + strconv.Itoa(next)
		},
	}
	h := &Handler{Svc: svc, Validate: validator.New(validator.WithRequiredStructEnabled())}

	r := chi.NewRouter()
	r.Post("/quotes", h.Create)
	r.Get("/quotes/{id}", h.Get)
	r.Post("/quotes/{id}/rooms", h.AddRoom)
	r.Post("/quotes/{id}/services", h.AddService)
	r.Delete("/quotes/{id}/items/{index}", h.RemoveItem)
	r.Delete("/quotes/{id}/items", h.Clear)
	return r, svc
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data
}

func TestCreateQuoteHandler(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/quotes",
		`{"agency":"VIAJES ANDINOS","checkin":"2026-12-10","checkout":"2026-12-13"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	data := decodeData(t, rec)
	require.Equal(t, "q-1", data["id"])
	require.Equal(t, "2026", data["year"])
	require.EqualValues(t, 3, data["nights"])
}

func TestCreateQuoteHandlerRejectsBadPayload(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/quotes", `{"checkin":"2026-12-10","checkout":"2026-12-13"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/quotes",
		`{"agency":"VIAJES ANDINOS","checkin":"not-a-date","checkout":"2026-12-13"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/quotes",
		`{"agency":"VIAJES ANDINOS","checkin":"2026-12-13","checkout":"2026-12-10"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/quotes",
		`{"agency":"VIAJES ANDINOS","year":"1999","checkin":"2026-12-10","checkout":"2026-12-13"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddRoomHandler(t *testing.T) {
	r, _ := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/quotes",
		`{"agency":"VIAJES ANDINOS","checkin":"2026-12-10","checkout":"2026-12-13"}`)

	rec := doJSON(t, r, http.MethodPost, "/quotes/q-1/rooms",
		`{"code":"Classic_DobleMat","qty":1,"taxable":true,"bed":"Doble"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	data := decodeData(t, rec)
	require.Equal(t, "HAB. DOBLE", data["label"])
	price := data["price"].(map[string]any)
	require.Equal(t, "330.00", price["base"])
	require.Equal(t, "300.00", price["netSale"])
	require.Equal(t, "384.00", price["total"])
	require.Equal(t, true, price["taxed"])
}

func TestAddRoomHandlerErrors(t *testing.T) {
	r, _ := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/quotes",
		`{"agency":"VIAJES ANDINOS","checkin":"2026-12-10","checkout":"2026-12-13"}`)

	rec := doJSON(t, r, http.MethodPost, "/quotes/q-1/rooms", `{"code":"Classic_Triple","qty":0}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/quotes/q-1/rooms", `{"code":"Classic_Triple","qty":1,"bed":"Litera"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/quotes/q-1/rooms", `{"code":"Classic_Suite","qty":1}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "RATE_NOT_FOUND")

	rec = doJSON(t, r, http.MethodPost, "/quotes/missing/rooms", `{"code":"Classic_Triple","qty":1}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestAddServiceHandler(t *testing.T) {
	r, _ := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/quotes",
		`{"agency":"VIAJES ANDINOS","checkin":"2026-12-10","checkout":"2026-12-13"}`)

	rec := doJSON(t, r, http.MethodPost, "/quotes/q-1/services",
		`{"code":"Totos_Media_Pension","qty":2,"meal":"Cena","date":"2026-12-11"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	data := decodeData(t, rec)
	require.Equal(t, "MEDIA PENSION", data["label"])
	require.Equal(t, "2026-12-11", data["serviceDate"])
	price := data["price"].(map[string]any)
	require.Equal(t, "90.00", price["total"])

	rec = doJSON(t, r, http.MethodPost, "/quotes/q-1/services",
		`{"code":"Totos_Media_Pension","qty":2,"meal":"Cena","date":"2026-12-20"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/quotes/q-1/services",
		`{"code":"Totos_Media_Pension","qty":2,"meal":"Desayuno","date":"2026-12-11"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRemoveAndClearHandlers(t *testing.T) {
	r, svc := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/quotes",
		`{"agency":"VIAJES ANDINOS","checkin":"2026-12-10","checkout":"2026-12-13"}`)
	doJSON(t, r, http.MethodPost, "/quotes/q-1/rooms", `{"code":"Classic_Triple","qty":1}`)
	doJSON(t, r, http.MethodPost, "/quotes/q-1/rooms", `{"code":"Classic_DobleMat","qty":1}`)

	rec := doJSON(t, r, http.MethodDelete, "/quotes/q-1/items/7", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodDelete, "/quotes/q-1/items/0", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	items, err := svc.Snapshot("q-1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	rec = doJSON(t, r, http.MethodDelete, "/quotes/q-1/items", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	items, err = svc.Snapshot("q-1")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestGetQuoteHandlerListsItems(t *testing.T) {
	r, _ := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/quotes",
		`{"agency":"VIAJES ANDINOS","checkin":"2026-12-10","checkout":"2026-12-13"}`)
	doJSON(t, r, http.MethodPost, "/quotes/q-1/rooms", `{"code":"Classic_Triple","qty":2}`)

	rec := doJSON(t, r, http.MethodGet, "/quotes/q-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	items := data["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	require.Equal(t, "HAB. TRIPLE", item["label"])
	require.EqualValues(t, 3, item["nights"])

	rec = doJSON(t, r, http.MethodGet, "/quotes/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
