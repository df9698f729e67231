package quote

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/grupo-inti/backend-quotes/internal/cart"
	"github.com/grupo-inti/backend-quotes/internal/rates"
)

const confirmationTestTable = "Ano;AGENCIA;Atributo;Valor\n" +
	"2026;VIAJES ANDINOS;Classic_Triple;100\n" +
	"2026;VIAJES ANDINOS;Totos_Media_Pension;45\n"

func newConfirmationRouter(t *testing.T) (*chi.Mux, *cart.Service) {
	t.Helper()
	catalog, err := rates.Parse(strings.NewReader(confirmationTestTable))
	require.NoError(t, err)

	svc := &cart.Service{
		Rates: catalog,
		Store: cart.NewStore(),
		NewID: func() string { return "q-1" },
	}
	h := &Handler{Carts: svc, Renderer: Renderer{Intn: func(int) int { return 2345 }}}

	r := chi.NewRouter()
	r.Post("/quotes/{id}/confirmation", h.Confirmation)
	return r, svc
}

func TestConfirmationHandler(t *testing.T) {
	r, svc := newConfirmationRouter(t)
	checkin := time.Date(2026, 12, 10, 0, 0, 0, 0, time.UTC)
	checkout := time.Date(2026, 12, 13, 0, 0, 0, 0, time.UTC)
	_, err := svc.Open("VIAJES ANDINOS", "2026", checkin, checkout)
	require.NoError(t, err)
	_, err = svc.AddRoom("q-1", "Classic_Triple", 1, false, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/quotes/q-1/confirmation", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Document string `json:"document"`
			Deadline string `json:"deadline"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body.Data.Document, "R-12345")
	require.Contains(t, body.Data.Document, "01 HAB. TRIPLE")
	require.Contains(t, body.Data.Document,
		"      LIQUIDACION ALOJAMIENTO                          :  $ 300.00 DÓLARES")
	require.Equal(t, "2026-11-20", body.Data.Deadline)
}

func TestConfirmationHandlerEmptyCart(t *testing.T) {
	r, svc := newConfirmationRouter(t)
	_, err := svc.Open("VIAJES ANDINOS", "2026",
		time.Date(2026, 12, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/quotes/q-1/confirmation", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "EMPTY_CART")
}

func TestConfirmationHandlerUnknownSession(t *testing.T) {
	r, _ := newConfirmationRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/quotes/missing/confirmation", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
