package rates

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/grupo-inti/backend-quotes/internal/common"
	"github.com/grupo-inti/backend-quotes/internal/label"
)

// Handler exposes read-only catalog browsing for the form layer.
type Handler struct {
	Catalog *Catalog
}

// RoomItem describes a room code together with the metadata the form needs to
// collect a bed selection for ambiguous codes.
type RoomItem struct {
	Code       string      `json:"code"`
	Label      string      `json:"label"`
	BedOptions []label.Bed `json:"bedOptions,omitempty"`
}

// ServiceItem describes a per-service code.
type ServiceItem struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Years lists available rate years.
func (h *Handler) Years(w http.ResponseWriter, _ *http.Request) {
	if h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "rate catalog not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Catalog.Years()})
}

// Agencies lists agencies with rates in the requested year.
func (h *Handler) Agencies(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "rate catalog not configured", nil)
		return
	}
	year := chi.URLParam(r, "year")
	if !h.Catalog.HasYear(year) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "no rates for year", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Catalog.Agencies(year)})
}

// Items lists item codes priced for (year, agency), split into rooms and
// services. A brand query filters room codes by hotel property.
func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "rate catalog not configured", nil)
		return
	}
	year := chi.URLParam(r, "year")
	agency := chi.URLParam(r, "agency")
	if !h.Catalog.HasYear(year) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "no rates for year", nil)
		return
	}
	brand := strings.TrimSpace(r.URL.Query().Get("brand"))

	roomCodes, serviceCodes := h.Catalog.Items(year, agency)
	rooms := make([]RoomItem, 0, len(roomCodes))
	for _, code := range roomCodes {
		if brand != "" && !strings.Contains(code, brand) {
			continue
		}
		rooms = append(rooms, RoomItem{
			Code:       code,
			Label:      label.Normalize(code, nil),
			BedOptions: label.BedOptions(code),
		})
	}
	services := make([]ServiceItem, 0, len(serviceCodes))
	for _, code := range serviceCodes {
		services = append(services, ServiceItem{Code: code, Label: label.ServiceDisplay(code)})
	}

	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"rooms":    rooms,
			"services": services,
		},
	})
}
