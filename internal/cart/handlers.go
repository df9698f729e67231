package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/grupo-inti/backend-quotes/internal/common"
	"github.com/grupo-inti/backend-quotes/internal/label"
	"github.com/grupo-inti/backend-quotes/internal/obs"
	"github.com/grupo-inti/backend-quotes/internal/pricing"
	"github.com/grupo-inti/backend-quotes/internal/rates"
)

const dateLayout = "2006-01-02"

// Handler wires quotation cart operations to HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type createPayload struct {
	Agency   string `json:"agency" validate:"required"`
	Year     string `json:"year"`
	Checkin  string `json:"checkin" validate:"required"`
	Checkout string `json:"checkout" validate:"required"`
}

type addRoomPayload struct {
	Code    string `json:"code" validate:"required"`
	Qty     int    `json:"qty" validate:"min=1"`
	Taxable bool   `json:"taxable"`
	Bed     string `json:"bed" validate:"omitempty,oneof=Simple Doble Matrimonial"`
}

type addServicePayload struct {
	Code string `json:"code" validate:"required"`
	Qty  int    `json:"qty" validate:"min=1"`
	Meal string `json:"meal" validate:"required,oneof=Almuerzo Cena"`
	Date string `json:"date" validate:"required"`
}

// itemView is the JSON shape of a priced line item.
type itemView struct {
	Category    Category      `json:"category"`
	Code        string        `json:"code"`
	Label       string        `json:"label"`
	Qty         int           `json:"qty"`
	Nights      int           `json:"nights,omitempty"`
	Taxable     bool          `json:"taxable"`
	Bed         *label.Bed    `json:"bed,omitempty"`
	Meal        Meal          `json:"meal,omitempty"`
	ServiceDate string        `json:"serviceDate,omitempty"`
	Price       breakdownView `json:"price"`
}

type breakdownView struct {
	Base    string `json:"base"`
	NetSale string `json:"netSale"`
	Total   string `json:"total"`
	Taxed   bool   `json:"taxed"`
}

func viewOf(item LineItem) itemView {
	v := itemView{
		Category: item.Category,
		Code:     item.Code,
		Label:    item.DisplayLabel(),
		Qty:      item.Qty,
		Nights:   item.Nights,
		Taxable:  item.Taxable,
		Bed:      item.Bed,
		Meal:     item.Meal,
		Price: breakdownView{
			Base:    item.Price.Base.StringFixed(2),
			NetSale: item.Price.NetSale.StringFixed(2),
			Total:   item.Price.Total.StringFixed(2),
			Taxed:   item.Price.Taxed,
		},
	}
	if !item.ServiceDate.IsZero() {
		v.ServiceDate = item.ServiceDate.Format(dateLayout)
	}
	return v
}

// Create opens a quotation session for a stay window.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if err := h.validate(payload); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid payload", err.Error())
		return
	}
	checkin, err := time.Parse(dateLayout, payload.Checkin)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid checkin date", nil)
		return
	}
	checkout, err := time.Parse(dateLayout, payload.Checkout)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid checkout date", nil)
		return
	}
	q, err := h.Svc.Open(payload.Agency, payload.Year, checkin, checkout)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{
		"data": map[string]any{
			"id":       q.ID,
			"agency":   q.Agency,
			"year":     q.Year,
			"checkin":  q.Checkin.Format(dateLayout),
			"checkout": q.Checkout.Format(dateLayout),
			"nights":   q.Nights(),
		},
	})
}

// Get returns the session snapshot with priced items.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	q, err := h.Svc.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	items := q.Snapshot()
	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, viewOf(item))
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"id":       q.ID,
			"agency":   q.Agency,
			"year":     q.Year,
			"checkin":  q.Checkin.Format(dateLayout),
			"checkout": q.Checkout.Format(dateLayout),
			"nights":   q.Nights(),
			"items":    views,
		},
	})
}

// AddRoom prices and appends a room block to the session.
func (h *Handler) AddRoom(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var payload addRoomPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if err := h.validate(payload); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid payload", err.Error())
		return
	}
	var bed *label.Bed
	if payload.Bed != "" {
		b := label.Bed(payload.Bed)
		bed = &b
	}
	item, err := h.Svc.AddRoom(chi.URLParam(r, "id"), payload.Code, payload.Qty, payload.Taxable, bed)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if obs.LineItemsAdded != nil {
		obs.LineItemsAdded.WithLabelValues(string(CategoryRoom)).Inc()
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": viewOf(item)})
}

// AddService prices and appends a per-occurrence service to the session.
func (h *Handler) AddService(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var payload addServicePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if err := h.validate(payload); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid payload", err.Error())
		return
	}
	date, err := time.Parse(dateLayout, payload.Date)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid service date", nil)
		return
	}
	item, err := h.Svc.AddService(chi.URLParam(r, "id"), payload.Code, payload.Qty, Meal(payload.Meal), date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if obs.LineItemsAdded != nil {
		obs.LineItemsAdded.WithLabelValues(string(CategoryService)).Inc()
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": viewOf(item)})
}

// RemoveItem deletes one line item by position.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	index := common.AtoiDefault(chi.URLParam(r, "index"), -1)
	if err := h.Svc.Remove(chi.URLParam(r, "id"), index); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear removes every line item from the session.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	if err := h.Svc.Clear(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, rates.ErrNotFound) && obs.RateLookupMisses != nil {
		obs.RateLookupMisses.Inc()
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	switch {
	case errors.Is(err, rates.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "RATE_NOT_FOUND", "no rate for the requested item", nil)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "quotation not found", nil)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, pricing.ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unexpected error", nil)
	}
}
