package quote

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/grupo-inti/backend-quotes/internal/cart"
	"github.com/grupo-inti/backend-quotes/internal/common"
	"github.com/grupo-inti/backend-quotes/internal/obs"
)

// Handler renders confirmation documents for quotation sessions.
type Handler struct {
	Carts    *cart.Service
	Renderer Renderer
}

// Confirmation aggregates the session's cart and renders the document.
func (h *Handler) Confirmation(w http.ResponseWriter, r *http.Request) {
	if h.Carts == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote handler not configured", nil)
		return
	}
	q, err := h.Carts.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "quotation not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load quotation", nil)
		return
	}

	summary := Aggregate(q.Snapshot())
	doc, err := h.Renderer.Render(summary, q.Checkin, q.Checkout)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			if obs.ConfirmationsRejected != nil {
				obs.ConfirmationsRejected.Inc()
			}
			common.JSONError(w, http.StatusConflict, "EMPTY_CART", "quotation has no items to confirm", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to render confirmation", nil)
		return
	}
	if obs.ConfirmationsRendered != nil {
		obs.ConfirmationsRendered.Inc()
	}

	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"document": doc,
			"deadline": PaymentDeadline(q.Checkin, summary.RoomQty).Format("2006-01-02"),
		},
	})
}
