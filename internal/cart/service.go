package cart

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/grupo-inti/backend-quotes/internal/common"
	"github.com/grupo-inti/backend-quotes/internal/label"
	"github.com/grupo-inti/backend-quotes/internal/pricing"
	"github.com/grupo-inti/backend-quotes/internal/rates"
)

// ErrNotFound indicates the requested quotation session could not be located.
var ErrNotFound = errors.New("quotation not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// Service encapsulates quotation cart operations: it validates input, resolves
// unit rates, and prices line items at add time so a failed lookup or invalid
// payload never leaves a partial item behind.
type Service struct {
	Rates *rates.Catalog
	Store *Store
	NewID func() string
}

// Errors cross the service boundary as *common.AppError so the HTTP layer can
// map them without per-handler switches. The underlying sentinel stays
// reachable through Unwrap for errors.Is callers.
func badInput(message string) error {
	return common.NewAppError("BAD_REQUEST", message, http.StatusBadRequest,
		fmt.Errorf("%s: %w", message, ErrInvalidInput))
}

func rateMiss(err error) error {
	return common.NewAppError("RATE_NOT_FOUND", "no rate for the requested item", http.StatusNotFound, err)
}

func (s *Service) newID() string {
	if s != nil && s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// Open creates a quotation session for the given agency and stay window.
// An empty year derives the rate year from the check-in date.
func (s *Service) Open(agency, year string, checkin, checkout time.Time) (*Quotation, error) {
	if s == nil || s.Store == nil || s.Rates == nil {
		return nil, errors.New("cart service not configured")
	}
	if !checkout.After(checkin) {
		return nil, badInput("checkout must be after checkin")
	}
	if year == "" {
		year = rates.SeasonYear(checkin)
	}
	if !s.Rates.HasYear(year) {
		return nil, rateMiss(fmt.Errorf("no rates for year %s: %w", year, rates.ErrNotFound))
	}
	q := &Quotation{
		ID:       s.newID(),
		Agency:   agency,
		Year:     year,
		Checkin:  checkin,
		Checkout: checkout,
	}
	s.Store.Put(q)
	return q, nil
}

// Get returns the quotation session with the given id.
func (s *Service) Get(id string) (*Quotation, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("cart service not configured")
	}
	q, ok := s.Store.Get(id)
	if !ok {
		return nil, common.NewAppError("NOT_FOUND", "quotation not found", http.StatusNotFound, ErrNotFound)
	}
	return q, nil
}

// AddRoom prices and appends a room block. The rate lookup must succeed and
// the quantity be positive or the cart is left unchanged.
func (s *Service) AddRoom(id, code string, qty int, taxable bool, bed *label.Bed) (LineItem, error) {
	q, err := s.Get(id)
	if err != nil {
		return LineItem{}, err
	}
	if qty < 1 {
		return LineItem{}, badInput("qty must be positive")
	}
	if bed != nil && !bed.Valid() {
		return LineItem{}, badInput(fmt.Sprintf("unknown bed configuration %q", *bed))
	}
	unit, err := s.Rates.Lookup(q.Year, q.Agency, code)
	if err != nil {
		return LineItem{}, rateMiss(err)
	}
	breakdown, err := pricing.PriceRoom(unit, qty, q.Nights(), taxable)
	if err != nil {
		return LineItem{}, err
	}
	item := LineItem{
		Category: CategoryRoom,
		Code:     code,
		Qty:      qty,
		Nights:   q.Nights(),
		Taxable:  taxable,
		Bed:      bed,
		Price:    breakdown,
	}
	q.add(item)
	return item, nil
}

// AddService prices and appends a per-occurrence service. The service date
// must lie within the stay window, inclusive on both ends; out-of-range dates
// are rejected rather than clamped.
func (s *Service) AddService(id, code string, qty int, meal Meal, serviceDate time.Time) (LineItem, error) {
	q, err := s.Get(id)
	if err != nil {
		return LineItem{}, err
	}
	if qty < 1 {
		return LineItem{}, badInput("qty must be positive")
	}
	if !meal.Valid() {
		return LineItem{}, badInput(fmt.Sprintf("unknown meal period %q", meal))
	}
	if serviceDate.Before(q.Checkin) || serviceDate.After(q.Checkout) {
		return LineItem{}, badInput("service date outside the stay window")
	}
	unit, err := s.Rates.Lookup(q.Year, q.Agency, code)
	if err != nil {
		return LineItem{}, rateMiss(err)
	}
	breakdown, err := pricing.PriceService(unit, qty)
	if err != nil {
		return LineItem{}, err
	}
	item := LineItem{
		Category:    CategoryService,
		Code:        code,
		Qty:         qty,
		Meal:        meal,
		ServiceDate: serviceDate,
		Price:       breakdown,
	}
	q.add(item)
	return item, nil
}

// Remove deletes the line item at the given position.
func (s *Service) Remove(id string, index int) error {
	q, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := q.Remove(index); err != nil {
		return common.NewAppError("BAD_REQUEST", "item index out of range", http.StatusBadRequest, err)
	}
	return nil
}

// Clear removes every line item from the session.
func (s *Service) Clear(id string) error {
	q, err := s.Get(id)
	if err != nil {
		return err
	}
	q.Clear()
	return nil
}

// Snapshot returns the session's current line items in insertion order.
func (s *Service) Snapshot(id string) ([]LineItem, error) {
	q, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return q.Snapshot(), nil
}
