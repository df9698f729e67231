package cart

import (
	"time"

	"github.com/grupo-inti/backend-quotes/internal/label"
	"github.com/grupo-inti/backend-quotes/internal/pricing"
)

// Category distinguishes room-night blocks from per-occurrence services.
type Category string

// Line item categories.
const (
	CategoryRoom    Category = "room"
	CategoryService Category = "service"
)

// Meal is the service period for a restaurant line.
type Meal string

// Recognised meal periods.
const (
	MealAlmuerzo Meal = "Almuerzo"
	MealCena     Meal = "Cena"
)

// Valid reports whether the meal is a recognised period.
func (m Meal) Valid() bool {
	return m == MealAlmuerzo || m == MealCena
}

// LineItem is one priced entry in a quotation cart. It is created with its
// breakdown already computed and never mutated afterwards; removal is the only
// way it leaves the cart.
type LineItem struct {
	Category    Category
	Code        string
	Qty         int
	Nights      int        // rooms only
	Taxable     bool       // rooms only; services are never taxed
	Bed         *label.Bed // explicit bed choice for ambiguous room codes
	Meal        Meal       // services only
	ServiceDate time.Time  // services only
	Price       pricing.Breakdown
}

// DisplayLabel returns the normalized name used on summaries and documents.
func (li LineItem) DisplayLabel() string {
	if li.Category == CategoryService {
		return label.ServiceDisplay(li.Code)
	}
	return label.Normalize(li.Code, li.Bed)
}
