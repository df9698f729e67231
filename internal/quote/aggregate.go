// Package quote folds a quotation cart into summary buckets and renders the
// confirmation document.
package quote

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/grupo-inti/backend-quotes/internal/cart"
	"github.com/grupo-inti/backend-quotes/internal/label"
)

// ServiceLine is one per-service output line. Services are never summed into
// a bucket; each keeps its own quantity, label and total in cart order.
type ServiceLine struct {
	Qty   int
	Label string
	Total decimal.Decimal
}

// Summary groups a cart's priced line items into the fixed liquidation
// buckets. It is derived on every render and holds no state of its own.
type Summary struct {
	StandardTotal decimal.Decimal
	HasStandard   bool
	GuideTotal    decimal.Decimal
	HasGuide      bool
	TaxedBase     decimal.Decimal
	TaxedTotal    decimal.Decimal
	HasTaxed      bool
	Services      []ServiceLine

	RoomTexts   []string
	RoomQty     int
	HasBoutique bool
}

// Aggregate partitions line items into summary buckets. Rooms are classified
// in priority order guide, taxed, standard; the guide marker wins even for a
// taxable guide room.
func Aggregate(items []cart.LineItem) Summary {
	var sum Summary
	for _, item := range items {
		switch item.Category {
		case cart.CategoryRoom:
			sum.RoomTexts = append(sum.RoomTexts, fmt.Sprintf("%02d %s", item.Qty, item.DisplayLabel()))
			sum.RoomQty += item.Qty
			if label.IsBoutique(item.Code) {
				sum.HasBoutique = true
			}
			switch {
			case label.IsGuide(item.Code):
				sum.GuideTotal = sum.GuideTotal.Add(item.Price.Total)
				sum.HasGuide = true
			case item.Taxable:
				sum.TaxedBase = sum.TaxedBase.Add(item.Price.Base)
				sum.TaxedTotal = sum.TaxedTotal.Add(item.Price.Total)
				sum.HasTaxed = true
			default:
				sum.StandardTotal = sum.StandardTotal.Add(item.Price.Total)
				sum.HasStandard = true
			}
		case cart.CategoryService:
			// Service codes carry no hotel brand; only rooms pick the header.
			sum.Services = append(sum.Services, ServiceLine{
				Qty:   item.Qty,
				Label: serviceLineLabel(item),
				Total: item.Price.Total,
			})
		}
	}
	return sum
}

func serviceLineLabel(item cart.LineItem) string {
	parts := []string{item.DisplayLabel()}
	if item.Meal != "" {
		parts = append(parts, strings.ToUpper(string(item.Meal)))
	}
	if !item.ServiceDate.IsZero() {
		parts = append(parts, "("+item.ServiceDate.Format("02/01")+")")
	}
	return strings.Join(parts, " ")
}
