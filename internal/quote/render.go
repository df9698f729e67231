package quote

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrEmptyCart indicates a render was requested for a quotation with no items.
var ErrEmptyCart = errors.New("quotation has no items")

// Hotel identity headers. Any boutique-tagged item selects the boutique block.
const (
	headerBoutique = "Es un placer recibirte en el Hotel HATUN INTI BOUTIQUE- 04 ESTRELLAS(Imperio de los Incas N° 606, Aguas Calientes- Cusco)"
	headerClassic  = "Es un placer recibirte en el Hotel HATUN INTI CLASSIC-03 ESTRELLAS (Av. Pachacútec 606, Aguas Calientes)"
)

// Payment deadline rule: carts holding more than three rooms in total must
// confirm 45 days before check-in, smaller ones 20 days.
const (
	deadlineDaysLarge   = 45
	deadlineDaysSmall   = 20
	deadlineRoomCutover = 3
)

// Renderer produces confirmation documents. The random source behind the
// reservation code is injectable so tests can pin the output.
type Renderer struct {
	Intn func(n int) int
}

func (r Renderer) intn(n int) int {
	if r.Intn != nil {
		return r.Intn(n)
	}
	return rand.Intn(n)
}

// ReservationCode generates a fresh identifier of the shape R-12345. Codes are
// not stable across re-renders of the same cart.
func (r Renderer) ReservationCode() string {
	return fmt.Sprintf("R-%d", 10000+r.intn(90000))
}

// PaymentDeadline derives the confirmation-and-payment cutoff from the
// check-in date and the cart's total room quantity.
func PaymentDeadline(checkin time.Time, roomQty int) time.Time {
	days := deadlineDaysSmall
	if roomQty > deadlineRoomCutover {
		days = deadlineDaysLarge
	}
	return checkin.AddDate(0, 0, -days)
}

// Render assembles the confirmation text. The literal labels, date formats and
// whitespace are a fixed contract consumers copy verbatim.
func (r Renderer) Render(sum Summary, checkin, checkout time.Time) (string, error) {
	if len(sum.RoomTexts) == 0 && len(sum.Services) == 0 {
		return "", ErrEmptyCart
	}

	header := headerClassic
	if sum.HasBoutique {
		header = headerBoutique
	}

	accommodation := "NINGUNA"
	if len(sum.RoomTexts) > 0 {
		accommodation = strings.Join(sum.RoomTexts, " + ")
	}

	var liquidation []string
	if sum.HasStandard {
		liquidation = append(liquidation, fmt.Sprintf(
			"      LIQUIDACION ALOJAMIENTO                          :  $ %s DÓLARES",
			FormatMoney(sum.StandardTotal)))
	}
	if sum.HasGuide {
		liquidation = append(liquidation, fmt.Sprintf(
			"          LIQUIDACION ALOJAMIENTO GUIA                 : $ %s DÓLARES",
			FormatMoney(sum.GuideTotal)))
	}
	if sum.HasTaxed {
		liquidation = append(liquidation, fmt.Sprintf(
			"LIQUIDACION ALOJAMIENTO GRAVADO : $%s DÓLARES (%s+IGV18%%)",
			FormatMoney(sum.TaxedTotal), FormatMoney(sum.TaxedBase)))
	}
	for _, line := range sum.Services {
		liquidation = append(liquidation, fmt.Sprintf(
			"          %s %02d PAX : $%s DÓLARES",
			line.Label, line.Qty, FormatMoney(line.Total)))
	}

	deadline := PaymentDeadline(checkin, sum.RoomQty)

	doc := fmt.Sprintf(`Buen día:   MEDIANTE LA PRESENTE CONFIRMO LA RESERVA EN MENCIÓN

      %s

     IMPORTANTE: Una vez recibido el correo, verifique que la fecha enviada sea la correcta, a fin de evitar inconvenientes por falta de disponibilidad.

      CÓDIGO DE RESERVA  / NOMBRE PAX/  FILE  : %s

      ACOMODACIÓN   (TIPO DE HABITACIÓN)       : %s

      CHECK-IN         13 pm                                          : %s

      CHECK-OUT       10 am                                      : %s

      DESAYUNO -HORARIO  5 am a 10 am              : INCLUIDO

%s

      FECHA LÍMITE DE CONFIRMACIÓN Y PAGO:   %s`,
		header,
		r.ReservationCode(),
		accommodation,
		checkin.Format("02/01/2006"),
		checkout.Format("02/01/2006"),
		strings.Join(liquidation, "\n\n"),
		deadline.Format("02/01/2006"),
	)
	return doc, nil
}

// FormatMoney renders an amount with two decimals and comma thousands
// separators, matching the document's $X,XXX.XX contract.
func FormatMoney(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	out := b.String() + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
