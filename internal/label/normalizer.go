// Package label turns compact rate-table item codes into the display names
// used on confirmation documents. Codes look like "Boutique_DobleMat_Rio":
// a hotel-brand prefix, a room-type token, and an optional view suffix.
package label

import "strings"

// Bed is an explicit bed configuration chosen by the caller when the room
// code alone cannot determine it.
type Bed string

// Recognised bed configurations.
const (
	BedSimple      Bed = "Simple"
	BedDoble       Bed = "Doble"
	BedMatrimonial Bed = "Matrimonial"
)

// Valid reports whether the bed value is one of the recognised configurations.
func (b Bed) Valid() bool {
	switch b {
	case BedSimple, BedDoble, BedMatrimonial:
		return true
	}
	return false
}

// Label returns the display form of the bed configuration.
func (b Bed) Label() string {
	return strings.ToUpper(string(b))
}

// brandPrefixes are stripped from the front of room codes.
var brandPrefixes = []string{"Classic_", "Boutique_"}

// viewSuffixes map code markers to the display suffix appended to the label.
var viewSuffixes = []struct {
	Marker string
	Suffix string
}{
	{"_Rio", " VISTA RIO"},
	{"_Ciudad", " VISTA CIUDAD"},
}

// tokenRule resolves a room-type token. Tokens with bed options are ambiguous:
// the true configuration must be chosen upstream, and the fallback label names
// both alternatives rather than picking one.
type tokenRule struct {
	Token    string
	Fallback string
	Options  []Bed
}

var roomTokens = []tokenRule{
	{Token: "DOBLEMAT", Fallback: "MATRIMONIAL/DOBLE", Options: []Bed{BedDoble, BedMatrimonial}},
	{Token: "SIMPLEMAT", Fallback: "SIMPLE/MATRIMONIAL", Options: []Bed{BedSimple, BedMatrimonial}},
	{Token: "TRIPLE", Fallback: "TRIPLE"},
	{Token: "GUIA", Fallback: "GUIA"},
}

// Normalize converts a room item code into its display label. An explicit bed
// selection always wins over the code's own bed token; without one, ambiguous
// tokens fall back to their documented alias and unrecognised tokens pass
// through upper-cased.
func Normalize(code string, bed *Bed) string {
	rest := code
	for _, prefix := range brandPrefixes {
		rest = strings.ReplaceAll(rest, prefix, "")
	}

	suffix := ""
	for _, view := range viewSuffixes {
		if strings.Contains(rest, view.Marker) {
			suffix = view.Suffix
			rest = strings.ReplaceAll(rest, view.Marker, "")
			break
		}
	}

	mainType := strings.ToUpper(rest)
	if bed != nil {
		mainType = bed.Label()
	} else {
		for _, rule := range roomTokens {
			if strings.Contains(mainType, rule.Token) {
				mainType = rule.Fallback
				break
			}
		}
	}

	return "HAB. " + mainType + suffix
}

// BedOptions returns the bed configurations a caller must choose between for
// an ambiguous code, or nil when the code needs no selection.
func BedOptions(code string) []Bed {
	upper := strings.ToUpper(code)
	for _, rule := range roomTokens {
		if len(rule.Options) > 0 && strings.Contains(upper, rule.Token) {
			return append([]Bed(nil), rule.Options...)
		}
	}
	return nil
}

// RequiresBedChoice reports whether the code's bed configuration is ambiguous.
func RequiresBedChoice(code string) bool {
	return len(BedOptions(code)) > 0
}

// IsGuide reports whether the code marks a guide room.
func IsGuide(code string) bool {
	return strings.Contains(strings.ToUpper(code), "GUIA")
}

// IsBoutique reports whether the code belongs to the boutique property.
func IsBoutique(code string) bool {
	return strings.Contains(code, "Boutique")
}

// ServiceDisplay converts a per-service item code into its display name:
// prefix stripped, underscores replaced by spaces, upper-cased.
func ServiceDisplay(code string) string {
	name := strings.TrimPrefix(code, "Totos_")
	return strings.ToUpper(strings.ReplaceAll(name, "_", " "))
}
