package rates

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates no rate entry exists for the requested key.
var ErrNotFound = errors.New("rate not found")

// ErrEmpty indicates the rate table contained no usable entries.
var ErrEmpty = errors.New("rate table is empty")

// ServicePrefix marks item codes priced per occurrence instead of per night.
const ServicePrefix = "Totos_"

type entryKey struct {
	year   string
	agency string
	code   string
}

// Catalog is an immutable lookup of unit rates keyed by (year, agency, item code).
// It is loaded once at startup and safe for concurrent readers. When the source
// file repeats a key the last row wins.
type Catalog struct {
	values   map[entryKey]decimal.Decimal
	years    []string
	agencies map[string][]string
	items    map[string][]string
}

// Load reads and parses the rate table from the given file path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rate table: %w", err)
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse rate table %s: %w", path, err)
	}
	return c, nil
}

// Parse reads a semicolon-delimited rate table. The header must carry the
// Ano, AGENCIA, Atributo and Valor columns; value strings may embed a currency
// symbol and thousands separators, and unparseable values are treated as zero.
func Parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Ano", "AGENCIA", "Atributo", "Valor"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	c := &Catalog{
		values:   map[entryKey]decimal.Decimal{},
		agencies: map[string][]string{},
		items:    map[string][]string{},
	}
	yearSeen := map[string]bool{}
	agencySeen := map[string]map[string]bool{}
	itemSeen := map[string]map[string]bool{}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		year := field(record, cols["Ano"])
		agency := field(record, cols["AGENCIA"])
		code := field(record, cols["Atributo"])
		if year == "" || code == "" {
			continue
		}
		value := ParseMoney(field(record, cols["Valor"]))
		if value.IsNegative() {
			value = decimal.Zero
		}

		c.values[entryKey{year, agency, code}] = value
		if !yearSeen[year] {
			yearSeen[year] = true
			c.years = append(c.years, year)
		}
		if agencySeen[year] == nil {
			agencySeen[year] = map[string]bool{}
		}
		if !agencySeen[year][agency] {
			agencySeen[year][agency] = true
			c.agencies[year] = append(c.agencies[year], agency)
		}
		group := year + ";" + agency
		if itemSeen[group] == nil {
			itemSeen[group] = map[string]bool{}
		}
		if !itemSeen[group][code] {
			itemSeen[group][code] = true
			c.items[group] = append(c.items[group], code)
		}
	}

	if len(c.values) == 0 {
		return nil, ErrEmpty
	}
	sort.Strings(c.years)
	for _, list := range c.agencies {
		sort.Strings(list)
	}
	return c, nil
}

// Lookup returns the unit rate for (year, agency, code).
func (c *Catalog) Lookup(year, agency, code string) (decimal.Decimal, error) {
	v, ok := c.values[entryKey{year, agency, code}]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s/%s/%s: %w", year, agency, code, ErrNotFound)
	}
	return v, nil
}

// Years lists rate years in ascending order.
func (c *Catalog) Years() []string {
	out := make([]string, len(c.years))
	copy(out, c.years)
	return out
}

// HasYear reports whether any entry exists for the given year.
func (c *Catalog) HasYear(year string) bool {
	_, ok := c.agencies[year]
	return ok
}

// Agencies lists agencies with rates in the given year, sorted.
func (c *Catalog) Agencies(year string) []string {
	list := c.agencies[year]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Items returns the item codes priced for (year, agency), partitioned into
// room codes and per-service codes. Order follows the rate table.
func (c *Catalog) Items(year, agency string) (rooms, services []string) {
	for _, code := range c.items[year+";"+agency] {
		if strings.HasPrefix(code, ServicePrefix) {
			services = append(services, code)
		} else {
			rooms = append(rooms, code)
		}
	}
	return rooms, services
}

// Size returns the number of rate entries loaded.
func (c *Catalog) Size() int {
	return len(c.values)
}

// SeasonYear derives the applicable rate year from a check-in date. Stays
// checking in before April bill against the previous year's table.
func SeasonYear(checkin time.Time) string {
	year := checkin.Year()
	if checkin.Month() < time.April {
		year--
	}
	return fmt.Sprintf("%d", year)
}

// ParseMoney normalizes a raw rate value such as "$1,250.00" to a decimal.
// Unparseable values become zero rather than failing the load.
func ParseMoney(raw string) decimal.Decimal {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return v
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
