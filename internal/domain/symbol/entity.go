package symbol

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Category is the payroll bucket a symbol counts toward.
type Category string

const (
	CategorySalary    Category = "SALARY"
	CategoryUnpaid    Category = "UNPAID"
	CategoryInsurance Category = "INSURANCE"
)

func (c Category) IsValid() bool {
	switch c {
	case CategorySalary, CategoryUnpaid, CategoryInsurance:
		return true
	}
	return false
}

// Symbol is one attendance code of the catalog.
type Symbol struct {
	Code  string
	Label string
	Val   decimal.Decimal
	Type  Category
	Order int
}

// Catalog is an ordered list of symbols. Operations return a new Catalog and leave the receiver untouched.
type Catalog []Symbol

// Lookup indexes the catalog by code
func (c Catalog) Lookup() map[string]Symbol {
	idx := make(map[string]Symbol, len(c))
	for _, s := range c {
		idx[s.Code] = s
	}
	return idx
}

// Has reports whether code exists in the catalog
func (c Catalog) Has(code string) bool {
	return c.indexOf(code) >= 0
}

func (c Catalog) Codes() []string {
	codes := make([]string, len(c))
	for i, s := range c {
		codes[i] = s.Code
	}
	return codes
}

func (c Catalog) indexOf(code string) int {
	for i, s := range c {
		if s.Code == code {
			return i
		}
	}
	return -1
}

func (c Catalog) clone() Catalog {
	out := make(Catalog, len(c))
	copy(out, c)
	return out
}

func normalizeCode(code string) string {
	return strings.TrimSpace(code)
}
