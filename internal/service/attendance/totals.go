package attendance

import (
	"sort"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/attendance"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/symbol"
	"github.com/shopspring/decimal"
)

// computeTotals sums the catalog weight of every recorded day of the month into its bucket.
// Records outside (month, year) are ignored. Codes missing from the catalog add nothing
// and are listed in UnknownCodes.
func computeTotals(records []attendance.Record, catalog symbol.Catalog, month, year int) attendance.Totals {
	byDay := make(map[int]string, len(records))
	for _, r := range records {
		if r.Month == month && r.Year == year {
			byDay[r.Day] = r.Status
		}
	}

	totals := attendance.Totals{
		Salary:    decimal.Zero,
		Unpaid:    decimal.Zero,
		Insurance: decimal.Zero,
	}
	lookup := catalog.Lookup()
	unknown := make(map[string]bool)

	for day := 1; day <= attendance.DaysInMonth(month, year); day++ {
		code := byDay[day]
		if code == "" {
			continue
		}
		sym, ok := lookup[code]
		if !ok {
			unknown[code] = true
			continue
		}
		switch sym.Type {
		case symbol.CategorySalary:
			totals.Salary = totals.Salary.Add(sym.Val)
		case symbol.CategoryUnpaid:
			totals.Unpaid = totals.Unpaid.Add(sym.Val)
		case symbol.CategoryInsurance:
			totals.Insurance = totals.Insurance.Add(sym.Val)
		}
	}

	for code := range unknown {
		totals.UnknownCodes = append(totals.UnknownCodes, code)
	}
	sort.Strings(totals.UnknownCodes)
	return totals
}
