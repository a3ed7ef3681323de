package symbol

import (
	"fmt"

	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/validator"
)

// Direction for MoveAdjacent
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// Upsert replaces the symbol with the same code in place, or appends it.
func (c Catalog) Upsert(s Symbol) Catalog {
	s.Code = normalizeCode(s.Code)
	out := c.clone()
	if i := out.indexOf(s.Code); i >= 0 {
		s.Order = out[i].Order
		out[i] = s
		return out
	}
	s.Order = len(out) + 1
	return append(out, s)
}

// Remove drops the symbol with the given code
func (c Catalog) Remove(code string) (Catalog, error) {
	i := c.indexOf(normalizeCode(code))
	if i < 0 {
		return c, fmt.Errorf("%w: %s", ErrSymbolNotFound, code)
	}
	out := make(Catalog, 0, len(c)-1)
	out = append(out, c[:i]...)
	return append(out, c[i+1:]...), nil
}

// Reorder moves the entry at from to position to, shifting the entries in between.
func (c Catalog) Reorder(from, to int) (Catalog, error) {
	if from < 0 || from >= len(c) || to < 0 || to >= len(c) {
		return c, ErrIndexOutOfRange
	}
	if from == to {
		return c.clone(), nil
	}
	out := c.clone()
	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out, nil
}

// MoveAdjacent swaps the entry at index with its neighbour. Moving past either end is a no-op.
func (c Catalog) MoveAdjacent(index int, dir Direction) (Catalog, error) {
	if dir != Up && dir != Down {
		return c, ErrInvalidDirection
	}
	if index < 0 || index >= len(c) {
		return c, ErrIndexOutOfRange
	}
	target := index + int(dir)
	if target < 0 || target >= len(c) {
		return c.clone(), nil
	}
	out := c.clone()
	out[index], out[target] = out[target], out[index]
	return out, nil
}

// Normalize reassigns Order as position+1
func (c Catalog) Normalize() Catalog {
	out := c.clone()
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

// Validate checks every entry and that codes are unique.
func (c Catalog) Validate() error {
	var errs validator.ValidationErrors
	if len(c) == 0 {
		errs.Add("symbols", "catalog must contain at least one symbol")
		return errs.Err()
	}
	seen := make(map[string]bool, len(c))
	for i, s := range c {
		field := fmt.Sprintf("symbols[%d]", i)
		code := normalizeCode(s.Code)
		if code == "" {
			errs.Add(field+".code", "is required")
		} else if seen[code] {
			errs.Add(field+".code", "duplicate code "+code)
		}
		seen[code] = true
		if s.Val.IsNegative() {
			errs.Add(field+".val", "must not be negative")
		}
		if !s.Type.IsValid() {
			errs.Add(field+".type", "must be one of SALARY, UNPAID, INSURANCE")
		}
	}
	return errs.Err()
}
