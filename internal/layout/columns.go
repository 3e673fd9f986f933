// Package layout chooses a visually balanced responsive grid for a listing of
// arbitrary size. Given a record count it picks a column count that divides
// the items evenly (or nearly so), preferring mid-width grids, and expands it
// into per-breakpoint values from smallest to largest viewport.
package layout

import "fmt"

// Columns holds the column count at each of the five responsive breakpoints,
// smallest to largest.
type Columns struct {
	XS int `json:"xs"`
	SM int `json:"sm"`
	MD int `json:"md"`
	LG int `json:"lg"`
	XL int `json:"xl"`
}

// Token renders the breakpoint column counts as a single display token,
// e.g. "2/3/4/5/6".
func (c Columns) Token() string {
	return fmt.Sprintf("%d/%d/%d/%d/%d", c.XS, c.SM, c.MD, c.LG, c.XL)
}

// ForWidth maps a terminal or viewport width in cells to the column count of
// the matching breakpoint.
func (c Columns) ForWidth(width int) int {
	switch {
	case width < 60:
		return c.XS
	case width < 90:
		return c.SM
	case width < 120:
		return c.MD
	case width < 150:
		return c.LG
	default:
		return c.XL
	}
}

// DefaultColumns is the fallback grid used for empty listings and counts no
// candidate fits.
var DefaultColumns = Columns{XS: 2, SM: 3, MD: 4, LG: 5, XL: 6}

// preference is the fixed candidate order for the largest breakpoint's column
// count. Mid-width grids first; 3 and 2 are last resorts.
var preference = [...]int{4, 5, 6, 3, 2}

// SelectColumns picks the responsive grid for count items. It is a pure
// function: the same count always yields the same Columns.
//
// A first pass returns the first preferred candidate that divides count
// evenly. A second pass relaxes the fit: a candidate larger than the whole
// listing is fine (count fits in a single row), as is a near-fit leaving at
// most two empty trailing cells. If nothing matches, the default grid is used.
func SelectColumns(count int) Columns {
	if count <= 0 {
		return DefaultColumns
	}

	for _, c := range preference {
		if count%c == 0 {
			return responsiveFor(c)
		}
	}

	for _, c := range preference {
		r := count % c
		if r == 0 || c%count == 0 || r <= 2 {
			return responsiveFor(c)
		}
	}

	return DefaultColumns
}

// responsiveFor expands a largest-breakpoint column count into the full
// breakpoint sequence: smaller breakpoints step down through 2/3/4/5 but
// never exceed the chosen count.
func responsiveFor(c int) Columns {
	return Columns{
		XS: min(2, c),
		SM: min(3, c),
		MD: min(4, c),
		LG: min(5, c),
		XL: c,
	}
}
