package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell identifies one tile of the grid.
type Cell struct {
	I int `json:"i"`
	J int `json:"j"`
}

// Key is the persistence key for the cell, "{i}_{j}". It joins the
// override store and the saved blobs, so the format must not change.
func (c Cell) Key() string {
	return strconv.Itoa(c.I) + "_" + strconv.Itoa(c.J)
}

// Seed is the luck seed for the cell, "{i},{j}".
func (c Cell) Seed() string {
	return strconv.Itoa(c.I) + "," + strconv.Itoa(c.J)
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.I, c.J)
}

// ParseKey is the inverse of Cell.Key. Only keys Cell.Key can produce
// are accepted, so "+0_00" is rejected.
func ParseKey(key string) (Cell, error) {
	raw, rest, ok := strings.Cut(key, "_")
	if !ok {
		return Cell{}, fmt.Errorf("board: malformed cell key %q", key)
	}

	i, err := strconv.Atoi(raw)
	if err != nil {
		return Cell{}, fmt.Errorf("board: malformed cell key %q: %w", key, err)
	}

	j, err := strconv.Atoi(rest)
	if err != nil {
		return Cell{}, fmt.Errorf("board: malformed cell key %q: %w", key, err)
	}

	c := Cell{I: i, J: j}
	if c.Key() != key {
		return Cell{}, fmt.Errorf("board: non-canonical cell key %q", key)
	}
	return c, nil
}

// Point is a continuous-space coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is an axis-aligned rectangle, closed on SouthWest and open on
// NorthEast.
type Bounds struct {
	SouthWest Point `json:"south_west"`
	NorthEast Point `json:"north_east"`
}

// Contains reports whether p lies inside b.
func (b Bounds) Contains(p Point) bool {
	return p.Lat >= b.SouthWest.Lat && p.Lat < b.NorthEast.Lat &&
		p.Lng >= b.SouthWest.Lng && p.Lng < b.NorthEast.Lng
}
