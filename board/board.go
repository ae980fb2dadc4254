// Package board turns continuous coordinates into grid cells.
//
// A Board is the registry of canonical cells: for any coordinate pair it
// hands out exactly one *Cell, so callers may compare handles from the same
// Board by identity. Handles from different boards must be compared by
// value.
package board

import (
	"math"

	"github.com/puzpuzpuz/xsync/v3"
)

// Board is the cell registry for a grid of fixed tile width.
type Board struct {
	tileWidth float64
	radius    int
	known     *xsync.MapOf[Cell, *Cell]
}

// New creates a Board with the given tile width and default visibility
// radius (in cells).
func New(tileWidth float64, radius int) *Board {
	return &Board{
		tileWidth: tileWidth,
		radius:    radius,
		known:     xsync.NewMapOf[Cell, *Cell](),
	}
}

// TileWidth returns the width of one tile.
func (b *Board) TileWidth() float64 { return b.tileWidth }

// Radius returns the configured visibility radius.
func (b *Board) Radius() int { return b.radius }

// Canonical returns the registered handle for (i, j), registering it on
// first request.
func (b *Board) Canonical(i, j int) *Cell {
	key := Cell{I: i, J: j}
	cell, _ := b.known.LoadOrCompute(key, func() *Cell {
		c := key
		return &c
	})
	return cell
}

// Known returns the number of canonical cells registered so far.
func (b *Board) Known() int {
	return b.known.Size()
}

// CellForPoint returns the cell containing p. Indices are truncated toward
// zero, so the row and column on either side of an axis share index 0.
func (b *Board) CellForPoint(p Point) *Cell {
	i := int(math.Trunc(p.Lat / b.tileWidth))
	j := int(math.Trunc(p.Lng / b.tileWidth))
	return b.Canonical(i, j)
}

// CellBounds returns the rectangle covered by c.
func (b *Board) CellBounds(c Cell) Bounds {
	return Bounds{
		SouthWest: Point{
			Lat: float64(c.I) * b.tileWidth,
			Lng: float64(c.J) * b.tileWidth,
		},
		NorthEast: Point{
			Lat: float64(c.I+1) * b.tileWidth,
			Lng: float64(c.J+1) * b.tileWidth,
		},
	}
}

// CellsNear returns the origin cell for p followed by every cell with
// i in [origin.I-radius, origin.I+radius) and j in [origin.J-radius,
// origin.J+radius), row-major. The origin appears twice when radius >= 1.
func (b *Board) CellsNear(p Point, radius int) []*Cell {
	origin := b.CellForPoint(p)

	span := 2 * radius
	if span < 0 {
		span = 0
	}
	cells := make([]*Cell, 0, 1+span*span)
	cells = append(cells, origin)

	for i := origin.I - radius; i < origin.I+radius; i++ {
		for j := origin.J - radius; j < origin.J+radius; j++ {
			cells = append(cells, b.Canonical(i, j))
		}
	}

	return cells
}

// Neighborhood is CellsNear with the board's configured radius.
func (b *Board) Neighborhood(p Point) []*Cell {
	return b.CellsNear(p, b.radius)
}
