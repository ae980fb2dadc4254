// Package geocache derives the coins each cell starts with and encodes a
// cache's current coins as a memento.
package geocache

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-geocache/board"
)

// ErrEmptyCache is returned when a coin is requested from a cache that has
// none. It is an expected condition, not a defect.
var ErrEmptyCache = errors.New("geocache: cache is empty")

// Coin is a token with permanent provenance: the cell it was minted in and
// its serial within that cell.
type Coin struct {
	HomeI  int `json:"i" msgpack:"i"`
	HomeJ  int `json:"j" msgpack:"j"`
	Serial int `json:"serial" msgpack:"serial"`
}

// String renders the coin as "i:j#serial".
func (c Coin) String() string {
	return fmt.Sprintf("%d:%d#%d", c.HomeI, c.HomeJ, c.Serial)
}

// FormatCoins renders coins as a comma separated listing.
func FormatCoins(coins []Coin) string {
	parts := make([]string, len(coins))
	for i, c := range coins {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// Geocache is the current contents of one cell's cache. Coins leave in
// reverse order of arrival.
type Geocache struct {
	Cell  board.Cell
	Coins []Coin
}

// New pairs coins with cell.
func New(cell board.Cell, coins []Coin) *Geocache {
	return &Geocache{Cell: cell, Coins: coins}
}

// Len returns the number of coins in the cache.
func (g *Geocache) Len() int {
	return len(g.Coins)
}

// RemoveCoin pops the last coin.
func (g *Geocache) RemoveCoin() (Coin, error) {
	n := len(g.Coins)
	if n == 0 {
		return Coin{}, ErrEmptyCache
	}

	coin := g.Coins[n-1]
	g.Coins = g.Coins[:n-1]
	return coin, nil
}

// AddCoin appends coin. Any coin may be deposited into any cache.
func (g *Geocache) AddCoin(coin Coin) {
	g.Coins = append(g.Coins, coin)
}

func (g *Geocache) String() string {
	return fmt.Sprintf("%s [%s]", g.Cell, FormatCoins(g.Coins))
}
