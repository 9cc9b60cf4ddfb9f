// Package palette resolves color names used by styling calls into terminal
// and spreadsheet colors.
package palette

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/gdamore/tcell/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultSize bounds the number of cached lookups.
const DefaultSize = 256

// Color is a resolved color name.
type Color struct {
	Name  string
	TCell tcell.Color
	Hex   string // "#rrggbb"
	Valid bool
}

// Foreground returns black or white, whichever reads better on c.
func (c Color) Foreground() Color {
	if !c.Valid {
		return Color{}
	}
	cf, err := colorful.Hex(c.Hex)
	if err != nil {
		return Color{}
	}
	if l, _, _ := cf.Lab(); l > 0.6 {
		return black
	}
	return white
}

var (
	black = Color{Name: "black", TCell: tcell.NewHexColor(0x000000), Hex: "#000000", Valid: true}
	white = Color{Name: "white", TCell: tcell.NewHexColor(0xffffff), Hex: "#ffffff", Valid: true}
)

// Palette caches name lookups. It is safe for concurrent use.
type Palette struct {
	cache *lru.Cache[string, Color]
}

// New returns a palette caching up to size lookups.
func New(size int) *Palette {
	if size <= 0 {
		size = DefaultSize
	}
	cache, _ := lru.New[string, Color](size)
	return &Palette{cache: cache}
}

// Lookup resolves a W3C color name or a "#rgb"/"#rrggbb" value. Unknown
// names yield an invalid Color.
func (p *Palette) Lookup(name string) Color {
	key := strings.ToLower(strings.TrimSpace(name))
	if c, ok := p.cache.Get(key); ok {
		return c
	}
	c := resolve(key)
	p.cache.Add(key, c)
	return c
}

func resolve(name string) Color {
	c := Color{Name: name}
	if name == "" {
		return c
	}
	tc := tcell.GetColor(name)
	if tc == tcell.ColorDefault && strings.HasPrefix(name, "#") {
		cf, err := colorful.Hex(name)
		if err != nil {
			return c
		}
		r, g, b := cf.RGB255()
		tc = tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	v := tc.Hex()
	if v < 0 {
		return c
	}
	c.TCell = tc.TrueColor()
	c.Hex = fmt.Sprintf("#%06x", v)
	c.Valid = true
	return c
}

// Random returns a random saturated color as "#rrggbb".
func Random(r *rand.Rand) string {
	return colorful.Hsv(r.Float64()*360, 0.5+r.Float64()*0.3, 0.8+r.Float64()*0.2).Clamped().Hex()
}
