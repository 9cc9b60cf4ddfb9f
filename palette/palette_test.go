package palette

import (
	"math/rand/v2"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupNames(t *testing.T) {
	p := New(0)

	red := p.Lookup("red")
	require.True(t, red.Valid)
	assert.Equal(t, "#ff0000", red.Hex)

	green := p.Lookup(" LightGreen ")
	require.True(t, green.Valid)
	assert.Equal(t, "#90ee90", green.Hex)
	assert.Equal(t, tcell.NewHexColor(0x90ee90), green.TCell)
}

func TestLookupHex(t *testing.T) {
	p := New(8)

	c := p.Lookup("#336699")
	require.True(t, c.Valid)
	assert.Equal(t, "#336699", c.Hex)

	short := p.Lookup("#fff")
	require.True(t, short.Valid)
	assert.Equal(t, "#ffffff", short.Hex)
}

func TestLookupUnknown(t *testing.T) {
	p := New(8)
	assert.False(t, p.Lookup("notacolor").Valid)
	assert.False(t, p.Lookup("").Valid)
	assert.False(t, p.Lookup("#zzzzzz").Valid)
}

func TestLookupIsCached(t *testing.T) {
	p := New(8)
	p.Lookup("red")
	p.Lookup("RED")
	assert.Equal(t, 1, p.cache.Len())
}

func TestForegroundContrast(t *testing.T) {
	p := New(8)
	assert.Equal(t, "#000000", p.Lookup("lightgreen").Foreground().Hex)
	assert.Equal(t, "#ffffff", p.Lookup("navy").Foreground().Hex)
	assert.False(t, Color{}.Foreground().Valid)
}

func TestRandomIsDeterministic(t *testing.T) {
	a := Random(rand.New(rand.NewPCG(1, 2)))
	b := Random(rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, a, b)
	assert.True(t, New(4).Lookup(a).Valid)
}
