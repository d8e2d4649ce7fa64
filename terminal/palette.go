package terminal

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

type rgb struct{ r, g, b int32 }

var (
	backgroundColor = rgb{250, 248, 239}
	boardColor      = rgb{187, 173, 160}
	emptyColor      = rgb{205, 193, 180}
	overlayColor    = rgb{238, 228, 218}
	darkText        = rgb{119, 110, 101}
	lightText       = rgb{249, 246, 242}

	// Tiles past the table share one dark color
	superTile = rgb{60, 58, 50}
)

var tileColors = map[int]rgb{
	2:    {238, 228, 218},
	4:    {237, 224, 200},
	8:    {242, 177, 121},
	16:   {245, 149, 99},
	32:   {246, 124, 95},
	64:   {246, 94, 59},
	128:  {237, 207, 114},
	256:  {237, 204, 97},
	512:  {237, 200, 80},
	1024: {237, 197, 63},
	2048: {237, 194, 46},
}

func tileColor(value int) rgb {
	if c, ok := tileColors[value]; ok {
		return c
	}
	return superTile
}

func textColor(value int) rgb {
	if value <= 4 {
		return darkText
	}
	return lightText
}

// blend moves c toward target by a in [0,1]
func blend(c, target rgb, a float64) rgb {
	mix := func(x, y int32) int32 {
		return x + int32(math.Round(float64(y-x)*a))
	}
	return rgb{mix(c.r, target.r), mix(c.g, target.g), mix(c.b, target.b)}
}

func (c rgb) color() tcell.Color {
	return tcell.NewRGBColor(c.r, c.g, c.b)
}
