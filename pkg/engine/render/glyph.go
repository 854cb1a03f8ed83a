package render

import (
	"math"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// HexagonGlyph is a filled hexagon with a flat top.
type HexagonGlyph struct{}

func (HexagonGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	pts := make([]vg.Point, 6)
	for i := range pts {
		a := float64(i) * math.Pi / 3
		pts[i] = vg.Point{
			X: pt.X + sty.Radius*vg.Length(math.Cos(a)),
			Y: pt.Y + sty.Radius*vg.Length(math.Sin(a)),
		}
	}
	c.FillPolygon(sty.Color, c.ClipPolygonXY(pts))
}
