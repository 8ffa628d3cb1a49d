/*
 * chemplot.go, part of gopca
 *
 * Copyright 2026 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package chemplot draws 2D projections of trajectory frames, one color and glyph per
// trajectory file.
package chemplot

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Side is the width and height of the saved plots.
var Side = 5 * vg.Inch

var formats = map[string]bool{".png": true, ".svg": true, ".pdf": true, ".eps": true, ".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true}

// Projection saves to path a scatter plot of the first two columns of X.
// groups gives, for each row of X, the index in names of the file the row comes from.
// The format is taken from the extension of path.
func Projection(X mat.Matrix, groups []int, names []string, title, path string) error {
	if X == nil {
		return fmt.Errorf("Projection: Given nil data")
	}
	r, c := X.Dims()
	if c < 2 {
		return fmt.Errorf("Projection: Need 2 columns, got %d", c)
	}
	if len(groups) != r {
		return fmt.Errorf("Projection: %d rows but %d group labels", r, len(groups))
	}
	if !formats[strings.ToLower(filepath.Ext(path))] {
		return fmt.Errorf("Projection: Unsupported plot format %q", filepath.Ext(path))
	}
	pts := make([]plotter.XYs, len(names))
	for i, g := range groups {
		if g < 0 || g >= len(names) {
			return fmt.Errorf("Projection: Group %d of row %d out of range", g, i)
		}
		pts[g] = append(pts[g], plotter.XY{X: X.At(i, 0), Y: X.At(i, 1)})
	}
	p := basicPlot(title)
	for g, xys := range pts {
		if len(xys) == 0 {
			continue
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("Projection: %s: %w", names[g], err)
		}
		r, gr, b := colors(g, len(names))
		s.GlyphStyle.Color = color.RGBA{R: r, G: gr, B: b, A: 255}
		s.GlyphStyle.Shape = glyph(g)
		s.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(s)
		p.Legend.Add(filepath.Base(names[g]), s)
	}
	return p.Save(Side, Side, path)
}

func basicPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "PC1"
	p.Y.Label.Text = "PC2"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

func glyph(key int) draw.GlyphDrawer {
	switch key % 6 {
	case 0:
		return draw.CircleGlyph{}
	case 1:
		return draw.SquareGlyph{}
	case 2:
		return draw.PyramidGlyph{}
	case 3:
		return draw.CrossGlyph{}
	case 4:
		return draw.RingGlyph{}
	default:
		return draw.PlusGlyph{}
	}
}

// colors spreads steps hues over the red to violet range, skipping the yellows,
// which are hard to see on white.
func colors(key, steps int) (r, g, b uint8) {
	norm := 260.0 / float64(steps)
	hp := float64(key)*norm + 20.0
	h := hp + 20.0
	if hp < 55 {
		h = hp - 20.0
	}
	return hsv2RGB(h, 1.0, 0.9)
}

// hsv2RGB takes a hue in degrees and saturation and value between 0 and 1.
func hsv2RGB(h, s, v float64) (uint8, uint8, uint8) {
	if s == 0.0 {
		c := uint8(255 * v)
		return c, c, c
	}
	h = math.Mod(h, 360) / 60
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	var r, g, b float64
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return uint8(255 * r), uint8(255 * g), uint8(255 * b)
}
