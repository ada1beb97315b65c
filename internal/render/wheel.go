// Package render draws wheel-chart artifacts from computed chart data. It
// needs nothing from the computation engine beyond the positions it already
// returned, so rendering happens locally.
package render

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/dmitriyshad-AI/astro-bot/internal/domain"
	"github.com/dmitriyshad-AI/astro-bot/internal/pkg/logger"
)

const (
	canvasSize  = 900
	outerRadius = 400.0
	signRadius  = 360.0
	pointRadius = 300.0
	innerRadius = 230.0
	houseRadius = 250.0
)

var signGlyphs = []string{"♈", "♉", "♊", "♋", "♌", "♍", "♎", "♏", "♐", "♑", "♒", "♓"}

var aspectColors = map[string]color.NRGBA{
	"conjunction": {R: 0x44, G: 0x44, B: 0x44, A: 0xff},
	"opposition":  {R: 0xd0, G: 0x3a, B: 0x3a, A: 0xff},
	"square":      {R: 0xd0, G: 0x3a, B: 0x3a, A: 0xff},
	"trine":       {R: 0x2f, G: 0x7d, B: 0x3a, A: 0xff},
	"sextile":     {R: 0x2f, G: 0x7d, B: 0x3a, A: 0xff},
}

type Wheel struct {
	log  *logger.Logger
	face font.Face
}

// NewWheel prepares the renderer. A TTF set via CHART_FONT gives nicer
// glyphs; without it the built-in bitmap face is used.
func NewWheel(log *logger.Logger) *Wheel {
	w := &Wheel{log: log.With("renderer", "Wheel"), face: basicfont.Face7x13}
	if fontPath := strings.TrimSpace(os.Getenv("CHART_FONT")); fontPath != "" {
		raw, err := os.ReadFile(fontPath)
		if err != nil {
			w.log.Warn("could not read CHART_FONT, falling back to bitmap face", "path", fontPath, "error", err)
			return w
		}
		f, err := truetype.Parse(raw)
		if err != nil {
			w.log.Warn("could not parse CHART_FONT, falling back to bitmap face", "path", fontPath, "error", err)
			return w
		}
		w.face = truetype.NewFace(f, &truetype.Options{Size: 18})
	}
	return w
}

// SaveNatalPNG renders a single-subject wheel to path.
func (w *Wheel) SaveNatalPNG(data *domain.ChartData, path string) error {
	dc := w.newCanvas()
	w.drawZodiac(dc)
	w.drawHouses(dc, data.Houses)
	w.drawAspects(dc, data.Points, data.Aspects)
	w.drawPoints(dc, data.Points, pointRadius)
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save wheel png: %w", err)
	}
	return nil
}

// SaveSynastryPNG renders a bi-wheel: the first subject on the outer ring,
// the second on the inner one.
func (w *Wheel) SaveSynastryPNG(data *domain.SynastryData, path string) error {
	dc := w.newCanvas()
	w.drawZodiac(dc)
	w.drawHouses(dc, data.First.Houses)
	w.drawPoints(dc, data.First.Points, pointRadius)
	w.drawPoints(dc, data.Second.Points, innerRadius-30)
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save synastry png: %w", err)
	}
	return nil
}

func (w *Wheel) newCanvas() *gg.Context {
	dc := gg.NewContext(canvasSize, canvasSize)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(w.face)
	return dc
}

// xy converts an absolute ecliptic longitude to canvas coordinates: 0° Aries
// sits at 9 o'clock and longitude grows counterclockwise.
func xy(absPos, radius float64) (float64, float64) {
	theta := math.Pi - absPos*math.Pi/180
	cx, cy := float64(canvasSize)/2, float64(canvasSize)/2
	return cx + radius*math.Cos(theta), cy - radius*math.Sin(theta)
}

func (w *Wheel) drawZodiac(dc *gg.Context) {
	cx, cy := float64(canvasSize)/2, float64(canvasSize)/2
	dc.SetColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff})
	dc.SetLineWidth(2)
	dc.DrawCircle(cx, cy, outerRadius)
	dc.Stroke()
	dc.DrawCircle(cx, cy, signRadius-30)
	dc.Stroke()
	dc.DrawCircle(cx, cy, innerRadius)
	dc.Stroke()

	dc.SetLineWidth(1)
	for i := 0; i < 12; i++ {
		lon := float64(i) * 30
		x1, y1 := xy(lon, signRadius-30)
		x2, y2 := xy(lon, outerRadius)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()

		gx, gy := xy(lon+15, (outerRadius+signRadius-30)/2)
		dc.DrawStringAnchored(signGlyphs[i], gx, gy, 0.5, 0.5)
	}
}

func (w *Wheel) drawHouses(dc *gg.Context, houses []domain.PointPlacement) {
	dc.SetColor(color.NRGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff})
	dc.SetLineWidth(1)
	for i, h := range houses {
		x1, y1 := xy(h.AbsPos, innerRadius)
		x2, y2 := xy(h.AbsPos, signRadius-30)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()

		lx, ly := xy(h.AbsPos+12, houseRadius)
		dc.DrawStringAnchored(fmt.Sprintf("%d", i+1), lx, ly, 0.5, 0.5)
	}
}

func (w *Wheel) drawPoints(dc *gg.Context, points []domain.PointPlacement, radius float64) {
	for _, p := range points {
		x, y := xy(p.AbsPos, radius)
		dc.SetColor(color.NRGBA{R: 0x1a, G: 0x3a, B: 0x6e, A: 0xff})
		dc.DrawCircle(x, y, 4)
		dc.Fill()
		dc.DrawStringAnchored(shortName(p.Name), x, y-14, 0.5, 0.5)
	}
}

func (w *Wheel) drawAspects(dc *gg.Context, points []domain.PointPlacement, aspects []domain.Aspect) {
	pos := make(map[string]float64, len(points))
	for _, p := range points {
		pos[p.Name] = p.AbsPos
	}
	dc.SetLineWidth(1)
	for _, a := range aspects {
		p1, ok1 := pos[a.P1]
		p2, ok2 := pos[a.P2]
		if !ok1 || !ok2 {
			continue
		}
		col, ok := aspectColors[a.Aspect]
		if !ok {
			col = color.NRGBA{R: 0xbb, G: 0xbb, B: 0xbb, A: 0xff}
		}
		dc.SetColor(col)
		x1, y1 := xy(p1, innerRadius)
		x2, y2 := xy(p2, innerRadius)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}
}

func shortName(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	if len(name) <= 4 {
		return name
	}
	switch name {
	case "Medium Coeli":
		return "MC"
	case "Imum Coeli":
		return "IC"
	case "Ascendant":
		return "Asc"
	case "Descendant":
		return "Desc"
	}
	return name[:3]
}
