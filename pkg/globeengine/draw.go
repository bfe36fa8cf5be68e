package globeengine

import (
	"fmt"
	"image/color"
	"math"

	"github.com/biter777/countries"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sudorandom/route-globe/pkg/geo"
	"github.com/sudorandom/route-globe/pkg/scene"
)

const planeSize = 7.0

func (e *Engine) Draw(screen *ebiten.Image) {
	screen.Fill(ColorBackground)

	centre := e.camera.Centre()
	vector.DrawFilledCircle(screen, float32(centre.X), float32(centre.Y), float32(e.camera.Radius()), ColorWater, true)

	if e.landImage == nil {
		e.landImage = ebiten.NewImage(e.Width, e.Height)
	}
	if e.landDirty || e.land == nil {
		e.landImage.WritePixels(e.landRaster().Pix)
	}
	screen.DrawImage(e.landImage, nil)

	e.drawRoutes(screen)
	e.drawMarkers(screen)
	e.drawPlanes(screen)
	e.drawLegend(screen)

	e.frame++
	if e.FrameCaptureDir != "" && e.frame%uint64(e.CaptureEvery) == 0 {
		e.captureFrame(screen, fmt.Sprintf("%06d", e.frame))
	}
}

func scaled(c color.RGBA, alpha float64) color.RGBA {
	a := math.Max(0, math.Min(1, alpha))
	return color.RGBA{uint8(float64(c.R) * a), uint8(float64(c.G) * a), uint8(float64(c.B) * a), uint8(float64(c.A) * a)}
}

func (e *Engine) drawRoutes(screen *ebiten.Image) {
	for _, el := range e.scene.Elements(scene.Route) {
		if el.Opacity <= 0 {
			continue
		}
		col := scaled(ColorRoute, el.Opacity*0.6)
		for _, sp := range el.Path.Subpaths {
			for i := 1; i < len(sp); i++ {
				vector.StrokeLine(screen, float32(sp[i-1].X), float32(sp[i-1].Y), float32(sp[i].X), float32(sp[i].Y), 1.5, col, true)
			}
		}
	}
}

func (e *Engine) drawMarkers(screen *ebiten.Image) {
	for _, el := range e.scene.Elements(scene.Marker) {
		if !el.Visible || el.Radius <= 0 {
			continue
		}
		col := ColorCity
		if el == e.hovered {
			col = ColorPlane
		}
		vector.DrawFilledCircle(screen, float32(el.Pos.X), float32(el.Pos.Y), float32(el.Radius), col, true)
	}
	if home, ok := e.camera.Project(e.data.Home.Position()); ok {
		vector.DrawFilledCircle(screen, float32(home.X), float32(home.Y), float32(e.cfg.Scene.MarkerRadius+1), ColorHome, true)
	}
}

// planeGlyph returns the tip and the two rear corners of a plane at (x, y).
// Heading 0 points up the screen and grows clockwise.
func planeGlyph(x, y, heading, size float64) [3]geo.Point {
	rad := heading * math.Pi / 180
	at := func(fwd, side float64) geo.Point {
		return geo.Point{
			X: x + fwd*math.Sin(rad) + side*math.Cos(rad),
			Y: y - fwd*math.Cos(rad) + side*math.Sin(rad),
		}
	}
	return [3]geo.Point{at(size, 0), at(-size*0.6, -size*0.6), at(-size*0.6, size*0.6)}
}

func (e *Engine) drawPlanes(screen *ebiten.Image) {
	for _, p := range e.flights.Planes() {
		if !p.Visible {
			continue
		}
		g := planeGlyph(p.X, p.Y, p.Heading, planeSize)
		for i := range g {
			a, b := g[i], g[(i+1)%len(g)]
			vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1.5, ColorPlane, true)
		}
	}
}

func (e *Engine) legendLines() []string {
	f := e.filters
	lines := []string{
		fmt.Sprintf("Temperature  %.0f to %.0f C", f.Temperature.Min, f.Temperature.Max),
		fmt.Sprintf("Flight time  %.0f to %.0f min", f.Duration.Min, f.Duration.Max),
		fmt.Sprintf("Routes %d   Planes %d", len(e.scene.LiveRoutes()), e.flights.Len()),
	}
	if name := e.cfg.Data.FocusCountry; name != "" {
		if code := countries.ByName(name); code != countries.Unknown {
			lines = append(lines, fmt.Sprintf("Home  %s, %s", e.data.Home.ID, code.Alpha2()))
		}
	}
	if e.hovered != nil {
		p := e.hovered.Feature.Properties
		label := p.City
		if label == "" {
			label = e.hovered.Key
		}
		if p.Company.Name != "" {
			label += "  " + p.Company.Name
		}
		lines = append(lines, label)
	}
	return lines
}

func (e *Engine) drawLegend(screen *ebiten.Image) {
	margin, fontSize, spacing := 20.0, 14.0, 20.0
	if e.Width > 2000 {
		margin, fontSize, spacing = 40.0, 28.0, 40.0
	}
	lines := e.legendLines()
	boxW, boxH := fontSize*20, spacing*float64(len(lines))+10
	lx, ly := margin, float64(e.Height)-margin-boxH

	vector.DrawFilledRect(screen, float32(lx-10), float32(ly-5), float32(boxW), float32(boxH), color.RGBA{0, 0, 0, 100}, false)
	vector.StrokeRect(screen, float32(lx-10), float32(ly-5), float32(boxW), float32(boxH), 1, ColorOutline, false)
	vector.DrawFilledRect(screen, float32(lx-10), float32(ly-5), 4, float32(boxH), ColorRoute, false)

	if e.fontSource == nil {
		return
	}
	face := &text.GoTextFace{Source: e.fontSource, Size: fontSize}
	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(lx, ly+float64(i)*spacing)
		op.ColorScale.Scale(1, 1, 1, 0.8)
		text.Draw(screen, line, face, op)
	}
}
