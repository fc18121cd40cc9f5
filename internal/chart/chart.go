package chart

import (
	"fmt"

	"github.com/junctionworks/traffic-survey-service/internal/domain"
)

// Anchor positions text relative to its (x, y) point, mirroring the anchor
// points of the original canvas toolkit.
type Anchor string

const (
	AnchorCenter Anchor = "center" // centered on the point
	AnchorSouth  Anchor = "s"      // point is below the text (label above a bar)
	AnchorNorth  Anchor = "n"      // point is above the text (label below the axis)
	AnchorWest   Anchor = "w"      // point is left of the text (legend entries)
)

// Canvas receives the drawing primitives for one chart. Implementations
// decide the output medium; Render only emits commands.
type Canvas interface {
	Line(x1, y1, x2, y2 float64)
	Rect(x1, y1, x2, y2 float64, fill string)
	Text(x, y float64, text string, anchor Anchor)
	// VText draws text rotated 90 degrees for the vertical axis label.
	VText(x, y float64, text string)
}

// Chart geometry. The canvas is wide enough for 24 bar pairs plus axis
// margins; colors match the historical output.
const (
	CanvasWidth  = 1300.0
	CanvasHeight = 500.0

	barWidth = 20.0
	barGap   = 1.0
	pairGap  = 10.0
	xOffset  = 70.0

	elmColor    = "gray"
	hanleyColor = "lightblue"
)

// Render draws the full grouped bar chart for a tally: axes, one Elm and
// one Hanley bar per hour with count labels, hour labels, and the legend.
//
// Bar heights scale by (plot height)/(max+1). When the tally is completely
// empty the scale is zero and every bar collapses to the baseline — a
// defined degenerate rendering, not an error.
func Render(t *Tally, c Canvas) {
	drawAxes(c)
	drawBars(t, c)
	drawLegend(c)
}

func drawAxes(c Canvas) {
	x0, y0 := 50.0, CanvasHeight-50
	xEnd, yEnd := CanvasWidth-50, 50.0

	c.Line(x0, y0, x0, yEnd)
	c.Line(x0, y0, xEnd, y0)

	c.VText(25, (y0+yEnd)/2, "Traffic Volume")
	c.Text((x0+xEnd)/2, y0+40, "Hours 00:00 to 24:00", AnchorCenter)
}

func drawBars(t *Tally, c Canvas) {
	maxCount := t.Max()
	scale := 0.0
	if maxCount > 0 {
		scale = (CanvasHeight - 150) / float64(maxCount+1)
	}
	baseline := CanvasHeight - 50

	for hour, counts := range t.Hours {
		x := xOffset + float64(hour)*(barWidth*2+barGap+pairGap)

		// Elm first, Hanley second — fixed draw order.
		for _, bar := range []struct {
			count int
			fill  string
		}{
			{counts.Elm, elmColor},
			{counts.Hanley, hanleyColor},
		} {
			y := baseline - float64(bar.count)*scale
			c.Rect(x-barWidth/2, y, x+barWidth/2, baseline, bar.fill)
			c.Text(x, y-10, fmt.Sprintf("%d", bar.count), AnchorSouth)
			x += barWidth + barGap
		}

		hourX := xOffset + float64(hour)*(barWidth*2+barGap+pairGap) + barWidth
		c.Text(hourX, CanvasHeight-30, fmt.Sprintf("%02d:00", hour), AnchorNorth)
	}
}

func drawLegend(c Canvas) {
	x, y := CanvasWidth-160, 50.0
	const markerSize, spacing = 15.0, 20.0

	for _, entry := range []struct {
		junction string
		fill     string
	}{
		{domain.JunctionElm, elmColor},
		{domain.JunctionHanley, hanleyColor},
	} {
		c.Rect(x, y, x+markerSize, y+markerSize, entry.fill)
		c.Text(x+markerSize+5, y+markerSize/2, entry.junction, AnchorWest)
		y += spacing
	}
}
