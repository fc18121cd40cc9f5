package chart

import (
	"fmt"
	"io"
	"strings"
)

// SVGCanvas renders draw commands as an SVG document. The chart artifact
// is a plain file rather than a window, so it can be opened in a browser
// or embedded elsewhere.
type SVGCanvas struct {
	elements []string
	title    string
}

// NewSVGCanvas creates an empty canvas. The title is rendered above the
// plot area, typically "Traffic Data Histogram - DDMMYYYY".
func NewSVGCanvas(title string) *SVGCanvas {
	return &SVGCanvas{title: title}
}

func (s *SVGCanvas) Line(x1, y1, x2, y2 float64) {
	s.elements = append(s.elements, fmt.Sprintf(
		`<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="black" stroke-width="2"/>`,
		x1, y1, x2, y2))
}

func (s *SVGCanvas) Rect(x1, y1, x2, y2 float64, fill string) {
	s.elements = append(s.elements, fmt.Sprintf(
		`<rect x="%g" y="%g" width="%g" height="%g" fill="%s" stroke="black"/>`,
		x1, y1, x2-x1, y2-y1, fill))
}

func (s *SVGCanvas) Text(x, y float64, text string, anchor Anchor) {
	s.elements = append(s.elements, fmt.Sprintf(
		`<text x="%g" y="%g" font-size="11" text-anchor="%s"%s>%s</text>`,
		x, y, svgTextAnchor(anchor), svgBaseline(anchor), escape(text)))
}

func (s *SVGCanvas) VText(x, y float64, text string) {
	s.elements = append(s.elements, fmt.Sprintf(
		`<text x="%g" y="%g" font-size="14" font-weight="bold" text-anchor="middle" transform="rotate(-90 %g %g)">%s</text>`,
		x, y, x, y, escape(text)))
}

// WriteTo writes the complete SVG document.
func (s *SVGCanvas) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" style="background:white">`+"\n",
		CanvasWidth, CanvasHeight)
	if s.title != "" {
		fmt.Fprintf(&b, `<text x="%g" y="25" font-size="16" font-weight="bold" text-anchor="middle">%s</text>`+"\n",
			CanvasWidth/2, escape(s.title))
	}
	for _, el := range s.elements {
		b.WriteString(el)
		b.WriteString("\n")
	}
	b.WriteString("</svg>\n")

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// svgTextAnchor maps canvas anchors to SVG horizontal alignment.
func svgTextAnchor(a Anchor) string {
	switch a {
	case AnchorWest:
		return "start"
	default:
		return "middle"
	}
}

// svgBaseline maps canvas anchors to SVG vertical alignment attributes.
func svgBaseline(a Anchor) string {
	switch a {
	case AnchorNorth:
		return ` dominant-baseline="hanging"`
	case AnchorWest:
		return ` dominant-baseline="middle"`
	default:
		return ""
	}
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
