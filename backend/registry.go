package backend

import (
	"image"
	"image/color"
	"strconv"

	"git.sr.ht/~whereswaldon/livechart/metrics"
)

// Canvas receives the drawing primitives of a frame. Implementations own the
// actual surface; coordinates are in pixels with the origin at the top left.
type Canvas interface {
	// Size returns the current drawable size.
	Size() image.Point
	// Clear fills the whole surface with bg.
	Clear(bg color.NRGBA)
	// Polyline connects pts in order with straight segments.
	Polyline(c color.NRGBA, pts []image.Point)
	// MeasureText returns the size text occupies when drawn height pixels tall.
	MeasureText(text string, height int) image.Point
	// Text draws text with its top left corner at pos.
	Text(pos image.Point, height int, text string, c color.NRGBA)
}

const lineOpacity = 200

// Palette holds the line colours, assigned in turn to every (chart, y field) pair.
var Palette = []color.NRGBA{
	{R: 255, G: 100, B: 30, A: lineOpacity},
	{R: 60, G: 200, B: 100, A: lineOpacity},
	{R: 80, G: 114, B: 255, A: lineOpacity},
	{R: 166, G: 108, B: 90, A: lineOpacity},
	{R: 153, G: 78, B: 85, A: lineOpacity},
}

var (
	Background = color.NRGBA{R: 10, G: 10, B: 10, A: 255}
	LabelColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

const (
	DefaultPadding  = 10
	DefaultFontSize = 20
)

// Registry holds the registered charts and draws them all onto one shared scale.
// It is owned by the render loop and must not be used concurrently.
type Registry struct {
	cfg     ChartConfig
	sources []Source
	// dirty keeps the canvas size and, per chart in registration order, the
	// point count of the last drawn frame.
	dirty DirtyTracker

	Padding  int
	FontSize int
}

func NewRegistry(cfg ChartConfig) *Registry {
	return &Registry{
		cfg:      cfg,
		Padding:  DefaultPadding,
		FontSize: DefaultFontSize,
	}
}

// Register adds a chart for src. Charts are drawn in registration order.
func (r *Registry) Register(src Source) {
	r.sources = append(r.sources, src)
}

// Len returns the number of registered charts.
func (r *Registry) Len() int {
	return len(r.sources)
}

// Frame computes the points of every chart and their shared bounds.
func (r *Registry) Frame() (charts [][]Point, bounds Bounds) {
	charts = make([][]Point, len(r.sources))
	for i, src := range r.sources {
		points := ProjectAll(src.Snapshot(), r.cfg.XField, r.cfg.YFields, r.cfg.MovingWindow)
		bounds.AddAll(points)
		charts[i] = points
	}
	return charts, bounds
}

// Render draws a frame onto c if anything changed since the previous call. It
// reports whether the canvas was touched.
func (r *Registry) Render(c Canvas) bool {
	size := c.Size()
	charts, bounds := r.Frame()
	counts := make([]int, len(charts))
	for i, points := range charts {
		counts[i] = len(points)
	}
	if !r.dirty.Decide(size, counts) {
		metrics.RecordFrame(false)
		return false
	}
	metrics.RecordFrame(true)

	vp := Viewport{Size: size, Padding: r.Padding}
	c.Clear(Background)
	line := 0
	for _, points := range charts {
		for y := range r.cfg.YFields {
			col := Palette[line%len(Palette)]
			line++
			path := make([]image.Point, 0, len(points))
			if bounds.Initialized {
				for _, p := range points {
					path = append(path, vp.Map(p.X, p.Ys[y], bounds))
				}
			}
			c.Polyline(col, path)
		}
	}

	pad := r.Padding
	r.label(c, vp, image.Pt(pad, pad), formatBound(bounds.MaxY))
	r.label(c, vp, image.Pt(pad, -pad*2), formatBound(bounds.MinY))
	r.label(c, vp, image.Pt(pad, -pad), formatBound(bounds.MinX))
	r.label(c, vp, image.Pt(-pad, -pad), formatBound(bounds.MaxX))
	if r.cfg.Title != "" {
		r.label(c, vp, image.Pt(-pad, pad), r.cfg.Title)
	}
	return true
}

func (r *Registry) label(c Canvas, vp Viewport, pos image.Point, text string) {
	glyph := c.MeasureText(text, r.FontSize)
	c.Text(vp.Anchor(pos, glyph), r.FontSize, text, LabelColor)
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
