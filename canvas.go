package main

import (
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"git.sr.ht/~whereswaldon/livechart/backend"
)

// sceneCanvas draws the chart primitives into a retained op list. A frame
// that the registry decides not to redraw replays the previous scene.
type sceneCanvas struct {
	th     *material.Theme
	metric unit.Metric
	size   image.Point

	scene     op.Ops
	recording bool
	macro     op.MacroOp
	call      op.CallOp
	drawn     bool

	// path is a scratch slice reused to convert polyline points.
	path []f32.Point
}

var _ backend.Canvas = (*sceneCanvas)(nil)

func newSceneCanvas(th *material.Theme) *sceneCanvas {
	return &sceneCanvas{th: th}
}

// Layout lets the registry update the scene, then adds the latest scene to gtx.
func (c *sceneCanvas) Layout(gtx C, registry *backend.Registry) D {
	c.size = gtx.Constraints.Max
	c.metric = gtx.Metric
	registry.Render(c)
	if c.recording {
		c.call = c.macro.Stop()
		c.recording = false
		c.drawn = true
	}
	if c.drawn {
		c.call.Add(gtx.Ops)
	}
	return D{Size: gtx.Constraints.Max}
}

func (c *sceneCanvas) Size() image.Point {
	return c.size
}

// Clear discards the previous scene and starts recording a new one.
func (c *sceneCanvas) Clear(bg color.NRGBA) {
	if c.recording {
		c.macro.Stop()
	}
	c.scene.Reset()
	c.macro = op.Record(&c.scene)
	c.recording = true
	paint.FillShape(&c.scene, bg, clip.Rect{Max: c.size}.Op())
}

func (c *sceneCanvas) Polyline(col color.NRGBA, pts []image.Point) {
	if len(pts) == 0 {
		return
	}
	c.path = c.path[:0]
	for _, pt := range pts {
		c.path = append(c.path, layout.FPt(pt))
	}
	var p clip.Path
	p.Begin(&c.scene)
	p.MoveTo(c.path[0])
	for _, pt := range c.path[1:] {
		p.LineTo(pt)
	}
	paint.FillShape(&c.scene, col, clip.Stroke{
		Path:  p.End(),
		Width: float32(c.metric.Dp(1)),
	}.Op())
}

func (c *sceneCanvas) label(text string, height int) material.LabelStyle {
	l := material.Label(c.th, c.metric.PxToSp(height), text)
	l.MaxLines = 1
	return l
}

func (c *sceneCanvas) context() C {
	return C{
		Ops:         &c.scene,
		Metric:      c.metric,
		Constraints: layout.Constraints{Max: c.size},
	}
}

func (c *sceneCanvas) MeasureText(text string, height int) image.Point {
	gtx := c.context()
	dims, _ := rec(gtx, c.label(text, height).Layout)
	return dims.Size
}

func (c *sceneCanvas) Text(pos image.Point, height int, text string, col color.NRGBA) {
	gtx := c.context()
	l := c.label(text, height)
	l.Color = col
	defer op.Offset(pos).Push(gtx.Ops).Pop()
	l.Layout(gtx)
}

func rec(gtx C, w layout.Widget) (D, op.CallOp) {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	return dims, call
}
