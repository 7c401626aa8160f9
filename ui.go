package main

import (
	"context"
	"fmt"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/widget/material"
	"git.sr.ht/~gioverse/skel/stream"

	"git.sr.ht/~whereswaldon/livechart/backend"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// frameInterval paces redraw checks; new data is picked up at most this late.
const frameInterval = time.Second / 60

// UI is responsible for holding the state of and drawing the top-level UI.
type UI struct {
	win      *app.Window
	registry *backend.Registry
	canvas   *sceneCanvas
	title    string

	statusStream *stream.Stream[backend.Status]
	status       backend.Status
	shownTitle   string
}

func NewUI(ctx context.Context, win *app.Window, registry *backend.Registry, monitor *backend.Monitor, title string) *UI {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	controller := stream.NewController(ctx, win.Invalidate)
	return &UI{
		win:          win,
		registry:     registry,
		canvas:       newSceneCanvas(th),
		title:        title,
		statusStream: stream.New(controller, monitor.Status),
	}
}

// Update the state of the UI from its input events and the ingest status.
func (ui *UI) Update(gtx C) {
	ui.statusStream.ReadInto(gtx, &ui.status, backend.Status{})
	if title := ui.windowTitle(); title != ui.shownTitle {
		ui.shownTitle = title
		ui.win.Option(app.Title(title))
	}
	for {
		ev, ok := gtx.Event(key.Filter{Name: key.NameEscape})
		if !ok {
			break
		}
		if e, ok := ev.(key.Event); ok && e.State == key.Press {
			ui.win.Perform(system.ActionClose)
		}
	}
}

func (ui *UI) windowTitle() string {
	title := fmt.Sprintf("%s (%d records)", ui.title, ui.status.Records)
	if ui.status.Errors > 0 {
		title += fmt.Sprintf(", %d tail errors", ui.status.Errors)
	}
	return title
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	event.Op(gtx.Ops, ui)
	return ui.canvas.Layout(gtx, ui.registry)
}

// tick invalidates w at the frame rate until ctx is done, so appended data is
// picked up without any event from the window system.
func tick(ctx context.Context, w *app.Window) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Invalidate()
		}
	}
}

func loop(w *app.Window, ui *UI) error {
	var ops op.Ops
	for {
		switch ev := w.NextEvent().(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
