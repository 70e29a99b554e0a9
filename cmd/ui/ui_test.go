package main

import (
	"image"
	"testing"

	"gioui.org/f32"
	"gioui.org/font/gofont"
	"gioui.org/io/input"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/stretchr/testify/assert"
)

func init() {
	theme = material.NewTheme()
	theme.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
}

// clickAt lays out a full-size button, optionally under a modal, and
// reports whether a click at pos reaches the button.
func clickAt(withModal bool, pos f32.Point) bool {
	var (
		r   input.Router
		btn widget.Clickable
	)
	gtx := layout.Context{
		Ops:         new(op.Ops),
		Source:      r.Source(),
		Constraints: layout.Exact(image.Pt(400, 400)),
	}
	frame := func() {
		gtx.Ops.Reset()
		layout.Stack{}.Layout(gtx,
			layout.Expanded(func(gtx layout.Context) layout.Dimensions {
				return btn.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					return layout.Dimensions{Size: gtx.Constraints.Max}
				})
			}),
			layout.Stacked(func(gtx layout.Context) layout.Dimensions {
				if !withModal {
					return layout.Dimensions{}
				}
				return modal(gtx, func(gtx layout.Context) layout.Dimensions {
					return layout.Dimensions{Size: image.Pt(10, 10)}
				})
			}),
		)
		r.Frame(gtx.Ops)
	}

	frame()
	r.Queue(
		pointer.Event{Source: pointer.Mouse, Buttons: pointer.ButtonPrimary, Kind: pointer.Press, Position: pos},
		pointer.Event{Source: pointer.Mouse, Kind: pointer.Release, Position: pos},
	)
	return btn.Clicked(gtx)
}

func TestModalBlocksClicksBehindIt(t *testing.T) {
	corner := f32.Pt(5, 5)

	assert.True(t, clickAt(false, corner))
	assert.False(t, clickAt(true, corner))
}
