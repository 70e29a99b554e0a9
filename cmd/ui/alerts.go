package main

import (
	"image/color"

	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"todolist/pkg/alert"
)

var alertColors = map[alert.Kind]color.NRGBA{
	alert.Success: {R: 0x3E, G: 0x86, B: 0x35, A: 0xFF},
	alert.Danger:  colorDanger,
	alert.Info:    {R: 0x2B, G: 0x9A, B: 0xF3, A: 0xFF},
	alert.Warning: {R: 0xF0, G: 0xAB, B: 0x00, A: 0xFF},
}

// layoutAlerts stacks the banners. Clicking a banner dismisses it; due-date
// banners also offer to complete their item.
func (ui *UI) layoutAlerts(gtx layout.Context) layout.Dimensions {
	alerts := ui.app.Alerts.List()
	children := make([]layout.FlexChild, 0, len(alerts))
	for _, al := range alerts {
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Top: unit.Dp(4), Left: unit.Dp(16), Right: unit.Dp(16)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return ui.layoutAlert(gtx, al)
			})
		}))
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
}

func (ui *UI) layoutAlert(gtx layout.Context, al alert.Alert) layout.Dimensions {
	return filled(gtx, alertColors[al.Kind], func(gtx layout.Context) layout.Dimensions {
		gtx.Constraints.Min.X = gtx.Constraints.Max.X
		return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					return clickable(ui.alertBtns, al.Key).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						label := material.Body1(theme, al.Message)
						label.Color = theme.Palette.ContrastFg
						return label.Layout(gtx)
					})
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					if !al.Actionable {
						return layout.Dimensions{}
					}
					return button(clickable(ui.actionBtns, al.Key), "Set todo as done", colorHeader).Layout(gtx)
				}),
			)
		})
	})
}
