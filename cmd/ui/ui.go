package main

import (
	"context"
	"image/color"

	"gioui.org/font"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	todoapp "todolist/internal/app"
	"todolist/pkg/state"
	"todolist/pkg/todo"
)

var (
	colorPrimary   = color.NRGBA{R: 0x00, G: 0x66, B: 0xCC, A: 0xFF}
	colorSecondary = color.NRGBA{R: 0x6A, G: 0x6E, B: 0x73, A: 0xFF}
	colorDanger    = color.NRGBA{R: 0xC9, G: 0x19, B: 0x0B, A: 0xFF}
	colorMuted     = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	colorCard      = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colorHeader    = color.NRGBA{R: 0x15, G: 0x15, B: 0x15, A: 0xFF}
	colorScrim     = color.NRGBA{A: 0x80}
)

type rowKey struct {
	id     int
	action todoapp.Action
}

type UI struct {
	ctx context.Context
	app *todoapp.App

	// Header
	newBtn    widget.Clickable
	userBtn   widget.Clickable
	logoutBtn widget.Clickable
	aboutBtn  widget.Clickable

	// Lists
	list    widget.List
	rowBtns map[rowKey]*widget.Clickable

	// Banners
	alertBtns  map[string]*widget.Clickable
	actionBtns map[string]*widget.Clickable

	// Wizards
	forms map[state.Mode]*form
}

func newUI(ctx context.Context, a *todoapp.App) *UI {
	ui := &UI{
		ctx:        ctx,
		app:        a,
		rowBtns:    make(map[rowKey]*widget.Clickable),
		alertBtns:  make(map[string]*widget.Clickable),
		actionBtns: make(map[string]*widget.Clickable),
		forms: map[state.Mode]*form{
			state.ModeNew:  newForm(state.ModeNew),
			state.ModeEdit: newForm(state.ModeEdit),
		},
	}
	ui.list.Axis = layout.Vertical
	return ui
}

func clickable(m map[string]*widget.Clickable, key string) *widget.Clickable {
	c, ok := m[key]
	if !ok {
		c = new(widget.Clickable)
		m[key] = c
	}
	return c
}

func (ui *UI) rowBtn(id int, action todoapp.Action) *widget.Clickable {
	k := rowKey{id, action}
	c, ok := ui.rowBtns[k]
	if !ok {
		c = new(widget.Clickable)
		ui.rowBtns[k] = c
	}
	return c
}

func (ui *UI) handleClicks(gtx layout.Context, st state.State) {
	if ui.newBtn.Clicked(gtx) {
		ui.app.Store.OpenNew()
	}
	if ui.userBtn.Clicked(gtx) {
		ui.app.Store.ToggleUserMenu()
	}
	if ui.logoutBtn.Clicked(gtx) {
		ui.app.Store.ToggleUserMenu()
		go ui.app.Logout(ui.ctx)
	}
	if ui.aboutBtn.Clicked(gtx) {
		ui.app.Store.ToggleAbout()
	}

	for _, it := range st.Items {
		for _, c := range todoapp.RowControls(it) {
			if ui.rowBtn(it.ID, c.Action).Clicked(gtx) {
				id, action := it.ID, c.Action
				go func() { _ = ui.app.Perform(ui.ctx, id, action) }()
			}
		}
	}

	for _, al := range ui.app.Alerts.List() {
		if al.Actionable && clickable(ui.actionBtns, al.Key).Clicked(gtx) {
			key := al.Key
			go func() { _ = ui.app.CompleteFromAlert(ui.ctx, key) }()
			continue
		}
		if clickable(ui.alertBtns, al.Key).Clicked(gtx) {
			ui.app.Alerts.Dismiss(al.Key)
		}
	}

	for _, mode := range []state.Mode{state.ModeNew, state.ModeEdit} {
		if w := st.Wizard(mode); w.Visible {
			ui.forms[mode].handle(gtx, ui, w)
		}
	}
}

func (ui *UI) layout(gtx layout.Context, st state.State) layout.Dimensions {
	paint.Fill(gtx.Ops, theme.Palette.Bg)
	return layout.Stack{}.Layout(gtx,
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return ui.layoutHeader(gtx, st)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return ui.layoutAlerts(gtx)
				}),
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					return layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						return ui.layoutLists(gtx, st)
					})
				}),
			)
		}),
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			for _, mode := range []state.Mode{state.ModeNew, state.ModeEdit} {
				if w := st.Wizard(mode); w.Visible {
					return ui.layoutWizard(gtx, w)
				}
			}
			if st.ShowAbout {
				return ui.layoutAbout(gtx, st)
			}
			return layout.Dimensions{}
		}),
	)
}

func (ui *UI) layoutHeader(gtx layout.Context, st state.State) layout.Dimensions {
	return filled(gtx, colorHeader, func(gtx layout.Context) layout.Dimensions {
		gtx.Constraints.Min.X = gtx.Constraints.Max.X
		return layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					label := material.H6(theme, "To-do list")
					label.Color = theme.Palette.ContrastFg
					return label.Layout(gtx)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return button(&ui.aboutBtn, "About", colorSecondary).Layout(gtx)
				}),
				layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return ui.layoutUserMenu(gtx, st)
				}),
			)
		})
	})
}

func (ui *UI) layoutUserMenu(gtx layout.Context, st state.State) layout.Dimensions {
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if !st.UserMenuOpen {
				return layout.Dimensions{}
			}
			return layout.Inset{Right: unit.Dp(8)}.Layout(gtx, button(&ui.logoutBtn, "Logout", colorDanger).Layout)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			user := st.User
			if user == "" {
				user = "signed out"
			}
			return button(&ui.userBtn, user, colorSecondary).Layout(gtx)
		}),
	)
}

func (ui *UI) layoutAbout(gtx layout.Context, st state.State) layout.Dimensions {
	return modal(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(material.H5(theme, "To-do list").Layout),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(material.Body1(theme, "Version: "+st.Version).Layout),
			layout.Rigid(material.Body1(theme, "User: "+st.User).Layout),
			layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),
			layout.Rigid(button(&ui.aboutBtn, "Close", colorPrimary).Layout),
		)
	})
}

func (ui *UI) layoutLists(gtx layout.Context, st state.State) layout.Dimensions {
	active, inactive := st.Active(), st.Inactive()

	// Flatten both regions into one scrolling list: heading, rows, heading, rows.
	type entry struct {
		heading string
		item    todo.Item
	}
	entries := make([]entry, 0, len(active)+len(inactive)+2)
	entries = append(entries, entry{heading: "Active"})
	for _, it := range active {
		entries = append(entries, entry{item: it})
	}
	entries = append(entries, entry{heading: "Done"})
	for _, it := range inactive {
		entries = append(entries, entry{item: it})
	}

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return button(&ui.newBtn, "New", colorPrimary).Layout(gtx)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return material.List(theme, &ui.list).Layout(gtx, len(entries), func(gtx layout.Context, i int) layout.Dimensions {
				e := entries[i]
				if e.heading != "" {
					return layout.Inset{Top: unit.Dp(12), Bottom: unit.Dp(4)}.Layout(gtx, material.H6(theme, e.heading).Layout)
				}
				return layout.Inset{Bottom: unit.Dp(6)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					return ui.layoutRow(gtx, e.item)
				})
			})
		}),
	)
}

func (ui *UI) layoutRow(gtx layout.Context, it todo.Item) layout.Dimensions {
	return filled(gtx, colorCard, func(gtx layout.Context) layout.Dimensions {
		gtx.Constraints.Min.X = gtx.Constraints.Max.X
		return layout.UniformInset(unit.Dp(10)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					return layoutRowText(gtx, it)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return ui.layoutRowControls(gtx, it)
				}),
			)
		})
	})
}

func layoutRowText(gtx layout.Context, it todo.Item) layout.Dimensions {
	lines := []layout.FlexChild{
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			label := material.Body1(theme, it.Title)
			label.Font.Weight = font.Bold
			return label.Layout(gtx)
		}),
	}
	if it.Description != "" {
		lines = append(lines, layout.Rigid(material.Body2(theme, it.Description).Layout))
	}
	if it.IsRepeating() {
		lines = append(lines, layout.Rigid(caption(string(it.Repeating))))
	}
	if it.Scheduled {
		lines = append(lines, layout.Rigid(caption("Due: "+it.DueString())))
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx, lines...)
}

func (ui *UI) layoutRowControls(gtx layout.Context, it todo.Item) layout.Dimensions {
	var children []layout.FlexChild
	for _, c := range todoapp.RowControls(it) {
		btn := button(ui.rowBtn(it.ID, c.Action), c.Label, roleColor(c.Role))
		children = append(children,
			layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout),
			layout.Rigid(btn.Layout),
		)
	}
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx, children...)
}

func roleColor(r todoapp.Role) color.NRGBA {
	switch r {
	case todoapp.RolePrimary:
		return colorPrimary
	case todoapp.RoleDanger:
		return colorDanger
	}
	return colorSecondary
}

func button(c *widget.Clickable, label string, bg color.NRGBA) material.ButtonStyle {
	b := material.Button(theme, c, label)
	b.Background = bg
	b.Color = theme.Palette.ContrastFg
	return b
}

func caption(s string) layout.Widget {
	label := material.Caption(theme, s)
	label.Color = colorMuted
	return label.Layout
}

// filled paints bg behind w.
func filled(gtx layout.Context, bg color.NRGBA, w layout.Widget) layout.Dimensions {
	return layout.Background{}.Layout(gtx,
		func(gtx layout.Context) layout.Dimensions {
			defer clip.Rect{Max: gtx.Constraints.Min}.Push(gtx.Ops).Pop()
			paint.Fill(gtx.Ops, bg)
			return layout.Dimensions{Size: gtx.Constraints.Min}
		},
		w,
	)
}

// scrim is the input tag of the area behind a modal.
var scrim int

// modal dims the whole window and centers a card on top. The dimmed area
// takes pointer input so nothing behind the modal can be clicked.
func modal(gtx layout.Context, w layout.Widget) layout.Dimensions {
	size := gtx.Constraints.Max
	func() {
		defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
		paint.Fill(gtx.Ops, colorScrim)
		for {
			if _, ok := gtx.Event(pointer.Filter{Target: &scrim, Kinds: pointer.Press | pointer.Release}); !ok {
				break
			}
		}
		event.Op(gtx.Ops, &scrim)
	}()
	gtx.Constraints.Min = size
	return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		gtx.Constraints.Max.X = min(gtx.Constraints.Max.X, gtx.Dp(unit.Dp(560)))
		gtx.Constraints.Min.X = gtx.Constraints.Max.X
		return filled(gtx, colorCard, func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(unit.Dp(20)).Layout(gtx, w)
		})
	})
}
