package main

import (
	"fmt"

	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"todolist/pkg/state"
	"todolist/pkg/todo"
)

// form binds the widgets of one wizard to its draft in the store.
type form struct {
	mode state.Mode

	title       widget.Editor
	description widget.Editor
	dueDate     widget.Editor
	dueTime     widget.Editor
	dueTimezone widget.Editor
	scheduled   widget.Bool
	repeating   widget.Enum

	back   widget.Clickable
	next   widget.Clickable
	save   widget.Clickable
	cancel widget.Clickable

	// synced is the draft as last exchanged with the store.
	synced todo.Item
	loaded bool
}

func newForm(mode state.Mode) *form {
	f := &form{mode: mode}
	f.title.SingleLine = true
	f.dueDate.SingleLine = true
	f.dueTime.SingleLine = true
	f.dueTimezone.SingleLine = true
	return f
}

func (f *form) load(it todo.Item) {
	f.title.SetText(it.Title)
	f.description.SetText(it.Description)
	f.dueDate.SetText(it.DueDate)
	f.dueTime.SetText(it.DueTime)
	f.dueTimezone.SetText(it.DueTimezone)
	f.scheduled.Value = it.Scheduled
	f.repeating.Value = string(it.Repeating)
	f.synced = it
	f.loaded = true
}

func (f *form) read(base todo.Item) todo.Item {
	it := base
	it.Title = f.title.Text()
	it.Description = f.description.Text()
	it.DueDate = f.dueDate.Text()
	it.DueTime = f.dueTime.Text()
	it.DueTimezone = f.dueTimezone.Text()
	it.Scheduled = f.scheduled.Value
	it.Repeating = todo.ParseRepeating(f.repeating.Value)
	return it
}

// handle syncs the widgets with the draft and runs the wizard buttons.
// A draft changed by the store (open, cancel, cleared scheduling) wins over
// the widgets; otherwise widget edits are pushed to the store.
func (f *form) handle(gtx layout.Context, ui *UI, w state.Wizard) {
	f.scheduled.Update(gtx)
	f.repeating.Update(gtx)

	if !f.loaded || w.Draft != f.synced {
		f.load(w.Draft)
	} else if cur := f.read(w.Draft); cur != w.Draft {
		ui.app.Store.UpdateDraft(f.mode, cur)
		f.synced = cur
	}

	if f.back.Clicked(gtx) {
		ui.app.Store.Back(f.mode)
	}
	if f.next.Clicked(gtx) {
		_, _ = ui.app.Store.Next(f.mode)
	}
	if f.cancel.Clicked(gtx) {
		ui.app.Store.Cancel()
	}
	if f.save.Clicked(gtx) {
		mode := f.mode
		go func() { _ = ui.app.Save(ui.ctx, mode) }()
	}
}

func (ui *UI) layoutWizard(gtx layout.Context, w state.Wizard) layout.Dimensions {
	f := ui.forms[w.Mode]
	heading := "New todo item"
	if w.Mode == state.ModeEdit {
		heading = "Edit todo item"
	}

	return modal(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(material.H5(theme, heading).Layout),
			layout.Rigid(caption(fmt.Sprintf("Step %d of %d", w.Page, state.PageSchedule))),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if w.Page == state.PageSchedule {
					return f.layoutSchedule(gtx, w)
				}
				return f.layoutDetails(gtx, w)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return f.layoutButtons(gtx, w)
			}),
		)
	})
}

func (f *form) layoutDetails(gtx layout.Context, w state.Wizard) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(field(&f.title, "Title", w.Invalid[todo.FieldTitle])),
		layout.Rigid(field(&f.description, "Description", "")),
	)
}

func (f *form) layoutSchedule(gtx layout.Context, w state.Wizard) layout.Dimensions {
	children := []layout.FlexChild{
		layout.Rigid(material.CheckBox(theme, &f.scheduled, "Scheduled").Layout),
	}
	if f.scheduled.Value {
		children = append(children,
			layout.Rigid(field(&f.dueDate, "Due date (yyyy-mm-dd)", w.Invalid[todo.FieldDueDate])),
			layout.Rigid(field(&f.dueTime, "Due time (HH:MM)", w.Invalid[todo.FieldDueTime])),
			layout.Rigid(field(&f.dueTimezone, "Time zone ([+-]HH:MM)", w.Invalid[todo.FieldDueTimezone])),
			layout.Rigid(material.Body2(theme, "Repeating").Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				var radios []layout.FlexChild
				for _, r := range todo.Repeatings {
					radios = append(radios, layout.Rigid(material.RadioButton(theme, &f.repeating, string(r), string(r)).Layout))
				}
				return layout.Flex{}.Layout(gtx, radios...)
			}),
		)
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
}

func (f *form) layoutButtons(gtx layout.Context, w state.Wizard) layout.Dimensions {
	var children []layout.FlexChild
	add := func(btn material.ButtonStyle) {
		children = append(children,
			layout.Rigid(btn.Layout),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
		)
	}
	if !w.IsFirstPage() {
		add(button(&f.back, "Back", colorSecondary))
	}
	if !w.IsLastPage() {
		add(button(&f.next, "Next", colorPrimary))
	}
	add(button(&f.save, "Save", colorPrimary))
	add(button(&f.cancel, "Cancel", colorSecondary))
	return layout.Flex{}.Layout(gtx, children...)
}

// field lays out an editor with its helper text below when invalid.
func field(ed *widget.Editor, hint, helper string) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		return layout.Inset{Bottom: unit.Dp(10)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(material.Editor(theme, ed, hint).Layout),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					if helper == "" {
						return layout.Dimensions{}
					}
					label := material.Caption(theme, helper)
					label.Color = colorDanger
					return label.Layout(gtx)
				}),
			)
		})
	}
}
