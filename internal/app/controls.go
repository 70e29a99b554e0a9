package app

import (
	"context"
	"fmt"

	"todolist/pkg/state"
	"todolist/pkg/todo"
)

// Action identifies what a row control does.
type Action string

const (
	ActionComplete     Action = "complete"
	ActionEdit         Action = "edit"
	ActionEditSchedule Action = "edit-schedule"
	ActionDeactivate   Action = "deactivate"
	ActionActivate     Action = "activate"
	ActionDelete       Action = "delete"
)

// Role is the visual weight of a control.
type Role string

const (
	RolePrimary   Role = "primary"
	RoleSecondary Role = "secondary"
	RoleDanger    Role = "danger"
)

// Control is one button on a list row.
type Control struct {
	Action Action
	Role   Role
	Label  string
}

// RowControls returns the controls for an item's row, in display order.
// Active rows complete, edit and, for repeating items, deactivate. Done rows
// activate, edit and delete.
func RowControls(it todo.Item) []Control {
	if it.Done {
		return []Control{
			{Action: ActionActivate, Role: RolePrimary, Label: "Activate"},
			{Action: ActionEdit, Role: RoleSecondary, Label: "Edit"},
			{Action: ActionDelete, Role: RoleDanger, Label: "Delete"},
		}
	}
	out := []Control{
		{Action: ActionComplete, Role: RolePrimary, Label: "Done"},
		{Action: ActionEdit, Role: RoleSecondary, Label: "Edit"},
	}
	if it.Scheduled {
		out = append(out, Control{Action: ActionEditSchedule, Role: RoleSecondary, Label: "Reschedule"})
	}
	if it.IsRepeating() {
		out = append(out, Control{Action: ActionDeactivate, Role: RoleDanger, Label: "Deactivate"})
	}
	return out
}

// Perform runs a row control for the item with the given id. Edit actions
// only open the wizard; the others call the API.
func (a *App) Perform(ctx context.Context, id int, action Action) error {
	switch action {
	case ActionComplete:
		return a.Complete(ctx, id)
	case ActionActivate:
		return a.Activate(ctx, id)
	case ActionDeactivate:
		return a.Deactivate(ctx, id)
	case ActionDelete:
		return a.Delete(ctx, id)
	case ActionEdit:
		a.Store.OpenEdit(id, state.PageDetails)
		return nil
	case ActionEditSchedule:
		a.Store.OpenEdit(id, state.PageSchedule)
		return nil
	}
	return fmt.Errorf("unknown action %q", action)
}
