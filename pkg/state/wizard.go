package state

import (
	"errors"

	"todolist/pkg/todo"
)

// Mode picks one of the two wizards.
type Mode int

const (
	ModeNew Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "new"
}

// Wizard pages.
const (
	PageDetails  = 1
	PageSchedule = 2
	lastPage     = PageSchedule
)

// Wizard is the state of one item wizard.
type Wizard struct {
	Mode    Mode
	Page    int
	Visible bool
	Draft   todo.Item
	// Invalid maps form fields to the helper text shown under them.
	Invalid map[string]string
}

func newWizard(mode Mode) Wizard {
	return Wizard{Mode: mode, Page: PageDetails, Draft: todo.NewDraft()}
}

func (w Wizard) clone() Wizard {
	out := w
	if w.Invalid != nil {
		out.Invalid = make(map[string]string, len(w.Invalid))
		for k, v := range w.Invalid {
			out.Invalid[k] = v
		}
	}
	return out
}

// IsFirstPage reports whether Back has nowhere to go.
func (w Wizard) IsFirstPage() bool { return w.Page <= PageDetails }

// IsLastPage reports whether Next has nowhere to go.
func (w Wizard) IsLastPage() bool { return w.Page >= lastPage }

func wizardOf(st *State, mode Mode) *Wizard {
	if mode == ModeEdit {
		return &st.Edit
	}
	return &st.New
}

// OpenNew shows the new-item wizard on a blank draft.
func (s *Store) OpenNew() State {
	return s.update(func(st *State) {
		st.New = newWizard(ModeNew)
		st.New.Visible = true
	})
}

// OpenEdit shows the edit wizard on a copy of the cached item. Edits to the
// draft do not touch the list until the item is saved and refetched.
func (s *Store) OpenEdit(id, page int) (State, bool) {
	var found bool
	snap := s.update(func(st *State) {
		it, ok := todo.Find(st.Items, id)
		if !ok {
			return
		}
		found = true
		if page < PageDetails || page > lastPage {
			page = PageDetails
		}
		st.Edit = Wizard{Mode: ModeEdit, Page: page, Visible: true, Draft: it.Clone()}
	})
	return snap, found
}

// UpdateDraft replaces the draft of a wizard with the form's current values.
func (s *Store) UpdateDraft(mode Mode, draft todo.Item) State {
	return s.update(func(st *State) {
		wizardOf(st, mode).Draft = draft
	})
}

// Next validates the current page and moves forward when it passes. On the
// schedule page an unscheduled draft has its scheduling fields cleared
// instead of being validated.
func (s *Store) Next(mode Mode) (State, error) {
	var err error
	snap := s.update(func(st *State) {
		w := wizardOf(st, mode)
		if err = validatePage(w); err != nil {
			return
		}
		if w.Page < lastPage {
			w.Page++
		}
	})
	return snap, err
}

// Back moves to the previous page.
func (s *Store) Back(mode Mode) State {
	return s.update(func(st *State) {
		w := wizardOf(st, mode)
		if w.Page > PageDetails {
			w.Page--
		}
	})
}

// Cancel hides both wizards and resets the new-item draft.
func (s *Store) Cancel() State {
	return s.update(func(st *State) {
		st.New = newWizard(ModeNew)
		st.Edit.Visible = false
		st.Edit.Page = PageDetails
		st.Edit.Invalid = nil
	})
}

// Save validates the whole draft. On success the wizard closes and the item
// to persist is returned; the caller picks add or update from its id. On
// failure the wizard stays open with the invalid fields marked, showing the
// page of the first invalid field.
func (s *Store) Save(mode Mode) (todo.Item, error) {
	var (
		out todo.Item
		err error
	)
	s.update(func(st *State) {
		w := wizardOf(st, mode)
		out, err = todo.ValidateForSave(w.Draft)
		if err != nil {
			markInvalid(w, err)
			var fe todo.FieldErrors
			if errors.As(err, &fe) && len(fe) > 0 {
				w.Page = pageOf(fe[0].Field)
			}
			return
		}
		w.Invalid = nil
		w.Visible = false
		w.Page = PageDetails
		if mode == ModeNew {
			w.Draft = todo.NewDraft()
		} else {
			w.Draft = out
		}
	})
	return out, err
}

func validatePage(w *Wizard) error {
	var err error
	switch w.Page {
	case PageDetails:
		err = todo.ValidatePageOne(w.Draft)
	case PageSchedule:
		if w.Draft.Scheduled {
			err = todo.ValidatePageTwo(w.Draft)
		} else {
			w.Draft.ClearScheduling()
		}
	}
	if err != nil {
		markInvalid(w, err)
		return err
	}
	w.Invalid = nil
	return nil
}

// pageOf returns the wizard page that shows a form field.
func pageOf(field string) int {
	switch field {
	case todo.FieldDueDate, todo.FieldDueTime, todo.FieldDueTimezone:
		return PageSchedule
	}
	return PageDetails
}

func markInvalid(w *Wizard, err error) {
	var fe todo.FieldErrors
	if errors.As(err, &fe) {
		w.Invalid = fe.Map()
	}
}
