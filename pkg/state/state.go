// Package state holds the client's view state behind a single store.
//
// Views never change State directly. They call Store methods, each of which
// applies one change under the store lock, then notifies subscribers so the
// view can redraw from a fresh Snapshot.
package state

import (
	"sync"

	"todolist/pkg/todo"
)

// State is a point-in-time copy of everything the view renders.
type State struct {
	Items []todo.Item

	New  Wizard
	Edit Wizard

	User         string
	Version      string
	ShowAbout    bool
	UserMenuOpen bool
}

// Active returns the items that are not done.
func (s State) Active() []todo.Item {
	active, _ := todo.Partition(s.Items)
	return active
}

// Inactive returns the items that are done.
func (s State) Inactive() []todo.Item {
	_, inactive := todo.Partition(s.Items)
	return inactive
}

// Wizard returns the wizard for mode.
func (s State) Wizard(mode Mode) Wizard {
	if mode == ModeEdit {
		return s.Edit
	}
	return s.New
}

func (s State) clone() State {
	out := s
	if s.Items != nil {
		out.Items = make([]todo.Item, len(s.Items))
		copy(out.Items, s.Items)
	}
	out.New = s.New.clone()
	out.Edit = s.Edit.clone()
	return out
}

// Store owns the State. Safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	st   State
	subs map[chan struct{}]struct{}
}

// NewStore creates a Store with an empty list and closed wizards.
func NewStore() *Store {
	return &Store{
		st:   initialState(),
		subs: make(map[chan struct{}]struct{}),
	}
}

func initialState() State {
	return State{
		Items:   []todo.Item{},
		New:     newWizard(ModeNew),
		Edit:    newWizard(ModeEdit),
		User:    "user",
		Version: "n/a",
	}
}

// Reset returns the store to its initial state. Subscribers are kept.
func (s *Store) Reset() State {
	return s.update(func(st *State) { *st = initialState() })
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.clone()
}

// Subscribe returns a channel that receives a signal after every change.
func (s *Store) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (s *Store) Unsubscribe(ch chan struct{}) {
	s.mu.Lock()
	delete(s.subs, ch)
	s.mu.Unlock()
	close(ch)
}

// update applies fn under the lock and notifies subscribers.
func (s *Store) update(fn func(st *State)) State {
	s.mu.Lock()
	fn(&s.st)
	snap := s.st.clone()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	s.mu.Unlock()
	return snap
}

// SetItems replaces the cached list with exactly items.
func (s *Store) SetItems(items []todo.Item) State {
	return s.update(func(st *State) {
		st.Items = make([]todo.Item, len(items))
		copy(st.Items, items)
	})
}

// ClearItems empties the cached list.
func (s *Store) ClearItems() State {
	return s.update(func(st *State) {
		st.Items = []todo.Item{}
	})
}

// Item returns the cached item with the given id.
func (s *Store) Item(id int) (todo.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return todo.Find(s.st.Items, id)
}

// Title returns the last known title of an item, or "" when it is not cached.
func (s *Store) Title(id int) string {
	it, _ := s.Item(id)
	return it.Title
}

func (s *Store) SetUser(user string) State {
	return s.update(func(st *State) { st.User = user })
}

func (s *Store) SetVersion(version string) State {
	return s.update(func(st *State) { st.Version = version })
}

func (s *Store) ToggleAbout() State {
	return s.update(func(st *State) { st.ShowAbout = !st.ShowAbout })
}

func (s *Store) ToggleUserMenu() State {
	return s.update(func(st *State) { st.UserMenuOpen = !st.UserMenuOpen })
}
