// Package alert keeps the banner list shown above the to-do list.
//
// Banners are keyed; publishing under a key that is already shown replaces
// the old banner. A banner may fade out on its own after a delay.
package alert

import (
	"fmt"
	"sync"
	"time"
)

// Kind selects the banner style. Its value is the letter used in banner keys.
type Kind string

const (
	Success Kind = "s"
	Danger  Kind = "d"
	Info    Kind = "i"
	Warning Kind = "w"
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Danger:
		return "danger"
	case Info:
		return "info"
	case Warning:
		return "warning"
	}
	return string(k)
}

// Key builds the banner key for a kind and subject, e.g. Key(Danger, 7) == "alertd7".
func Key(kind Kind, subject any) string {
	return fmt.Sprintf("alert%s%v", kind, subject)
}

// Alert is a single banner.
type Alert struct {
	Key     string
	Kind    Kind
	Message string
	// ItemID is set on due-date notices, which offer to complete the item.
	ItemID     int
	Actionable bool

	seq uint64
}

// Manager is an ordered, de-duplicated list of banners. Safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	alerts []Alert
	seq    uint64
	subs   map[chan struct{}]struct{}

	afterFunc func(time.Duration, func()) *time.Timer
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		subs:      make(map[chan struct{}]struct{}),
		afterFunc: time.AfterFunc,
	}
}

// Publish shows a banner, removing any banner with the same key first.
// A positive fade removes the banner after that delay unless it has been
// replaced in the meantime.
func (m *Manager) Publish(a Alert, fade time.Duration) {
	if a.Key == "" {
		a.Key = Key(a.Kind, a.ItemID)
	}

	m.mu.Lock()
	m.seq++
	a.seq = m.seq
	m.removeLocked(a.Key)
	m.alerts = append(m.alerts, a)
	m.mu.Unlock()

	if fade > 0 {
		key, seq := a.Key, a.seq
		m.afterFunc(fade, func() { m.expire(key, seq) })
	}
	m.notify()
}

// Success publishes a success banner that fades after fade.
func (m *Manager) Success(subject any, message string, fade time.Duration) {
	m.Publish(Alert{Key: Key(Success, subject), Kind: Success, Message: message}, fade)
}

// Danger publishes a danger banner. A zero fade keeps it until dismissed.
func (m *Manager) Danger(subject any, message string, fade time.Duration) {
	m.Publish(Alert{Key: Key(Danger, subject), Kind: Danger, Message: message}, fade)
}

// Dismiss removes the banner with the given key, if shown.
func (m *Manager) Dismiss(key string) bool {
	m.mu.Lock()
	removed := m.removeLocked(key)
	m.mu.Unlock()
	if removed {
		m.notify()
	}
	return removed
}

// Clear removes every banner.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.alerts = nil
	m.mu.Unlock()
	m.notify()
}

// Get returns the banner with the given key.
func (m *Manager) Get(key string) (Alert, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.alerts {
		if a.Key == key {
			return a, true
		}
	}
	return Alert{}, false
}

// List returns the shown banners in publish order.
func (m *Manager) List() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Alert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// Subscribe returns a channel that receives a signal after every change.
func (m *Manager) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	m.mu.Lock()
	m.subs[ch] = struct{}{}
	m.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (m *Manager) Unsubscribe(ch chan struct{}) {
	m.mu.Lock()
	delete(m.subs, ch)
	m.mu.Unlock()
	close(ch)
}

func (m *Manager) expire(key string, seq uint64) {
	m.mu.Lock()
	removed := false
	for i, a := range m.alerts {
		if a.Key == key && a.seq == seq {
			m.alerts = append(m.alerts[:i], m.alerts[i+1:]...)
			removed = true
			break
		}
	}
	m.mu.Unlock()
	if removed {
		m.notify()
	}
}

func (m *Manager) removeLocked(key string) bool {
	for i, a := range m.alerts {
		if a.Key == key {
			m.alerts = append(m.alerts[:i], m.alerts[i+1:]...)
			return true
		}
	}
	return false
}

func (m *Manager) notify() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for ch := range m.subs {
		select {
		case ch <- struct{}{}:
		default:
			// a redraw is already pending
		}
	}
}
