package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualTimers captures fade callbacks so tests can fire them on demand.
type manualTimers struct {
	pending []func()
}

func (mt *manualTimers) afterFunc(_ time.Duration, f func()) *time.Timer {
	mt.pending = append(mt.pending, f)
	return nil
}

func (mt *manualTimers) fireAll() {
	fs := mt.pending
	mt.pending = nil
	for _, f := range fs {
		f()
	}
}

func newTestManager() (*Manager, *manualTimers) {
	mt := &manualTimers{}
	m := NewManager()
	m.afterFunc = mt.afterFunc
	return m, mt
}

func TestKey(t *testing.T) {
	assert.Equal(t, "alerts7", Key(Success, 7))
	assert.Equal(t, "alertd-1", Key(Danger, -1))
	assert.Equal(t, "alertdi", Key(Danger, "i"))
	assert.Equal(t, "alertw3", Key(Warning, 3))
}

func TestPublishReplacesSameKey(t *testing.T) {
	m, _ := newTestManager()

	m.Danger(5, "Failed to delete A", 0)
	m.Success(5, "A deleted!", 0)
	m.Danger(5, "Failed to delete A again", 0)

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alerts5", list[0].Key)
	assert.Equal(t, "alertd5", list[1].Key)
	assert.Equal(t, "Failed to delete A again", list[1].Message)
}

func TestNoDuplicateKeys(t *testing.T) {
	m, _ := newTestManager()
	for i := 0; i < 10; i++ {
		m.Success(1, "again", 0)
	}
	assert.Len(t, m.List(), 1)
}

func TestFadeRemovesAlert(t *testing.T) {
	m, mt := newTestManager()

	m.Success(1, "Buy milk added!", 5*time.Second)
	m.Danger("i", "Failed to get items!", 0)
	require.Len(t, m.List(), 2)

	mt.fireAll()

	list := m.List()
	require.Len(t, list, 1)
	assert.Equal(t, "alertdi", list[0].Key)
}

func TestStaleFadeKeepsRepublishedAlert(t *testing.T) {
	m, mt := newTestManager()

	m.Success(1, "first", 5*time.Second)
	stale := mt.pending[0]
	mt.pending = nil
	m.Success(1, "second", 0)

	stale()

	a, ok := m.Get("alerts1")
	require.True(t, ok)
	assert.Equal(t, "second", a.Message)
}

func TestDismiss(t *testing.T) {
	m, _ := newTestManager()
	m.Publish(Alert{Kind: Info, ItemID: 4, Message: "Rent is due today!", Actionable: true}, 0)

	assert.True(t, m.Dismiss("alerti4"))
	assert.False(t, m.Dismiss("alerti4"))
	assert.Empty(t, m.List())
}

func TestSubscribeSignalsChanges(t *testing.T) {
	m, _ := newTestManager()
	ch := m.Subscribe()
	defer m.Unsubscribe(ch)

	m.Success(1, "x", 0)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected change signal")
	}
}

func TestRealFade(t *testing.T) {
	m := NewManager()
	m.Success(2, "quick", 10*time.Millisecond)

	assert.Eventually(t, func() bool { return len(m.List()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestClear(t *testing.T) {
	m, _ := newTestManager()
	m.Success(1, "one", time.Second)
	m.Danger("i", "two", 0)
	ch := m.Subscribe()

	m.Clear()

	assert.Empty(t, m.List())
	select {
	case <-ch:
	default:
		t.Fatal("no change signal")
	}
}
