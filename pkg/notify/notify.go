// Package notify finds scheduled items that need the user's attention.
package notify

import (
	"context"
	"time"

	"todolist/pkg/todo"
)

// Reason says why an item was flagged.
type Reason int

const (
	DueToday Reason = iota
	Overdue
	DueTomorrow
)

func (r Reason) String() string {
	switch r {
	case DueToday:
		return "due today"
	case Overdue:
		return "overdue"
	case DueTomorrow:
		return "due tomorrow"
	}
	return "unknown"
}

// Notice is a flagged item.
type Notice struct {
	Reason Reason
	Item   todo.Item
}

// Classify flags open scheduled items that are due today, due tomorrow, or
// repeating and already past due. Dates are compared in now's location and
// the time of day is ignored.
func Classify(items []todo.Item, now time.Time) []Notice {
	loc := now.Location()
	today := now.Format(time.DateOnly)
	tomorrow := now.AddDate(0, 0, 1).Format(time.DateOnly)

	var out []Notice
	for _, it := range items {
		if it.Done || !it.Scheduled {
			continue
		}
		due, err := time.ParseInLocation(time.DateOnly, it.DueDate, loc)
		if err != nil {
			continue
		}
		dueDate := due.Format(time.DateOnly)
		switch {
		case dueDate == today:
			out = append(out, Notice{Reason: DueToday, Item: it})
		case due.Before(now) && it.IsRepeating():
			out = append(out, Notice{Reason: Overdue, Item: it})
		case dueDate == tomorrow:
			out = append(out, Notice{Reason: DueTomorrow, Item: it})
		}
	}
	return out
}

// After runs fn once when delay has passed, unless ctx is cancelled first.
// It returns immediately.
func After(ctx context.Context, delay time.Duration, fn func()) {
	go func() {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
			fn()
		}
	}()
}
