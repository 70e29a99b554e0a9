package todo

import "strings"

// Repeating is the recurrence label of an item.
type Repeating string

const (
	RepeatNo       Repeating = "No"
	RepeatDaily    Repeating = "Daily"
	RepeatWeekly   Repeating = "Weekly"
	RepeatBiWeekly Repeating = "BiWeekly"
	RepeatMonthly  Repeating = "Monthly"
	RepeatYearly   Repeating = "Yearly"
)

// Repeatings lists every recurrence label in display order.
var Repeatings = []Repeating{RepeatNo, RepeatDaily, RepeatWeekly, RepeatBiWeekly, RepeatMonthly, RepeatYearly}

// ParseRepeating matches a label case-insensitively. Unknown labels map to RepeatNo.
func ParseRepeating(s string) Repeating {
	for _, r := range Repeatings {
		if strings.EqualFold(s, string(r)) {
			return r
		}
	}
	return RepeatNo
}

// NewID marks an item that has not been saved yet.
const NewID = -1

// Item is a single to-do entry as exchanged with the backend.
type Item struct {
	ID          int       `json:"id"`
	ParentID    int       `json:"parentId"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Done        bool      `json:"done"`
	Scheduled   bool      `json:"scheduled"`
	DueDate     string    `json:"dueDate" validate:"duedate"`
	DueTime     string    `json:"dueTime" validate:"duetime"`
	DueTimezone string    `json:"dueTimezone" validate:"duetz"`
	Repeating   Repeating `json:"repeating"`
}

// NewDraft returns a blank unsaved item.
func NewDraft() Item {
	return Item{
		ID:        NewID,
		ParentID:  NewID,
		Repeating: RepeatNo,
	}
}

// Clone returns an independent copy.
func (it Item) Clone() Item {
	return it
}

// IsNew reports whether the item still needs the add endpoint.
func (it Item) IsNew() bool {
	return it.ID < 0
}

func (it Item) IsRepeating() bool {
	return it.Repeating != "" && it.Repeating != RepeatNo
}

// DueString is the due date followed by the due time when one is set.
func (it Item) DueString() string {
	if it.DueTime == "" {
		return it.DueDate
	}
	return it.DueDate + " " + it.DueTime
}

// ClearScheduling drops every due-date field and resets recurrence.
func (it *Item) ClearScheduling() {
	it.DueDate = ""
	it.DueTime = ""
	it.DueTimezone = ""
	it.Repeating = RepeatNo
}

// Partition splits items by Done, keeping the original order in both halves.
func Partition(items []Item) (active, inactive []Item) {
	active = []Item{}
	inactive = []Item{}
	for _, it := range items {
		if it.Done {
			inactive = append(inactive, it)
		} else {
			active = append(active, it)
		}
	}
	return active, inactive
}

// Find returns the item with the given id.
func Find(items []Item, id int) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}
