package todo

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Form field identifiers used by views to place helper text.
const (
	FieldTitle       = "title"
	FieldDueDate     = "dueDate"
	FieldDueTime     = "dueTime"
	FieldDueTimezone = "dueTimezone"
)

var helperText = map[string]string{
	FieldTitle:       "You need to specify title for todo items.",
	FieldDueDate:     "When the todo item is scheduled you need to specify due date in format yyyy-mm-dd.",
	FieldDueTime:     "If you specify due time, it needs to be specified in format HH:MM",
	FieldDueTimezone: "If you specify time zone, it needs to be specified in format [+-]?HH:MM",
}

var (
	dueDateRe  = regexp.MustCompile(`^\d{4}-[0-1]\d-[0-3]\d$`)
	dueTimeRe  = regexp.MustCompile(`^[0-2]\d:[0-5]\d$`)
	dueTZRe    = regexp.MustCompile(`^[+-]?[0-1]\d:[0-5]\d$`)
	fieldNames = map[string]string{
		"Title":       FieldTitle,
		"DueDate":     FieldDueDate,
		"DueTime":     FieldDueTime,
		"DueTimezone": FieldDueTimezone,
	}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	rules := map[string]validator.Func{
		"duedate": func(fl validator.FieldLevel) bool {
			return ValidDueDate(fl.Field().String())
		},
		"duetime": func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || ValidDueTime(s)
		},
		"duetz": func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || dueTZRe.MatchString(s)
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	return v
}

// ValidDueDate reports whether s is a yyyy-mm-dd calendar date.
func ValidDueDate(s string) bool {
	if !dueDateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// ValidDueTime reports whether s is an HH:MM wall-clock time.
func ValidDueTime(s string) bool {
	if !dueTimeRe.MatchString(s) {
		return false
	}
	return s < "24:00"
}

// FieldError is a single invalid form field.
type FieldError struct {
	Field  string
	Helper string
}

// FieldErrors is returned when an item fails wizard validation.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for _, e := range fe {
		fields = append(fields, e.Field)
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}

// Map indexes helper texts by field.
func (fe FieldErrors) Map() map[string]string {
	m := make(map[string]string, len(fe))
	for _, e := range fe {
		m[e.Field] = e.Helper
	}
	return m
}

// ValidatePageOne checks the wizard's first page (title).
func ValidatePageOne(it Item) error {
	return check(it, "Title")
}

// ValidatePageTwo checks the scheduling page. It is only meaningful for scheduled items.
func ValidatePageTwo(it Item) error {
	return check(it, "DueDate", "DueTime", "DueTimezone")
}

// ValidateForSave checks everything a save needs and returns the item to send.
// Unscheduled items come back with their scheduling fields cleared.
func ValidateForSave(it Item) (Item, error) {
	if err := ValidatePageOne(it); err != nil {
		return it, err
	}
	if !it.Scheduled {
		it.ClearScheduling()
		return it, nil
	}
	if err := ValidatePageTwo(it); err != nil {
		return it, err
	}
	return it, nil
}

func check(it Item, fields ...string) error {
	err := validate.StructPartial(it, fields...)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, 0, len(verrs))
	for _, ve := range verrs {
		name := fieldNames[ve.StructField()]
		out = append(out, FieldError{Field: name, Helper: helperText[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return fieldOrder(out[i].Field) < fieldOrder(out[j].Field)
	})
	return out
}

func fieldOrder(f string) int {
	switch f {
	case FieldTitle:
		return 0
	case FieldDueDate:
		return 1
	case FieldDueTime:
		return 2
	default:
		return 3
	}
}
