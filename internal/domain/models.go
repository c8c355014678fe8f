package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownStudent           = errors.New("unknown student")
	ErrCancellationWindowClosed = errors.New("cancellation window closed")
	ErrUnknownMealType          = errors.New("unknown meal type")
)

// Student is a member of the facility as resolved by the student directory.
type Student struct {
	RollNo         string          `json:"roll_no"`
	Name           string          `json:"name"`
	RoomNumber     string          `json:"room_number"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

type MealType int

const (
	Breakfast MealType = iota
	Lunch
	Dinner
)

// AllMealTypes lists the meal types in their canonical daily order.
var AllMealTypes = []MealType{Breakfast, Lunch, Dinner}

func (m MealType) String() string {
	switch m {
	case Breakfast:
		return "breakfast"
	case Lunch:
		return "lunch"
	case Dinner:
		return "dinner"
	}
	return fmt.Sprintf("MealType(%d)", int(m))
}

func (m MealType) Valid() bool {
	return m >= Breakfast && m <= Dinner
}

func ParseMealType(s string) (MealType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "breakfast":
		return Breakfast, nil
	case "lunch":
		return Lunch, nil
	case "dinner":
		return Dinner, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMealType, s)
}

func (m MealType) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMealType, int(m))
	}
	return []byte(m.String()), nil
}

func (m *MealType) UnmarshalText(b []byte) error {
	parsed, err := ParseMealType(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// NormalizeMeals de-duplicates meals and puts them in canonical order.
// Invalid values are dropped.
func NormalizeMeals(meals []MealType) []MealType {
	seen := make(map[MealType]bool, len(AllMealTypes))
	out := make([]MealType, 0, len(AllMealTypes))
	for _, m := range meals {
		if m.Valid() && !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Booking records which meals a student has reserved on one day.
// An all-false booking is equivalent to no booking.
type Booking struct {
	RollNo    string `json:"roll_no"`
	Date      Date   `json:"date"`
	Breakfast bool   `json:"breakfast"`
	Lunch     bool   `json:"lunch"`
	Dinner    bool   `json:"dinner"`
}

func (b Booking) Has(m MealType) bool {
	switch m {
	case Breakfast:
		return b.Breakfast
	case Lunch:
		return b.Lunch
	case Dinner:
		return b.Dinner
	}
	return false
}

// Set returns true if the flag changed.
func (b *Booking) Set(m MealType, v bool) bool {
	if b.Has(m) == v {
		return false
	}
	switch m {
	case Breakfast:
		b.Breakfast = v
	case Lunch:
		b.Lunch = v
	case Dinner:
		b.Dinner = v
	default:
		return false
	}
	return true
}

func (b Booking) Any() bool {
	return b.Breakfast || b.Lunch || b.Dinner
}

type ResultKind string

const (
	Success ResultKind = "success"
	Failure ResultKind = "failure"
)

type Reason string

const (
	ReasonNone                     Reason = ""
	ReasonUnknownStudent           Reason = "unknown_student"
	ReasonCancellationWindowClosed Reason = "cancellation_window_closed"
)

// Result is the outcome of a single book or cancel call. Business rejections
// are Failure results, never Go errors.
type Result struct {
	Kind    ResultKind `json:"kind"`
	Reason  Reason     `json:"reason,omitempty"`
	Message string     `json:"message"`
	Booking *Booking   `json:"booking,omitempty"`
}

func Succeeded(msg string, b Booking) Result {
	return Result{Kind: Success, Message: msg, Booking: &b}
}

func Rejected(reason Reason, msg string) Result {
	return Result{Kind: Failure, Reason: reason, Message: msg}
}

func (r Result) OK() bool { return r.Kind == Success }

// Err maps a failure reason to its sentinel error, or nil on success.
func (r Result) Err() error {
	switch r.Reason {
	case ReasonUnknownStudent:
		return ErrUnknownStudent
	case ReasonCancellationWindowClosed:
		return ErrCancellationWindowClosed
	}
	return nil
}

type Action string

const (
	ActionBook   Action = "book"
	ActionCancel Action = "cancel"
)

func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionBook:
		return ActionBook, nil
	case ActionCancel:
		return ActionCancel, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Rejection is one meal operation refused during a bulk run.
type Rejection struct {
	Date    Date     `json:"date"`
	Meal    MealType `json:"meal"`
	Reason  Reason   `json:"reason"`
	Message string   `json:"message"`
}

// BulkOutcome reports a bulk run. DaysProcessed counts every day iterated,
// whether or not its operations succeeded.
type BulkOutcome struct {
	DaysProcessed      int         `json:"days_processed"`
	DaysFullySucceeded int         `json:"days_fully_succeeded"`
	Rejections         []Rejection `json:"rejections,omitempty"`
}

// StudentBillLine aggregates one student's meals over a range.
type StudentBillLine struct {
	RollNo    string          `json:"roll_no"`
	Name      string          `json:"name"`
	Breakfast int             `json:"breakfast"`
	Lunch     int             `json:"lunch"`
	Dinner    int             `json:"dinner"`
	Total     decimal.Decimal `json:"total"`
}

func (l StudentBillLine) Count(m MealType) int {
	switch m {
	case Breakfast:
		return l.Breakfast
	case Lunch:
		return l.Lunch
	case Dinner:
		return l.Dinner
	}
	return 0
}

func (l *StudentBillLine) add(b Booking) {
	if b.Breakfast {
		l.Breakfast++
	}
	if b.Lunch {
		l.Lunch++
	}
	if b.Dinner {
		l.Dinner++
	}
}

// Empty reports whether the line has no meals counted.
func (l StudentBillLine) Empty() bool {
	return l.Breakfast == 0 && l.Lunch == 0 && l.Dinner == 0
}

// Tally folds bookings into per-student lines. Bookings outside rng are ignored.
func Tally(rng DateRange, bookings []Booking) map[string]*StudentBillLine {
	lines := make(map[string]*StudentBillLine)
	for _, b := range bookings {
		if !rng.Contains(b.Date) || !b.Any() {
			continue
		}
		line, ok := lines[b.RollNo]
		if !ok {
			line = &StudentBillLine{RollNo: b.RollNo, Total: decimal.Zero}
			lines[b.RollNo] = line
		}
		line.add(b)
	}
	return lines
}

// Report is the range billing summary. ByStudent is sparse and sorted by RollNo.
type Report struct {
	Range      DateRange         `json:"range"`
	ByStudent  []StudentBillLine `json:"by_student"`
	GrandTotal decimal.Decimal   `json:"grand_total"`
}

// Find returns the line for rollNo, if present.
func (r Report) Find(rollNo string) (StudentBillLine, bool) {
	for _, l := range r.ByStudent {
		if l.RollNo == rollNo {
			return l, true
		}
	}
	return StudentBillLine{}, false
}

// Menu is the day's menu text. Display only.
type Menu struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}
