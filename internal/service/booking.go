package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/punchamoorthee/messops/internal/domain"
	"go.uber.org/zap"
)

// BookingEngine validates and applies book/cancel requests for a single
// (student, date, meal) tuple.
type BookingEngine struct {
	students StudentDirectory
	bookings BookingStore
	clock    Clock
	locks    *keyLock
	log      *zap.Logger
}

func NewBookingEngine(students StudentDirectory, bookings BookingStore, clock Clock, log *zap.Logger) *BookingEngine {
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingEngine{
		students: students,
		bookings: bookings,
		clock:    clock,
		locks:    newKeyLock(),
		log:      log,
	}
}

// Profile resolves a student through the directory.
func (e *BookingEngine) Profile(ctx context.Context, rollNo string) (domain.Student, error) {
	st, err := e.students.FindStudent(ctx, rollNo)
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			return domain.Student{}, domain.ErrUnknownStudent
		}
		return domain.Student{}, fmt.Errorf("find student %s: %w", rollNo, err)
	}
	return st, nil
}

// Status returns the booking for the given day. A missing record is reported
// as an all-false booking.
func (e *BookingEngine) Status(ctx context.Context, rollNo string, date domain.Date) (domain.Booking, error) {
	if _, err := e.Profile(ctx, rollNo); err != nil {
		return domain.Booking{}, err
	}
	b, _, err := e.load(ctx, rollNo, date)
	return b, err
}

// Book reserves meal for rollNo on date. Booking an already booked meal
// succeeds without writing.
func (e *BookingEngine) Book(ctx context.Context, rollNo string, meal domain.MealType, date domain.Date) (domain.Result, error) {
	if !meal.Valid() {
		return domain.Result{}, fmt.Errorf("%w: %d", domain.ErrUnknownMealType, int(meal))
	}
	if res, ok, err := e.resolve(ctx, rollNo); !ok {
		return res, err
	}

	unlock := e.locks.Lock(rollNo, date)
	defer unlock()

	b, _, err := e.load(ctx, rollNo, date)
	if err != nil {
		return domain.Result{}, err
	}
	if b.Set(meal, true) {
		if err := e.bookings.PutBooking(ctx, b); err != nil {
			return domain.Result{}, fmt.Errorf("put booking %s/%s: %w", rollNo, date, err)
		}
	}

	e.log.Debug("meal booked",
		zap.String("roll_no", rollNo),
		zap.Stringer("meal", meal),
		zap.Stringer("date", date))
	return domain.Succeeded(fmt.Sprintf("%s booked for %s.", titleMeal(meal), date), b), nil
}

// Cancel releases meal for rollNo on date. Dates before today are rejected
// with ReasonCancellationWindowClosed and left untouched.
func (e *BookingEngine) Cancel(ctx context.Context, rollNo string, meal domain.MealType, date domain.Date) (domain.Result, error) {
	if !meal.Valid() {
		return domain.Result{}, fmt.Errorf("%w: %d", domain.ErrUnknownMealType, int(meal))
	}
	if res, ok, err := e.resolve(ctx, rollNo); !ok {
		return res, err
	}

	unlock := e.locks.Lock(rollNo, date)
	defer unlock()

	if now := today(e.clock); date.Before(now) {
		e.log.Debug("cancellation rejected",
			zap.String("roll_no", rollNo),
			zap.Stringer("meal", meal),
			zap.Stringer("date", date),
			zap.Stringer("today", now))
		return domain.Rejected(domain.ReasonCancellationWindowClosed,
			fmt.Sprintf("You can no longer cancel %s for %s.", meal, date)), nil
	}

	b, found, err := e.load(ctx, rollNo, date)
	if err != nil {
		return domain.Result{}, err
	}
	if found && b.Set(meal, false) {
		if err := e.bookings.PutBooking(ctx, b); err != nil {
			return domain.Result{}, fmt.Errorf("put booking %s/%s: %w", rollNo, date, err)
		}
	}

	e.log.Debug("meal cancelled",
		zap.String("roll_no", rollNo),
		zap.Stringer("meal", meal),
		zap.Stringer("date", date))
	return domain.Succeeded(fmt.Sprintf("%s cancelled for %s.", titleMeal(meal), date), b), nil
}

// resolve reports ok=false with either a Failure result or a collaborator
// error when the student cannot be used.
func (e *BookingEngine) resolve(ctx context.Context, rollNo string) (domain.Result, bool, error) {
	_, err := e.Profile(ctx, rollNo)
	switch {
	case err == nil:
		return domain.Result{}, true, nil
	case errors.Is(err, domain.ErrUnknownStudent):
		return domain.Rejected(domain.ReasonUnknownStudent,
			fmt.Sprintf("Student %q not found.", rollNo)), false, nil
	default:
		return domain.Result{}, false, err
	}
}

func (e *BookingEngine) load(ctx context.Context, rollNo string, date domain.Date) (domain.Booking, bool, error) {
	b, found, err := e.bookings.GetBooking(ctx, rollNo, date)
	if err != nil {
		return domain.Booking{}, false, fmt.Errorf("get booking %s/%s: %w", rollNo, date, err)
	}
	if !found {
		b = domain.Booking{RollNo: rollNo, Date: date}
	}
	return b, found, nil
}

func titleMeal(m domain.MealType) string {
	s := m.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
