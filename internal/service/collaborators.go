package service

import (
	"context"
	"errors"

	"github.com/punchamoorthee/messops/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrPriceNotFound   = errors.New("price not found")
)

// StudentDirectory resolves roll numbers. Returns ErrStudentNotFound for
// unknown ids.
type StudentDirectory interface {
	FindStudent(ctx context.Context, rollNo string) (domain.Student, error)
}

// BookingStore persists one Booking per (roll number, date).
type BookingStore interface {
	GetBooking(ctx context.Context, rollNo string, date domain.Date) (domain.Booking, bool, error)
	PutBooking(ctx context.Context, b domain.Booking) error
	ListBookings(ctx context.Context, rng domain.DateRange) ([]domain.Booking, error)
}

type MenuProvider interface {
	GetMenu(ctx context.Context) (domain.Menu, error)
}

// RateSource prices a single meal. Returns ErrPriceNotFound when no price
// table entry exists.
type RateSource interface {
	PriceOf(ctx context.Context, meal domain.MealType) (decimal.Decimal, error)
}
