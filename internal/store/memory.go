package store

import (
	"context"
	"sort"
	"sync"

	"github.com/punchamoorthee/messops/internal/domain"
	"github.com/punchamoorthee/messops/internal/service"
	"github.com/shopspring/decimal"
)

type bookingKey struct {
	rollNo string
	date   domain.Date
}

// Memory is an in-process implementation of every collaborator. It backs the
// tests and STORE_DRIVER=memory.
type Memory struct {
	mu       sync.RWMutex
	students map[string]domain.Student
	bookings map[bookingKey]domain.Booking
	prices   map[domain.MealType]decimal.Decimal
	menu     domain.Menu
}

var (
	_ service.StudentDirectory = (*Memory)(nil)
	_ service.BookingStore     = (*Memory)(nil)
	_ service.RateSource       = (*Memory)(nil)
	_ service.MenuProvider     = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		students: make(map[string]domain.Student),
		bookings: make(map[bookingKey]domain.Booking),
		prices:   make(map[domain.MealType]decimal.Decimal),
	}
}

func (m *Memory) AddStudent(st domain.Student) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students[st.RollNo] = st
}

func (m *Memory) FindStudent(_ context.Context, rollNo string) (domain.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.students[rollNo]
	if !ok {
		return domain.Student{}, ErrStudentNotFound
	}
	return st, nil
}

func (m *Memory) GetBooking(_ context.Context, rollNo string, date domain.Date) (domain.Booking, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[bookingKey{rollNo, date}]
	return b, ok, nil
}

func (m *Memory) PutBooking(_ context.Context, b domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[bookingKey{b.RollNo, b.Date}] = b
	return nil
}

// ListBookings returns the bookings within rng ordered by roll number, then date.
func (m *Memory) ListBookings(_ context.Context, rng domain.DateRange) ([]domain.Booking, error) {
	m.mu.RLock()
	out := make([]domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		if rng.Contains(b.Date) {
			out = append(out, b)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].RollNo != out[j].RollNo {
			return out[i].RollNo < out[j].RollNo
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (m *Memory) SetPrice(_ context.Context, meal domain.MealType, price decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[meal] = price
	return nil
}

func (m *Memory) PriceOf(_ context.Context, meal domain.MealType) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.prices[meal]
	if !ok {
		return decimal.Zero, ErrPriceNotFound
	}
	return p, nil
}

func (m *Memory) SetMenu(_ context.Context, menu domain.Menu) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.menu = menu
	return nil
}

func (m *Memory) GetMenu(context.Context) (domain.Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.menu, nil
}
