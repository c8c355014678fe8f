package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/punchamoorthee/messops/internal/domain"
	"github.com/punchamoorthee/messops/internal/service"
	"github.com/punchamoorthee/messops/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	// The wall clock reads mid-afternoon on 2024-01-02.
	now       = time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)
	yesterday = domain.NewDate(2024, 1, 1)
	today     = domain.NewDate(2024, 1, 2)
	tomorrow  = domain.NewDate(2024, 1, 3)
)

type fixture struct {
	mem     *store.Memory
	engine  *service.BookingEngine
	bulk    *service.BulkOperator
	billing *service.BillingAggregator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory()
	mem.AddStudent(domain.Student{RollNo: "A01", Name: "Asha", RoomNumber: "101", CurrentBalance: decimal.NewFromInt(5000)})
	mem.AddStudent(domain.Student{RollNo: "A02", Name: "Bilal", RoomNumber: "102", CurrentBalance: decimal.NewFromInt(5000)})
	require.NoError(t, store.SeedDefaults(context.Background(), mem))

	engine := service.NewBookingEngine(mem, mem, service.FixedClock(now), nil)
	return &fixture{
		mem:     mem,
		engine:  engine,
		bulk:    service.NewBulkOperator(engine, nil),
		billing: service.NewBillingAggregator(mem, mem, mem, nil),
	}
}

func (f *fixture) booking(t *testing.T, roll string, d domain.Date) domain.Booking {
	t.Helper()
	b, _, err := f.mem.GetBooking(context.Background(), roll, d)
	require.NoError(t, err)
	return b
}

// faultyStore fails every call with err.
type faultyStore struct{ err error }

func (s faultyStore) FindStudent(context.Context, string) (domain.Student, error) {
	return domain.Student{}, s.err
}

func (s faultyStore) GetBooking(context.Context, string, domain.Date) (domain.Booking, bool, error) {
	return domain.Booking{}, false, s.err
}

func (s faultyStore) PutBooking(context.Context, domain.Booking) error { return s.err }

func (s faultyStore) ListBookings(context.Context, domain.DateRange) ([]domain.Booking, error) {
	return nil, s.err
}

func (s faultyStore) PriceOf(context.Context, domain.MealType) (decimal.Decimal, error) {
	return decimal.Zero, s.err
}

var errStoreDown = errors.New("store unavailable")
