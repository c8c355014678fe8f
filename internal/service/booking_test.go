package service_test

import (
	"context"
	"testing"

	"github.com/punchamoorthee/messops/internal/domain"
	"github.com/punchamoorthee/messops/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the booking on first call", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.engine.Book(ctx, "A01", domain.Lunch, tomorrow)
		require.NoError(t, err)
		assert.True(t, res.OK())
		require.NotNil(t, res.Booking)
		assert.True(t, res.Booking.Lunch)

		b := f.booking(t, "A01", tomorrow)
		assert.Equal(t, domain.Booking{RollNo: "A01", Date: tomorrow, Lunch: true}, b)
	})

	t.Run("is idempotent", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Book(ctx, "A01", domain.Dinner, today)
		require.NoError(t, err)
		once := f.booking(t, "A01", today)

		res, err := f.engine.Book(ctx, "A01", domain.Dinner, today)
		require.NoError(t, err)
		assert.True(t, res.OK())
		assert.Equal(t, once, f.booking(t, "A01", today))
	})

	t.Run("past dates can be booked", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.engine.Book(ctx, "A01", domain.Breakfast, yesterday)
		require.NoError(t, err)
		assert.True(t, res.OK())
	})

	t.Run("touches only the requested flag and day", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Book(ctx, "A01", domain.Breakfast, today)
		require.NoError(t, err)
		_, err = f.engine.Book(ctx, "A01", domain.Dinner, today)
		require.NoError(t, err)

		b := f.booking(t, "A01", today)
		assert.True(t, b.Breakfast)
		assert.False(t, b.Lunch)
		assert.True(t, b.Dinner)

		_, found, err := f.mem.GetBooking(ctx, "A01", tomorrow)
		require.NoError(t, err)
		assert.False(t, found)
		_, found, err = f.mem.GetBooking(ctx, "A02", today)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("unknown student is a failure result", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.engine.Book(ctx, "Z99", domain.Lunch, today)
		require.NoError(t, err)
		assert.False(t, res.OK())
		assert.Equal(t, domain.ReasonUnknownStudent, res.Reason)
		assert.ErrorIs(t, res.Err(), domain.ErrUnknownStudent)
	})

	t.Run("invalid meal type is an error", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Book(ctx, "A01", domain.MealType(42), today)
		assert.ErrorIs(t, err, domain.ErrUnknownMealType)
	})

	t.Run("collaborator failures propagate", func(t *testing.T) {
		f := newFixture(t)
		engine := service.NewBookingEngine(f.mem, faultyStore{err: errStoreDown}, service.FixedClock(now), nil)
		_, err := engine.Book(ctx, "A01", domain.Lunch, today)
		assert.ErrorIs(t, err, errStoreDown)

		engine = service.NewBookingEngine(faultyStore{err: errStoreDown}, f.mem, service.FixedClock(now), nil)
		_, err = engine.Book(ctx, "A01", domain.Lunch, today)
		assert.ErrorIs(t, err, errStoreDown)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("yesterday is rejected and left unchanged", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Book(ctx, "A01", domain.Dinner, yesterday)
		require.NoError(t, err)
		before := f.booking(t, "A01", yesterday)

		res, err := f.engine.Cancel(ctx, "A01", domain.Dinner, yesterday)
		require.NoError(t, err)
		assert.False(t, res.OK())
		assert.Equal(t, domain.ReasonCancellationWindowClosed, res.Reason)
		assert.ErrorIs(t, res.Err(), domain.ErrCancellationWindowClosed)
		assert.Equal(t, before, f.booking(t, "A01", yesterday))
	})

	t.Run("rejected before cutoff even when never booked", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.engine.Cancel(ctx, "A01", domain.Lunch, yesterday.AddDays(-30))
		require.NoError(t, err)
		assert.Equal(t, domain.ReasonCancellationWindowClosed, res.Reason)
	})

	t.Run("today and later are allowed", func(t *testing.T) {
		f := newFixture(t)
		for _, d := range []domain.Date{today, tomorrow} {
			_, err := f.engine.Book(ctx, "A01", domain.Lunch, d)
			require.NoError(t, err)

			res, err := f.engine.Cancel(ctx, "A01", domain.Lunch, d)
			require.NoError(t, err)
			assert.True(t, res.OK(), d.String())
			assert.False(t, f.booking(t, "A01", d).Lunch)
		}
	})

	t.Run("is idempotent and never creates a record", func(t *testing.T) {
		f := newFixture(t)
		for i := 0; i < 2; i++ {
			res, err := f.engine.Cancel(ctx, "A01", domain.Breakfast, tomorrow)
			require.NoError(t, err)
			assert.True(t, res.OK())
		}
		_, found, err := f.mem.GetBooking(ctx, "A01", tomorrow)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("leaves the other meals alone", func(t *testing.T) {
		f := newFixture(t)
		for _, m := range domain.AllMealTypes {
			_, err := f.engine.Book(ctx, "A01", m, tomorrow)
			require.NoError(t, err)
		}
		_, err := f.engine.Cancel(ctx, "A01", domain.Lunch, tomorrow)
		require.NoError(t, err)

		b := f.booking(t, "A01", tomorrow)
		assert.True(t, b.Breakfast)
		assert.False(t, b.Lunch)
		assert.True(t, b.Dinner)
	})

	t.Run("cutoff follows the clock at call time", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.Book(ctx, "A01", domain.Lunch, today)
		require.NoError(t, err)

		// A day later the same date is in the past.
		later := service.NewBookingEngine(f.mem, f.mem, service.FixedClock(now.AddDate(0, 0, 1)), nil)
		res, err := later.Cancel(ctx, "A01", domain.Lunch, today)
		require.NoError(t, err)
		assert.Equal(t, domain.ReasonCancellationWindowClosed, res.Reason)
		assert.True(t, f.booking(t, "A01", today).Lunch)
	})

	t.Run("unknown student", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.engine.Cancel(ctx, "Z99", domain.Lunch, tomorrow)
		require.NoError(t, err)
		assert.Equal(t, domain.ReasonUnknownStudent, res.Reason)
	})
}

func TestStatusAndProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	b, err := f.engine.Status(ctx, "A01", today)
	require.NoError(t, err)
	assert.False(t, b.Any())
	assert.Equal(t, "A01", b.RollNo)

	_, err = f.engine.Book(ctx, "A01", domain.Breakfast, today)
	require.NoError(t, err)
	b, err = f.engine.Status(ctx, "A01", today)
	require.NoError(t, err)
	assert.True(t, b.Breakfast)

	_, err = f.engine.Status(ctx, "Z99", today)
	assert.ErrorIs(t, err, domain.ErrUnknownStudent)

	st, err := f.engine.Profile(ctx, "A02")
	require.NoError(t, err)
	assert.Equal(t, "Bilal", st.Name)
	assert.Equal(t, "102", st.RoomNumber)
}
