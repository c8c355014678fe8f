package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf(t *testing.T) {
	t.Run("uses the calendar day in the value's location", func(t *testing.T) {
		kolkata := time.FixedZone("IST", 5*3600+1800)
		// 20:00 UTC on Jan 1 is already Jan 2 in IST.
		instant := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC).In(kolkata)
		assert.Equal(t, NewDate(2024, 1, 2), DateOf(instant))
	})

	t.Run("drops the time of day", func(t *testing.T) {
		d := DateOf(time.Date(2024, 3, 5, 23, 59, 59, 0, time.UTC))
		assert.Equal(t, Date{Year: 2024, Month: time.March, Day: 5}, d)
	})
}

func TestDateArithmetic(t *testing.T) {
	t.Run("AddDays crosses month and year boundaries", func(t *testing.T) {
		assert.Equal(t, NewDate(2024, 3, 1), NewDate(2024, 2, 29).AddDays(1))
		assert.Equal(t, NewDate(2025, 1, 1), NewDate(2024, 12, 31).AddDays(1))
		assert.Equal(t, NewDate(2023, 12, 31), NewDate(2024, 1, 1).AddDays(-1))
	})

	t.Run("Compare orders dates", func(t *testing.T) {
		a, b := NewDate(2024, 1, 31), NewDate(2024, 2, 1)
		assert.True(t, a.Before(b))
		assert.True(t, b.After(a))
		assert.Equal(t, 0, a.Compare(a))
		assert.False(t, a.Before(a))
	})

	t.Run("DaysUntil", func(t *testing.T) {
		assert.Equal(t, 366, NewDate(2024, 1, 1).DaysUntil(NewDate(2025, 1, 1)))
		assert.Equal(t, -2, NewDate(2024, 1, 3).DaysUntil(NewDate(2024, 1, 1)))
	})

	t.Run("DaysUntil is exact over centuries", func(t *testing.T) {
		from, to := NewDate(2024, 1, 1), NewDate(2400, 1, 1)
		assert.Equal(t, 137331, from.DaysUntil(to))
		assert.Equal(t, -137331, to.DaysUntil(from))
		assert.Equal(t, 137332, DateRange{From: from, To: to}.Days())
	})
}

func TestDateParseAndJSON(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, 1, 15), d)
	assert.Equal(t, "2024-01-15", d.String())

	_, err = ParseDate("15/01/2024")
	assert.Error(t, err)

	body, err := json.Marshal(struct {
		D Date `json:"d"`
	}{d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2024-01-15"}`, string(body))

	var back struct {
		D Date `json:"d"`
	}
	require.NoError(t, json.Unmarshal(body, &back))
	assert.Equal(t, d, back.D)
}

func TestDateRange(t *testing.T) {
	t.Run("Days counts both endpoints", func(t *testing.T) {
		rng := DateRange{From: NewDate(2024, 1, 1), To: NewDate(2024, 1, 3)}
		assert.Equal(t, 3, rng.Days())
		single := DateRange{From: NewDate(2024, 1, 1), To: NewDate(2024, 1, 1)}
		assert.Equal(t, 1, single.Days())
	})

	t.Run("Validate rejects reversed ranges", func(t *testing.T) {
		rng := DateRange{From: NewDate(2024, 1, 2), To: NewDate(2024, 1, 1)}
		assert.ErrorIs(t, rng.Validate(), ErrInvalidRange)
	})

	t.Run("Contains is inclusive", func(t *testing.T) {
		rng := DateRange{From: NewDate(2024, 1, 1), To: NewDate(2024, 1, 3)}
		assert.True(t, rng.Contains(NewDate(2024, 1, 1)))
		assert.True(t, rng.Contains(NewDate(2024, 1, 3)))
		assert.False(t, rng.Contains(NewDate(2023, 12, 31)))
		assert.False(t, rng.Contains(NewDate(2024, 1, 4)))
	})

	t.Run("Each walks ascending across a month end", func(t *testing.T) {
		rng := DateRange{From: NewDate(2024, 1, 30), To: NewDate(2024, 2, 2)}
		var seen []string
		require.NoError(t, rng.Each(func(d Date) error {
			seen = append(seen, d.String())
			return nil
		}))
		assert.Equal(t, []string{"2024-01-30", "2024-01-31", "2024-02-01", "2024-02-02"}, seen)
	})

	t.Run("RangeFromDays", func(t *testing.T) {
		rng, err := RangeFromDays(NewDate(2024, 1, 1), 3)
		require.NoError(t, err)
		assert.Equal(t, NewDate(2024, 1, 3), rng.To)

		_, err = RangeFromDays(NewDate(2024, 1, 1), 0)
		assert.Error(t, err)
	})
}
