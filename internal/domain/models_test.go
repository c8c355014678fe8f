package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMealType(t *testing.T) {
	for in, want := range map[string]MealType{
		"breakfast": Breakfast,
		"LUNCH":     Lunch,
		" Dinner ":  Dinner,
	} {
		got, err := ParseMealType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseMealType("brunch")
	assert.ErrorIs(t, err, ErrUnknownMealType)
}

func TestMealTypeJSON(t *testing.T) {
	body, err := json.Marshal([]MealType{Breakfast, Dinner})
	require.NoError(t, err)
	assert.JSONEq(t, `["breakfast","dinner"]`, string(body))

	_, err = json.Marshal(MealType(7))
	assert.Error(t, err)
}

func TestNormalizeMeals(t *testing.T) {
	got := NormalizeMeals([]MealType{Dinner, Breakfast, Dinner, MealType(9), Lunch})
	assert.Equal(t, []MealType{Breakfast, Lunch, Dinner}, got)
	assert.Empty(t, NormalizeMeals(nil))
}

func TestBookingFlags(t *testing.T) {
	var b Booking
	assert.False(t, b.Any())

	assert.True(t, b.Set(Lunch, true))
	assert.False(t, b.Set(Lunch, true), "setting an already set flag reports no change")
	assert.True(t, b.Lunch)
	assert.False(t, b.Breakfast, "flags are independent")
	assert.False(t, b.Dinner, "flags are independent")
	assert.True(t, b.Any())

	assert.True(t, b.Set(Lunch, false))
	assert.False(t, b.Any())
}

func TestResultErr(t *testing.T) {
	assert.NoError(t, Succeeded("ok", Booking{}).Err())
	assert.ErrorIs(t, Rejected(ReasonUnknownStudent, "x").Err(), ErrUnknownStudent)
	assert.ErrorIs(t, Rejected(ReasonCancellationWindowClosed, "x").Err(), ErrCancellationWindowClosed)
	assert.False(t, Rejected(ReasonUnknownStudent, "x").OK())
}

func TestTally(t *testing.T) {
	rng := DateRange{From: NewDate(2024, 1, 1), To: NewDate(2024, 1, 2)}
	lines := Tally(rng, []Booking{
		{RollNo: "A01", Date: NewDate(2024, 1, 1), Breakfast: true, Lunch: true},
		{RollNo: "A01", Date: NewDate(2024, 1, 2), Breakfast: true},
		{RollNo: "A01", Date: NewDate(2024, 1, 3), Dinner: true}, // outside
		{RollNo: "A02", Date: NewDate(2024, 1, 1)},               // all false
	})

	require.Len(t, lines, 1)
	a01 := lines["A01"]
	assert.Equal(t, 2, a01.Breakfast)
	assert.Equal(t, 1, a01.Lunch)
	assert.Equal(t, 0, a01.Dinner)
}
