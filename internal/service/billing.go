package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/punchamoorthee/messops/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BillingAggregator summarises bookings over a date range. It never writes.
type BillingAggregator struct {
	bookings BookingStore
	students StudentDirectory
	rates    RateSource
	log      *zap.Logger
}

// NewBillingAggregator accepts a nil rates, in which case every total is zero.
func NewBillingAggregator(bookings BookingStore, students StudentDirectory, rates RateSource, log *zap.Logger) *BillingAggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &BillingAggregator{bookings: bookings, students: students, rates: rates, log: log}
}

// RangeReport counts booked meals per student within rng, both ends included.
// Students without any booked meal in the range are left out.
func (a *BillingAggregator) RangeReport(ctx context.Context, rng domain.DateRange) (domain.Report, error) {
	if err := rng.Validate(); err != nil {
		return domain.Report{}, err
	}

	bookings, err := a.bookings.ListBookings(ctx, rng)
	if err != nil {
		return domain.Report{}, fmt.Errorf("list bookings %s..%s: %w", rng.From, rng.To, err)
	}

	prices, err := a.priceTable(ctx)
	if err != nil {
		return domain.Report{}, err
	}

	lines := domain.Tally(rng, bookings)
	report := domain.Report{
		Range:      rng,
		ByStudent:  make([]domain.StudentBillLine, 0, len(lines)),
		GrandTotal: decimal.Zero,
	}
	for _, line := range lines {
		total := decimal.Zero
		for _, m := range domain.AllMealTypes {
			total = total.Add(prices[m].Mul(decimal.NewFromInt(int64(line.Count(m)))))
		}
		line.Total = total

		if a.students != nil {
			st, err := a.students.FindStudent(ctx, line.RollNo)
			switch {
			case err == nil:
				line.Name = st.Name
			case errors.Is(err, ErrStudentNotFound):
				a.log.Warn("bookings for unknown student", zap.String("roll_no", line.RollNo))
			default:
				return domain.Report{}, fmt.Errorf("find student %s: %w", line.RollNo, err)
			}
		}

		report.ByStudent = append(report.ByStudent, *line)
		report.GrandTotal = report.GrandTotal.Add(total)
	}
	sort.Slice(report.ByStudent, func(i, j int) bool {
		return report.ByStudent[i].RollNo < report.ByStudent[j].RollNo
	})
	return report, nil
}

// StudentBill returns rollNo's line in the range report. ok is false when the
// student has no meals in the range.
func (a *BillingAggregator) StudentBill(ctx context.Context, rollNo string, rng domain.DateRange) (domain.StudentBillLine, bool, error) {
	report, err := a.RangeReport(ctx, rng)
	if err != nil {
		return domain.StudentBillLine{}, false, err
	}
	line, ok := report.Find(rollNo)
	return line, ok, nil
}

// priceTable resolves one price per meal. Missing or negative prices are zero.
func (a *BillingAggregator) priceTable(ctx context.Context) (map[domain.MealType]decimal.Decimal, error) {
	prices := make(map[domain.MealType]decimal.Decimal, len(domain.AllMealTypes))
	for _, m := range domain.AllMealTypes {
		prices[m] = decimal.Zero
		if a.rates == nil {
			continue
		}
		p, err := a.rates.PriceOf(ctx, m)
		if err != nil {
			if errors.Is(err, ErrPriceNotFound) {
				continue
			}
			return nil, fmt.Errorf("price of %s: %w", m, err)
		}
		if p.IsNegative() {
			a.log.Warn("negative meal price ignored", zap.Stringer("meal", m), zap.String("price", p.String()))
			continue
		}
		prices[m] = p
	}
	return prices, nil
}
