package service

import (
	"context"
	"fmt"

	"github.com/punchamoorthee/messops/internal/domain"
	"go.uber.org/zap"
)

// MealBooker is the single-meal contract the bulk operator drives.
type MealBooker interface {
	Book(ctx context.Context, rollNo string, meal domain.MealType, date domain.Date) (domain.Result, error)
	Cancel(ctx context.Context, rollNo string, meal domain.MealType, date domain.Date) (domain.Result, error)
}

// BulkOperator applies a book or cancel action to every day of a range.
// Callers validate the meal set and range beforehand.
type BulkOperator struct {
	engine MealBooker
	log    *zap.Logger
}

func NewBulkOperator(engine MealBooker, log *zap.Logger) *BulkOperator {
	if log == nil {
		log = zap.NewNop()
	}
	return &BulkOperator{engine: engine, log: log}
}

// ApplyBulk walks rng in ascending date order and, within each day, the meals
// in Breakfast, Lunch, Dinner order. Rejected meal operations are recorded and
// skipped. A collaborator error stops the run; work already applied stays.
func (o *BulkOperator) ApplyBulk(ctx context.Context, rollNo string, action domain.Action, meals []domain.MealType, rng domain.DateRange) (domain.BulkOutcome, error) {
	var apply func(context.Context, string, domain.MealType, domain.Date) (domain.Result, error)
	switch action {
	case domain.ActionBook:
		apply = o.engine.Book
	case domain.ActionCancel:
		apply = o.engine.Cancel
	default:
		return domain.BulkOutcome{}, fmt.Errorf("unsupported bulk action %q", action)
	}

	meals = domain.NormalizeMeals(meals)
	var out domain.BulkOutcome

	err := rng.Each(func(d domain.Date) error {
		allOK := true
		for _, m := range meals {
			res, err := apply(ctx, rollNo, m, d)
			if err != nil {
				return fmt.Errorf("bulk %s %s on %s: %w", action, m, d, err)
			}
			if !res.OK() {
				allOK = false
				out.Rejections = append(out.Rejections, domain.Rejection{
					Date:    d,
					Meal:    m,
					Reason:  res.Reason,
					Message: res.Message,
				})
				o.log.Warn("bulk operation rejected",
					zap.String("roll_no", rollNo),
					zap.String("action", string(action)),
					zap.Stringer("meal", m),
					zap.Stringer("date", d),
					zap.String("reason", string(res.Reason)))
			}
		}
		out.DaysProcessed++
		if allOK {
			out.DaysFullySucceeded++
		}
		return nil
	})

	o.log.Info("bulk run finished",
		zap.String("roll_no", rollNo),
		zap.String("action", string(action)),
		zap.Stringer("from", rng.From),
		zap.Stringer("to", rng.To),
		zap.Int("days_processed", out.DaysProcessed),
		zap.Int("days_fully_succeeded", out.DaysFullySucceeded),
		zap.Int("rejections", len(out.Rejections)))
	return out, err
}
