package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/punchamoorthee/messops/internal/domain"
	"github.com/punchamoorthee/messops/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrStudentNotFound = service.ErrStudentNotFound
	ErrPriceNotFound   = service.ErrPriceNotFound
)

// Store implements the student directory, booking store, rate source and
// menu provider on Postgres.
type Store struct {
	Db  *pgxpool.Pool
	log *zap.Logger
}

var (
	_ service.StudentDirectory = (*Store)(nil)
	_ service.BookingStore     = (*Store)(nil)
	_ service.RateSource       = (*Store)(nil)
	_ service.MenuProvider     = (*Store)(nil)
)

func NewStore(ctx context.Context, connString string, log *zap.Logger) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}
	return &Store{Db: pool, log: log}, nil
}

func (s *Store) Close() {
	s.Db.Close()
}

// FindStudent retrieves a student by roll number.
func (s *Store) FindStudent(ctx context.Context, rollNo string) (domain.Student, error) {
	var st domain.Student
	var balance string
	err := s.Db.QueryRow(ctx,
		"SELECT roll_no, name, room_number, current_balance::text FROM students WHERE roll_no = $1",
		rollNo,
	).Scan(&st.RollNo, &st.Name, &st.RoomNumber, &balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Student{}, ErrStudentNotFound
		}
		return domain.Student{}, fmt.Errorf("student query failed: %w", err)
	}
	st.CurrentBalance, err = decimal.NewFromString(balance)
	if err != nil {
		return domain.Student{}, fmt.Errorf("student %s balance %q: %w", rollNo, balance, err)
	}
	return st, nil
}

// GetBooking retrieves the booking for a (student, date) pair.
func (s *Store) GetBooking(ctx context.Context, rollNo string, date domain.Date) (domain.Booking, bool, error) {
	b := domain.Booking{RollNo: rollNo, Date: date}
	err := s.Db.QueryRow(ctx,
		"SELECT breakfast, lunch, dinner FROM bookings WHERE roll_no = $1 AND booking_date = $2",
		rollNo, date.Time(),
	).Scan(&b.Breakfast, &b.Lunch, &b.Dinner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, false, nil
		}
		return domain.Booking{}, false, fmt.Errorf("booking query failed: %w", err)
	}
	return b, true, nil
}

// PutBooking creates or overwrites the booking row in one statement.
func (s *Store) PutBooking(ctx context.Context, b domain.Booking) error {
	_, err := s.Db.Exec(ctx,
		`INSERT INTO bookings (roll_no, booking_date, breakfast, lunch, dinner, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT (roll_no, booking_date) DO UPDATE
		 SET breakfast = EXCLUDED.breakfast, lunch = EXCLUDED.lunch, dinner = EXCLUDED.dinner, updated_at = now()`,
		b.RollNo, b.Date.Time(), b.Breakfast, b.Lunch, b.Dinner,
	)
	if err != nil {
		return fmt.Errorf("booking upsert failed: %w", err)
	}
	return nil
}

// ListBookings returns every booking dated within rng.
func (s *Store) ListBookings(ctx context.Context, rng domain.DateRange) ([]domain.Booking, error) {
	rows, err := s.Db.Query(ctx,
		`SELECT roll_no, booking_date, breakfast, lunch, dinner
		 FROM bookings
		 WHERE booking_date BETWEEN $1 AND $2
		 ORDER BY roll_no, booking_date`,
		rng.From.Time(), rng.To.Time(),
	)
	if err != nil {
		return nil, fmt.Errorf("booking range query failed: %w", err)
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		var day time.Time
		if err := rows.Scan(&b.RollNo, &day, &b.Breakfast, &b.Lunch, &b.Dinner); err != nil {
			return nil, fmt.Errorf("booking row scan failed: %w", err)
		}
		b.Date = domain.DateOf(day)
		out = append(out, b)
	}
	return out, rows.Err()
}

// PriceOf reads the configured price of a meal.
func (s *Store) PriceOf(ctx context.Context, meal domain.MealType) (decimal.Decimal, error) {
	var price string
	err := s.Db.QueryRow(ctx, "SELECT price::text FROM meal_prices WHERE meal = $1", meal.String()).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, ErrPriceNotFound
		}
		return decimal.Zero, fmt.Errorf("price query failed: %w", err)
	}
	return decimal.NewFromString(price)
}

// SetPrice upserts the price of a meal.
func (s *Store) SetPrice(ctx context.Context, meal domain.MealType, price decimal.Decimal) error {
	_, err := s.Db.Exec(ctx,
		`INSERT INTO meal_prices (meal, price) VALUES ($1, $2::numeric)
		 ON CONFLICT (meal) DO UPDATE SET price = EXCLUDED.price`,
		meal.String(), price.String(),
	)
	return err
}

// GetMenu returns the current menu. An unset menu is empty, not an error.
func (s *Store) GetMenu(ctx context.Context) (domain.Menu, error) {
	var m domain.Menu
	err := s.Db.QueryRow(ctx, "SELECT breakfast, lunch, dinner FROM menus WHERE id = 1").Scan(&m.Breakfast, &m.Lunch, &m.Dinner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Menu{}, nil
		}
		return domain.Menu{}, fmt.Errorf("menu query failed: %w", err)
	}
	return m, nil
}

// SetMenu replaces the current menu.
func (s *Store) SetMenu(ctx context.Context, m domain.Menu) error {
	_, err := s.Db.Exec(ctx,
		`INSERT INTO menus (id, breakfast, lunch, dinner, updated_at) VALUES (1, $1, $2, $3, now())
		 ON CONFLICT (id) DO UPDATE
		 SET breakfast = EXCLUDED.breakfast, lunch = EXCLUDED.lunch, dinner = EXCLUDED.dinner, updated_at = now()`,
		m.Breakfast, m.Lunch, m.Dinner,
	)
	return err
}
