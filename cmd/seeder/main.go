package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/punchamoorthee/messops/internal/config"
	"github.com/punchamoorthee/messops/internal/logging"
	"github.com/punchamoorthee/messops/internal/store"
	"go.uber.org/zap"
)

const (
	TotalStudents  = 200
	InitialBalance = 5000.0
)

func main() {
	total := flag.Int("students", TotalStudents, "number of students to seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	st, err := store.NewStore(ctx, cfg.DBSource, logger)
	if err != nil {
		logger.Fatal("unable to connect to database", zap.Error(err))
	}
	defer st.Close()

	logger.Info("seeding database")

	if err := st.EnsureSchema(ctx); err != nil {
		logger.Fatal("schema bootstrap failed", zap.Error(err))
	}
	if err := store.SeedDefaults(ctx, st); err != nil {
		logger.Fatal("price/menu seed failed", zap.Error(err))
	}

	var count int
	if err := st.Db.QueryRow(ctx, "SELECT COUNT(*) FROM students").Scan(&count); err != nil {
		logger.Fatal("count students failed", zap.Error(err))
	}
	if count >= *total {
		logger.Info("students already seeded, skipping", zap.Int("count", count))
		return
	}

	// Bulk Insert using CopyFrom
	rows := make([][]interface{}, 0, *total-count)
	for i := count; i < *total; i++ {
		rows = append(rows, []interface{}{
			RollNo(i),
			fmt.Sprintf("Student %d", i+1),
			fmt.Sprintf("%d%02d", i/50+1, i%50+1),
			InitialBalance,
			time.Now(),
		})
	}

	copyCount, err := st.Db.CopyFrom(
		ctx,
		pgx.Identifier{"students"},
		[]string{"roll_no", "name", "room_number", "current_balance", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		logger.Fatal("bulk insert failed", zap.Error(err))
	}

	logger.Info("seeded students", zap.Int64("inserted", copyCount))
}

// RollNo returns the roll number of the i-th seeded student: A01, A02, ...
func RollNo(i int) string {
	return fmt.Sprintf("A%02d", i+1)
}
