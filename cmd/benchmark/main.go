package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	targetURL   string
	concurrency int
	duration    time.Duration
	workload    string
	students    int
	bulkDays    int
)

// Metrics
var (
	totalRequests uint64
	success200    uint64
	fail400       uint64
	fail404       uint64
	failOther     uint64
	daysProcessed uint64
	rejections    uint64
)

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "API Base URL")
	flag.IntVar(&concurrency, "workers", 10, "Number of concurrent workers")
	flag.DurationVar(&duration, "duration", 30*time.Second, "Test duration")
	flag.StringVar(&workload, "workload", "uniform", "Workload type: uniform | hotspot")
	flag.IntVar(&students, "students", 200, "Number of seeded students (A01..)")
	flag.IntVar(&bulkDays, "days", 7, "Days per bulk request")
}

type bulkResponse struct {
	Outcome struct {
		DaysProcessed int               `json:"days_processed"`
		Rejections    []json.RawMessage `json:"rejections"`
	} `json:"outcome"`
}

func main() {
	flag.Parse()
	log.Printf("Starting Benchmark: %s | Workers: %d | Duration: %s", workload, concurrency, duration)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go worker(&wg, start)
	}

	wg.Wait()
	printResults(time.Since(start))
}

func worker(wg *sync.WaitGroup, start time.Time) {
	defer wg.Done()
	client := &http.Client{Timeout: 5 * time.Second}
	meals := []string{"breakfast", "lunch", "dinner"}

	for time.Since(start) < duration {
		roll := pickStudent()
		action := "book"
		if rand.Float32() < 0.3 {
			action = "cancel"
		}
		// Offsets span yesterday so some cancels hit the cutoff.
		offset := rand.Intn(14) - 1
		payload := map[string]interface{}{
			"action": action,
			"meals":  meals[:rand.Intn(len(meals))+1],
			"start":  time.Now().AddDate(0, 0, offset).Format("2006-01-02"),
			"days":   bulkDays,
		}
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest("POST", fmt.Sprintf("%s/api/v1/students/%s/bulk", targetURL, roll), bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-ID", uuid.NewString())

		resp, err := client.Do(req)
		if err != nil {
			atomic.AddUint64(&failOther, 1)
			continue
		}

		atomic.AddUint64(&totalRequests, 1)
		switch resp.StatusCode {
		case 200:
			atomic.AddUint64(&success200, 1)
			var out bulkResponse
			if json.NewDecoder(resp.Body).Decode(&out) == nil {
				atomic.AddUint64(&daysProcessed, uint64(out.Outcome.DaysProcessed))
				atomic.AddUint64(&rejections, uint64(len(out.Outcome.Rejections)))
			}
		case 400:
			atomic.AddUint64(&fail400, 1)
		case 404:
			atomic.AddUint64(&fail404, 1)
		default:
			atomic.AddUint64(&failOther, 1)
		}
		resp.Body.Close()
	}
}

func pickStudent() string {
	if workload == "hotspot" && rand.Float32() < 0.90 {
		// Hotspot: 90% of traffic contends on A01 and A02
		return fmt.Sprintf("A%02d", rand.Intn(2)+1)
	}
	return fmt.Sprintf("A%02d", rand.Intn(students)+1)
}

func printResults(d time.Duration) {
	total := atomic.LoadUint64(&totalRequests)

	results := map[string]interface{}{
		"workload":         workload,
		"duration_sec":     d.Seconds(),
		"total_requests":   total,
		"throughput_rps":   float64(total) / d.Seconds(),
		"success":          atomic.LoadUint64(&success200),
		"bad_request":      atomic.LoadUint64(&fail400),
		"unknown_student":  atomic.LoadUint64(&fail404),
		"errors":           atomic.LoadUint64(&failOther),
		"days_processed":   atomic.LoadUint64(&daysProcessed),
		"rejected_meal_op": atomic.LoadUint64(&rejections),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)

	filename := fmt.Sprintf("results_%s.json", workload)
	file, err := os.Create(filename)
	if err != nil {
		log.Printf("could not write %s: %v", filename, err)
		return
	}
	defer file.Close()
	json.NewEncoder(file).Encode(results)
}
