package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/punchamoorthee/messops/internal/models"
	"github.com/punchamoorthee/messops/internal/service"
	"go.uber.org/zap"
)

// Metrics
var (
	httpReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messops_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "messops_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "endpoint"})

	mealOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messops_meal_operations_total",
		Help: "Single-meal book/cancel outcomes",
	}, []string{"action", "meal", "outcome"})
)

const requestIDHeader = "X-Request-ID"

type Handler struct {
	engine  *service.BookingEngine
	bulk    *service.BulkOperator
	billing *service.BillingAggregator
	menu    service.MenuProvider
	log     *zap.Logger
}

func NewHandler(engine *service.BookingEngine, bulk *service.BulkOperator, billing *service.BillingAggregator, menu service.MenuProvider, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{engine: engine, bulk: bulk, billing: billing, menu: menu, log: log}
}

// Router wires every endpoint, /metrics and /health.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.recoverer, h.requestLogger)
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", h.Health).Methods("GET")

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/menu", h.GetMenu).Methods("GET")
	v1.HandleFunc("/students/{roll}", h.GetStudent).Methods("GET")
	v1.HandleFunc("/students/{roll}/bookings/{date}", h.GetBookingStatus).Methods("GET")
	v1.HandleFunc("/students/{roll}/bookings/{date}/{meal}", h.BookMeal).Methods("POST")
	v1.HandleFunc("/students/{roll}/bookings/{date}/{meal}", h.CancelMeal).Methods("DELETE")
	v1.HandleFunc("/students/{roll}/bulk", h.ApplyBulk).Methods("POST")
	v1.HandleFunc("/students/{roll}/bill", h.GetStudentBill).Methods("GET")
	v1.HandleFunc("/reports/range", h.GetRangeReport).Methods("GET")
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)

		endpoint := endpointOf(r)
		timer := prometheus.NewTimer(httpLatency.WithLabelValues(r.Method, endpoint))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		timer.ObserveDuration()
		h.log.Info("request",
			zap.String("request_id", reqID),
			zap.String("method", r.Method),
			zap.String("endpoint", endpoint),
			zap.Int("status", rec.status),
			zap.Duration("latency", time.Since(start)))
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.log.Error("unhandled panic", zap.Any("error", rec), zap.String("path", r.URL.Path))
				h.respondError(w, r, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func endpointOf(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// Helpers
func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, code int, payload interface{}) {
	httpReqTotal.WithLabelValues(r.Method, endpointOf(r), strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	h.respondJSON(w, r, code, models.ErrorResponse{Error: msg})
}

// respondInternal logs the underlying error and hides it from the client.
func (h *Handler) respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	h.respondError(w, r, http.StatusInternalServerError, "Internal Server Error")
}
