package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/punchamoorthee/messops/internal/domain"
	"github.com/punchamoorthee/messops/internal/models"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.menu.GetMenu(r.Context())
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, menu)
}

func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	st, err := h.engine.Profile(r.Context(), rollParam(r))
	if err != nil {
		if errors.Is(err, domain.ErrUnknownStudent) {
			h.respondError(w, r, http.StatusNotFound, "Student not found")
			return
		}
		h.respondInternal(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, st)
}

func (h *Handler) GetBookingStatus(w http.ResponseWriter, r *http.Request) {
	date, err := domain.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	b, err := h.engine.Status(r.Context(), rollParam(r), date)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownStudent) {
			h.respondError(w, r, http.StatusNotFound, "Student not found")
			return
		}
		h.respondInternal(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, b)
}

func (h *Handler) BookMeal(w http.ResponseWriter, r *http.Request) {
	h.mealAction(w, r, domain.ActionBook)
}

func (h *Handler) CancelMeal(w http.ResponseWriter, r *http.Request) {
	h.mealAction(w, r, domain.ActionCancel)
}

func (h *Handler) mealAction(w http.ResponseWriter, r *http.Request, action domain.Action) {
	vars := mux.Vars(r)
	date, err := domain.ParseDate(vars["date"])
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}
	meal, err := domain.ParseMealType(vars["meal"])
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Meal must be breakfast, lunch or dinner")
		return
	}

	roll := rollParam(r)
	var res domain.Result
	if action == domain.ActionBook {
		res, err = h.engine.Book(r.Context(), roll, meal, date)
	} else {
		res, err = h.engine.Cancel(r.Context(), roll, meal, date)
	}
	if err != nil {
		mealOpsTotal.WithLabelValues(string(action), meal.String(), "error").Inc()
		h.respondInternal(w, r, err)
		return
	}

	outcome := string(res.Kind)
	if !res.OK() {
		outcome = string(res.Reason)
	}
	mealOpsTotal.WithLabelValues(string(action), meal.String(), outcome).Inc()

	h.respondJSON(w, r, resultStatus(res), models.MealResultResponse{
		OK:      res.OK(),
		Reason:  string(res.Reason),
		Message: res.Message,
		Booking: res.Booking,
	})
}

func resultStatus(res domain.Result) int {
	switch {
	case res.OK():
		return http.StatusOK
	case errors.Is(res.Err(), domain.ErrUnknownStudent):
		return http.StatusNotFound
	case errors.Is(res.Err(), domain.ErrCancellationWindowClosed):
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

func (h *Handler) ApplyBulk(w http.ResponseWriter, r *http.Request) {
	var req models.BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	action, err := domain.ParseAction(req.Action)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Action must be book or cancel")
		return
	}

	if len(req.Meals) == 0 {
		h.respondError(w, r, http.StatusBadRequest, "Select at least one meal")
		return
	}
	meals := make([]domain.MealType, 0, len(req.Meals))
	for _, s := range req.Meals {
		m, err := domain.ParseMealType(s)
		if err != nil {
			h.respondError(w, r, http.StatusBadRequest, "Meal must be breakfast, lunch or dinner")
			return
		}
		meals = append(meals, m)
	}

	rng, err := bulkRange(req)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	roll := rollParam(r)
	if _, err := h.engine.Profile(r.Context(), roll); err != nil {
		if errors.Is(err, domain.ErrUnknownStudent) {
			h.respondError(w, r, http.StatusNotFound, "Student not found")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	out, err := h.bulk.ApplyBulk(r.Context(), roll, action, meals, rng)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, models.BulkResponse{Action: string(action), Range: rng, Outcome: out})
}

// maxBulkDays bounds a single bulk run.
const maxBulkDays = 366

// bulkRange accepts either an explicit from/to pair or a start date plus a
// positive day count.
func bulkRange(req models.BulkRequest) (domain.DateRange, error) {
	rng, err := requestedRange(req)
	if err != nil {
		return domain.DateRange{}, err
	}
	if rng.Days() > maxBulkDays {
		return domain.DateRange{}, fmt.Errorf("bulk range is limited to %d days", maxBulkDays)
	}
	return rng, nil
}

func requestedRange(req models.BulkRequest) (domain.DateRange, error) {
	if req.Start != "" || req.Days != 0 {
		start, err := domain.ParseDate(req.Start)
		if err != nil {
			return domain.DateRange{}, errors.New("enter a valid start date and number of days")
		}
		if req.Days > maxBulkDays {
			return domain.DateRange{}, fmt.Errorf("bulk range is limited to %d days", maxBulkDays)
		}
		rng, err := domain.RangeFromDays(start, req.Days)
		if err != nil {
			return domain.DateRange{}, errors.New("enter a valid start date and number of days")
		}
		return rng, nil
	}
	return parseRange(req.From, req.To)
}

func parseRange(from, to string) (domain.DateRange, error) {
	f, err := domain.ParseDate(from)
	if err != nil {
		return domain.DateRange{}, errors.New("invalid from date, expected YYYY-MM-DD")
	}
	t, err := domain.ParseDate(to)
	if err != nil {
		return domain.DateRange{}, errors.New("invalid to date, expected YYYY-MM-DD")
	}
	rng := domain.DateRange{From: f, To: t}
	if err := rng.Validate(); err != nil {
		return domain.DateRange{}, errors.New("from date must not be after to date")
	}
	return rng, nil
}

func (h *Handler) GetRangeReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := parseRange(q.Get("from"), q.Get("to"))
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.billing.RangeReport(r.Context(), rng)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, report)
}

func (h *Handler) GetStudentBill(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := parseRange(q.Get("from"), q.Get("to"))
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	line, ok, err := h.billing.StudentBill(r.Context(), rollParam(r), rng)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	if !ok {
		h.respondError(w, r, http.StatusNotFound, "No meals found in this date range")
		return
	}
	h.respondJSON(w, r, http.StatusOK, models.BillResponse{Range: rng, Line: line})
}

func rollParam(r *http.Request) string {
	return strings.TrimSpace(mux.Vars(r)["roll"])
}
