package models

import "github.com/punchamoorthee/messops/internal/domain"

// BulkRequest is the payload of a bulk book/cancel call. Either From/To or
// Start/Days selects the range.
type BulkRequest struct {
	Action string   `json:"action"`
	Meals  []string `json:"meals"`
	From   string   `json:"from,omitempty"`
	To     string   `json:"to,omitempty"`
	Start  string   `json:"start,omitempty"`
	Days   int      `json:"days,omitempty"`
}

// MealResultResponse is the canonical response of a single book/cancel.
type MealResultResponse struct {
	OK      bool            `json:"ok"`
	Reason  string          `json:"reason,omitempty"`
	Message string          `json:"message"`
	Booking *domain.Booking `json:"booking,omitempty"`
}

// BulkResponse wraps the outcome with the resolved range.
type BulkResponse struct {
	Action  string             `json:"action"`
	Range   domain.DateRange   `json:"range"`
	Outcome domain.BulkOutcome `json:"outcome"`
}

// BillResponse is one student's bill for a range.
type BillResponse struct {
	Range domain.DateRange       `json:"range"`
	Line  domain.StudentBillLine `json:"bill"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
