package handler

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"unicode/utf8"

	"turnero/internal/queue/models"
	dErrors "turnero/pkg/domain-errors"
)

const maxPatientNameLength = 200

// RegisterRequest is the HTTP request body for POST /appointments.
// Age accepts a JSON number or a numeric string, as form fields arrive.
type RegisterRequest struct {
	PatientName    string          `json:"patientName"`
	Age            json.RawMessage `json:"age"`
	SpecialtyKey   string          `json:"specialtyKey"`
	SpecialtyIndex *int            `json:"specialtyIndex"`
}

// Validate only guards sizes; the queue service owns the domain checks and
// their order.
func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if utf8.RuneCountInString(r.PatientName) > maxPatientNameLength {
		return dErrors.New(dErrors.CodeValidation, "patientName must be at most 200 characters")
	}
	return nil
}

// ToCandidate converts the request into the service input.
func (r *RegisterRequest) ToCandidate() models.Candidate {
	return models.Candidate{
		PatientName:    r.PatientName,
		Age:            ageText(r.Age),
		SpecialtyKey:   r.SpecialtyKey,
		SpecialtyIndex: r.SpecialtyIndex,
	}
}

// ageText returns the content of a string, the integer text of a number with
// no fractional part (30.0, 1e2), the literal text of any other number, or ""
// for a missing or null age.
func ageText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return s
	}
	if f, err := strconv.ParseFloat(string(trimmed), 64); err == nil &&
		f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return string(trimmed)
}
