package models

import "encoding/json"

// Specialty is one catalog entry: a specialty and the doctor who attends it.
// Key is derived from Name and Doctor and survives catalog reordering.
type Specialty struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Doctor string `json:"doctor"`
}

// UnmarshalJSON accepts the legacy "medico" field as an alias for "doctor".
func (s *Specialty) UnmarshalJSON(data []byte) error {
	var raw struct {
		Key    string `json:"key"`
		Name   string `json:"name"`
		Doctor string `json:"doctor"`
		Medico string `json:"medico"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Key = raw.Key
	s.Name = raw.Name
	s.Doctor = raw.Doctor
	if s.Doctor == "" {
		s.Doctor = raw.Medico
	}
	return nil
}

// State tracks the one-shot catalog fetch.
type State string

const (
	StatePending State = "pending"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)
