// Package report computes the read-only views over a queue: doctor filter,
// estimated wait times and statistics. Every function is pure.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"turnero/internal/queue/models"
)

// DefaultSlot is the fixed duration attributed to each appointment ahead.
const DefaultSlot = 15 * time.Minute

// FilterByDoctor keeps the appointments whose doctor equals doctor exactly.
// An empty doctor keeps everything. Order is preserved.
func FilterByDoctor(appointments []models.Appointment, doctor string) []models.Appointment {
	out := make([]models.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if doctor == "" || a.Doctor == doctor {
			out = append(out, a)
		}
	}
	return out
}

// WaitTime is one line of the wait-time report.
type WaitTime struct {
	ID          int    `json:"id"`
	PatientName string `json:"patientName"`
	Age         int    `json:"age"`
	Specialty   string `json:"specialty"`
	Doctor      string `json:"doctor"`
	WaitMinutes int    `json:"waitMinutes"`
}

// WaitTimeReport estimates each appointment's wait as its position times the
// slot duration.
type WaitTimeReport struct {
	Doctor  string     `json:"doctor,omitempty"`
	Entries []WaitTime `json:"entries"`
}

// WaitTimes builds the report for an already filtered sequence. A
// non-positive slot falls back to DefaultSlot.
func WaitTimes(appointments []models.Appointment, doctor string, slot time.Duration) WaitTimeReport {
	if slot <= 0 {
		slot = DefaultSlot
	}
	perSlot := int(slot / time.Minute)
	entries := make([]WaitTime, len(appointments))
	for i, a := range appointments {
		entries[i] = WaitTime{
			ID:          a.ID,
			PatientName: a.PatientName,
			Age:         a.Age,
			Specialty:   a.Specialty,
			Doctor:      a.Doctor,
			WaitMinutes: i * perSlot,
		}
	}
	return WaitTimeReport{Doctor: doctor, Entries: entries}
}

// Text renders the report the way the front desk prints it.
func (r WaitTimeReport) Text() string {
	var b strings.Builder
	b.WriteString(header("TIEMPOS DE ESPERA", r.Doctor))
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "#%d - %s (%d años) - %s: %d mins\n", e.ID, e.PatientName, e.Age, e.Specialty, e.WaitMinutes)
	}
	return b.String()
}

// SpecialtyShare is one row of the specialty distribution.
type SpecialtyShare struct {
	Specialty string  `json:"specialty"`
	Count     int     `json:"count"`
	Percent   float64 `json:"percent"`
}

// StatisticsReport summarizes a sequence of appointments.
type StatisticsReport struct {
	Doctor       string           `json:"doctor,omitempty"`
	Total        int              `json:"total"`
	AverageAge   float64          `json:"averageAge"`
	Distribution []SpecialtyShare `json:"distribution"`
}

// Statistics computes count, mean age and the per-specialty distribution in
// first-seen order. Mean age and percentages are rounded to one decimal.
func Statistics(appointments []models.Appointment, doctor string) StatisticsReport {
	r := StatisticsReport{Doctor: doctor, Total: len(appointments), Distribution: []SpecialtyShare{}}
	if r.Total == 0 {
		return r
	}

	var sumAge float64
	index := map[string]int{}
	for _, a := range appointments {
		sumAge += float64(a.Age)
		i, ok := index[a.Specialty]
		if !ok {
			i = len(r.Distribution)
			index[a.Specialty] = i
			r.Distribution = append(r.Distribution, SpecialtyShare{Specialty: a.Specialty})
		}
		r.Distribution[i].Count++
	}

	r.AverageAge = round1(sumAge / float64(r.Total))
	for i := range r.Distribution {
		r.Distribution[i].Percent = round1(float64(r.Distribution[i].Count) / float64(r.Total) * 100)
	}
	return r
}

// Text renders the statistics block.
func (r StatisticsReport) Text() string {
	var b strings.Builder
	b.WriteString(header("ESTADÍSTICAS", r.Doctor))
	fmt.Fprintf(&b, "Total turnos: %d\n", r.Total)
	fmt.Fprintf(&b, "Edad promedio: %s años\n", oneDecimal(r.AverageAge))
	b.WriteString("\nDistribución por especialidad:\n")
	for _, s := range r.Distribution {
		fmt.Fprintf(&b, "%s: %d turnos (%s%%)\n", s.Specialty, s.Count, oneDecimal(s.Percent))
	}
	return b.String()
}

func header(title, doctor string) string {
	if doctor == "" {
		return "=== " + title + " ===\n"
	}
	return "=== " + title + " DEL MÉDICO " + doctor + " ===\n"
}

func round1(v float64) float64 {
	f, _ := strconv.ParseFloat(oneDecimal(v), 64)
	return f
}

func oneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
