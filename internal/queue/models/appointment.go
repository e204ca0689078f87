package models

// Appointment is one patient's place in the queue. Specialty and Doctor are
// copied from the catalog when the appointment is registered and are never
// revalidated afterwards.
type Appointment struct {
	ID           int    `json:"id"`
	PatientName  string `json:"patientName"`
	Age          int    `json:"age"`
	Specialty    string `json:"specialty"`
	Doctor       string `json:"doctor"`
	RegisteredAt string `json:"registeredAt"`
}

// Candidate is the raw registration input. Age stays textual until
// validation; the specialty is chosen by stable key or, failing that, by
// catalog position.
type Candidate struct {
	PatientName    string
	Age            string
	SpecialtyKey   string
	SpecialtyIndex *int
}
