package handler

import (
	"fmt"

	"turnero/internal/queue/models"
)

// AppointmentResponse wraps a single appointment with the front desk message.
type AppointmentResponse struct {
	Appointment models.Appointment `json:"appointment"`
	Message     string             `json:"message"`
}

// AppointmentListResponse is the response for GET /appointments.
type AppointmentListResponse struct {
	Appointments []models.Appointment `json:"appointments"`
	Count        int                  `json:"count"`
	Info         string               `json:"info,omitempty"`
}

// InfoResponse replaces a report when there is nothing to report.
type InfoResponse struct {
	Info string `json:"info"`
}

func registeredResponse(a models.Appointment) AppointmentResponse {
	return AppointmentResponse{Appointment: a, Message: "Turno registrado para " + a.PatientName}
}

func removedResponse(a models.Appointment) AppointmentResponse {
	return AppointmentResponse{Appointment: a, Message: fmt.Sprintf("Turno #%d de %s eliminado", a.ID, a.PatientName)}
}
