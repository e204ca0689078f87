package models

import (
	"errors"
	"fmt"

	dErrors "turnero/pkg/domain-errors"
)

// User-facing messages.
const (
	MsgEmptyName               = "El nombre no puede estar vacío."
	MsgNameContainsDigit       = "El nombre no debe contener números."
	MsgInvalidAge              = "La edad debe ser un número mayor que cero."
	MsgSpecialtyNotSelected    = "Debe seleccionar una especialidad."
	MsgCatalogNotReady         = "Las especialidades todavía no están disponibles."
	MsgNoAppointments          = "No hay turnos registrados"
	MsgNoAppointmentsForDoctor = "No hay turnos para este médico"
)

var (
	ErrEmptyName            = dErrors.New(dErrors.CodeEmptyName, MsgEmptyName)
	ErrNameContainsDigit    = dErrors.New(dErrors.CodeNameContainsDigit, MsgNameContainsDigit)
	ErrInvalidAge           = dErrors.New(dErrors.CodeInvalidAge, MsgInvalidAge)
	ErrSpecialtyNotSelected = dErrors.New(dErrors.CodeSpecialtyNotSelected, MsgSpecialtyNotSelected)
	ErrCatalogNotReady      = dErrors.New(dErrors.CodeSpecialtyNotSelected, MsgCatalogNotReady)
)

// ErrNoAppointments signals an empty view. It is informational: callers
// show MsgNoAppointments instead of a report.
var ErrNoAppointments = errors.New(MsgNoAppointments)

// ErrNotFound reports an unknown appointment id.
func ErrNotFound(id int) error {
	return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("No se encontró el turno #%d", id))
}
