package domain

import "time"

// Priority values as stored by the projects API.
const (
	PriorityLow    = "baja"
	PriorityMedium = "media"
	PriorityHigh   = "alta"
)

// Payment methods accepted by the submission form.
const (
	MethodCard = "stripe"
	MethodCash = "efectivo"
)

// Project represents a single billable project as exchanged with the projects
// API. Field names mirror the API's snake_case wire format. ID is assigned by
// the store and empty until the record is first persisted.
type Project struct {
	ID               string     `json:"id,omitempty"`
	Titulo           string     `json:"titulo"`
	Descripcion      string     `json:"descripcion,omitempty"`
	CostoProyecto    float64    `json:"costo_proyecto"`
	FechaCreacion    *time.Time `json:"fecha_creacion,omitempty"`
	FechaVencimiento *Date      `json:"fecha_vencimiento,omitempty"`
	Prioridad        string     `json:"prioridad"`
	AsignadoA        string     `json:"asignado_a,omitempty"`
	Categoria        string     `json:"categoria,omitempty"`
	Completada       bool       `json:"completada"`
	Pagado           bool       `json:"pagado"`
	MetodoPago       string     `json:"metodo_pago"`
	ReferenciaPago   string     `json:"referencia_pago,omitempty"`
}

// FormInput carries the raw form values exactly as the operator entered them.
// Costo stays textual until validation so the amount can be converted to minor
// units without a float round trip.
type FormInput struct {
	Titulo           string
	Descripcion      string
	Costo            string
	FechaVencimiento *Date
	Prioridad        string
	AsignadoA        string
	Categoria        string
	Completada       bool
	Pagado           bool
	MetodoPago       string
	CardToken        string
}

// Instrument is a captured payment instrument, opaque to everything but the
// provider.
type Instrument struct {
	Token string
}

// Submission is the validated input for one submission attempt. Each variant
// carries only the fields its payment branch needs, so a cash submission can
// never hold charge state.
type Submission interface {
	isSubmission()
}

// CardSubmission requires a gateway round trip before persistence. Pagado and
// ReferenciaPago on the record stay unset until the charge is confirmed.
type CardSubmission struct {
	Record      *Project
	AmountMinor int64
	Instrument  Instrument
}

// CashSubmission goes straight to persistence; the record's Pagado flag is the
// operator's manual acknowledgment, taken verbatim.
type CashSubmission struct {
	Record *Project
}

func (CardSubmission) isSubmission() {}
func (CashSubmission) isSubmission() {}
