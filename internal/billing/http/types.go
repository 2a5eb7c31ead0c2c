package http

import "github.com/tareas-api/proyectos-billing/internal/billing/domain"

// submitReq is the form payload. costo_proyecto arrives as the raw text the
// operator typed so the amount can be converted to cents exactly.
type submitReq struct {
	Titulo           string `json:"titulo"`
	Descripcion      string `json:"descripcion"`
	Costo            string `json:"costo_proyecto"`
	FechaVencimiento string `json:"fecha_vencimiento"`
	Prioridad        string `json:"prioridad"`
	AsignadoA        string `json:"asignado_a"`
	Categoria        string `json:"categoria"`
	Completada       bool   `json:"completada"`
	Pagado           bool   `json:"pagado"`
	MetodoPago       string `json:"metodo_pago"`
	CardToken        string `json:"card_token,omitempty"`
}

func (r submitReq) toFormInput() (domain.FormInput, error) {
	in := domain.FormInput{
		Titulo:      r.Titulo,
		Descripcion: r.Descripcion,
		Costo:       r.Costo,
		Prioridad:   r.Prioridad,
		AsignadoA:   r.AsignadoA,
		Categoria:   r.Categoria,
		Completada:  r.Completada,
		Pagado:      r.Pagado,
		MetodoPago:  r.MetodoPago,
		CardToken:   r.CardToken,
	}
	if r.FechaVencimiento != "" {
		due, err := domain.ParseDate(r.FechaVencimiento)
		if err != nil {
			return domain.FormInput{}, err
		}
		in.FechaVencimiento = &due
	}
	return in, nil
}

// editGateReq carries the record the operator is about to edit, as loaded from
// the list. confirmar acknowledges the overdue completion prompt.
type editGateReq struct {
	Record    domain.Project `json:"record"`
	Confirmar bool           `json:"confirmar"`
}
