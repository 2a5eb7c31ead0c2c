package service

import (
	"strconv"
	"strings"

	"github.com/tareas-api/proyectos-billing/internal/billing/domain"
)

// ValidateForm checks the raw form values and builds the submission for the
// matching payment branch. Pure: no side effects, identical input always
// yields an identical result.
func ValidateForm(in domain.FormInput) (domain.Submission, error) {
	titulo := strings.TrimSpace(in.Titulo)
	if titulo == "" {
		return nil, domain.ErrMissingTitle
	}

	amountMinor, err := domain.MinorUnits(in.Costo)
	if err != nil {
		return nil, domain.ErrInvalidCost
	}
	costo, err := strconv.ParseFloat(strings.TrimSpace(in.Costo), 64)
	if err != nil || costo < 0 {
		return nil, domain.ErrInvalidCost
	}

	record := &domain.Project{
		Titulo:           titulo,
		Descripcion:      in.Descripcion,
		CostoProyecto:    costo,
		FechaVencimiento: in.FechaVencimiento,
		Prioridad:        priorityOrDefault(in.Prioridad),
		AsignadoA:        in.AsignadoA,
		Categoria:        in.Categoria,
		Completada:       in.Completada,
	}

	if in.MetodoPago == domain.MethodCash {
		record.MetodoPago = domain.MethodCash
		record.Pagado = in.Pagado
		return domain.CashSubmission{Record: record}, nil
	}

	// Card is the form's default. Pagado and ReferenciaPago stay unset until
	// the provider confirms the charge.
	record.MetodoPago = domain.MethodCard
	return domain.CardSubmission{
		Record:      record,
		AmountMinor: amountMinor,
		Instrument:  domain.Instrument{Token: in.CardToken},
	}, nil
}

func priorityOrDefault(p string) string {
	switch p {
	case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
		return p
	}
	return domain.PriorityMedium
}
