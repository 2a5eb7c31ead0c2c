package service

import (
	"time"

	"github.com/tareas-api/proyectos-billing/internal/billing/domain"
)

// CheckOverdue reports whether opening a record for edit requires the operator
// to confirm completion first: true iff the due date exists, lies strictly in
// the past, and the project is still open. Pure and side-effect free.
func CheckOverdue(p *domain.Project, now time.Time) bool {
	if p == nil || p.FechaVencimiento == nil || p.Completada {
		return false
	}
	return p.FechaVencimiento.Time.Before(now)
}

// ApplyCompletion returns the edit working copy after the operator confirmed
// the overdue prompt, with completada forced on. The operator can still flip
// it back before submitting.
func ApplyCompletion(p *domain.Project) *domain.Project {
	working := *p
	working.Completada = true
	return &working
}
