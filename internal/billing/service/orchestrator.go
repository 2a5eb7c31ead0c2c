package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tareas-api/proyectos-billing/internal/billing/domain"
	"github.com/tareas-api/proyectos-billing/internal/billing/gateway"
	"github.com/tareas-api/proyectos-billing/internal/billing/repository"
	"github.com/tareas-api/proyectos-billing/internal/billing/store"
)

// Submission machine states, used for log correlation.
const (
	stateValidating       = "validating"
	stateCreatingIntent   = "creating_intent"
	stateConfirmingCharge = "confirming_charge"
	statePersisting       = "persisting"
	stateDone             = "done"
	stateFailed           = "failed"
)

// Orchestrator drives one submission attempt through validation, the optional
// card charge, and persistence. A record is never persisted as paid without a
// confirmed charge, and a confirmed charge always leaves either a persisted
// record or a journal entry carrying its reference.
type Orchestrator struct {
	store   store.ProjectStore
	gateway gateway.PaymentGateway
	journal *repository.JournalRepository
	cache   *repository.ListCache
	log     *logrus.Logger
}

// NewOrchestrator creates a new Orchestrator. journal and cache may be nil
// when Redis is not available; the composite failure is then surfaced but not
// replayed automatically.
func NewOrchestrator(st store.ProjectStore, gw gateway.PaymentGateway, journal *repository.JournalRepository, cache *repository.ListCache, log *logrus.Logger) *Orchestrator {
	if log == nil {
		log = logrus.New()
	}
	return &Orchestrator{
		store:   st,
		gateway: gw,
		journal: journal,
		cache:   cache,
		log:     log,
	}
}

// Submit runs one submission attempt. existingID selects update over create.
// Callers must not submit the same working copy again while an attempt is in
// flight; independent submissions may run concurrently.
func (o *Orchestrator) Submit(ctx context.Context, form domain.FormInput, existingID string) (*domain.Project, error) {
	log := o.log.WithFields(logrus.Fields{
		"attempt_id":  uuid.New().String(),
		"metodo_pago": form.MetodoPago,
		"editing":     existingID != "",
	})

	log.WithField("state", stateValidating).Debug("validating form input")
	sub, err := ValidateForm(form)
	if err != nil {
		log.WithField("state", stateFailed).WithError(err).Info("submission rejected locally")
		return nil, err
	}

	var record *domain.Project
	switch s := sub.(type) {
	case domain.CashSubmission:
		record = s.Record

	case domain.CardSubmission:
		record = s.Record

		log.WithField("state", stateCreatingIntent).WithField("amount_minor", s.AmountMinor).Debug("requesting payment intent")
		intent, err := o.gateway.CreateIntent(ctx, s.AmountMinor)
		if err != nil {
			log.WithField("state", stateFailed).WithError(err).Warn("intent creation failed")
			return nil, err
		}

		log.WithField("state", stateConfirmingCharge).Debug("confirming charge")
		charge, err := o.gateway.Confirm(ctx, intent, s.Instrument)
		if err != nil {
			log.WithField("state", stateFailed).WithError(err).Warn("charge confirmation failed")
			return nil, err
		}

		record.Pagado = true
		record.ReferenciaPago = charge.ChargeID
		log = log.WithField("charge_id", charge.ChargeID)

	default:
		return nil, fmt.Errorf("unexpected submission type %T", sub)
	}

	log.WithField("state", statePersisting).Debug("persisting record")
	persisted, err := o.persist(ctx, record, existingID)
	if err != nil {
		if record.MetodoPago == domain.MethodCard && record.ReferenciaPago != "" {
			// The charge went through but the record did not. Journal the
			// working copy so persistence can be replayed without re-charging.
			o.journalCharge(ctx, log, record, existingID)
			log.WithField("state", stateFailed).WithError(err).Error("charge confirmed but persistence failed")
			return nil, &domain.PersistAfterChargeError{ChargeID: record.ReferenciaPago, Err: err}
		}
		log.WithField("state", stateFailed).WithError(err).Warn("persistence failed")
		return nil, err
	}

	o.invalidateLists(ctx, log)
	log.WithField("state", stateDone).WithField("id", persisted.ID).Info("submission complete")
	return persisted, nil
}

func (o *Orchestrator) persist(ctx context.Context, record *domain.Project, existingID string) (*domain.Project, error) {
	if existingID == "" {
		now := time.Now().UTC()
		record.FechaCreacion = &now
		return o.store.Create(ctx, record)
	}
	// fecha_creacion is omitted on update so the stored value survives edits.
	record.FechaCreacion = nil
	return o.store.Update(ctx, existingID, record)
}

func (o *Orchestrator) journalCharge(ctx context.Context, log *logrus.Entry, record *domain.Project, existingID string) {
	if o.journal == nil {
		return
	}
	entry := &repository.PendingCharge{
		ChargeID:   record.ReferenciaPago,
		ExistingID: existingID,
		Record:     *record,
		CreatedAt:  time.Now().UTC(),
	}
	if err := o.journal.Put(ctx, entry); err != nil {
		log.WithError(err).Error("failed to journal confirmed charge")
	}
}

func (o *Orchestrator) invalidateLists(ctx context.Context, log *logrus.Entry) {
	if o.cache == nil {
		return
	}
	if err := o.cache.Invalidate(ctx); err != nil {
		log.WithError(err).Warn("failed to invalidate list cache")
	}
}
