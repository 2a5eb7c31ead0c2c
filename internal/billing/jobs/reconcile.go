package jobs

import (
	"context"
	"errors"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/tareas-api/proyectos-billing/internal/billing/domain"
	"github.com/tareas-api/proyectos-billing/internal/billing/repository"
	"github.com/tareas-api/proyectos-billing/internal/billing/store"
)

// Reconciler replays journaled charges against the projects store. It only
// repeats the store call; the confirmed charge is never touched again.
type Reconciler struct {
	journal *repository.JournalRepository
	store   store.ProjectStore
	cache   *repository.ListCache
	log     *logrus.Logger
	cron    *cron.Cron
}

// NewReconciler creates a new Reconciler. cache may be nil.
func NewReconciler(journal *repository.JournalRepository, st store.ProjectStore, cache *repository.ListCache, log *logrus.Logger) *Reconciler {
	if log == nil {
		log = logrus.New()
	}
	return &Reconciler{
		journal: journal,
		store:   st,
		cache:   cache,
		log:     log,
	}
}

// Start schedules a sweep every minute.
func (r *Reconciler) Start() error {
	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc("0 * * * * *", func() {
		r.Sweep(context.Background())
	})
	if err != nil {
		return err
	}
	c.Start()
	r.cron = c
	r.log.Info("charge reconciliation scheduler started")
	return nil
}

// Stop halts the scheduler. A sweep already running finishes on its own.
func (r *Reconciler) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

// Sweep retries persistence for every pending charge, with referencia_pago
// intact. Entries whose edit target no longer exists are left for manual
// reconciliation instead of being retried blindly.
func (r *Reconciler) Sweep(ctx context.Context) {
	entries, err := r.journal.List(ctx)
	if err != nil {
		r.log.WithError(err).Error("failed to list pending charges")
		return
	}

	for i := range entries {
		entry := entries[i]
		log := r.log.WithFields(logrus.Fields{
			"charge_id": entry.ChargeID,
			"attempts":  entry.Attempts,
		})

		if err := r.replay(ctx, &entry); err != nil {
			var storeErr *domain.StoreError
			if errors.As(err, &storeErr) && storeErr.Kind == domain.StoreNotFound && entry.ExistingID != "" {
				log.WithError(err).Error("edit target gone, charge needs manual reconciliation")
				continue
			}

			entry.Attempts++
			if putErr := r.journal.Put(ctx, &entry); putErr != nil {
				log.WithError(putErr).Error("failed to update pending charge")
			}
			log.WithError(err).Warn("persistence retry failed")
			continue
		}

		if err := r.journal.Remove(ctx, entry.ChargeID); err != nil {
			log.WithError(err).Error("failed to clear persisted charge from journal")
			continue
		}
		if r.cache != nil {
			_ = r.cache.Invalidate(ctx)
		}
		log.Info("pending charge persisted")
	}
}

func (r *Reconciler) replay(ctx context.Context, entry *repository.PendingCharge) error {
	record := entry.Record
	if entry.ExistingID != "" {
		_, err := r.store.Update(ctx, entry.ExistingID, &record)
		return err
	}
	if record.FechaCreacion == nil {
		created := entry.CreatedAt
		record.FechaCreacion = &created
	}
	_, err := r.store.Create(ctx, &record)
	return err
}
