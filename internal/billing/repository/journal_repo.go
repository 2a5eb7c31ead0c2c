package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tareas-api/proyectos-billing/internal/billing/domain"
)

const (
	pendingKeyPrefix = "billing:pending:" // entry data: billing:pending:{charge_id}
	pendingSetKey    = "billing:charges"  // set of charge ids awaiting persistence
	pendingTTL       = 7 * 24 * time.Hour
)

// PendingCharge is a confirmed charge whose record could not be persisted.
// The full working copy is kept so persistence can be replayed with the
// charge reference intact, without touching the provider again.
type PendingCharge struct {
	ChargeID   string         `json:"charge_id"`
	ExistingID string         `json:"existing_id,omitempty"`
	Record     domain.Project `json:"record"`
	CreatedAt  time.Time      `json:"created_at"`
	Attempts   int            `json:"attempts"`
}

// JournalRepository handles Redis operations for the pending-charge journal.
type JournalRepository struct {
	client *redis.Client
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(client *redis.Client) *JournalRepository {
	return &JournalRepository{client: client}
}

// Put records or rewrites a pending charge.
func (r *JournalRepository) Put(ctx context.Context, entry *PendingCharge) error {
	if entry.ChargeID == "" {
		return fmt.Errorf("pending charge requires a charge id")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal pending charge: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.entryKey(entry.ChargeID), data, pendingTTL)
	pipe.SAdd(ctx, pendingSetKey, entry.ChargeID)
	pipe.Expire(ctx, pendingSetKey, pendingTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to journal charge %s: %w", entry.ChargeID, err)
	}
	return nil
}

// Get retrieves one pending charge by its charge id.
func (r *JournalRepository) Get(ctx context.Context, chargeID string) (*PendingCharge, error) {
	data, err := r.client.Get(ctx, r.entryKey(chargeID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrPendingChargeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending charge: %w", err)
	}

	var entry PendingCharge
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending charge: %w", err)
	}
	return &entry, nil
}

// List returns every journaled charge. Ids whose entries have expired are
// swept out of the index as they are found.
func (r *JournalRepository) List(ctx context.Context) ([]PendingCharge, error) {
	ids, err := r.client.SMembers(ctx, pendingSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list pending charges: %w", err)
	}

	entries := make([]PendingCharge, 0, len(ids))
	for _, id := range ids {
		entry, err := r.Get(ctx, id)
		if err == domain.ErrPendingChargeNotFound {
			r.client.SRem(ctx, pendingSetKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// Remove drops a pending charge after its record has been persisted.
func (r *JournalRepository) Remove(ctx context.Context, chargeID string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.entryKey(chargeID))
	pipe.SRem(ctx, pendingSetKey, chargeID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove pending charge %s: %w", chargeID, err)
	}
	return nil
}

func (r *JournalRepository) entryKey(chargeID string) string {
	return fmt.Sprintf("%s%s", pendingKeyPrefix, chargeID)
}
