package domain

import (
	"errors"
	"fmt"
)

// Validation failures, resolved locally before any network call.
var (
	ErrMissingTitle = errors.New("titulo is required")
	ErrInvalidCost  = errors.New("costo_proyecto must be a non-negative amount")
)

// ErrPendingChargeNotFound is returned when a journaled charge does not exist.
var ErrPendingChargeNotFound = errors.New("pending charge not found")

// GatewayErrorKind classifies payment provider failures.
type GatewayErrorKind string

const (
	GatewayDeclined    GatewayErrorKind = "instrument_declined"
	GatewayUnavailable GatewayErrorKind = "gateway_unavailable"
	GatewayNotReady    GatewayErrorKind = "client_not_ready"
)

// GatewayError is a payment provider failure. The orchestrator never retries
// one within the same submission attempt.
type GatewayError struct {
	Kind    GatewayErrorKind
	Message string
}

func (e *GatewayError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("payment gateway: %s", e.Kind)
	}
	return fmt.Sprintf("payment gateway: %s: %s", e.Kind, e.Message)
}

// StoreErrorKind classifies projects API failures.
type StoreErrorKind string

const (
	StoreNotFound    StoreErrorKind = "not_found"
	StoreUnreachable StoreErrorKind = "unreachable"
	StoreRejected    StoreErrorKind = "rejected"
)

// StoreError is a projects API failure. NotFound during an edit means the
// working copy is stale and the caller should refresh instead of retrying.
type StoreError struct {
	Kind    StoreErrorKind
	Status  int // HTTP status, 0 when the API was unreachable
	Message string
}

func (e *StoreError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("project store: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("project store: %s (status %d): %s", e.Kind, e.Status, e.Message)
}

// PersistAfterChargeError reports the composite failure where the provider
// confirmed the charge but the record could not be persisted. ChargeID is
// preserved so the caller retries persistence only, never the charge.
type PersistAfterChargeError struct {
	ChargeID string
	Err      error
}

func (e *PersistAfterChargeError) Error() string {
	return fmt.Sprintf("charge %s confirmed but record not persisted: %v", e.ChargeID, e.Err)
}

func (e *PersistAfterChargeError) Unwrap() error {
	return e.Err
}
