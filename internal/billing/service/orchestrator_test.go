package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tareas-api/proyectos-billing/internal/billing/domain"
	"github.com/tareas-api/proyectos-billing/internal/billing/gateway"
)

type fakeStore struct {
	createCalls  int
	updateCalls  int
	createErr    error
	updateErr    error
	lastSaved    *domain.Project
	lastUpdateID string
}

func (f *fakeStore) List(ctx context.Context, page, limit int) ([]domain.Project, error) {
	return nil, nil
}

func (f *fakeStore) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	saved := *p
	saved.ID = "42"
	f.lastSaved = &saved
	return &saved, nil
}

func (f *fakeStore) Update(ctx context.Context, id string, p *domain.Project) (*domain.Project, error) {
	f.updateCalls++
	f.lastUpdateID = id
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	saved := *p
	saved.ID = id
	f.lastSaved = &saved
	return &saved, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	return nil
}

type fakeGateway struct {
	intentCalls  int
	confirmCalls int
	intentErr    error
	confirmErr   error
	chargeID     string
	lastAmount   int64
}

func (f *fakeGateway) CreateIntent(ctx context.Context, amountMinor int64) (*gateway.Intent, error) {
	f.intentCalls++
	f.lastAmount = amountMinor
	if f.intentErr != nil {
		return nil, f.intentErr
	}
	return &gateway.Intent{ID: "pi_1", ClientSecret: "pi_1_secret"}, nil
}

func (f *fakeGateway) Confirm(ctx context.Context, intent *gateway.Intent, instrument domain.Instrument) (*gateway.ConfirmedCharge, error) {
	f.confirmCalls++
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	return &gateway.ConfirmedCharge{ChargeID: f.chargeID}, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestOrchestrator(st *fakeStore, gw *fakeGateway) *Orchestrator {
	return NewOrchestrator(st, gw, nil, nil, quietLogger())
}

func TestSubmit_ValidationFailureTouchesNothing(t *testing.T) {
	cases := map[string]domain.FormInput{
		"missing title": {Costo: "10.00", MetodoPago: domain.MethodCard},
		"bad cost":      {Titulo: "Redesign", Costo: "abc", MetodoPago: domain.MethodCard},
		"negative cost": {Titulo: "Redesign", Costo: "-1", MetodoPago: domain.MethodCash},
	}

	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			st := &fakeStore{}
			gw := &fakeGateway{chargeID: "ch_1"}

			_, err := newTestOrchestrator(st, gw).Submit(context.Background(), form, "")
			require.Error(t, err)
			assert.Zero(t, gw.intentCalls)
			assert.Zero(t, gw.confirmCalls)
			assert.Zero(t, st.createCalls)
			assert.Zero(t, st.updateCalls)
		})
	}
}

func TestSubmit_CashNeverCallsGateway(t *testing.T) {
	for _, pagado := range []bool{true, false} {
		st := &fakeStore{}
		gw := &fakeGateway{}

		form := domain.FormInput{
			Titulo:     "Obra",
			Costo:      "80",
			MetodoPago: domain.MethodCash,
			Pagado:     pagado,
		}

		p, err := newTestOrchestrator(st, gw).Submit(context.Background(), form, "")
		require.NoError(t, err)
		assert.Zero(t, gw.intentCalls)
		assert.Zero(t, gw.confirmCalls)
		assert.Equal(t, 1, st.createCalls)
		assert.Equal(t, pagado, p.Pagado)
		assert.Empty(t, p.ReferenciaPago)
	}
}

func TestSubmit_CardSuccess(t *testing.T) {
	st := &fakeStore{}
	gw := &fakeGateway{chargeID: "ch_1"}

	form := domain.FormInput{
		Titulo:     "Redesign",
		Costo:      "150.00",
		MetodoPago: domain.MethodCard,
		CardToken:  "tok_visa",
	}

	p, err := newTestOrchestrator(st, gw).Submit(context.Background(), form, "")
	require.NoError(t, err)

	assert.Equal(t, 1, gw.intentCalls)
	assert.Equal(t, int64(15000), gw.lastAmount)
	assert.Equal(t, 1, gw.confirmCalls)
	assert.Equal(t, 1, st.createCalls)

	assert.Equal(t, "42", p.ID)
	assert.True(t, p.Pagado)
	assert.Equal(t, "ch_1", p.ReferenciaPago)
	assert.Equal(t, 150.00, p.CostoProyecto)
	require.NotNil(t, p.FechaCreacion)
}

func TestSubmit_DeclineStopsBeforeStore(t *testing.T) {
	st := &fakeStore{}
	gw := &fakeGateway{
		confirmErr: &domain.GatewayError{Kind: domain.GatewayDeclined, Message: "card declined"},
	}

	form := domain.FormInput{
		Titulo:     "Redesign",
		Costo:      "150.00",
		MetodoPago: domain.MethodCard,
		CardToken:  "tok_visa",
	}

	_, err := newTestOrchestrator(st, gw).Submit(context.Background(), form, "")

	var gwErr *domain.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, domain.GatewayDeclined, gwErr.Kind)
	assert.Zero(t, st.createCalls)
	assert.Zero(t, st.updateCalls)
}

func TestSubmit_IntentFailureStopsBeforeConfirm(t *testing.T) {
	st := &fakeStore{}
	gw := &fakeGateway{
		intentErr: &domain.GatewayError{Kind: domain.GatewayUnavailable},
	}

	form := domain.FormInput{
		Titulo:     "Redesign",
		Costo:      "10",
		MetodoPago: domain.MethodCard,
		CardToken:  "tok_visa",
	}

	_, err := newTestOrchestrator(st, gw).Submit(context.Background(), form, "")
	require.Error(t, err)
	assert.Equal(t, 1, gw.intentCalls)
	assert.Zero(t, gw.confirmCalls)
	assert.Zero(t, st.createCalls)
}

func TestSubmit_PersistFailureAfterChargeIsComposite(t *testing.T) {
	st := &fakeStore{
		updateErr: &domain.StoreError{Kind: domain.StoreUnreachable, Message: "connection refused"},
	}
	gw := &fakeGateway{chargeID: "ch_123"}

	form := domain.FormInput{
		Titulo:     "Redesign",
		Costo:      "150.00",
		MetodoPago: domain.MethodCard,
		CardToken:  "tok_visa",
	}

	_, err := newTestOrchestrator(st, gw).Submit(context.Background(), form, "7")

	var composite *domain.PersistAfterChargeError
	require.ErrorAs(t, err, &composite)
	assert.Equal(t, "ch_123", composite.ChargeID)

	// Distinguishable from, yet still carrying, the underlying store failure.
	var stErr *domain.StoreError
	require.ErrorAs(t, err, &stErr)
	assert.Equal(t, domain.StoreUnreachable, stErr.Kind)
	assert.Equal(t, 1, st.updateCalls)
	assert.Equal(t, "7", st.lastUpdateID)
}

func TestSubmit_CashPersistFailureIsNotComposite(t *testing.T) {
	st := &fakeStore{
		createErr: &domain.StoreError{Kind: domain.StoreRejected, Status: 422, Message: "rejected"},
	}
	gw := &fakeGateway{}

	form := domain.FormInput{
		Titulo:     "Obra",
		Costo:      "80",
		MetodoPago: domain.MethodCash,
		Pagado:     true,
	}

	_, err := newTestOrchestrator(st, gw).Submit(context.Background(), form, "")

	var composite *domain.PersistAfterChargeError
	assert.False(t, errors.As(err, &composite))

	var stErr *domain.StoreError
	require.ErrorAs(t, err, &stErr)
	assert.Equal(t, domain.StoreRejected, stErr.Kind)
}

func TestSubmit_EditDoesNotResendFechaCreacion(t *testing.T) {
	st := &fakeStore{}
	gw := &fakeGateway{}

	form := domain.FormInput{
		Titulo:     "Obra",
		Costo:      "80",
		MetodoPago: domain.MethodCash,
	}

	p, err := newTestOrchestrator(st, gw).Submit(context.Background(), form, "7")
	require.NoError(t, err)
	assert.Equal(t, 1, st.updateCalls)
	assert.Zero(t, st.createCalls)
	assert.Nil(t, p.FechaCreacion, "updates must leave fecha_creacion to the store")
}
