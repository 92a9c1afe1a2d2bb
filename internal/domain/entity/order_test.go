package entity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
)

func newPaidOrder() *entity.Order {
	return &entity.Order{ID: "o-1", EmployeeID: "e-1", Status: entity.OrderStatusPaid}
}

func TestOrder_PaidACompletedFijaFecha(t *testing.T) {
	o := newPaidOrder()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, o.TransitionTo(entity.OrderStatusCompleted, now))
	assert.Equal(t, entity.OrderStatusCompleted, o.Status)
	require.NotNil(t, o.CompletedAt)
	assert.True(t, o.CompletedAt.Equal(now))
}

func TestOrder_PaidACancelledSinFechaDeCompletado(t *testing.T) {
	o := newPaidOrder()
	require.NoError(t, o.TransitionTo(entity.OrderStatusCancelled, time.Now()))
	assert.Equal(t, entity.OrderStatusCancelled, o.Status)
	assert.Nil(t, o.CompletedAt)
}

func TestOrder_EstadosTerminalesRechazanTransiciones(t *testing.T) {
	for _, terminal := range []string{entity.OrderStatusCompleted, entity.OrderStatusCancelled} {
		for _, target := range []string{entity.OrderStatusPaid, entity.OrderStatusCompleted, entity.OrderStatusCancelled} {
			o := newPaidOrder()
			o.Status = terminal

			err := o.TransitionTo(target, time.Now())
			require.Error(t, err, "%s -> %s debe fallar", terminal, target)

			var tErr *domain.InvalidTransitionError
			require.True(t, errors.As(err, &tErr))
			assert.Equal(t, terminal, tErr.From)
			assert.Equal(t, target, tErr.To)
			assert.Equal(t, terminal, o.Status, "el estado no debe cambiar")
		}
	}
}

func TestOrder_PaidAPaidEsInvalido(t *testing.T) {
	o := newPaidOrder()
	err := o.TransitionTo(entity.OrderStatusPaid, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestOrder_EstadoDesconocido(t *testing.T) {
	o := newPaidOrder()
	err := o.TransitionTo("Refunded", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, entity.ValidPaymentMethod(entity.PaymentCash))
	assert.True(t, entity.ValidPaymentMethod(entity.PaymentCard))
	assert.True(t, entity.ValidPaymentMethod(entity.PaymentApp))
	assert.False(t, entity.ValidPaymentMethod("Crypto"))
	assert.False(t, entity.ValidPaymentMethod(""))
}
