package txretry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafeteria-pos/internal/application/txretry"
	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
	"github.com/jhoicas/cafeteria-pos/pkg/logger"
)

// flakyRunner falla con ErrConflict las primeras `conflicts` veces.
type flakyRunner struct {
	conflicts int
	calls     int
	fnCalls   int
}

func (f *flakyRunner) Run(ctx context.Context, fn func(context.Context, repository.Repositories) error) error {
	f.calls++
	if err := fn(ctx, repository.Repositories{}); err != nil {
		return err
	}
	f.fnCalls++
	if f.calls <= f.conflicts {
		return fmt.Errorf("commit transaction: %w", domain.ErrConflict)
	}
	return nil
}

func newRunner(next *flakyRunner, retries int) *txretry.Runner {
	return txretry.New(next, txretry.Config{
		MaxRetries:      retries,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
	}, logger.NewNop())
}

func TestRunner_ReintentaConflictosYReejecutaCallback(t *testing.T) {
	next := &flakyRunner{conflicts: 2}
	executions := 0

	err := newRunner(next, 5).Run(context.Background(), func(context.Context, repository.Repositories) error {
		executions++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, next.calls)
	assert.Equal(t, 3, executions, "cada intento debe recalcular desde cero")
}

func TestRunner_AgotaReintentosYDevuelveConflicto(t *testing.T) {
	next := &flakyRunner{conflicts: 100}

	err := newRunner(next, 3).Run(context.Background(), func(context.Context, repository.Repositories) error {
		return nil
	})

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 4, next.calls, "1 intento + 3 reintentos")
}

func TestRunner_NoReintentaErroresDeNegocio(t *testing.T) {
	next := &flakyRunner{}
	stockErr := &domain.InsufficientStockError{IngredientID: "milk"}

	err := newRunner(next, 5).Run(context.Background(), func(context.Context, repository.Repositories) error {
		return stockErr
	})

	assert.Equal(t, 1, next.calls)
	var got *domain.InsufficientStockError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, "milk", got.IngredientID)
}

func TestRunner_RespetaCancelacionDelContexto(t *testing.T) {
	next := &flakyRunner{conflicts: 100}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newRunner(next, 50).Run(ctx, func(context.Context, repository.Repositories) error { return nil })

	assert.Error(t, err)
	assert.LessOrEqual(t, next.calls, 1)
}
