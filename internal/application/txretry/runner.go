package txretry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jhoicas/cafeteria-pos/internal/application/ports"
	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
	"github.com/jhoicas/cafeteria-pos/pkg/logger"
)

var _ ports.TxRunner = (*Runner)(nil)

// Config política de reintentos.
type Config struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Runner decora un TxRunner: si la transacción falla con domain.ErrConflict
// (serialización, deadlock, lock timeout) la repite completa con backoff
// exponencial. Cada intento ejecuta fn desde cero con repositorios nuevos, así
// que toda validación se recalcula con el estado vigente.
type Runner struct {
	next ports.TxRunner
	cfg  Config
	log  *logger.Logger
}

// New construye el runner con reintentos.
func New(next ports.TxRunner, cfg Config, log *logger.Logger) *Runner {
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 20 * time.Millisecond
	}
	if cfg.MaxInterval < cfg.InitialInterval {
		cfg.MaxInterval = cfg.InitialInterval
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Runner{next: next, cfg: cfg, log: log.Component("txretry")}
}

// Run ejecuta fn en una transacción y reintenta solo ante conflictos.
func (r *Runner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	attempt := 0
	op := func() error {
		attempt++
		err := r.next.Run(ctx, fn)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrConflict) {
			r.log.Warn().Err(err).Int("attempt", attempt).Msg("conflicto de concurrencia, reintentando")
			return err
		}
		return backoff.Permanent(err)
	}

	err := backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(r.newBackOff(), uint64(r.cfg.MaxRetries)), ctx))
	if err != nil && errors.Is(err, domain.ErrConflict) {
		return fmt.Errorf("transacción abortada tras %d intentos: %w", attempt, err)
	}
	return err
}

func (r *Runner) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.InitialInterval
	b.MaxInterval = r.cfg.MaxInterval
	b.MaxElapsedTime = 0 // el límite lo pone MaxRetries
	b.Reset()
	return b
}
