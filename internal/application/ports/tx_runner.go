package ports

import (
	"context"

	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn retorna error se descarta todo (Rollback); si no, Commit.
// El ctx que recibe fn es el que debe usarse para todas las llamadas a los repositorios.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error
}
