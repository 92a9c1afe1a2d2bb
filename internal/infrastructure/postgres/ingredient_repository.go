package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
)

var _ repository.IngredientRepository = (*IngredientRepo)(nil)

const ingredientColumns = `id, name, unit, current_stock, warning_threshold, unit_cost, created_at, updated_at`

// IngredientRepo implementación de IngredientRepository sobre PostgreSQL (usable con pool o tx).
type IngredientRepo struct {
	q Querier
}

// NewIngredientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIngredientRepository(q Querier) *IngredientRepo {
	return &IngredientRepo{q: q}
}

func scanIngredient(row pgx.Row) (*entity.Ingredient, error) {
	var i entity.Ingredient
	if err := row.Scan(&i.ID, &i.Name, &i.Unit, &i.CurrentStock, &i.WarningThreshold, &i.UnitCost, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

// Create persiste un ingrediente.
func (r *IngredientRepo) Create(ctx context.Context, ing *entity.Ingredient) error {
	query := `
		INSERT INTO ingredients (` + ingredientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		ing.ID, ing.Name, ing.Unit, ing.CurrentStock, ing.WarningThreshold, ing.UnitCost,
		ing.CreatedAt, ing.UpdatedAt,
	)
	return mapError("insert ingredient", err)
}

// GetByID obtiene un ingrediente por ID; nil si no existe.
func (r *IngredientRepo) GetByID(ctx context.Context, id string) (*entity.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE id = $1`
	ing, err := scanIngredient(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get ingredient", err)
	}
	return ing, nil
}

// GetMany lectura sin bloqueo de varios ingredientes.
func (r *IngredientRepo) GetMany(ctx context.Context, ids []string) (map[string]*entity.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE id = ANY($1)`
	return r.queryMap(ctx, "get ingredients", query, ids)
}

// List todos los ingredientes por nombre.
func (r *IngredientRepo) List(ctx context.Context) ([]*entity.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients ORDER BY lower(name), id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, mapError("list ingredients", err)
	}
	defer rows.Close()
	var list []*entity.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, mapError("scan ingredient", err)
		}
		list = append(list, ing)
	}
	return list, mapError("list ingredients", rows.Err())
}

// LockForUpdate bloquea las filas (SELECT FOR UPDATE) en orden ascendente de ID.
// El ORDER BY fija el orden de adquisición: dos ventas con ingredientes en común
// se encolan en vez de bloquearse mutuamente.
func (r *IngredientRepo) LockForUpdate(ctx context.Context, ids []string) (map[string]*entity.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	return r.queryMap(ctx, "lock ingredients", query, ids)
}

func (r *IngredientRepo) queryMap(ctx context.Context, op, query string, ids []string) (map[string]*entity.Ingredient, error) {
	out := make(map[string]*entity.Ingredient, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		out[ing.ID] = ing
	}
	return out, mapError(op, rows.Err())
}

// UpdateStock persiste existencia y costo unitario.
func (r *IngredientRepo) UpdateStock(ctx context.Context, ing *entity.Ingredient) error {
	query := `
		UPDATE ingredients SET current_stock = $2, unit_cost = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, ing.ID, ing.CurrentStock, ing.UnitCost, ing.UpdatedAt)
	if err != nil {
		return mapError("update ingredient stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
