package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/jhoicas/cafeteria-pos/internal/application/ports"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

// FaultFunc permite inyectar fallos en las escrituras (op: "orders.create",
// "movements.create", "ingredients.update_stock", ...). Solo para pruebas.
type FaultFunc func(op string) error

// Store almacenamiento en memoria con la misma semántica transaccional que el
// adaptador de PostgreSQL: bloqueos por fila con espera cancelable, escrituras
// preparadas en la transacción y aplicadas de golpe en el Commit.
type Store struct {
	mu sync.RWMutex

	ingredients map[string]*entity.Ingredient
	products    map[string]*entity.Product
	categories  map[string]*entity.Category
	recipes     map[string][]entity.RecipeLine
	orders      map[string]*entity.Order
	orderLines  map[string][]*entity.OrderLine
	movements   []*entity.StockMovement
	employees   map[string]*entity.Employee

	locksMu sync.Mutex
	locks   map[string]chan struct{}

	faultMu sync.RWMutex
	fault   FaultFunc
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		ingredients: make(map[string]*entity.Ingredient),
		products:    make(map[string]*entity.Product),
		categories:  make(map[string]*entity.Category),
		recipes:     make(map[string][]entity.RecipeLine),
		orders:      make(map[string]*entity.Order),
		orderLines:  make(map[string][]*entity.OrderLine),
		movements:   make([]*entity.StockMovement, 0),
		employees:   make(map[string]*entity.Employee),
		locks:       make(map[string]chan struct{}),
	}
}

// SetFault instala (o quita con nil) el inyector de fallos.
func (s *Store) SetFault(f FaultFunc) {
	s.faultMu.Lock()
	s.fault = f
	s.faultMu.Unlock()
}

func (s *Store) checkFault(op string) error {
	s.faultMu.RLock()
	f := s.fault
	s.faultMu.RUnlock()
	if f == nil {
		return nil
	}
	return f(op)
}

// Repositories repositorios en modo autocommit (cada escritura se aplica al instante).
func (s *Store) Repositories() repository.Repositories {
	return (&tx{store: s, autocommit: true}).repositories()
}

// Run ejecuta fn en una transacción. Si fn retorna error (o hace panic) no se
// aplica nada; los bloqueos se liberan siempre al terminar.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	t := newTx(s)
	defer t.releaseLocks()

	if err := fn(ctx, t.repositories()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.checkFault("commit"); err != nil {
		return err
	}
	return t.commit()
}

// lock adquiere el bloqueo de una fila; espera hasta obtenerlo o hasta que ctx termine.
func (s *Store) lock(ctx context.Context, key string) error {
	s.locksMu.Lock()
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	s.locksMu.Unlock()

	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("esperando bloqueo de %s: %w", key, ctx.Err())
	}
}

func (s *Store) unlock(key string) {
	s.locksMu.Lock()
	ch := s.locks[key]
	s.locksMu.Unlock()
	<-ch
}

// tx escrituras preparadas de una transacción.
type tx struct {
	store      *Store
	autocommit bool

	held []string

	ingredients map[string]*entity.Ingredient
	products    map[string]*entity.Product
	categories  map[string]*entity.Category
	recipes     map[string][]entity.RecipeLine
	orders      map[string]*entity.Order
	orderLines  []*entity.OrderLine
	movements   []*entity.StockMovement
	employees   map[string]*entity.Employee
}

func newTx(s *Store) *tx {
	return &tx{
		store:       s,
		ingredients: make(map[string]*entity.Ingredient),
		products:    make(map[string]*entity.Product),
		categories:  make(map[string]*entity.Category),
		recipes:     make(map[string][]entity.RecipeLine),
		orders:      make(map[string]*entity.Order),
		employees:   make(map[string]*entity.Employee),
	}
}

func (t *tx) repositories() repository.Repositories {
	return repository.Repositories{
		Ingredients: &ingredientRepo{t: t},
		Products:    &productRepo{t: t},
		Categories:  &categoryRepo{t: t},
		Recipes:     &recipeRepo{t: t},
		Orders:      &orderRepo{t: t},
		Movements:   &movementRepo{t: t},
		Employees:   &employeeRepo{t: t},
		Sales:       &salesRepo{s: t.store},
	}
}

// lockRows bloquea las claves en orden ascendente; las ya tomadas por esta tx se omiten.
// En autocommit no hay transacción que sostenga el bloqueo y no se bloquea nada.
func (t *tx) lockRows(ctx context.Context, keys []string) error {
	if t.autocommit {
		return nil
	}
	keys = slices.Clone(keys)
	slices.Sort(keys)
	keys = slices.Compact(keys)
	for _, k := range keys {
		if slices.Contains(t.held, k) {
			continue
		}
		if err := t.store.lock(ctx, k); err != nil {
			return err
		}
		t.held = append(t.held, k)
	}
	return nil
}

func (t *tx) releaseLocks() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.store.unlock(t.held[i])
	}
	t.held = nil
}

// write en autocommit aplica al instante; dentro de una tx solo prepara.
func (t *tx) write(op string, stage func(), apply func(s *Store) error) error {
	if err := t.store.checkFault(op); err != nil {
		return err
	}
	if !t.autocommit {
		stage()
		return nil
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return apply(t.store)
}

// commit valida y aplica todo lo preparado de forma atómica.
func (t *tx) commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ing := range t.ingredients {
		if ing.CurrentStock.IsNegative() {
			return negativeStockError(ing.ID)
		}
	}
	for id, ing := range t.ingredients {
		s.ingredients[id] = ing
	}
	for id, p := range t.products {
		s.products[id] = p
	}
	for id, c := range t.categories {
		s.categories[id] = c
	}
	for id, lines := range t.recipes {
		s.recipes[id] = lines
	}
	for id, o := range t.orders {
		s.orders[id] = o
	}
	for _, l := range t.orderLines {
		s.orderLines[l.OrderID] = append(s.orderLines[l.OrderID], l)
	}
	s.movements = append(s.movements, t.movements...)
	for id, e := range t.employees {
		s.employees[id] = e
	}
	return nil
}
