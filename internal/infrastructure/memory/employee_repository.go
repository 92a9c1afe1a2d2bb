package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*employeeRepo)(nil)

type employeeRepo struct{ t *tx }

func (r *employeeRepo) snapshot() map[string]*entity.Employee {
	r.t.store.mu.RLock()
	out := make(map[string]*entity.Employee, len(r.t.store.employees)+len(r.t.employees))
	for id, e := range r.t.store.employees {
		out[id] = e
	}
	r.t.store.mu.RUnlock()
	for id, e := range r.t.employees {
		out[id] = e
	}
	return out
}

func (r *employeeRepo) Create(_ context.Context, e *entity.Employee) error {
	for _, existing := range r.snapshot() {
		if existing.ID == e.ID || existing.Phone == e.Phone {
			return domain.ErrDuplicate
		}
	}
	c := *e
	return r.t.write("employees.create",
		func() { r.t.employees[c.ID] = &c },
		func(s *Store) error {
			for _, existing := range s.employees {
				if existing.Phone == c.Phone {
					return domain.ErrDuplicate
				}
			}
			s.employees[c.ID] = &c
			return nil
		})
}

func (r *employeeRepo) GetByID(_ context.Context, id string) (*entity.Employee, error) {
	e, ok := r.snapshot()[id]
	if !ok {
		return nil, nil
	}
	c := *e
	return &c, nil
}

func (r *employeeRepo) FindByPhone(_ context.Context, phone string) (*entity.Employee, error) {
	for _, e := range r.snapshot() {
		if e.Phone == phone {
			c := *e
			return &c, nil
		}
	}
	return nil, nil
}

func (r *employeeRepo) List(_ context.Context) ([]*entity.Employee, error) {
	snap := r.snapshot()
	out := make([]*entity.Employee, 0, len(snap))
	for _, e := range snap {
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
