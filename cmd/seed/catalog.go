package main

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/cafeteria-pos/internal/application/auth"
	"github.com/jhoicas/cafeteria-pos/internal/application/dto"
	"github.com/jhoicas/cafeteria-pos/internal/application/inventory"
	"github.com/jhoicas/cafeteria-pos/internal/application/order"
	"github.com/jhoicas/cafeteria-pos/internal/application/usecase"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	domaininv "github.com/jhoicas/cafeteria-pos/internal/domain/inventory"
)

// catalog archivo YAML con el estado inicial de la cafetería.
type catalog struct {
	Categories  []string          `yaml:"categories"`
	Ingredients []ingredientEntry `yaml:"ingredients"`
	Employees   []employeeEntry   `yaml:"employees"`
	Products    []productEntry    `yaml:"products"`
	Orders      []orderEntry      `yaml:"orders"`
}

type ingredientEntry struct {
	Key       string `yaml:"key"`
	Name      string `yaml:"name"`
	Unit      string `yaml:"unit"`
	Stock     string `yaml:"stock"`
	Threshold string `yaml:"threshold"`
	UnitCost  string `yaml:"unit_cost"`
}

type employeeEntry struct {
	Name     string `yaml:"name"`
	Phone    string `yaml:"phone"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type productEntry struct {
	Name        string        `yaml:"name"`
	Category    string        `yaml:"category"`
	Description string        `yaml:"description"`
	Price       string        `yaml:"price"`
	Recipe      []recipeEntry `yaml:"recipe"`
}

type recipeEntry struct {
	Ingredient string `yaml:"ingredient"`
	Quantity   string `yaml:"quantity"`
}

type orderEntry struct {
	Employee      string      `yaml:"employee"` // teléfono
	PaymentMethod string      `yaml:"payment_method"`
	Items         []itemEntry `yaml:"items"`
}

type itemEntry struct {
	Product  string `yaml:"product"`
	Quantity int    `yaml:"quantity"`
}

func loadCatalog(r io.Reader) (*catalog, error) {
	var c catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decodificar catálogo: %w", err)
	}
	return &c, nil
}

// seeder aplica el catálogo a través de los casos de uso, de modo que cada
// alta respeta las mismas validaciones y deja los mismos movimientos que la API.
type seeder struct {
	products   *usecase.ProductUseCase
	stock      *inventory.StockUseCase
	recipes    *inventory.RecipeUseCase
	auth       *auth.AuthUseCase
	settlement *order.SettlementUseCase
}

// summary conteo de lo creado.
type summary struct {
	Categories, Ingredients, Employees, Products, Orders int
}

func (s *seeder) apply(ctx context.Context, c *catalog) (*summary, error) {
	var sum summary

	categoryIDs := make(map[string]string, len(c.Categories))
	for _, name := range c.Categories {
		cat, err := s.products.CreateCategory(ctx, dto.CreateCategoryRequest{Name: name})
		if err != nil {
			return nil, fmt.Errorf("categoría %q: %w", name, err)
		}
		categoryIDs[name] = cat.ID
		sum.Categories++
	}

	employeeIDs := make(map[string]string, len(c.Employees))
	var adminID string
	for _, e := range c.Employees {
		emp, err := s.auth.CreateEmployee(ctx, dto.CreateEmployeeRequest{
			Name: e.Name, Phone: e.Phone, Password: e.Password, Role: e.Role,
		})
		if err != nil {
			return nil, fmt.Errorf("empleado %q: %w", e.Phone, err)
		}
		employeeIDs[e.Phone] = emp.ID
		if adminID == "" && emp.Role == entity.RoleAdmin {
			adminID = emp.ID
		}
		sum.Employees++
	}

	ingredientIDs := make(map[string]string, len(c.Ingredients))
	for _, in := range c.Ingredients {
		stock, err := parseDecimal(in.Stock)
		if err != nil {
			return nil, fmt.Errorf("ingrediente %q stock: %w", in.Key, err)
		}
		threshold, err := parseDecimal(in.Threshold)
		if err != nil {
			return nil, fmt.Errorf("ingrediente %q threshold: %w", in.Key, err)
		}
		cost, err := parseDecimal(in.UnitCost)
		if err != nil {
			return nil, fmt.Errorf("ingrediente %q unit_cost: %w", in.Key, err)
		}
		ing, err := s.stock.CreateIngredient(ctx, inventory.CreateIngredientInput{
			Name:             in.Name,
			Unit:             in.Unit,
			InitialStock:     stock,
			WarningThreshold: threshold,
			UnitCost:         cost,
			UserID:           adminID,
		})
		if err != nil {
			return nil, fmt.Errorf("ingrediente %q: %w", in.Key, err)
		}
		ingredientIDs[in.Key] = ing.ID
		sum.Ingredients++
	}

	productIDs := make(map[string]string, len(c.Products))
	for _, p := range c.Products {
		price, err := parseDecimal(p.Price)
		if err != nil {
			return nil, fmt.Errorf("producto %q price: %w", p.Name, err)
		}
		created, err := s.products.Create(ctx, dto.CreateProductRequest{
			CategoryID:  categoryIDs[p.Category],
			Name:        p.Name,
			Description: p.Description,
			Price:       price,
		})
		if err != nil {
			return nil, fmt.Errorf("producto %q: %w", p.Name, err)
		}
		productIDs[p.Name] = created.ID
		sum.Products++

		if len(p.Recipe) == 0 {
			continue
		}
		lines := make([]inventory.RecipeLineInput, 0, len(p.Recipe))
		for _, r := range p.Recipe {
			id, ok := ingredientIDs[r.Ingredient]
			if !ok {
				return nil, fmt.Errorf("producto %q: ingrediente %q no declarado", p.Name, r.Ingredient)
			}
			qty, err := parseDecimal(r.Quantity)
			if err != nil {
				return nil, fmt.Errorf("producto %q receta: %w", p.Name, err)
			}
			lines = append(lines, inventory.RecipeLineInput{IngredientID: id, QuantityRequired: qty})
		}
		if _, err := s.recipes.SetRecipe(ctx, created.ID, lines); err != nil {
			return nil, fmt.Errorf("receta de %q: %w", p.Name, err)
		}
	}

	for i, o := range c.Orders {
		employeeID, ok := employeeIDs[o.Employee]
		if !ok {
			return nil, fmt.Errorf("orden %d: empleado %q no declarado", i+1, o.Employee)
		}
		lines := make([]domaininv.LineQty, 0, len(o.Items))
		for _, it := range o.Items {
			id, ok := productIDs[it.Product]
			if !ok {
				return nil, fmt.Errorf("orden %d: producto %q no declarado", i+1, it.Product)
			}
			lines = append(lines, domaininv.LineQty{ProductID: id, Quantity: it.Quantity})
		}
		if _, err := s.settlement.PlaceOrder(ctx, order.PlaceOrderInput{
			EmployeeID:    employeeID,
			Lines:         lines,
			PaymentMethod: o.PaymentMethod,
		}); err != nil {
			return nil, fmt.Errorf("orden %d: %w", i+1, err)
		}
		sum.Orders++
	}
	return &sum, nil
}

// parseDecimal vacío equivale a cero.
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
