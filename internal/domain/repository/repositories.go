package repository

// Repositories agrupa los repositorios atados a una misma transacción (o al pool).
type Repositories struct {
	Ingredients IngredientRepository
	Products    ProductRepository
	Categories  CategoryRepository
	Recipes     RecipeRepository
	Orders      OrderRepository
	Movements   StockMovementRepository
	Employees   EmployeeRepository
	Sales       SalesRepository
}
