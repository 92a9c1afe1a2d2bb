package entity

// Category agrupa productos del menú (bebidas calientes, repostería...).
type Category struct {
	ID   string
	Name string
}
