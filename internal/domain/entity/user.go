package entity

import "time"

// Roles válidos para Employee (coinciden con el claim "role" del JWT).
const (
	RoleBarista = "Barista"
	RoleAdmin   = "Admin"
)

// ValidRole indica si r es un rol soportado.
func ValidRole(r string) bool {
	return r == RoleBarista || r == RoleAdmin
}

// Employee empleado del café. Inicia sesión con teléfono y contraseña.
type Employee struct {
	ID           string
	Name         string
	Phone        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Caller identidad autenticada que invoca el motor. La provee la capa de
// autorización (JWT); el motor solo la consume.
type Caller struct {
	EmployeeID string
	Role       string
}

// IsAdmin indica si el invocante tiene rol de administrador.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
