package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cafeteria-pos/internal/application/dto"
	"github.com/jhoicas/cafeteria-pos/internal/domain"
	"github.com/jhoicas/cafeteria-pos/internal/domain/entity"
	"github.com/jhoicas/cafeteria-pos/internal/domain/repository"
	"github.com/jhoicas/cafeteria-pos/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: alta de empleados y login.
type AuthUseCase struct {
	employees repository.EmployeeRepository
	jwtCfg    JWTConfig
	now       func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(employees repository.EmployeeRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{employees: employees, jwtCfg: jwtCfg, now: time.Now}
}

// CreateEmployee hashea la contraseña con bcrypt y persiste. Devuelve
// domain.ErrDuplicate si el teléfono ya está registrado.
func (uc *AuthUseCase) CreateEmployee(ctx context.Context, in dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" || in.Phone == "" || len(in.Password) < 6 {
		return nil, fmt.Errorf("%w: nombre, teléfono y contraseña (mín. 6) son obligatorios", domain.ErrInvalidInput)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleBarista
	}
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}
	existing, err := uc.employees.FindByPhone(ctx, in.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	emp := &entity.Employee{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.employees.Create(ctx, emp); err != nil {
		return nil, err
	}
	resp := toEmployeeResponse(emp)
	return &resp, nil
}

// Login verifica teléfono/contraseña y genera el JWT con employee_id y role.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	emp, err := uc.employees.FindByPhone(ctx, strings.TrimSpace(in.Phone))
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !emp.IsActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, emp.ID, emp.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, Employee: toEmployeeResponse(emp)}, nil
}

// Me datos del empleado autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, employeeID string) (*dto.EmployeeResponse, error) {
	emp, err := uc.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, domain.ErrNotFound
	}
	resp := toEmployeeResponse(emp)
	return &resp, nil
}

// ListEmployees todos los empleados.
func (uc *AuthUseCase) ListEmployees(ctx context.Context) ([]dto.EmployeeResponse, error) {
	list, err := uc.employees.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmployeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toEmployeeResponse(e))
	}
	return out, nil
}

func toEmployeeResponse(e *entity.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Phone:     e.Phone,
		Role:      e.Role,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
	}
}
