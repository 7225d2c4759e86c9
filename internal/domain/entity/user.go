package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles válidos para User.
const (
	RoleAdmin        = "admin"
	RoleDistribuidor = "distribuidor"
)

// Estados de User.
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// User representa un usuario del sistema (pertenece a una Company).
// Los distribuidores llevan su porcentaje de comisión vigente; la gamificación lo ajusta cada período.
type User struct {
	ID            string
	CompanyID     string
	Email         string
	PasswordHash  string // bcrypt hash, nunca plano en dominio después de persistir
	Name          string
	Role          string // admin, distribuidor
	Status        string // active, inactive, suspended
	CommissionPct decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActiveDistributor informa si el usuario puede recibir stock y registrar ventas.
func (u *User) IsActiveDistributor() bool {
	return u != nil && u.Role == RoleDistribuidor && u.Status == UserStatusActive
}
