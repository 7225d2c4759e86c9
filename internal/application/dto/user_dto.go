package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterRequest entrada para registro (auth): email, password, company_id.
type RegisterRequest struct {
	Email         string           `json:"email" validate:"required,email"`
	Password      string           `json:"password" validate:"required,min=8"`
	CompanyID     string           `json:"company_id" validate:"required,uuid"`
	Name          string           `json:"name" validate:"omitempty,max=200"`
	Role          string           `json:"role" validate:"omitempty,oneof=admin distribuidor"`
	CommissionPct *decimal.Decimal `json:"commission_pct"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	Email         string          `json:"email"`
	Name          string          `json:"name"`
	Role          string          `json:"role"`
	Status        string          `json:"status"`
	CommissionPct decimal.Decimal `json:"commission_pct"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// DistributorListRequest filtros para GET /api/distributors.
type DistributorListRequest struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=active inactive suspended"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// SetStatusRequest cambio de estado de un distribuidor.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive suspended"`
}
