package entity

import "time"

// Company representa una organización/tenant del sistema (multi-tenant).
type Company struct {
	ID        string
	Name      string
	NIT       string // identificación tributaria
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Módulos SaaS disponibles (deben coincidir con el CHECK de la tabla company_modules).
const (
	ModuleCatalog      = "catalog"
	ModuleDistribution = "distribution"
	ModuleGamification = "gamification"
	ModuleAnalytics    = "analytics"
)

// AllModules módulos que se activan por defecto al crear una empresa.
var AllModules = []string{ModuleCatalog, ModuleDistribution, ModuleGamification, ModuleAnalytics}

// CompanyModule representa la activación de un módulo SaaS en una empresa.
type CompanyModule struct {
	ID          string
	CompanyID   string
	ModuleName  string // ver constantes Module*
	IsActive    bool
	ActivatedAt time.Time
	ExpiresAt   *time.Time // nil = sin vencimiento
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsEffective informa si el módulo está activo y no ha vencido en el instante dado.
func (m CompanyModule) IsEffective(at time.Time) bool {
	if !m.IsActive {
		return false
	}
	return m.ExpiresAt == nil || m.ExpiresAt.After(at)
}
