package entity

import "time"

// Acciones registradas en la bitácora de auditoría.
const (
	AuditCategoryCreate     = "category.create"
	AuditCategoryUpdate     = "category.update"
	AuditProductCreate      = "product.create"
	AuditProductUpdate      = "product.update"
	AuditProductRestock     = "product.restock"
	AuditStockAssign        = "stock.assign"
	AuditStockWithdraw      = "stock.withdraw"
	AuditStockTransfer      = "stock.transfer"
	AuditSaleRecord         = "sale.record"
	AuditSaleConfirm        = "sale.confirm"
	AuditSaleCancel         = "sale.cancel"
	AuditSaleRecalculate    = "sale.recalculate"
	AuditGamificationConfig = "gamification.config"
	AuditGamificationEval   = "gamification.evaluate"
	AuditPayout             = "profit.payout"
	AuditDistributorStatus  = "distributor.status"
)

// AuditLog registro de una acción administrativa.
type AuditLog struct {
	ID         string
	CompanyID  string
	ActorID    string
	ActorRole  string
	Action     string
	EntityType string
	EntityID   string
	Details    map[string]any
	IP         string
	CreatedAt  time.Time
}
