package repository

import "context"

// Tx agrupa los repositorios atados a una misma transacción.
type Tx struct {
	Users        UserRepository
	Categories   CategoryRepository
	Products     ProductRepository
	Stock        DistributorStockRepository
	Movements    StockMovementRepository
	Sales        SaleRepository
	Gamification GamificationRepository
	Ledger       ProfitLedgerRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Tx) error) error
}
