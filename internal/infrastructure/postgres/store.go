package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Store agrupa los repositorios sobre el pool y el runner de transacciones.
type Store struct {
	*TxRunner
	pool *pgxpool.Pool
}

// NewStore construye el store PostgreSQL.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{TxRunner: NewTxRunner(pool), pool: pool}
}

func (s *Store) Companies() *CompanyRepo { return NewCompanyRepository(s.pool) }
func (s *Store) Users() *UserRepo { return NewUserRepository(s.pool) }
func (s *Store) Categories() *CategoryRepo { return NewCategoryRepository(s.pool) }
func (s *Store) Products() *ProductRepo { return NewProductRepository(s.pool) }
func (s *Store) Stock() *DistributorStockRepo { return NewDistributorStockRepository(s.pool) }
func (s *Store) Movements() *StockMovementRepo { return NewStockMovementRepository(s.pool) }
func (s *Store) Sales() *SaleRepo { return NewSaleRepository(s.pool) }
func (s *Store) Gamification() *GamificationRepo { return NewGamificationRepository(s.pool) }
func (s *Store) Ledger() *ProfitLedgerRepo { return NewProfitLedgerRepository(s.pool) }
func (s *Store) Analytics() *AnalyticsRepo { return NewAnalyticsRepository(s.pool) }
func (s *Store) Audit() *AuditRepo { return NewAuditRepository(s.pool) }
