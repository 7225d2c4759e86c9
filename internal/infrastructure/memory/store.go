// Package memory implementa los puertos de repositorio en memoria.
// Se usa con STORE_DRIVER=memory (demo local) y en las pruebas de casos de uso.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

// Store guarda todo el estado en mapas de valores (nunca punteros compartidos con el llamador).
// Las transacciones trabajan sobre una copia del estado y la publican solo si fn no falla;
// las escrituras fuera de transacción se serializan con las transacciones mediante txMu.
// Un caso de uso no debe escribir con los repositorios sin transacción desde dentro de Run.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	st   *state

	audit *AuditRepo
}

type state struct {
	companies   map[string]entity.Company
	modules     map[string]entity.CompanyModule // companyID|module
	users       map[string]entity.User
	categories  map[string]entity.Category
	products    map[string]entity.Product
	stock       map[string]entity.DistributorStock // companyID|distributorID|productID
	movements   []entity.StockMovement
	sales       map[string]entity.Sale
	configs     map[string]entity.GamificationConfig
	evaluations map[string]entity.Evaluation
	entries     []entity.ProfitEntry
	balances    map[string]entity.LedgerBalance // companyID|type|accountID
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		st: &state{
			companies:   map[string]entity.Company{},
			modules:     map[string]entity.CompanyModule{},
			users:       map[string]entity.User{},
			categories:  map[string]entity.Category{},
			products:    map[string]entity.Product{},
			stock:       map[string]entity.DistributorStock{},
			sales:       map[string]entity.Sale{},
			configs:     map[string]entity.GamificationConfig{},
			evaluations: map[string]entity.Evaluation{},
			balances:    map[string]entity.LedgerBalance{},
		},
		audit: &AuditRepo{},
	}
}

func (s *state) clone() *state {
	return &state{
		companies:   maps.Clone(s.companies),
		modules:     maps.Clone(s.modules),
		users:       maps.Clone(s.users),
		categories:  maps.Clone(s.categories),
		products:    maps.Clone(s.products),
		stock:       maps.Clone(s.stock),
		movements:   slices.Clone(s.movements),
		sales:       maps.Clone(s.sales),
		configs:     maps.Clone(s.configs),
		evaluations: maps.Clone(s.evaluations),
		entries:     slices.Clone(s.entries),
		balances:    maps.Clone(s.balances),
	}
}

// Run ejecuta fn sobre una copia del estado; si fn devuelve error la copia se descarta.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.st.clone()
	s.mu.RUnlock()

	if err := fn(txRepos(base{st: work})); err != nil {
		return err
	}

	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return nil
}

func txRepos(b base) repository.Tx {
	return repository.Tx{
		Users:        &UserRepo{b},
		Categories:   &CategoryRepo{b},
		Products:     &ProductRepo{b},
		Stock:        &StockRepo{b},
		Movements:    &MovementRepo{b},
		Sales:        &SaleRepo{b},
		Gamification: &GamificationRepo{b},
		Ledger:       &LedgerRepo{b},
	}
}

// base resuelve el estado sobre el que opera un repositorio:
// dentro de una transacción usa la copia privada, fuera toma los locks del store.
type base struct {
	s  *Store
	st *state
}

func (b base) read() (*state, func()) {
	if b.s == nil {
		return b.st, func() {}
	}
	b.s.mu.RLock()
	return b.s.st, b.s.mu.RUnlock
}

func (b base) write() (*state, func()) {
	if b.s == nil {
		return b.st, func() {}
	}
	b.s.txMu.Lock()
	b.s.mu.Lock()
	return b.s.st, func() {
		b.s.mu.Unlock()
		b.s.txMu.Unlock()
	}
}

// Repositorios sin transacción.

func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{base{s: s}} }
func (s *Store) Users() *UserRepo { return &UserRepo{base{s: s}} }
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{base{s: s}} }
func (s *Store) Products() *ProductRepo { return &ProductRepo{base{s: s}} }
func (s *Store) Stock() *StockRepo { return &StockRepo{base{s: s}} }
func (s *Store) Movements() *MovementRepo { return &MovementRepo{base{s: s}} }
func (s *Store) Sales() *SaleRepo { return &SaleRepo{base{s: s}} }
func (s *Store) Gamification() *GamificationRepo { return &GamificationRepo{base{s: s}} }
func (s *Store) Ledger() *LedgerRepo { return &LedgerRepo{base{s: s}} }
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{base{s: s}} }
func (s *Store) Audit() *AuditRepo { return s.audit }

// page aplica limit/offset sobre un listado ya ordenado. limit <= 0 no limita.
func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func ptrs[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}

func key(parts ...string) string {
	n := 0
	for _, p := range parts {
		n += len(p) + 1
	}
	b := make([]byte, 0, n)
	for i, p := range parts {
		if i > 0 {
			b = append(b, '|')
		}
		b = append(b, p...)
	}
	return string(b)
}
