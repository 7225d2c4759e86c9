// Package testutil datos de prueba sobre el store en memoria para los tests de casos de uso y handlers.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/jhoicas/Distribuidores-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Fixture empresa con un administrador sobre un store en memoria.
type Fixture struct {
	T       testing.TB
	Store   *memory.Store
	Company *entity.Company
	Admin   dto.Actor
}

// New crea el store, la empresa (con todos los módulos activos) y su administrador.
func New(t testing.TB) *Fixture {
	t.Helper()
	store := memory.New()
	ctx := context.Background()
	now := time.Now().UTC()
	company := &entity.Company{ID: uuid.New().String(), Name: "Distribuidora Demo", NIT: "900123456", Status: "active", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Companies().Create(ctx, company))
	for _, m := range entity.AllModules {
		require.NoError(t, store.Companies().UpsertModule(ctx, &entity.CompanyModule{
			ID: uuid.New().String(), CompanyID: company.ID, ModuleName: m, IsActive: true, ActivatedAt: now, CreatedAt: now, UpdatedAt: now,
		}))
	}
	f := &Fixture{T: t, Store: store, Company: company}
	admin := f.user("admin@demo.co", "Admin", entity.RoleAdmin, entity.UserStatusActive, decimal.Zero)
	f.Admin = dto.Actor{UserID: admin.ID, CompanyID: company.ID, Role: entity.RoleAdmin, IP: "127.0.0.1"}
	return f
}

func (f *Fixture) user(email, name, role, status string, pct decimal.Decimal) *entity.User {
	f.T.Helper()
	now := time.Now().UTC()
	u := &entity.User{
		ID:            uuid.New().String(),
		CompanyID:     f.Company.ID,
		Email:         email,
		PasswordHash:  "x",
		Name:          name,
		Role:          role,
		Status:        status,
		CommissionPct: pct,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(f.T, f.Store.Users().Create(context.Background(), u))
	return u
}

// Distributor crea un distribuidor activo con el porcentaje dado y devuelve su actor.
func (f *Fixture) Distributor(name string, pct int64) dto.Actor {
	f.T.Helper()
	u := f.user(name+"@demo.co", name, entity.RoleDistribuidor, entity.UserStatusActive, decimal.NewFromInt(pct))
	return dto.Actor{UserID: u.ID, CompanyID: f.Company.ID, Role: entity.RoleDistribuidor}
}

// Product crea un producto activo con los tres precios y stock central.
func (f *Fixture) Product(sku string, purchase, distributor, client int64, stock int) *entity.Product {
	f.T.Helper()
	now := time.Now().UTC()
	p := &entity.Product{
		ID:                uuid.New().String(),
		CompanyID:         f.Company.ID,
		SKU:               sku,
		Name:              "Producto " + sku,
		PurchasePrice:     decimal.NewFromInt(purchase),
		DistributorPrice:  decimal.NewFromInt(distributor),
		ClientPrice:       decimal.NewFromInt(client),
		Stock:             stock,
		LowStockThreshold: 5,
		Status:            entity.StatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(f.T, f.Store.Products().Create(context.Background(), p))
	return p
}

// Give asigna stock directamente a un distribuidor (sin pasar por el stock central).
func (f *Fixture) Give(distributorID, productID string, qty int) {
	f.T.Helper()
	err := f.Store.Run(context.Background(), func(tx repository.Tx) error {
		_, err := tx.Stock.Adjust(context.Background(), f.Company.ID, distributorID, productID, qty)
		return err
	})
	require.NoError(f.T, err)
}
