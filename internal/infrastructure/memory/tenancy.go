package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
	_ repository.UserRepository    = (*UserRepo)(nil)
)

// CompanyRepo empresas y módulos en memoria.
type CompanyRepo struct{ base }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	st, done := r.write()
	defer done()
	if _, ok := st.companies[c.ID]; ok {
		return domain.ErrDuplicate
	}
	if c.NIT != "" {
		for _, other := range st.companies {
			if other.NIT == c.NIT {
				return domain.ErrDuplicate
			}
		}
	}
	st.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	st, done := r.read()
	defer done()
	c, ok := st.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CompanyRepo) GetByNIT(_ context.Context, nit string) (*entity.Company, error) {
	st, done := r.read()
	defer done()
	for _, c := range st.companies {
		if c.NIT == nit {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CompanyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	st, done := r.read()
	defer done()
	list := make([]entity.Company, 0, len(st.companies))
	for _, c := range st.companies {
		list = append(list, c)
	}
	slices.SortFunc(list, func(a, b entity.Company) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return ptrs(page(list, limit, offset)), nil
}

func (r *CompanyRepo) HasActiveModule(_ context.Context, companyID, moduleName string) (bool, error) {
	st, done := r.read()
	defer done()
	m, ok := st.modules[key(companyID, moduleName)]
	return ok && m.IsEffective(time.Now()), nil
}

func (r *CompanyRepo) UpsertModule(_ context.Context, m *entity.CompanyModule) error {
	st, done := r.write()
	defer done()
	k := key(m.CompanyID, m.ModuleName)
	if prev, ok := st.modules[k]; ok {
		m.ID = prev.ID
		m.CreatedAt = prev.CreatedAt
	}
	st.modules[k] = *m
	return nil
}

func (r *CompanyRepo) ListModules(_ context.Context, companyID string) ([]*entity.CompanyModule, error) {
	st, done := r.read()
	defer done()
	var list []entity.CompanyModule
	for _, m := range st.modules {
		if m.CompanyID == companyID {
			list = append(list, m)
		}
	}
	slices.SortFunc(list, func(a, b entity.CompanyModule) int { return cmp.Compare(a.ModuleName, b.ModuleName) })
	return ptrs(list), nil
}

// UserRepo usuarios en memoria. El email es único en todo el sistema.
type UserRepo struct{ base }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	st, done := r.write()
	defer done()
	for _, other := range st.users {
		if strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	st.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	st, done := r.read()
	defer done()
	u, ok := st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetInCompany(_ context.Context, companyID, id string) (*entity.User, error) {
	st, done := r.read()
	defer done()
	u, ok := st.users[id]
	if !ok || u.CompanyID != companyID {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	st, done := r.read()
	defer done()
	for _, u := range st.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(_ context.Context, f repository.UserFilter) ([]*entity.User, error) {
	st, done := r.read()
	defer done()
	var list []entity.User
	for _, u := range st.users {
		if u.CompanyID != f.CompanyID {
			continue
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		list = append(list, u)
	}
	slices.SortFunc(list, func(a, b entity.User) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return ptrs(page(list, f.Limit, f.Offset)), nil
}

func (r *UserRepo) UpdateStatus(_ context.Context, companyID, id, status string) error {
	st, done := r.write()
	defer done()
	u, ok := st.users[id]
	if !ok || u.CompanyID != companyID {
		return domain.ErrUserNotFound
	}
	u.Status = status
	u.UpdatedAt = time.Now().UTC()
	st.users[id] = u
	return nil
}

func (r *UserRepo) UpdateCommissionPct(_ context.Context, companyID, id string, pct decimal.Decimal) error {
	st, done := r.write()
	defer done()
	u, ok := st.users[id]
	if !ok || u.CompanyID != companyID {
		return domain.ErrUserNotFound
	}
	u.CommissionPct = pct
	u.UpdatedAt = time.Now().UTC()
	st.users[id] = u
	return nil
}
