package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Distribuidores-api/internal/application/dto"
	"github.com/jhoicas/Distribuidores-api/internal/domain"
	"github.com/jhoicas/Distribuidores-api/internal/domain/commission"
	"github.com/jhoicas/Distribuidores-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidores-api/internal/domain/repository"
	"github.com/jhoicas/Distribuidores-api/pkg/jwt"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, companyRepo: companyRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario con el password hasheado con bcrypt.
//
// Registro público (actor nil): el primer usuario de la empresa queda como admin activo;
// los siguientes quedan como distribuidores inactivos hasta que un admin los active.
// Registro por un admin de la misma empresa: el usuario queda activo con el rol pedido.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, actor *dto.Actor, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	company, err := uc.companyRepo.GetByID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound // empresa no existe
	}

	role, status, err := uc.resolveRole(ctx, actor, in)
	if err != nil {
		return nil, err
	}
	pct := decimal.Zero
	if in.CommissionPct != nil {
		if err := commission.ValidatePct(*in.CommissionPct); err != nil {
			return nil, err
		}
		pct = *in.CommissionPct
	}
	if role != entity.RoleDistribuidor {
		pct = decimal.Zero
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:            uuid.New().String(),
		CompanyID:     in.CompanyID,
		Email:         email,
		PasswordHash:  string(hash),
		Name:          name,
		Role:          role,
		Status:        status,
		CommissionPct: pct,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

func (uc *AuthUseCase) resolveRole(ctx context.Context, actor *dto.Actor, in dto.RegisterRequest) (string, string, error) {
	if actor != nil {
		if !actor.IsAdmin() || actor.CompanyID != in.CompanyID {
			return "", "", domain.ErrForbidden
		}
		role := in.Role
		if role == "" {
			role = entity.RoleDistribuidor
		}
		return role, entity.UserStatusActive, nil
	}
	users, err := uc.userRepo.List(ctx, repository.UserFilter{CompanyID: in.CompanyID, Limit: 1})
	if err != nil {
		return "", "", err
	}
	if len(users) == 0 {
		return entity.RoleAdmin, entity.UserStatusActive, nil
	}
	if in.Role == entity.RoleAdmin {
		return "", "", domain.ErrForbidden
	}
	return entity.RoleDistribuidor, entity.UserStatusInactive, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user),
	}, nil
}

// ToUserResponse convierte la entidad a DTO (sin password).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:            u.ID,
		CompanyID:     u.CompanyID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		Status:        u.Status,
		CommissionPct: u.CommissionPct,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
