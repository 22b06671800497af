package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/candelacafe/candela-api/internal/application/dto"
	"github.com/candelacafe/candela-api/internal/domain"
	"github.com/candelacafe/candela-api/internal/domain/entity"
	"github.com/candelacafe/candela-api/internal/domain/repository"
	"github.com/candelacafe/candela-api/pkg/jwt"
)

// DuracionPlanPro vigencia de la mejora de plan desde el momento del upgrade.
const DuracionPlanPro = 30 * 24 * time.Hour

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login, perfil, upgrade.
type AuthUseCase struct {
	usuarios   repository.RepositorioUsuarios
	documentos repository.RepositorioDocumentos
	jwtCfg     JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(usuarios repository.RepositorioUsuarios, documentos repository.RepositorioDocumentos, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{usuarios: usuarios, documentos: documentos, jwtCfg: jwtCfg}
}

// Registrar crea una cuenta: hashea el password con bcrypt, persiste el usuario
// y crea su documento vacío. Devuelve ErrUsuarioYaExiste si el nombre está tomado.
func (uc *AuthUseCase) Registrar(ctx context.Context, in dto.RegistroRequest) (*dto.RegistroResponse, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrEntradaInvalida
	}
	existente, err := uc.usuarios.PorUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existente != nil {
		return nil, domain.ErrUsuarioYaExiste
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	plan := in.Plan
	if plan != entity.PlanPro {
		plan = entity.PlanFree
	}
	u := &entity.Usuario{
		ID:           uuid.New().String(),
		Username:     in.Username,
		PasswordHash: string(hash),
		Plan:         plan,
		Rol:          entity.RolUsuario,
		CreatedAt:    time.Now(),
	}
	if err := uc.usuarios.Crear(ctx, u); err != nil {
		return nil, err
	}
	// El documento nace vacío en el registro y vive mientras exista la cuenta.
	if err := uc.documentos.Guardar(ctx, u.ID, entity.NuevoDocumento()); err != nil {
		return nil, err
	}
	return &dto.RegistroResponse{ID: u.ID, Username: u.Username}, nil
}

// Login verifica credenciales y emite un JWT. Usuario inexistente y password
// incorrecto devuelven el mismo ErrUnauthorized opaco para no permitir
// enumeración de nombres de usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	u, err := uc.usuarios.PorUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, u.ID, u.Username, u.Rol, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *aUsuarioResponse(u, time.Now())}, nil
}

// Me devuelve la identidad del token. El plan reportado es el efectivo: un
// plan pro vencido se lee como free.
func (uc *AuthUseCase) Me(ctx context.Context, usuarioID string) (*dto.UsuarioResponse, error) {
	u, err := uc.usuarios.PorID(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUnauthorized
	}
	return aUsuarioResponse(u, time.Now()), nil
}

// Upgrade activa el plan pro con vencimiento a 30 días desde ahora.
func (uc *AuthUseCase) Upgrade(ctx context.Context, usuarioID string) (*dto.UpgradeResponse, error) {
	u, err := uc.usuarios.PorID(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUnauthorized
	}
	vence := time.Now().Add(DuracionPlanPro)
	u.Plan = entity.PlanPro
	u.PlanVence = &vence
	if err := uc.usuarios.Actualizar(ctx, u); err != nil {
		return nil, err
	}
	return &dto.UpgradeResponse{Success: true, Plan: entity.PlanPro, Expires: vence}, nil
}

// ListarUsuarios devuelve todas las cuentas (capacidad de administrador).
func (uc *AuthUseCase) ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error) {
	usuarios, err := uc.usuarios.Listar(ctx)
	if err != nil {
		return nil, err
	}
	ahora := time.Now()
	lista := make([]dto.UsuarioResponse, 0, len(usuarios))
	for _, u := range usuarios {
		lista = append(lista, *aUsuarioResponse(u, ahora))
	}
	return lista, nil
}

// SembrarAdmin garantiza la cuenta administradora al arranque. Si ya existe no
// toca nada (en particular no reescribe el password).
func (uc *AuthUseCase) SembrarAdmin(ctx context.Context, username, password string) error {
	existente, err := uc.usuarios.PorUsername(ctx, username)
	if err != nil {
		return err
	}
	if existente != nil {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u := &entity.Usuario{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Plan:         entity.PlanPro,
		Rol:          entity.RolAdmin,
		CreatedAt:    time.Now(),
	}
	if err := uc.usuarios.Crear(ctx, u); err != nil {
		return err
	}
	return uc.documentos.Guardar(ctx, u.ID, entity.NuevoDocumento())
}

func aUsuarioResponse(u *entity.Usuario, ahora time.Time) *dto.UsuarioResponse {
	if u == nil {
		return nil
	}
	return &dto.UsuarioResponse{
		ID:        u.ID,
		Username:  u.Username,
		Plan:      u.PlanEfectivo(ahora),
		PlanVence: u.PlanVence,
		Rol:       u.Rol,
		CreatedAt: u.CreatedAt,
	}
}
