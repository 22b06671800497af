package auth_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candelacafe/candela-api/internal/application/auth"
	"github.com/candelacafe/candela-api/internal/application/dto"
	"github.com/candelacafe/candela-api/internal/domain"
	"github.com/candelacafe/candela-api/internal/domain/entity"
	"github.com/candelacafe/candela-api/internal/infrastructure/file"
	pkgjwt "github.com/candelacafe/candela-api/pkg/jwt"
)

var jwtCfg = auth.JWTConfig{
	Secret:     "test-secret-key",
	ExpMinutes: 60,
	Issuer:     "candela-test",
}

func nuevoAuth(t *testing.T) (*auth.AuthUseCase, *file.Store) {
	t.Helper()
	dir := t.TempDir()
	store := file.NuevoStore(filepath.Join(dir, "data.json"), filepath.Join(dir, "users.json"))
	return auth.NewAuthUseCase(store, store, jwtCfg), store
}

func TestRegistrarYLogin(t *testing.T) {
	uc, store := nuevoAuth(t)
	ctx := context.Background()

	reg, err := uc.Registrar(ctx, dto.RegistroRequest{Username: "demo", Password: "demo123"})
	require.NoError(t, err)
	assert.Equal(t, "demo", reg.Username)
	assert.NotEmpty(t, reg.ID)

	// El registro crea el documento vacío de la cuenta.
	doc, err := store.Obtener(ctx, reg.ID)
	require.NoError(t, err)
	assert.Empty(t, doc.Array("ventas"))

	resp, err := uc.Login(ctx, dto.LoginRequest{Username: "demo", Password: "demo123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, entity.PlanFree, resp.User.Plan)
	assert.Equal(t, entity.RolUsuario, resp.User.Rol)

	userID, username, rol, err := pkgjwt.Parse(jwtCfg.Secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, userID)
	assert.Equal(t, "demo", username)
	assert.Equal(t, entity.RolUsuario, rol)
}

func TestRegistrar_UsernameDuplicado(t *testing.T) {
	uc, _ := nuevoAuth(t)
	ctx := context.Background()

	_, err := uc.Registrar(ctx, dto.RegistroRequest{Username: "demo", Password: "demo123"})
	require.NoError(t, err)

	_, err = uc.Registrar(ctx, dto.RegistroRequest{Username: "demo", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUsuarioYaExiste)
}

func TestRegistrar_CamposVacios(t *testing.T) {
	uc, _ := nuevoAuth(t)
	_, err := uc.Registrar(context.Background(), dto.RegistroRequest{Username: "", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

func TestLogin_CredencialesInvalidasSonOpacas(t *testing.T) {
	uc, _ := nuevoAuth(t)
	ctx := context.Background()

	_, err := uc.Registrar(ctx, dto.RegistroRequest{Username: "demo", Password: "demo123"})
	require.NoError(t, err)

	// Usuario inexistente y password incorrecto: mismo error, sin distinguir.
	_, errFantasma := uc.Login(ctx, dto.LoginRequest{Username: "fantasma", Password: "x"})
	_, errPassword := uc.Login(ctx, dto.LoginRequest{Username: "demo", Password: "incorrecta"})

	assert.ErrorIs(t, errFantasma, domain.ErrUnauthorized)
	assert.ErrorIs(t, errPassword, domain.ErrUnauthorized)
	assert.Equal(t, errFantasma, errPassword, "ambas fallas deben ser indistinguibles")
}

func TestUpgrade_ActivaProPorTreintaDias(t *testing.T) {
	uc, _ := nuevoAuth(t)
	ctx := context.Background()

	reg, err := uc.Registrar(ctx, dto.RegistroRequest{Username: "demo", Password: "demo123"})
	require.NoError(t, err)

	out, err := uc.Upgrade(ctx, reg.ID)
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, entity.PlanPro, out.Plan)
	assert.WithinDuration(t, time.Now().Add(auth.DuracionPlanPro), out.Expires, time.Minute)

	me, err := uc.Me(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PlanPro, me.Plan)
	require.NotNil(t, me.PlanVence)
}

func TestMe_PlanProVencidoSeReportaFree(t *testing.T) {
	uc, store := nuevoAuth(t)
	ctx := context.Background()

	reg, err := uc.Registrar(ctx, dto.RegistroRequest{Username: "demo", Password: "demo123"})
	require.NoError(t, err)

	u, err := store.PorID(ctx, reg.ID)
	require.NoError(t, err)
	vencido := time.Now().Add(-24 * time.Hour)
	u.Plan = entity.PlanPro
	u.PlanVence = &vencido
	require.NoError(t, store.Actualizar(ctx, u))

	me, err := uc.Me(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PlanFree, me.Plan, "pro vencido se lee como free")
}

func TestMe_UsuarioInexistente(t *testing.T) {
	uc, _ := nuevoAuth(t)
	_, err := uc.Me(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSembrarAdmin_Idempotente(t *testing.T) {
	uc, store := nuevoAuth(t)
	ctx := context.Background()

	require.NoError(t, uc.SembrarAdmin(ctx, "admin", "secreto"))

	primero, err := store.PorUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, primero)
	assert.Equal(t, entity.RolAdmin, primero.Rol)
	assert.Equal(t, entity.PlanPro, primero.Plan)

	// Una segunda siembra no debe tocar la cuenta existente.
	require.NoError(t, uc.SembrarAdmin(ctx, "admin", "otro-password"))

	segundo, err := store.PorUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, primero.ID, segundo.ID)
	assert.Equal(t, primero.PasswordHash, segundo.PasswordHash, "el password no se reescribe")

	lista, err := store.Listar(ctx)
	require.NoError(t, err)
	assert.Len(t, lista, 1)
}
