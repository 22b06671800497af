package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/candelacafe/candela-api/internal/domain"
	"github.com/candelacafe/candela-api/internal/domain/entity"
	"github.com/candelacafe/candela-api/internal/domain/repository"
)

var _ repository.RepositorioUsuarios = (*UsuarioRepo)(nil)

// UsuarioRepo implementación del puerto RepositorioUsuarios sobre PostgreSQL.
type UsuarioRepo struct {
	pool *pgxpool.Pool
}

// NewUsuarioRepository construye el adaptador de persistencia para usuarios.
func NewUsuarioRepository(pool *pgxpool.Pool) *UsuarioRepo {
	return &UsuarioRepo{pool: pool}
}

const columnasUsuario = `id, username, password_hash, plan, plan_vence, rol, created_at`

// Crear persiste una nueva cuenta; username duplicado -> ErrUsuarioYaExiste.
func (r *UsuarioRepo) Crear(ctx context.Context, u *entity.Usuario) error {
	query := `
		INSERT INTO usuarios (id, username, password_hash, plan, plan_vence, rol, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Username, u.PasswordHash, u.Plan, u.PlanVence, u.Rol, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsuarioYaExiste
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	return nil
}

// PorID obtiene un usuario por id; ausente -> (nil, nil).
func (r *UsuarioRepo) PorID(ctx context.Context, id string) (*entity.Usuario, error) {
	return r.uno(ctx, `SELECT `+columnasUsuario+` FROM usuarios WHERE id = $1`, id)
}

// PorUsername obtiene un usuario por nombre; ausente -> (nil, nil).
func (r *UsuarioRepo) PorUsername(ctx context.Context, username string) (*entity.Usuario, error) {
	return r.uno(ctx, `SELECT `+columnasUsuario+` FROM usuarios WHERE username = $1`, username)
}

func (r *UsuarioRepo) uno(ctx context.Context, query string, arg any) (*entity.Usuario, error) {
	var u entity.Usuario
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Plan, &u.PlanVence, &u.Rol, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	return &u, nil
}

// Actualizar sobrescribe plan, vencimiento, rol y hash del usuario.
func (r *UsuarioRepo) Actualizar(ctx context.Context, u *entity.Usuario) error {
	query := `
		UPDATE usuarios SET password_hash = $2, plan = $3, plan_vence = $4, rol = $5
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, u.ID, u.PasswordHash, u.Plan, u.PlanVence, u.Rol)
	if err != nil {
		return fmt.Errorf("update usuario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUsuarioNoExiste
	}
	return nil
}

// Listar devuelve todas las cuentas, más recientes primero.
func (r *UsuarioRepo) Listar(ctx context.Context) ([]*entity.Usuario, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columnasUsuario+` FROM usuarios ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list usuarios: %w", err)
	}
	defer rows.Close()
	var lista []*entity.Usuario
	for rows.Next() {
		var u entity.Usuario
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Plan, &u.PlanVence, &u.Rol, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan usuario: %w", err)
		}
		lista = append(lista, &u)
	}
	return lista, rows.Err()
}
