package repository

import (
	"context"

	"github.com/candelacafe/candela-api/internal/domain/entity"
)

// RepositorioUsuarios es el puerto de persistencia de cuentas.
// Los métodos Por* devuelven (nil, nil) cuando el usuario no existe.
type RepositorioUsuarios interface {
	Crear(ctx context.Context, u *entity.Usuario) error
	PorID(ctx context.Context, id string) (*entity.Usuario, error)
	PorUsername(ctx context.Context, username string) (*entity.Usuario, error)
	Actualizar(ctx context.Context, u *entity.Usuario) error
	Listar(ctx context.Context) ([]*entity.Usuario, error)
}
