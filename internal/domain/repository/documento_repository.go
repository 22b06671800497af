package repository

import (
	"context"

	"github.com/candelacafe/candela-api/internal/domain/entity"
)

// RepositorioDocumentos es el puerto del adaptador de almacenamiento: un
// documento JSON por tenant sobre dos medios intercambiables (archivo plano o
// columna JSONB). El contrato externo es idéntico en ambos.
//
//   - Obtener nunca falla por tenant ausente: devuelve un documento vacío
//     normalizado. JSON persistido malformado sí es un error fatal
//     (ErrAlmacenamiento): devolver {} en silencio destruiría datos en la
//     próxima escritura.
//   - Guardar sobrescribe el documento completo del tenant.
//   - Mutar ejecuta un ciclo leer-modificar-escribir serializado por tenant:
//     el backend de archivo serializa sobre el mutex del store (el archivo
//     entero es la unidad de exclusión) y el backend relacional bloquea la
//     fila con SELECT ... FOR UPDATE dentro de una transacción. Dos Mutar
//     concurrentes sobre el mismo tenant nunca se pisan.
type RepositorioDocumentos interface {
	Obtener(ctx context.Context, usuarioID string) (entity.Documento, error)
	Guardar(ctx context.Context, usuarioID string, doc entity.Documento) error
	Mutar(ctx context.Context, usuarioID string, fn func(doc entity.Documento) error) error
}
