package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/candelacafe/candela-api/internal/domain"
	"github.com/candelacafe/candela-api/internal/domain/entity"
	"github.com/candelacafe/candela-api/internal/domain/repository"
)

var _ repository.RepositorioDocumentos = (*DocumentoRepo)(nil)

// DocumentoRepo implementación del adaptador de almacenamiento sobre una
// tabla con una fila por tenant y el documento en una columna JSONB.
type DocumentoRepo struct {
	pool *pgxpool.Pool
}

// NewDocumentoRepository construye el adaptador de persistencia de documentos.
func NewDocumentoRepository(pool *pgxpool.Pool) *DocumentoRepo {
	return &DocumentoRepo{pool: pool}
}

// Obtener hace un point select; fila ausente -> documento vacío normalizado.
func (r *DocumentoRepo) Obtener(ctx context.Context, usuarioID string) (entity.Documento, error) {
	var crudo []byte
	err := r.pool.QueryRow(ctx,
		`SELECT datos FROM documentos WHERE usuario_id = $1`, usuarioID,
	).Scan(&crudo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.NuevoDocumento(), nil
		}
		return nil, fmt.Errorf("%w: select documento: %v", domain.ErrAlmacenamiento, err)
	}
	return decodificar(crudo, usuarioID)
}

// Guardar hace upsert del documento completo del tenant.
func (r *DocumentoRepo) Guardar(ctx context.Context, usuarioID string, doc entity.Documento) error {
	crudo, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: serializar documento: %v", domain.ErrAlmacenamiento, err)
	}
	_, err = r.pool.Exec(ctx, upsertDocumento, usuarioID, crudo)
	if err != nil {
		return fmt.Errorf("%w: upsert documento: %v", domain.ErrAlmacenamiento, err)
	}
	return nil
}

const upsertDocumento = `
	INSERT INTO documentos (usuario_id, datos, actualizado)
	VALUES ($1, $2, now())
	ON CONFLICT (usuario_id) DO UPDATE SET datos = EXCLUDED.datos, actualizado = now()`

// Mutar ejecuta el ciclo leer-modificar-escribir dentro de una transacción con
// la fila del tenant bloqueada (SELECT ... FOR UPDATE), de modo que mutaciones
// concurrentes sobre el mismo tenant se serializan en vez de pisarse.
func (r *DocumentoRepo) Mutar(ctx context.Context, usuarioID string, fn func(doc entity.Documento) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", domain.ErrAlmacenamiento, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Asegurar la fila primero: FOR UPDATE no bloquea filas inexistentes.
	if _, err := tx.Exec(ctx,
		`INSERT INTO documentos (usuario_id) VALUES ($1) ON CONFLICT (usuario_id) DO NOTHING`,
		usuarioID,
	); err != nil {
		return fmt.Errorf("%w: asegurar fila: %v", domain.ErrAlmacenamiento, err)
	}

	var crudo []byte
	if err := tx.QueryRow(ctx,
		`SELECT datos FROM documentos WHERE usuario_id = $1 FOR UPDATE`, usuarioID,
	).Scan(&crudo); err != nil {
		return fmt.Errorf("%w: select for update: %v", domain.ErrAlmacenamiento, err)
	}

	doc, err := decodificar(crudo, usuarioID)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}

	actualizado, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: serializar documento: %v", domain.ErrAlmacenamiento, err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE documentos SET datos = $2, actualizado = now() WHERE usuario_id = $1`,
		usuarioID, actualizado,
	); err != nil {
		return fmt.Errorf("%w: update documento: %v", domain.ErrAlmacenamiento, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrAlmacenamiento, err)
	}
	return nil
}

// decodificar parsea el JSONB almacenado. Malformado es fatal: resetear a {}
// en silencio destruiría los datos del tenant en la próxima escritura.
func decodificar(crudo []byte, usuarioID string) (entity.Documento, error) {
	if len(crudo) == 0 {
		return entity.NuevoDocumento(), nil
	}
	var doc entity.Documento
	if err := json.Unmarshal(crudo, &doc); err != nil {
		return nil, fmt.Errorf("%w: documento de %s malformado: %v", domain.ErrAlmacenamiento, usuarioID, err)
	}
	doc.Normalizar()
	return doc, nil
}
