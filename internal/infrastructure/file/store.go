// Package file implementa el adaptador de almacenamiento sobre archivos JSON
// planos: data.json mapea clave-de-tenant -> documento y users.json guarda el
// arreglo de cuentas. Cada escritura reescribe el archivo completo, por lo que
// el store serializa todos los ciclos leer-modificar-escribir sobre un único
// mutex: el archivo entero es la unidad de exclusión.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/candelacafe/candela-api/internal/domain"
	"github.com/candelacafe/candela-api/internal/domain/entity"
	"github.com/candelacafe/candela-api/internal/domain/repository"
)

var _ repository.RepositorioDocumentos = (*Store)(nil)
var _ repository.RepositorioUsuarios = (*Store)(nil)

// Store persiste documentos y usuarios en archivos JSON locales.
type Store struct {
	mu           sync.Mutex
	rutaDatos    string
	rutaUsuarios string
}

// NuevoStore construye el store. Los archivos se crean en la primera escritura.
func NuevoStore(rutaDatos, rutaUsuarios string) *Store {
	return &Store{rutaDatos: rutaDatos, rutaUsuarios: rutaUsuarios}
}

// claveTenant es la clave del documento dentro de data.json.
func claveTenant(usuarioID string) string {
	return "user_" + usuarioID
}

// ──────────────────────────────────────────────────────────────────────────────
// RepositorioDocumentos
// ──────────────────────────────────────────────────────────────────────────────

// Obtener devuelve el documento del tenant; ausente -> documento vacío normalizado.
func (s *Store) Obtener(_ context.Context, usuarioID string) (entity.Documento, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mapa, err := s.leerMapa()
	if err != nil {
		return nil, err
	}
	return s.documentoDe(mapa, usuarioID)
}

// Guardar sobrescribe el documento completo del tenant y reescribe el archivo.
func (s *Store) Guardar(_ context.Context, usuarioID string, doc entity.Documento) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mapa, err := s.leerMapa()
	if err != nil {
		return err
	}
	crudo, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: serializar documento: %v", domain.ErrAlmacenamiento, err)
	}
	mapa[claveTenant(usuarioID)] = crudo
	return s.escribirMapa(mapa)
}

// Mutar ejecuta fn sobre el documento del tenant y persiste una sola vez.
// Todo el ciclo ocurre bajo el mutex del store, así que dos mutaciones
// concurrentes sobre cualquier tenant nunca se pierden entre sí.
func (s *Store) Mutar(_ context.Context, usuarioID string, fn func(doc entity.Documento) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mapa, err := s.leerMapa()
	if err != nil {
		return err
	}
	doc, err := s.documentoDe(mapa, usuarioID)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	crudo, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: serializar documento: %v", domain.ErrAlmacenamiento, err)
	}
	mapa[claveTenant(usuarioID)] = crudo
	return s.escribirMapa(mapa)
}

// documentoDe resuelve el documento dentro del mapa: primero la clave
// user_<id>, luego la clave legacy igual al id (estructuras previas a la
// migración multi-usuario).
func (s *Store) documentoDe(mapa map[string]json.RawMessage, usuarioID string) (entity.Documento, error) {
	crudo, ok := mapa[claveTenant(usuarioID)]
	if !ok {
		crudo, ok = mapa[usuarioID]
	}
	if !ok {
		return entity.NuevoDocumento(), nil
	}
	var doc entity.Documento
	if err := json.Unmarshal(crudo, &doc); err != nil {
		return nil, fmt.Errorf("%w: documento de %s malformado: %v", domain.ErrAlmacenamiento, usuarioID, err)
	}
	doc.Normalizar()
	return doc, nil
}

func (s *Store) leerMapa() (map[string]json.RawMessage, error) {
	contenido, err := os.ReadFile(s.rutaDatos)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrAlmacenamiento, s.rutaDatos, err)
	}
	if len(contenido) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	var mapa map[string]json.RawMessage
	if err := json.Unmarshal(contenido, &mapa); err != nil {
		// JSON malformado es fatal: devolver {} en silencio destruiría los
		// datos de todos los tenants en la próxima escritura.
		return nil, fmt.Errorf("%w: %s malformado: %v", domain.ErrAlmacenamiento, s.rutaDatos, err)
	}
	return mapa, nil
}

func (s *Store) escribirMapa(mapa map[string]json.RawMessage) error {
	contenido, err := json.MarshalIndent(mapa, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: serializar %s: %v", domain.ErrAlmacenamiento, s.rutaDatos, err)
	}
	return s.escribirAtomico(s.rutaDatos, contenido)
}

// escribirAtomico escribe a un archivo temporal y renombra, para no dejar un
// archivo truncado si el proceso muere a mitad de escritura.
func (s *Store) escribirAtomico(ruta string, contenido []byte) error {
	dir := filepath.Dir(ruta)
	tmp, err := os.CreateTemp(dir, filepath.Base(ruta)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: crear temporal: %v", domain.ErrAlmacenamiento, err)
	}
	nombre := tmp.Name()
	if _, err := tmp.Write(contenido); err != nil {
		tmp.Close()
		os.Remove(nombre)
		return fmt.Errorf("%w: escribir %s: %v", domain.ErrAlmacenamiento, ruta, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(nombre)
		return fmt.Errorf("%w: cerrar temporal: %v", domain.ErrAlmacenamiento, err)
	}
	if err := os.Rename(nombre, ruta); err != nil {
		os.Remove(nombre)
		return fmt.Errorf("%w: renombrar %s: %v", domain.ErrAlmacenamiento, ruta, err)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// RepositorioUsuarios
// ──────────────────────────────────────────────────────────────────────────────

// usuarioArchivo es la representación en users.json.
type usuarioArchivo struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"password_hash"`
	Plan         string     `json:"plan"`
	PlanVence    *time.Time `json:"plan_expires,omitempty"`
	Rol          string     `json:"rol,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func aArchivo(u *entity.Usuario) usuarioArchivo {
	return usuarioArchivo{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Plan:         u.Plan,
		PlanVence:    u.PlanVence,
		Rol:          u.Rol,
		CreatedAt:    u.CreatedAt,
	}
}

func deArchivo(u usuarioArchivo) *entity.Usuario {
	return &entity.Usuario{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Plan:         u.Plan,
		PlanVence:    u.PlanVence,
		Rol:          u.Rol,
		CreatedAt:    u.CreatedAt,
	}
}

// Crear agrega un usuario; username duplicado -> ErrUsuarioYaExiste.
func (s *Store) Crear(_ context.Context, u *entity.Usuario) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	usuarios, err := s.leerUsuarios()
	if err != nil {
		return err
	}
	for _, existente := range usuarios {
		if existente.Username == u.Username {
			return domain.ErrUsuarioYaExiste
		}
	}
	usuarios = append(usuarios, aArchivo(u))
	return s.escribirUsuarios(usuarios)
}

// PorID busca un usuario por id; ausente -> (nil, nil).
func (s *Store) PorID(_ context.Context, id string) (*entity.Usuario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	usuarios, err := s.leerUsuarios()
	if err != nil {
		return nil, err
	}
	for _, u := range usuarios {
		if u.ID == id {
			return deArchivo(u), nil
		}
	}
	return nil, nil
}

// PorUsername busca un usuario por nombre; ausente -> (nil, nil).
func (s *Store) PorUsername(_ context.Context, username string) (*entity.Usuario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	usuarios, err := s.leerUsuarios()
	if err != nil {
		return nil, err
	}
	for _, u := range usuarios {
		if u.Username == username {
			return deArchivo(u), nil
		}
	}
	return nil, nil
}

// Actualizar reemplaza el registro del usuario por id.
func (s *Store) Actualizar(_ context.Context, u *entity.Usuario) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	usuarios, err := s.leerUsuarios()
	if err != nil {
		return err
	}
	for i, existente := range usuarios {
		if existente.ID == u.ID {
			usuarios[i] = aArchivo(u)
			return s.escribirUsuarios(usuarios)
		}
	}
	return domain.ErrUsuarioNoExiste
}

// Listar devuelve todos los usuarios.
func (s *Store) Listar(_ context.Context) ([]*entity.Usuario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	usuarios, err := s.leerUsuarios()
	if err != nil {
		return nil, err
	}
	lista := make([]*entity.Usuario, 0, len(usuarios))
	for _, u := range usuarios {
		lista = append(lista, deArchivo(u))
	}
	return lista, nil
}

func (s *Store) leerUsuarios() ([]usuarioArchivo, error) {
	contenido, err := os.ReadFile(s.rutaUsuarios)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrAlmacenamiento, s.rutaUsuarios, err)
	}
	if len(contenido) == 0 {
		return nil, nil
	}
	var usuarios []usuarioArchivo
	if err := json.Unmarshal(contenido, &usuarios); err != nil {
		return nil, fmt.Errorf("%w: %s malformado: %v", domain.ErrAlmacenamiento, s.rutaUsuarios, err)
	}
	return usuarios, nil
}

func (s *Store) escribirUsuarios(usuarios []usuarioArchivo) error {
	contenido, err := json.MarshalIndent(usuarios, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: serializar %s: %v", domain.ErrAlmacenamiento, s.rutaUsuarios, err)
	}
	return s.escribirAtomico(s.rutaUsuarios, contenido)
}
