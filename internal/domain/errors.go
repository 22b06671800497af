package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrUsuarioNoExiste = errors.New("usuario no encontrado")
	ErrUsuarioYaExiste = errors.New("el nombre de usuario ya está registrado")
	ErrEntradaInvalida = errors.New("entrada inválida")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrAlmacenamiento  = errors.New("fallo de almacenamiento")
)
