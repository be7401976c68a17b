package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrEntradaInvalida       = errors.New("entrada inválida")
	ErrEmailRegistrado       = errors.New("el email ya está registrado")
	ErrUsuarioNoEncontrado   = errors.New("usuario no encontrado")
	ErrRolNoEncontrado       = errors.New("rol no encontrado")
	ErrAccesoDenegado        = errors.New("acceso denegado")
	ErrCredencialesInvalidas = errors.New("credenciales inválidas")
	ErrUsuarioInactivo       = errors.New("el usuario está desactivado")
	ErrTokenInvalido         = errors.New("token inválido o expirado")
	ErrPasswordDebil         = errors.New("la contraseña no cumple la política de seguridad")
	ErrNotificacion          = errors.New("no se pudo enviar la notificación")
)
