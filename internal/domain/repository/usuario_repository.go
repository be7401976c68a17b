package repository

import "github.com/labsalud/laboratorio-api/internal/domain/entity"

// UsuarioRepository define el puerto de persistencia para Usuario (DIP).
//
// ObtenerPorID y ObtenerPorEmail devuelven el usuario con RolResuelto poblado
// desde el registro de roles. Las operaciones sobre el token de recuperación
// son actualizaciones condicionales atómicas contra el almacén: el proceso
// puede escalar horizontalmente, así que la unicidad de uso no puede depender
// de locks en memoria.
type UsuarioRepository interface {
	Crear(u *entity.Usuario) error
	ObtenerPorID(id string) (*entity.Usuario, error)
	ObtenerPorEmail(email string) (*entity.Usuario, error)
	// ListarActivos proyecta solo campos públicos: sin credencial ni detalles.
	ListarActivos(limit, offset int) ([]*entity.Usuario, error)
	// Contar cuenta usuarios activos; se usa para detectar el arranque (sistema vacío).
	Contar() (int, error)
	Actualizar(u *entity.Usuario) error

	// GuardarTokenRecuperacion reemplaza cualquier token pendiente del usuario.
	GuardarTokenRecuperacion(idUsuario string, t *entity.TokenRecuperacion) error
	// RegistrarIntentoToken gasta un intento contra el token pendiente
	// (intentos++ si coincide, no expiró y intentos < maxIntentos).
	// Devuelve el dueño del token o nil si no hay coincidencia válida.
	RegistrarIntentoToken(token string, maxIntentos int) (*entity.Usuario, error)
	// ConsumirTokenRecuperacion limpia el token si coincide, no expiró y no
	// agotó intentos. Dos consumos concurrentes del mismo token: exactamente
	// uno recibe el usuario, el resto nil.
	ConsumirTokenRecuperacion(token string, maxIntentos int) (*entity.Usuario, error)
}
