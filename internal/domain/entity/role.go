package entity

// Nombres de rol válidos en la plataforma.
const (
	RolSuperAdmin    = "super_admin"
	RolAdministrador = "administrador"
	RolLaboratorista = "laboratorista"
	RolCliente       = "cliente"
)

// Rol categoría nombrada de usuario con su conjunto de permisos.
// Es dato de referencia de cambio lento: se siembra una vez y los usuarios
// guardan solo la referencia por nombre (nunca una copia embebida).
type Rol struct {
	Nombre      string
	Permisos    []string
	Descripcion string
}

// RolValido indica si el nombre corresponde a uno de los cuatro roles del sistema.
func RolValido(nombre string) bool {
	switch nombre {
	case RolSuperAdmin, RolAdministrador, RolLaboratorista, RolCliente:
		return true
	}
	return false
}
