// Package authz implementa las reglas de autorización de la plataforma:
// quién puede crear a quién, quién puede modificar a quién y qué permisos
// otorga un rol. Todas las decisiones son funciones puras de los roles
// involucrados más igualdad de identidad; no hay estado oculto.
package authz

import (
	"github.com/labsalud/laboratorio-api/internal/domain/entity"
)

// PuedeCrear decide si un actor con rolActor puede registrar un usuario con
// rolNuevo. Aprovisionamiento estrictamente descendente: evita la
// auto-escalada de privilegios. El caso de arranque (sistema vacío) lo maneja
// el flujo de registro, no esta tabla.
func PuedeCrear(rolActor, rolNuevo string) bool {
	switch rolActor {
	case entity.RolSuperAdmin:
		return rolNuevo == entity.RolAdministrador
	case entity.RolAdministrador:
		return rolNuevo == entity.RolLaboratorista || rolNuevo == entity.RolCliente
	}
	return false
}

// PuedeModificar decide si el actor puede modificar al usuario objetivo.
//   - Autoservicio: un usuario siempre puede modificarse a sí mismo.
//   - super_admin puede modificar a cualquier usuario.
//   - administrador puede modificar laboratoristas y clientes.
//   - laboratorista y cliente no modifican a terceros.
//
// El cambio del campo rol se restringe aparte con PuedeCambiarRol.
func PuedeModificar(actor, objetivo *entity.Usuario) bool {
	if actor == nil || objetivo == nil {
		return false
	}
	if actor.ID == objetivo.ID {
		return true
	}
	switch actor.Rol {
	case entity.RolSuperAdmin:
		return true
	case entity.RolAdministrador:
		return objetivo.Rol == entity.RolLaboratorista || objetivo.Rol == entity.RolCliente
	}
	return false
}

// PuedeCambiarRol indica si el actor puede alterar el rol (o la clasificación
// tipo) de un usuario. Solo el rol superior puede hacerlo, incluso cuando la
// puerta general de modificación permitiría la edición.
func PuedeCambiarRol(rolActor string) bool {
	return rolActor == entity.RolSuperAdmin
}

// TienePermiso verifica si el usuario posee el permiso dado. super_admin es
// superusuario y corta en verdadero sin consultar su conjunto; el resto
// verifica pertenencia en los permisos del rol resuelto.
func TienePermiso(u *entity.Usuario, permiso string) bool {
	if u == nil {
		return false
	}
	if u.Rol == entity.RolSuperAdmin {
		return true
	}
	for _, p := range u.RolResuelto.Permisos {
		if p == permiso {
			return true
		}
	}
	return false
}
