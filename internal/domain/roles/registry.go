// Package roles contiene el registro canónico de roles de la plataforma.
// Es la ÚNICA tabla rol→permisos del código: cualquier otro componente
// (autorización, sesión, seed) consulta aquí y nunca duplica el literal.
package roles

import (
	"github.com/labsalud/laboratorio-api/internal/domain"
	"github.com/labsalud/laboratorio-api/internal/domain/entity"
)

// semilla en orden fijo; los roles se crean una vez y rara vez mutan.
var semilla = []entity.Rol{
	{
		Nombre: entity.RolSuperAdmin,
		Permisos: []string{
			"ver_usuarios",
			"crear_administradores",
			"desactivar_usuarios",
		},
		Descripcion: "Super administrador de la plataforma",
	},
	{
		Nombre: entity.RolAdministrador,
		Permisos: []string{
			"ver_usuarios",
			"crear_usuarios",
			"editar_usuarios",
			"eliminar_usuarios",
			"gestionar_laboratoristas",
			"gestionar_clientes",
		},
		Descripcion: "Administrador de laboratorio",
	},
	{
		Nombre: entity.RolLaboratorista,
		Permisos: []string{
			"perfil_propio",
			"gestionar_pruebas",
			"ver_resultados",
			"registro_muestras",
		},
		Descripcion: "Técnico de laboratorio",
	},
	{
		Nombre: entity.RolCliente,
		Permisos: []string{
			"perfil_propio",
			"ver_resultados",
			"solicitar_pruebas",
		},
		Descripcion: "Cliente del laboratorio",
	},
}

// Resolver devuelve el rol completo o ErrRolNoEncontrado.
func Resolver(nombre string) (entity.Rol, error) {
	for _, r := range semilla {
		if r.Nombre == nombre {
			return clonar(r), nil
		}
	}
	return entity.Rol{}, domain.ErrRolNoEncontrado
}

// PermisosDe devuelve el conjunto ordenado de permisos del rol.
// Rol desconocido devuelve slice vacío, nunca error: los llamadores deben
// tratar vacío como "sin permisos".
func PermisosDe(nombre string) []string {
	r, err := Resolver(nombre)
	if err != nil {
		return []string{}
	}
	return r.Permisos
}

// Todos devuelve los roles en el orden de la semilla (para seed/migración).
func Todos() []entity.Rol {
	out := make([]entity.Rol, len(semilla))
	for i, r := range semilla {
		out[i] = clonar(r)
	}
	return out
}

// clonar copia el rol para que los llamadores no puedan mutar la semilla.
func clonar(r entity.Rol) entity.Rol {
	permisos := make([]string, len(r.Permisos))
	copy(permisos, r.Permisos)
	r.Permisos = permisos
	return r
}
