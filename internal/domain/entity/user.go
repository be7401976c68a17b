package entity

import "time"

// Usuario representa una identidad de la plataforma de laboratorio.
// Rol es una referencia por nombre; el valor completo se resuelve contra el
// registro de roles en la frontera de acceso a datos (RolResuelto).
type Usuario struct {
	ID           string
	Email        string // normalizado (case folding), único
	PasswordHash string // hash bcrypt, nunca texto plano después de persistir
	Nombre       string
	Documento    string
	Telefono     string
	Direccion    string
	Activo       bool
	Rol          string
	RolResuelto  Rol // poblado al leer; no se persiste
	Detalles     Detalles
	// TokenRecuperacion token pendiente de recuperación de contraseña.
	// Invariante: a lo sumo uno vivo por usuario; una nueva solicitud reemplaza el anterior.
	TokenRecuperacion *TokenRecuperacion
	FechaCreacion     time.Time // inmutable una vez asignada
	FechaActualizacion time.Time
}

// TokenRecuperacion secreto opaco de un solo uso para restablecer contraseña.
type TokenRecuperacion struct {
	Token      string
	Expiracion time.Time
	Intentos   int
}

// Detalles carga auxiliar dependiente del rol. Unión etiquetada por nombre de
// rol: exactamente un campo debe ser no-nil y debe corresponder al rol del usuario.
type Detalles struct {
	Cliente       *DetalleCliente       `json:"cliente,omitempty"`
	Administrador *DetalleAdministrador `json:"administrador,omitempty"`
	Laboratorista *DetalleLaboratorista `json:"laboratorista,omitempty"`
	SuperAdmin    *DetalleSuperAdmin    `json:"super_admin,omitempty"`
}

// DetalleCliente datos propios de un cliente del laboratorio.
type DetalleCliente struct {
	Tipo                 string   `json:"tipo"` // siempre "cliente"
	RazonSocial          string   `json:"razonSocial"`
	HistorialSolicitudes []string `json:"historialSolicitudes,omitempty"`
}

// DetalleAdministrador datos propios de un administrador.
type DetalleAdministrador struct {
	NivelAcceso int `json:"nivelAcceso"`
}

// DetalleLaboratorista datos propios de un laboratorista.
type DetalleLaboratorista struct {
	Especialidad string `json:"especialidad,omitempty"`
}

// DetalleSuperAdmin datos propios del super administrador.
type DetalleSuperAdmin struct {
	CodigoSeguridad  string           `json:"codigoSeguridad,omitempty"`
	RegistroAcciones []AccionAuditada `json:"registroAcciones,omitempty"`
}

// AccionAuditada entrada simple de bitácora (append, sin garantías de durabilidad).
type AccionAuditada struct {
	Accion   string    `json:"accion"`
	Fecha    time.Time `json:"fecha"`
	Detalles string    `json:"detalles,omitempty"`
}

// DetallesPara construye la variante de detalles correspondiente al nombre de rol.
func DetallesPara(rol string) Detalles {
	switch rol {
	case RolCliente:
		return Detalles{Cliente: &DetalleCliente{Tipo: RolCliente}}
	case RolAdministrador:
		return Detalles{Administrador: &DetalleAdministrador{NivelAcceso: 1}}
	case RolLaboratorista:
		return Detalles{Laboratorista: &DetalleLaboratorista{}}
	case RolSuperAdmin:
		return Detalles{SuperAdmin: &DetalleSuperAdmin{}}
	}
	return Detalles{}
}

// Valida verifica que la unión tenga exactamente la variante del rol dado y que
// los campos obligatorios de esa variante estén presentes.
func (d Detalles) Valida(rol string) bool {
	switch rol {
	case RolCliente:
		return d.Cliente != nil && d.Administrador == nil && d.Laboratorista == nil && d.SuperAdmin == nil &&
			d.Cliente.Tipo == RolCliente && d.Cliente.RazonSocial != ""
	case RolAdministrador:
		return d.Administrador != nil && d.Cliente == nil && d.Laboratorista == nil && d.SuperAdmin == nil
	case RolLaboratorista:
		return d.Laboratorista != nil && d.Cliente == nil && d.Administrador == nil && d.SuperAdmin == nil
	case RolSuperAdmin:
		return d.SuperAdmin != nil && d.Cliente == nil && d.Administrador == nil && d.Laboratorista == nil
	}
	return false
}
