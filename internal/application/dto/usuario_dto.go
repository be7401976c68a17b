package dto

import "time"

// RegistroRequest entrada para crear un usuario (password en texto, se hashea en use case).
// Tipo es el nombre del rol solicitado; los campos de detalle aplican según el rol.
type RegistroRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Nombre    string `json:"nombre" validate:"required,min=1,max=200"`
	Tipo      string `json:"tipo" validate:"required,oneof=super_admin administrador laboratorista cliente"`
	Documento string `json:"documento" validate:"required"`
	Telefono  string `json:"telefono" validate:"omitempty"`
	Direccion string `json:"direccion" validate:"omitempty"`

	// Detalles por rol
	RazonSocial     string `json:"razonSocial,omitempty"`     // cliente (obligatorio)
	Especialidad    string `json:"especialidad,omitempty"`    // laboratorista
	NivelAcceso     int    `json:"nivelAcceso,omitempty"`     // administrador (default 1)
	CodigoSeguridad string `json:"codigoSeguridad,omitempty"` // super_admin
}

// ActualizarRequest patch parcial de un usuario. Punteros distinguen campo
// ausente de valor vacío. El ID nunca es modificable; Tipo solo por super_admin.
type ActualizarRequest struct {
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	Nombre    *string `json:"nombre,omitempty"`
	Documento *string `json:"documento,omitempty"`
	Telefono  *string `json:"telefono,omitempty"`
	Direccion *string `json:"direccion,omitempty"`
	Tipo      *string `json:"tipo,omitempty"`
}

// EstadoRequest activación/desactivación lógica.
type EstadoRequest struct {
	Activo bool `json:"activo"`
}

// UsuarioResponse salida de un usuario (sin credencial).
type UsuarioResponse struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Nombre             string    `json:"nombre"`
	Documento          string    `json:"documento,omitempty"`
	Telefono           string    `json:"telefono,omitempty"`
	Direccion          string    `json:"direccion,omitempty"`
	Rol                string    `json:"rol"`
	Activo             bool      `json:"activo"`
	FechaCreacion      time.Time `json:"fechaCreacion"`
	FechaActualizacion time.Time `json:"fechaActualizacion,omitempty"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con la aserción de sesión firmada y la identidad.
type LoginResponse struct {
	Token    string   `json:"token"`
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Nombre   string   `json:"nombre"`
	Rol      string   `json:"rol"`
	Permisos []string `json:"permisos"`
}

// RecuperacionRequest solicitud de recuperación de contraseña.
type RecuperacionRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RestablecerRequest consumo del token de recuperación con la nueva contraseña.
type RestablecerRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}
