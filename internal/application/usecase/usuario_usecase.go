package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labsalud/laboratorio-api/internal/application/dto"
	"github.com/labsalud/laboratorio-api/internal/domain"
	"github.com/labsalud/laboratorio-api/internal/domain/authz"
	"github.com/labsalud/laboratorio-api/internal/domain/entity"
	"github.com/labsalud/laboratorio-api/internal/domain/repository"
	"github.com/labsalud/laboratorio-api/internal/domain/roles"
	"github.com/labsalud/laboratorio-api/pkg/password"
)

// UsuarioUseCase aplica las reglas de negocio de identidades: alta jerárquica,
// modificación con puerta de autorización y baja lógica.
type UsuarioUseCase struct {
	repo repository.UsuarioRepository
}

// NewUsuarioUseCase construye el caso de uso con el puerto de persistencia.
func NewUsuarioUseCase(repo repository.UsuarioRepository) *UsuarioUseCase {
	return &UsuarioUseCase{repo: repo}
}

// Registrar crea un usuario aplicando las verificaciones en orden estricto:
// rol conocido → invariante de arranque (sistema vacío admite solo super_admin,
// sin actor) → puerta de creación actor→rol → email único → fortaleza de
// contraseña → resolución en el registro de roles → forma de detalles por rol →
// persistencia. Cualquier fallo corta sin escrituras parciales.
// actorRol vacío significa llamada sin sesión (solo válida en el arranque).
func (uc *UsuarioUseCase) Registrar(actorRol string, in dto.RegistroRequest) (*dto.UsuarioResponse, error) {
	if !entity.RolValido(in.Tipo) {
		return nil, domain.ErrEntradaInvalida
	}
	if in.Email == "" || in.Nombre == "" || in.Documento == "" {
		return nil, domain.ErrEntradaInvalida
	}

	total, err := uc.repo.Contar()
	if err != nil {
		return nil, fmt.Errorf("contar usuarios: %w", err)
	}
	if total == 0 {
		// Invariante de arranque: la primera cuenta no puede ser autorizada
		// por nadie, así que solo se admite el rol superior.
		if in.Tipo != entity.RolSuperAdmin {
			return nil, domain.ErrEntradaInvalida
		}
	} else {
		if actorRol == "" || !authz.PuedeCrear(actorRol, in.Tipo) {
			return nil, domain.ErrAccesoDenegado
		}
	}

	email := entity.NormalizarEmail(in.Email)
	existente, err := uc.repo.ObtenerPorEmail(email)
	if err != nil {
		return nil, err
	}
	if existente != nil {
		return nil, domain.ErrEmailRegistrado
	}

	if err := password.ValidarFortaleza(in.Password); err != nil {
		return nil, err
	}

	rol, err := roles.Resolver(in.Tipo)
	if err != nil {
		return nil, err
	}

	detalles, err := armarDetalles(in)
	if err != nil {
		return nil, err
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &entity.Usuario{
		ID:                 uuid.New().String(),
		Email:              email,
		PasswordHash:       hash,
		Nombre:             in.Nombre,
		Documento:          in.Documento,
		Telefono:           in.Telefono,
		Direccion:          in.Direccion,
		Activo:             true,
		Rol:                rol.Nombre,
		RolResuelto:        rol,
		Detalles:           detalles,
		FechaCreacion:      now,
		FechaActualizacion: now,
	}
	if err := uc.repo.Crear(u); err != nil {
		return nil, err
	}
	return aUsuarioResponse(u), nil
}

// armarDetalles construye la variante de detalles del rol solicitado y valida
// los campos obligatorios (cliente exige razón social).
func armarDetalles(in dto.RegistroRequest) (entity.Detalles, error) {
	d := entity.DetallesPara(in.Tipo)
	switch in.Tipo {
	case entity.RolCliente:
		if in.RazonSocial == "" {
			return entity.Detalles{}, domain.ErrEntradaInvalida
		}
		d.Cliente.RazonSocial = in.RazonSocial
	case entity.RolLaboratorista:
		d.Laboratorista.Especialidad = in.Especialidad
	case entity.RolAdministrador:
		if in.NivelAcceso > 0 {
			d.Administrador.NivelAcceso = in.NivelAcceso
		}
	case entity.RolSuperAdmin:
		d.SuperAdmin.CodigoSeguridad = in.CodigoSeguridad
	}
	return d, nil
}

// Actualizar aplica un patch parcial sobre el usuario objetivo, con la puerta
// de modificación del actor. El cambio de rol exige además el rol superior,
// aunque la puerta general hubiera permitido la edición.
func (uc *UsuarioUseCase) Actualizar(id string, patch dto.ActualizarRequest, actorID string) (*dto.UsuarioResponse, error) {
	actor, err := uc.repo.ObtenerPorID(actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, domain.ErrAccesoDenegado
	}
	objetivo, err := uc.repo.ObtenerPorID(id)
	if err != nil {
		return nil, err
	}
	if objetivo == nil {
		return nil, domain.ErrUsuarioNoEncontrado
	}
	if !authz.PuedeModificar(actor, objetivo) {
		return nil, domain.ErrAccesoDenegado
	}

	if patch.Tipo != nil {
		if !authz.PuedeCambiarRol(actor.Rol) {
			return nil, domain.ErrAccesoDenegado
		}
		if !entity.RolValido(*patch.Tipo) {
			return nil, domain.ErrEntradaInvalida
		}
		rol, err := roles.Resolver(*patch.Tipo)
		if err != nil {
			return nil, err
		}
		if objetivo.Rol != rol.Nombre {
			objetivo.Rol = rol.Nombre
			objetivo.RolResuelto = rol
			// La variante de detalles acompaña al rol.
			objetivo.Detalles = entity.DetallesPara(rol.Nombre)
		}
	}
	if patch.Email != nil {
		email := entity.NormalizarEmail(*patch.Email)
		if email == "" {
			return nil, domain.ErrEntradaInvalida
		}
		if email != objetivo.Email {
			otro, err := uc.repo.ObtenerPorEmail(email)
			if err != nil {
				return nil, err
			}
			if otro != nil {
				return nil, domain.ErrEmailRegistrado
			}
			objetivo.Email = email
		}
	}
	if patch.Password != nil {
		if err := password.ValidarFortaleza(*patch.Password); err != nil {
			return nil, err
		}
		hash, err := password.Hash(*patch.Password)
		if err != nil {
			return nil, err
		}
		objetivo.PasswordHash = hash
	}
	if patch.Nombre != nil {
		if *patch.Nombre == "" {
			return nil, domain.ErrEntradaInvalida
		}
		objetivo.Nombre = *patch.Nombre
	}
	if patch.Documento != nil {
		objetivo.Documento = *patch.Documento
	}
	if patch.Telefono != nil {
		objetivo.Telefono = *patch.Telefono
	}
	if patch.Direccion != nil {
		objetivo.Direccion = *patch.Direccion
	}

	objetivo.FechaActualizacion = time.Now()
	if err := uc.repo.Actualizar(objetivo); err != nil {
		return nil, err
	}
	return aUsuarioResponse(objetivo), nil
}

// CambiarEstado activa o desactiva lógicamente al usuario (nunca se elimina
// físicamente por los flujos normales). Si el actor es super_admin, la acción
// queda anotada en su registro de acciones.
func (uc *UsuarioUseCase) CambiarEstado(id string, activo bool, actorID string) error {
	actor, err := uc.repo.ObtenerPorID(actorID)
	if err != nil {
		return err
	}
	if actor == nil {
		return domain.ErrAccesoDenegado
	}
	objetivo, err := uc.repo.ObtenerPorID(id)
	if err != nil {
		return err
	}
	if objetivo == nil {
		return domain.ErrUsuarioNoEncontrado
	}
	if !authz.PuedeModificar(actor, objetivo) {
		return domain.ErrAccesoDenegado
	}

	objetivo.Activo = activo
	objetivo.FechaActualizacion = time.Now()
	if err := uc.repo.Actualizar(objetivo); err != nil {
		return err
	}

	if actor.Rol == entity.RolSuperAdmin && actor.ID != objetivo.ID && actor.Detalles.SuperAdmin != nil {
		accion := "desactivar_usuario"
		if activo {
			accion = "activar_usuario"
		}
		actor.Detalles.SuperAdmin.RegistroAcciones = append(actor.Detalles.SuperAdmin.RegistroAcciones, entity.AccionAuditada{
			Accion:   accion,
			Fecha:    time.Now(),
			Detalles: objetivo.Email,
		})
		actor.FechaActualizacion = time.Now()
		// Bitácora de mejor esfuerzo: un fallo aquí no revierte el cambio de estado.
		_ = uc.repo.Actualizar(actor)
	}
	return nil
}

// ObtenerPorID devuelve un usuario por ID (sin credencial) o nil si no existe.
func (uc *UsuarioUseCase) ObtenerPorID(id string) (*dto.UsuarioResponse, error) {
	u, err := uc.repo.ObtenerPorID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return aUsuarioResponse(u), nil
}

// ListarActivos lista usuarios activos con proyección de mínimo privilegio.
func (uc *UsuarioUseCase) ListarActivos(page dto.PageRequest) ([]*dto.UsuarioResponse, error) {
	page.DefaultPage()
	usuarios, err := uc.repo.ListarActivos(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UsuarioResponse, 0, len(usuarios))
	for _, u := range usuarios {
		out = append(out, aUsuarioResponse(u))
	}
	return out, nil
}

func aUsuarioResponse(u *entity.Usuario) *dto.UsuarioResponse {
	if u == nil {
		return nil
	}
	return &dto.UsuarioResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Nombre:             u.Nombre,
		Documento:          u.Documento,
		Telefono:           u.Telefono,
		Direccion:          u.Direccion,
		Rol:                u.Rol,
		Activo:             u.Activo,
		FechaCreacion:      u.FechaCreacion,
		FechaActualizacion: u.FechaActualizacion,
	}
}
