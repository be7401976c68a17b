package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/labsalud/laboratorio-api/internal/application/dto"
	"github.com/labsalud/laboratorio-api/internal/application/usecase"
	"github.com/labsalud/laboratorio-api/internal/domain"
)

// UsuarioHandler maneja el alta jerárquica y la administración de usuarios.
type UsuarioHandler struct {
	uc *usecase.UsuarioUseCase
}

// NewUsuarioHandler construye el handler de usuarios.
func NewUsuarioHandler(uc *usecase.UsuarioUseCase) *UsuarioHandler {
	return &UsuarioHandler{uc: uc}
}

// Registrar godoc
// @Summary      Registrar usuario (alta jerárquica; arranque sin sesión)
// @Tags         usuarios
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegistroRequest  true  "datos del usuario"
// @Success      201   {object}  dto.UsuarioResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/usuarios/registro [post]
func (h *UsuarioHandler) Registrar(c *fiber.Ctx) error {
	var in dto.RegistroRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	user, err := h.uc.Registrar(GetRol(c), in)
	if err != nil {
		return errorUsuario(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Listar godoc
// @Summary      Listar usuarios activos
// @Tags         usuarios
// @Produce      json
// @Param        limit   query  int  false  "máximo por página"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.UsuarioResponse
// @Security     BearerAuth
// @Router       /api/usuarios [get]
func (h *UsuarioHandler) Listar(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	usuarios, err := h.uc.ListarActivos(page)
	if err != nil {
		return errorUsuario(c, err)
	}
	return c.JSON(usuarios)
}

// ObtenerPorID godoc
// @Summary      Obtener usuario por ID
// @Tags         usuarios
// @Produce      json
// @Param        id  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UsuarioResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/usuarios/{id} [get]
func (h *UsuarioHandler) ObtenerPorID(c *fiber.Ctx) error {
	user, err := h.uc.ObtenerPorID(c.Params("id"))
	if err != nil {
		return errorUsuario(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
	}
	return c.JSON(user)
}

// Actualizar godoc
// @Summary      Actualizar usuario (patch parcial)
// @Tags         usuarios
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.ActualizarRequest  true  "campos a modificar"
// @Success      200  {object}  dto.UsuarioResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/usuarios/{id} [put]
func (h *UsuarioHandler) Actualizar(c *fiber.Ctx) error {
	var in dto.ActualizarRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	user, err := h.uc.Actualizar(c.Params("id"), in, GetUserID(c))
	if err != nil {
		return errorUsuario(c, err)
	}
	return c.JSON(user)
}

// CambiarEstado godoc
// @Summary      Activar o desactivar usuario
// @Tags         usuarios
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del usuario"
// @Param        body  body  dto.EstadoRequest  true  "activo"
// @Success      200  {object}  dto.MensajeResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/usuarios/{id}/estado [put]
func (h *UsuarioHandler) CambiarEstado(c *fiber.Ctx) error {
	var in dto.EstadoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.CambiarEstado(c.Params("id"), in.Activo, GetUserID(c)); err != nil {
		return errorUsuario(c, err)
	}
	mensaje := "Usuario desactivado exitosamente"
	if in.Activo {
		mensaje = "Usuario activado exitosamente"
	}
	return c.JSON(dto.MensajeResponse{Mensaje: mensaje})
}

// Eliminar godoc
// @Summary      Eliminar usuario (baja lógica)
// @Tags         usuarios
// @Produce      json
// @Param        id  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.MensajeResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/usuarios/{id} [delete]
func (h *UsuarioHandler) Eliminar(c *fiber.Ctx) error {
	// Los flujos normales nunca borran físicamente: la baja es el flag activo.
	if err := h.uc.CambiarEstado(c.Params("id"), false, GetUserID(c)); err != nil {
		return errorUsuario(c, err)
	}
	return c.JSON(dto.MensajeResponse{Mensaje: "Usuario desactivado exitosamente"})
}

// errorUsuario mapea errores de dominio a respuestas HTTP. Los fallos de
// dependencias se devuelven con mensaje mínimo; el detalle queda en el log.
func errorUsuario(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrEntradaInvalida):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entrada inválida"})
	case errors.Is(err, domain.ErrPasswordDebil):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "WEAK_PASSWORD", Message: "la contraseña no cumple la política de seguridad"})
	case errors.Is(err, domain.ErrEmailRegistrado):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrRolNoEncontrado):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rol desconocido"})
	case errors.Is(err, domain.ErrUsuarioNoEncontrado):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
	case errors.Is(err, domain.ErrAccesoDenegado):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error en el servidor"})
}
