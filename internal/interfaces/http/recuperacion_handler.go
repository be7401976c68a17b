package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/labsalud/laboratorio-api/internal/application/dto"
	"github.com/labsalud/laboratorio-api/internal/application/usecase"
	"github.com/labsalud/laboratorio-api/internal/domain"
	"github.com/labsalud/laboratorio-api/pkg/logger"
)

// RecuperacionHandler maneja el flujo de recuperación de credenciales.
// El caso de uso emite el token; el despacho del correo es de este handler,
// y su fallo se reporta distinto de los fallos del núcleo.
type RecuperacionHandler struct {
	uc          *usecase.RecuperacionUseCase
	notificador usecase.NotificadorRecuperacion
	log         *logger.Logger
}

// NewRecuperacionHandler construye el handler de recuperación.
func NewRecuperacionHandler(uc *usecase.RecuperacionUseCase, notificador usecase.NotificadorRecuperacion, log *logger.Logger) *RecuperacionHandler {
	return &RecuperacionHandler{uc: uc, notificador: notificador, log: log}
}

// Solicitar godoc
// @Summary      Solicitar recuperación de contraseña
// @Tags         recuperacion
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecuperacionRequest  true  "email"
// @Success      200  {object}  dto.MensajeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/usuarios/solicitar-recuperacion [post]
func (h *RecuperacionHandler) Solicitar(c *fiber.Ctx) error {
	var in dto.RecuperacionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere un correo electrónico"})
	}

	resultado, err := h.uc.Solicitar(in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrEntradaInvalida) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere un correo electrónico válido"})
		}
		h.log.Error().Err(err).Msg("solicitar recuperación")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error en el servidor"})
	}

	if err := h.notificador.EnviarRecuperacion(resultado.Email, resultado.Token, resultado.Nombre); err != nil {
		h.log.Error().Err(err).Str("email", resultado.Email).Msg("enviar email de recuperación")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "EMAIL_FAILED", Message: "no se pudo enviar el correo de recuperación, intente más tarde"})
	}

	// Respuesta idéntica exista o no la cuenta: no revelar direcciones registradas.
	return c.JSON(dto.MensajeResponse{
		Mensaje:  "Si el correo existe en nuestra base de datos, recibirás instrucciones para restablecer tu contraseña",
		Detalles: "El enlace de recuperación es válido por 1 hora y tiene un máximo de 3 intentos",
	})
}

// ValidarToken godoc
// @Summary      Precomprobar un token de recuperación (gasta un intento)
// @Tags         recuperacion
// @Produce      json
// @Param        token  path  string  true  "token de recuperación"
// @Success      200  {object}  dto.MensajeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/usuarios/validar-token/{token} [get]
func (h *RecuperacionHandler) ValidarToken(c *fiber.Ctx) error {
	valido, err := h.uc.Precomprobar(c.Params("token"))
	if err != nil {
		h.log.Error().Err(err).Msg("precomprobar token de recuperación")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error en el servidor"})
	}
	if !valido {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
	}
	return c.JSON(dto.MensajeResponse{Mensaje: "Token válido"})
}

// Restablecer godoc
// @Summary      Restablecer contraseña con token de un solo uso
// @Tags         recuperacion
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RestablecerRequest  true  "token y nueva contraseña"
// @Success      200  {object}  dto.MensajeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/usuarios/restablecer-password [post]
func (h *RecuperacionHandler) Restablecer(c *fiber.Ctx) error {
	var in dto.RestablecerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Restablecer(in.Token, in.Password); err != nil {
		switch {
		case errors.Is(err, domain.ErrPasswordDebil):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "WEAK_PASSWORD", Message: "la contraseña no cumple la política de seguridad"})
		case errors.Is(err, domain.ErrTokenInvalido):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		h.log.Error().Err(err).Msg("restablecer contraseña")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error en el servidor"})
	}
	return c.JSON(dto.MensajeResponse{Mensaje: "Contraseña restablecida exitosamente"})
}
