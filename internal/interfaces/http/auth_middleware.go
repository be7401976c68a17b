package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/labsalud/laboratorio-api/internal/application/dto"
	"github.com/labsalud/laboratorio-api/internal/domain/entity"
	"github.com/labsalud/laboratorio-api/pkg/jwt"
)

// Locals keys para la identidad de la aserción de sesión en Fiber.
const (
	LocalUserID   = "user_id"
	LocalEmail    = "email"
	LocalNombre   = "nombre"
	LocalRol      = "rol"
	LocalPermisos = "permisos"
)

// AuthMiddleware valida el Bearer Token JWT y carga la identidad a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parsear(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		cargarClaims(c, claims)
		return c.Next()
	}
}

// OptionalAuthMiddleware carga la identidad si hay Bearer Token válido y deja
// pasar sin identidad cuando no lo hay. Se usa en /registro: el arranque del
// sistema (cero usuarios) admite la primera alta sin sesión; el caso de uso
// decide con la puerta de creación.
func OptionalAuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		claims, err := jwt.Parsear(jwtSecret, strings.TrimSpace(parts[1]))
		if err != nil {
			// Token presente pero inválido: rechazar, no degradar a anónimo.
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		cargarClaims(c, claims)
		return c.Next()
	}
}

// RequirePermiso autoriza la petición si el actor posee alguno de los permisos
// dados según la instantánea del token. Reglas adicionales:
//   - super_admin pasa siempre (superusuario, no mera pertenencia).
//   - perfil_propio solo aplica cuando el :id de la ruta es el propio actor.
//
// La denegación nunca explica el motivo más allá de "acceso denegado".
func RequirePermiso(permisos ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetRol(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "se requiere sesión"})
		}
		if GetRol(c) == entity.RolSuperAdmin {
			return c.Next()
		}
		propios := GetPermisos(c)
		for _, requerido := range permisos {
			if requerido == "perfil_propio" {
				id := c.Params("id")
				if id != "" && id == GetUserID(c) && contiene(propios, "perfil_propio") {
					return c.Next()
				}
				continue
			}
			if contiene(propios, requerido) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	}
}

func cargarClaims(c *fiber.Ctx, claims *jwt.Claims) {
	c.Locals(LocalUserID, claims.UserID)
	c.Locals(LocalEmail, claims.Email)
	c.Locals(LocalNombre, claims.Nombre)
	c.Locals(LocalRol, claims.Rol)
	c.Locals(LocalPermisos, claims.Permisos)
}

func contiene(lista []string, valor string) bool {
	for _, v := range lista {
		if v == valor {
			return true
		}
	}
	return false
}

// GetUserID devuelve el ID del actor (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRol devuelve el rol del actor según la aserción de sesión.
func GetRol(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRol).(string)
	return s
}

// GetPermisos devuelve la instantánea de permisos de la aserción de sesión.
func GetPermisos(c *fiber.Ctx) []string {
	p, _ := c.Locals(LocalPermisos).([]string)
	return p
}
