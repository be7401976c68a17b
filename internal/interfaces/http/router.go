package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/labsalud/laboratorio-api/internal/application/auth"
	"github.com/labsalud/laboratorio-api/internal/application/usecase"
	"github.com/labsalud/laboratorio-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UsuarioUC      *usecase.UsuarioUseCase
	RecuperacionUC *usecase.RecuperacionUseCase
	Notificador    usecase.NotificadorRecuperacion
	Log            *logger.Logger
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	usuarios := api.Group("/usuarios")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	usuarios.Post("/login", authHandler.Login)

	// Recuperación de credenciales (público, anti-enumeración)
	recuperacionHandler := NewRecuperacionHandler(deps.RecuperacionUC, deps.Notificador, deps.Log)
	usuarios.Post("/solicitar-recuperacion", recuperacionHandler.Solicitar)
	usuarios.Get("/validar-token/:token", recuperacionHandler.ValidarToken)
	usuarios.Post("/restablecer-password", recuperacionHandler.Restablecer)

	usuarioHandler := NewUsuarioHandler(deps.UsuarioUC)

	// Registro con auth opcional: el arranque (sistema vacío) no tiene sesión;
	// después, la puerta de creación exige actor autenticado.
	usuarios.Post("/registro", OptionalAuthMiddleware(deps.JWTSecret), usuarioHandler.Registrar)

	// Rutas protegidas (requieren Bearer Token)
	usuarios.Get("/", AuthMiddleware(deps.JWTSecret), RequirePermiso("ver_usuarios"), usuarioHandler.Listar)
	usuarios.Get("/:id", AuthMiddleware(deps.JWTSecret), RequirePermiso("ver_usuarios", "perfil_propio"), usuarioHandler.ObtenerPorID)
	usuarios.Put("/:id", AuthMiddleware(deps.JWTSecret), RequirePermiso("editar_usuarios", "perfil_propio"), usuarioHandler.Actualizar)
	usuarios.Put("/:id/estado", AuthMiddleware(deps.JWTSecret), RequirePermiso("desactivar_usuarios"), usuarioHandler.CambiarEstado)
	usuarios.Delete("/:id", AuthMiddleware(deps.JWTSecret), RequirePermiso("eliminar_usuarios"), usuarioHandler.Eliminar)
}
