package usecase

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/labsalud/laboratorio-api/internal/domain"
	"github.com/labsalud/laboratorio-api/internal/domain/entity"
	"github.com/labsalud/laboratorio-api/internal/domain/repository"
	"github.com/labsalud/laboratorio-api/pkg/password"
)

// NotificadorRecuperacion contrato del colaborador externo que entrega el
// correo de recuperación. Su fallo se reporta aparte de los fallos del núcleo.
type NotificadorRecuperacion interface {
	EnviarRecuperacion(email, token, nombre string) error
}

// ResultadoRecuperacion datos para que el llamador invoque al notificador.
type ResultadoRecuperacion struct {
	Email  string
	Token  string
	Nombre string
}

// PoliticaRecuperacion parámetros del token de recuperación.
type PoliticaRecuperacion struct {
	Vigencia    time.Duration // ventana fija desde la solicitud
	MaxIntentos int           // validaciones admitidas antes de invalidar
}

// RecuperacionUseCase flujo de recuperación de credenciales: emisión,
// validación y consumo de tokens de un solo uso con expiración.
// Estados por usuario: NONE → PENDING → {CONSUMED, EXPIRED}.
type RecuperacionUseCase struct {
	repo     repository.UsuarioRepository
	politica PoliticaRecuperacion
}

// NewRecuperacionUseCase construye el flujo de recuperación.
func NewRecuperacionUseCase(repo repository.UsuarioRepository, politica PoliticaRecuperacion) *RecuperacionUseCase {
	if politica.Vigencia <= 0 {
		politica.Vigencia = time.Hour
	}
	if politica.MaxIntentos <= 0 {
		politica.MaxIntentos = 3
	}
	return &RecuperacionUseCase{repo: repo, politica: politica}
}

// Solicitar genera un token opaco aleatorio para el email dado y lo persiste
// reemplazando cualquier token pendiente (a lo sumo uno vivo por usuario).
// Siempre devuelve un resultado estructuralmente válido, exista o no el email,
// para no revelar qué direcciones están registradas. NO envía el correo: el
// despacho es del llamador.
func (uc *RecuperacionUseCase) Solicitar(email string) (*ResultadoRecuperacion, error) {
	email = entity.NormalizarEmail(email)
	if email == "" {
		return nil, domain.ErrEntradaInvalida
	}
	u, err := uc.repo.ObtenerPorEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		// Respuesta simulada: misma forma que la real, sin token persistido.
		return &ResultadoRecuperacion{Email: email, Token: "token-simulado", Nombre: "Usuario no encontrado"}, nil
	}

	token, err := generarToken()
	if err != nil {
		return nil, err
	}
	t := &entity.TokenRecuperacion{
		Token:      token,
		Expiracion: time.Now().Add(uc.politica.Vigencia),
		Intentos:   0,
	}
	if err := uc.repo.GuardarTokenRecuperacion(u.ID, t); err != nil {
		return nil, err
	}
	return &ResultadoRecuperacion{Email: u.Email, Token: token, Nombre: u.Nombre}, nil
}

// Precomprobar verifica si el token es válido SIN consumirlo, gastando un
// intento: cada consulta descuenta del máximo, de modo que el contador acota
// los intentos de adivinación por fuerza bruta. Devuelve false ante token
// desconocido, expirado o con intentos agotados, sin distinguir el motivo.
func (uc *RecuperacionUseCase) Precomprobar(token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	u, err := uc.repo.RegistrarIntentoToken(token, uc.politica.MaxIntentos)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// Validar busca el token único no expirado y, si coincide, limpia el registro
// de forma atómica (un solo uso) y devuelve al dueño. Sin coincidencia o
// expirado devuelve nil: los llamadores deben tratarlo como "inválido o
// expirado" sin distinguir más.
func (uc *RecuperacionUseCase) Validar(token string) (*entity.Usuario, error) {
	if token == "" {
		return nil, nil
	}
	return uc.repo.ConsumirTokenRecuperacion(token, uc.politica.MaxIntentos)
}

// Restablecer valida la fortaleza de la nueva contraseña ANTES de tocar el
// token: un rechazo por contraseña débil no consume el token, que sigue
// utilizable hasta su expiración natural. Con contraseña aceptada, el consumo
// es atómico y la credencial se rehashea y persiste.
func (uc *RecuperacionUseCase) Restablecer(token, nuevaPassword string) error {
	if err := password.ValidarFortaleza(nuevaPassword); err != nil {
		return err
	}
	u, err := uc.Validar(token)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrTokenInvalido
	}
	hash, err := password.Hash(nuevaPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.TokenRecuperacion = nil
	u.FechaActualizacion = time.Now()
	if err := uc.repo.Actualizar(u); err != nil {
		return fmt.Errorf("persistir nueva credencial: %w", err)
	}
	return nil
}

// generarToken produce un secreto opaco de 20 bytes aleatorios en hex.
func generarToken() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generar token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
