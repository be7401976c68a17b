package auth

import (
	"github.com/labsalud/laboratorio-api/internal/application/dto"
	"github.com/labsalud/laboratorio-api/internal/domain"
	"github.com/labsalud/laboratorio-api/internal/domain/entity"
	"github.com/labsalud/laboratorio-api/internal/domain/repository"
	"github.com/labsalud/laboratorio-api/pkg/jwt"
	"github.com/labsalud/laboratorio-api/pkg/password"
)

// JWTConfig configuración para emisión de la aserción de sesión.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase caso de uso de autenticación: login con aserción de sesión.
type AuthUseCase struct {
	usuarioRepo repository.UsuarioRepository
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(usuarioRepo repository.UsuarioRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{usuarioRepo: usuarioRepo, jwtCfg: jwtCfg}
}

// Login verifica credenciales y emite la aserción de sesión.
// El orden de verificación minimiza fuga de información: email ausente y
// contraseña incorrecta devuelven el mismo ErrCredencialesInvalidas (nunca se
// revela si el email existe); cuenta inactiva sí se distingue. La comparación
// del hash es en tiempo constante (bcrypt).
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.usuarioRepo.ObtenerPorEmail(entity.NormalizarEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrCredencialesInvalidas
	}
	if !user.Activo {
		return nil, domain.ErrUsuarioInactivo
	}
	if !password.Comparar(in.Password, user.PasswordHash) {
		return nil, domain.ErrCredencialesInvalidas
	}

	// Instantánea de permisos del rol resuelto al momento de emisión.
	permisos := user.RolResuelto.Permisos
	token, err := jwt.Generar(uc.jwtCfg.Secret, user.ID, user.Email, user.Nombre, user.Rol, permisos, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:    token,
		ID:       user.ID,
		Email:    user.Email,
		Nombre:   user.Nombre,
		Rol:      user.Rol,
		Permisos: permisos,
	}, nil
}
