package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labsalud/laboratorio-api/internal/application/auth"
	"github.com/labsalud/laboratorio-api/internal/application/dto"
	"github.com/labsalud/laboratorio-api/internal/domain"
	"github.com/labsalud/laboratorio-api/internal/domain/entity"
	"github.com/labsalud/laboratorio-api/internal/domain/roles"
	pkgjwt "github.com/labsalud/laboratorio-api/pkg/jwt"
	"github.com/labsalud/laboratorio-api/pkg/password"
)

// repoStub implementa solo la búsqueda por email; el resto no se usa en login.
type repoStub struct {
	porEmail map[string]*entity.Usuario
}

func (r *repoStub) ObtenerPorEmail(email string) (*entity.Usuario, error) {
	return r.porEmail[email], nil
}
func (r *repoStub) Crear(*entity.Usuario) error                       { return nil }
func (r *repoStub) ObtenerPorID(string) (*entity.Usuario, error)      { return nil, nil }
func (r *repoStub) ListarActivos(int, int) ([]*entity.Usuario, error) { return nil, nil }
func (r *repoStub) Contar() (int, error)                              { return len(r.porEmail), nil }
func (r *repoStub) Actualizar(*entity.Usuario) error                  { return nil }
func (r *repoStub) GuardarTokenRecuperacion(string, *entity.TokenRecuperacion) error {
	return nil
}
func (r *repoStub) RegistrarIntentoToken(string, int) (*entity.Usuario, error) {
	return nil, nil
}
func (r *repoStub) ConsumirTokenRecuperacion(string, int) (*entity.Usuario, error) {
	return nil, nil
}

const jwtSecret = "secret-de-pruebas"

func montarLogin(t *testing.T, activo bool) *auth.AuthUseCase {
	t.Helper()
	hash, err := password.Hash("Admin123!")
	require.NoError(t, err)
	rol, err := roles.Resolver(entity.RolAdministrador)
	require.NoError(t, err)
	repo := &repoStub{porEmail: map[string]*entity.Usuario{
		"ana@lab.com": {
			ID:           "u-1",
			Email:        "ana@lab.com",
			PasswordHash: hash,
			Nombre:       "Ana",
			Activo:       activo,
			Rol:          rol.Nombre,
			RolResuelto:  rol,
		},
	}}
	return auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: jwtSecret, ExpMinutes: 60, Issuer: "test"})
}

func TestLogin_Exitoso(t *testing.T) {
	uc := montarLogin(t, true)

	out, err := uc.Login(dto.LoginRequest{Email: "ana@lab.com", Password: "Admin123!"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", out.ID)
	assert.Equal(t, entity.RolAdministrador, out.Rol)
	assert.Equal(t, roles.PermisosDe(entity.RolAdministrador), out.Permisos)

	// La aserción firmada lleva la instantánea de permisos.
	claims, err := pkgjwt.Parsear(jwtSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, roles.PermisosDe(entity.RolAdministrador), claims.Permisos)
}

// El email se normaliza antes de buscar: mayúsculas y espacios no importan.
func TestLogin_EmailNormalizado(t *testing.T) {
	uc := montarLogin(t, true)

	out, err := uc.Login(dto.LoginRequest{Email: "  ANA@LAB.COM ", Password: "Admin123!"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", out.ID)
}

// Email inexistente y contraseña incorrecta devuelven el mismo error genérico:
// no se revela si la dirección está registrada.
func TestLogin_CredencialesInvalidasSinDistincion(t *testing.T) {
	uc := montarLogin(t, true)

	_, errEmail := uc.Login(dto.LoginRequest{Email: "nadie@lab.com", Password: "Admin123!"})
	_, errPass := uc.Login(dto.LoginRequest{Email: "ana@lab.com", Password: "incorrecta"})

	assert.ErrorIs(t, errEmail, domain.ErrCredencialesInvalidas)
	assert.ErrorIs(t, errPass, domain.ErrCredencialesInvalidas)
	assert.Equal(t, errEmail, errPass)
}

// Cuenta inactiva con credencial correcta: fallo distinto, antes de comparar el hash.
func TestLogin_UsuarioInactivo(t *testing.T) {
	uc := montarLogin(t, false)

	_, err := uc.Login(dto.LoginRequest{Email: "ana@lab.com", Password: "Admin123!"})
	assert.ErrorIs(t, err, domain.ErrUsuarioInactivo)
}
