package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labsalud/laboratorio-api/internal/application/dto"
	"github.com/labsalud/laboratorio-api/internal/application/usecase"
	"github.com/labsalud/laboratorio-api/internal/domain"
	"github.com/labsalud/laboratorio-api/internal/domain/entity"
)

func registroValido(tipo, email string) dto.RegistroRequest {
	in := dto.RegistroRequest{
		Email:     email,
		Password:  "Clave123!",
		Nombre:    "Usuario de Prueba",
		Tipo:      tipo,
		Documento: "123456789",
	}
	switch tipo {
	case entity.RolCliente:
		in.RazonSocial = "Laboratorios Andinos S.A."
	case entity.RolSuperAdmin:
		in.CodigoSeguridad = "codigo-seguridad"
	}
	return in
}

// sembrar registra un usuario saltando la jerarquía, para montar escenarios.
func sembrar(t *testing.T, uc *usecase.UsuarioUseCase, repo *repoMemoria, tipo, email string) *dto.UsuarioResponse {
	t.Helper()
	total, err := repo.Contar()
	require.NoError(t, err)
	if total == 0 {
		u, err := uc.Registrar("", registroValido(entity.RolSuperAdmin, "raiz@lab.com"))
		require.NoError(t, err)
		if tipo == entity.RolSuperAdmin && email == "raiz@lab.com" {
			return u
		}
	}
	actor := entity.RolSuperAdmin
	if tipo == entity.RolLaboratorista || tipo == entity.RolCliente {
		actor = entity.RolAdministrador
	}
	u, err := uc.Registrar(actor, registroValido(tipo, email))
	require.NoError(t, err)
	return u
}

// Invariante de arranque: con el sistema vacío solo se admite super_admin,
// y sin necesidad de actor.
func TestRegistrar_Arranque(t *testing.T) {
	repo := nuevoRepoMemoria()
	uc := usecase.NewUsuarioUseCase(repo)

	_, err := uc.Registrar("", registroValido(entity.RolAdministrador, "admin@lab.com"))
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)

	u, err := uc.Registrar("", registroValido(entity.RolSuperAdmin, "raiz@lab.com"))
	require.NoError(t, err)
	assert.Equal(t, entity.RolSuperAdmin, u.Rol)
	assert.True(t, u.Activo)

	total, err := repo.Contar()
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

// Con usuarios en el sistema, registrar sin sesión se deniega.
func TestRegistrar_SinActorDespuesDelArranque(t *testing.T) {
	repo := nuevoRepoMemoria()
	uc := usecase.NewUsuarioUseCase(repo)
	sembrar(t, uc, repo, entity.RolSuperAdmin, "raiz@lab.com")

	_, err := uc.Registrar("", registroValido(entity.RolLaboratorista, "lab@lab.com"))
	assert.ErrorIs(t, err, domain.ErrAccesoDenegado)
}

func TestRegistrar_PuertaDeCreacion(t *testing.T) {
	casos := []struct {
		nombre string
		actor  string
		tipo   string
		ok     bool
	}{
		{"super_admin crea administrador", entity.RolSuperAdmin, entity.RolAdministrador, true},
		{"super_admin no crea laboratorista", entity.RolSuperAdmin, entity.RolLaboratorista, false},
		{"super_admin no crea super_admin", entity.RolSuperAdmin, entity.RolSuperAdmin, false},
		{"administrador crea laboratorista", entity.RolAdministrador, entity.RolLaboratorista, true},
		{"administrador crea cliente", entity.RolAdministrador, entity.RolCliente, true},
		{"administrador no crea administrador", entity.RolAdministrador, entity.RolAdministrador, false},
		{"laboratorista no crea nadie", entity.RolLaboratorista, entity.RolCliente, false},
		{"cliente no crea nadie", entity.RolCliente, entity.RolCliente, false},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			repo := nuevoRepoMemoria()
			uc := usecase.NewUsuarioUseCase(repo)
			sembrar(t, uc, repo, entity.RolSuperAdmin, "raiz@lab.com")

			_, err := uc.Registrar(c.actor, registroValido(c.tipo, "nuevo@lab.com"))
			if c.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrAccesoDenegado)
			}
		})
	}
}

func TestRegistrar_RolDesconocido(t *testing.T) {
	repo := nuevoRepoMemoria()
	uc := usecase.NewUsuarioUseCase(repo)

	in := registroValido(entity.RolSuperAdmin, "raiz@lab.com")
	in.Tipo = "gerente"
	_, err := uc.Registrar("", in)
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

// El email es único sin importar mayúsculas.
func TestRegistrar_EmailDuplicado(t *testing.T) {
	repo := nuevoRepoMemoria()
	uc := usecase.NewUsuarioUseCase(repo)
	sembrar(t, uc, repo, entity.RolSuperAdmin, "raiz@lab.com")

	_, err := uc.Registrar(entity.RolSuperAdmin, registroValido(entity.RolAdministrador, "RAIZ@LAB.COM"))
	assert.ErrorIs(t, err, domain.ErrEmailRegistrado)
}

func TestRegistrar_PasswordDebil(t *testing.T) {
	repo := nuevoRepoMemoria()
	uc := usecase.NewUsuarioUseCase(repo)

	in := registroValido(entity.RolSuperAdmin, "raiz@lab.com")
	in.Password = "debil"
	_, err := uc.Registrar("", in)
	assert.ErrorIs(t, err, domain.ErrPasswordDebil)

	// Fallo sin escritura parcial.
	total, err := repo.Contar()
	require.NoError(t, err)
	assert.Zero(t, total)
}

// El cliente exige razón social en su variante de detalles.
func TestRegistrar_ClienteSinRazonSocial(t *testing.T) {
	repo := nuevoRepoMemoria()
	uc := usecase.NewUsuarioUseCase(repo)
	sembrar(t, uc, repo, entity.RolSuperAdmin, "raiz@lab.com")

	in := registroValido(entity.RolCliente, "cliente@lab.com")
	in.RazonSocial = ""
	_, err := uc.Registrar(entity.RolAdministrador, in)
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

func TestRegistrar_DetallesPorRol(t *testing.T) {
	repo := nuevoRepoMemoria()
	uc := usecase.NewUsuarioUseCase(repo)
	sembrar(t, uc, repo, entity.RolSuperAdmin, "raiz@lab.com")

	in := registroValido(entity.RolLaboratorista, "lab@lab.com")
	in.Especialidad = "microbiología"
	resp, err := uc.Registrar(entity.RolAdministrador, in)
	require.NoError(t, err)

	guardado, err := repo.ObtenerPorID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, guardado.Detalles.Laboratorista)
	assert.Equal(t, "microbiología", guardado.Detalles.Laboratorista.Especialidad)
	assert.Nil(t, guardado.Detalles.Cliente)
	assert.True(t, guardado.Detalles.Valida(entity.RolLaboratorista))
}

// Autoservicio: la puerta de modificación nunca bloquea la edición propia.
func TestActualizar_Autoservicio(t *testing.T) {
	repo := nuevoRepoMemoria()
	uc := usecase.NewUsuarioUseCase(repo)
	sembrar(t, uc, repo, entity.RolSuperAdmin, "raiz@lab.com")
	admin := sembrar(t, uc, repo, entity.RolAdministrador, "admin@lab.com")
	cliente := sembrar(t, uc, repo, entity.RolCliente, "cliente@lab.com")

	nombre := "Nombre Actualizado"
	resp, err := uc.Actualizar(cliente.ID, dto.ActualizarRequest{Nombre: &nombre}, cliente.ID)
	require.NoError(t, err)
	assert.Equal(t, nombre, resp.Nombre)
	assert.False(t, resp.FechaActualizacion.IsZero())

	// Pero cambiar el propio rol sigue vedado para quien no es super_admin.
	tipo := entity.RolSuperAdmin
	_, err = uc.Actualizar(admin.ID, dto.ActualizarRequest{Tipo: &tipo}, admin.ID)
	assert.ErrorIs(t, err, domain.ErrAccesoDenegado)
}

func TestActualizar_PuertaDeModificacion(t *testing.T) {
	repo := nuevoRepoMemoria()
	uc := usecase.NewUsuarioUseCase(repo)
	raiz := sembrar(t, uc, repo, entity.RolSuperAdmin, "raiz@lab.com")
	admin := sembrar(t, uc, repo, entity.RolAdministrador, "admin@lab.com")
	lab := sembrar(t, uc, repo, entity.RolLaboratorista, "lab@lab.com")
	cliente := sembrar(t, uc, repo, entity.RolCliente, "cliente@lab.com")

	telefono := "3001234567"

	// administrador puede modificar laboratoristas y clientes.
	_, err := uc.Actualizar(lab.ID, dto.ActualizarRequest{Telefono: &telefono}, admin.ID)
	assert.NoError(t, err)
	_, err = uc.Actualizar(cliente.ID, dto.ActualizarRequest{Telefono: &telefono}, admin.ID)
	assert.NoError(t, err)

	// administrador no puede modificar al super_admin.
	_, err = uc.Actualizar(raiz.ID, dto.ActualizarRequest{Telefono: &telefono}, admin.ID)
	assert.ErrorIs(t, err, domain.ErrAccesoDenegado)

	// laboratorista y cliente no modifican a terceros.
	_, err = uc.Actualizar(cliente.ID, dto.ActualizarRequest{Telefono: &telefono}, lab.ID)
	assert.ErrorIs(t, err, domain.ErrAccesoDenegado)
	_, err = uc.Actualizar(lab.ID, dto.ActualizarRequest{Telefono: &telefono}, cliente.ID)
	assert.ErrorIs(t, err, domain.ErrAccesoDenegado)

	// super_admin puede modificar a cualquiera.
	_, err = uc.Actualizar(cliente.ID, dto.ActualizarRequest{Telefono: &telefono}, raiz.ID)
	assert.NoError(t, err)
}

func TestActualizar_CambioDeRolSoloSuperAdmin(t *testing.T) {
	repo := nuevoRepoMemoria()
	uc := usecase.NewUsuarioUseCase(repo)
	raiz := sembrar(t, uc, repo, entity.RolSuperAdmin, "raiz@lab.com")
	admin := sembrar(t, uc, repo, entity.RolAdministrador, "admin@lab.com")
	lab := sembrar(t, uc, repo, entity.RolLaboratorista, "lab@lab.com")

	tipo := entity.RolCliente
	_, err := uc.Actualizar(lab.ID, dto.ActualizarRequest{Tipo: &tipo}, admin.ID)
	assert.ErrorIs(t, err, domain.ErrAccesoDenegado)

	resp, err := uc.Actualizar(lab.ID, dto.ActualizarRequest{Tipo: &tipo}, raiz.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RolCliente, resp.Rol)

	// La variante de detalles acompaña al rol nuevo.
	guardado, err := repo.ObtenerPorID(lab.ID)
	require.NoError(t, err)
	assert.Nil(t, guardado.Detalles.Laboratorista)
	assert.NotNil(t, guardado.Detalles.Cliente)
}

func TestActualizar_NoExiste(t *testing.T) {
	repo := nuevoRepoMemoria()
	uc := usecase.NewUsuarioUseCase(repo)
	raiz := sembrar(t, uc, repo, entity.RolSuperAdmin, "raiz@lab.com")

	nombre := "X"
	_, err := uc.Actualizar("no-existe", dto.ActualizarRequest{Nombre: &nombre}, raiz.ID)
	assert.ErrorIs(t, err, domain.ErrUsuarioNoEncontrado)
}

func TestCambiarEstado(t *testing.T) {
	repo := nuevoRepoMemoria()
	uc := usecase.NewUsuarioUseCase(repo)
	raiz := sembrar(t, uc, repo, entity.RolSuperAdmin, "raiz@lab.com")
	admin := sembrar(t, uc, repo, entity.RolAdministrador, "admin@lab.com")

	require.NoError(t, uc.CambiarEstado(admin.ID, false, raiz.ID))

	guardado, err := repo.ObtenerPorID(admin.ID)
	require.NoError(t, err)
	assert.False(t, guardado.Activo)

	// Baja lógica: el registro sigue existiendo y se puede reactivar.
	require.NoError(t, uc.CambiarEstado(admin.ID, true, raiz.ID))
	guardado, err = repo.ObtenerPorID(admin.ID)
	require.NoError(t, err)
	assert.True(t, guardado.Activo)

	// La acción del super_admin queda anotada en su registro.
	actor, err := repo.ObtenerPorID(raiz.ID)
	require.NoError(t, err)
	require.NotNil(t, actor.Detalles.SuperAdmin)
	require.Len(t, actor.Detalles.SuperAdmin.RegistroAcciones, 2)
	assert.Equal(t, "desactivar_usuario", actor.Detalles.SuperAdmin.RegistroAcciones[0].Accion)
	assert.Equal(t, "activar_usuario", actor.Detalles.SuperAdmin.RegistroAcciones[1].Accion)
}

func TestListarActivos_ProyeccionMinima(t *testing.T) {
	repo := nuevoRepoMemoria()
	uc := usecase.NewUsuarioUseCase(repo)
	raiz := sembrar(t, uc, repo, entity.RolSuperAdmin, "raiz@lab.com")
	admin := sembrar(t, uc, repo, entity.RolAdministrador, "admin@lab.com")
	require.NoError(t, uc.CambiarEstado(admin.ID, false, raiz.ID))

	lista, err := uc.ListarActivos(dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, raiz.ID, lista[0].ID)
}
