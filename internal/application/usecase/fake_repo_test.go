package usecase_test

import (
	"strings"
	"sync"
	"time"

	"github.com/labsalud/laboratorio-api/internal/domain"
	"github.com/labsalud/laboratorio-api/internal/domain/entity"
	"github.com/labsalud/laboratorio-api/internal/domain/repository"
	"github.com/labsalud/laboratorio-api/internal/domain/roles"
)

var _ repository.UsuarioRepository = (*repoMemoria)(nil)

// repoMemoria implementa el puerto de persistencia en memoria reproduciendo
// la semántica del almacén real: unicidad de email y actualizaciones
// condicionales atómicas sobre el token (mutex en lugar de UPDATE condicional).
type repoMemoria struct {
	mu       sync.Mutex
	usuarios map[string]*entity.Usuario
}

func nuevoRepoMemoria() *repoMemoria {
	return &repoMemoria{usuarios: make(map[string]*entity.Usuario)}
}

func (r *repoMemoria) Crear(u *entity.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existente := range r.usuarios {
		if strings.EqualFold(existente.Email, u.Email) {
			return domain.ErrEmailRegistrado
		}
	}
	copia := *u
	r.usuarios[u.ID] = &copia
	return nil
}

func (r *repoMemoria) ObtenerPorID(id string) (*entity.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.usuarios[id]
	if !ok {
		return nil, nil
	}
	return r.copiaResuelta(u), nil
}

func (r *repoMemoria) ObtenerPorEmail(email string) (*entity.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.usuarios {
		if strings.EqualFold(u.Email, email) {
			return r.copiaResuelta(u), nil
		}
	}
	return nil, nil
}

func (r *repoMemoria) ListarActivos(limit, offset int) ([]*entity.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Usuario
	for _, u := range r.usuarios {
		if !u.Activo {
			continue
		}
		copia := r.copiaResuelta(u)
		// Proyección de mínimo privilegio, como el adaptador real.
		copia.PasswordHash = ""
		copia.Detalles = entity.Detalles{}
		copia.TokenRecuperacion = nil
		out = append(out, copia)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *repoMemoria) Contar() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.usuarios {
		if u.Activo {
			n++
		}
	}
	return n, nil
}

func (r *repoMemoria) Actualizar(u *entity.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	actual, ok := r.usuarios[u.ID]
	if !ok {
		return domain.ErrUsuarioNoEncontrado
	}
	copia := *u
	// Las columnas del token tienen operaciones dedicadas, como en el adaptador real.
	copia.TokenRecuperacion = actual.TokenRecuperacion
	r.usuarios[u.ID] = &copia
	return nil
}

func (r *repoMemoria) GuardarTokenRecuperacion(idUsuario string, t *entity.TokenRecuperacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.usuarios[idUsuario]
	if !ok {
		return domain.ErrUsuarioNoEncontrado
	}
	copia := *t
	u.TokenRecuperacion = &copia
	return nil
}

func (r *repoMemoria) RegistrarIntentoToken(token string, maxIntentos int) (*entity.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.usuarios {
		t := u.TokenRecuperacion
		if t != nil && t.Token == token && t.Expiracion.After(time.Now()) && t.Intentos < maxIntentos {
			t.Intentos++
			return r.copiaResuelta(u), nil
		}
	}
	return nil, nil
}

func (r *repoMemoria) ConsumirTokenRecuperacion(token string, maxIntentos int) (*entity.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.usuarios {
		t := u.TokenRecuperacion
		if t != nil && t.Token == token && t.Expiracion.After(time.Now()) && t.Intentos < maxIntentos {
			u.TokenRecuperacion = nil
			return r.copiaResuelta(u), nil
		}
	}
	return nil, nil
}

// copiaResuelta devuelve una copia con el rol resuelto, como la frontera real
// de acceso a datos. Llamar con el lock tomado.
func (r *repoMemoria) copiaResuelta(u *entity.Usuario) *entity.Usuario {
	copia := *u
	if rol, err := roles.Resolver(u.Rol); err == nil {
		copia.RolResuelto = rol
	}
	if u.TokenRecuperacion != nil {
		t := *u.TokenRecuperacion
		copia.TokenRecuperacion = &t
	}
	return &copia
}
