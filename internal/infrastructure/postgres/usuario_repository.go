package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labsalud/laboratorio-api/internal/domain"
	"github.com/labsalud/laboratorio-api/internal/domain/entity"
	"github.com/labsalud/laboratorio-api/internal/domain/repository"
	"github.com/labsalud/laboratorio-api/internal/domain/roles"
)

var _ repository.UsuarioRepository = (*UsuarioRepo)(nil)

// columnas de lectura completa (sin proyección).
const columnasUsuario = `id, email, password_hash, nombre, documento, telefono, direccion,
	activo, rol, detalles, token_recuperacion, token_expiracion, token_intentos,
	fecha_creacion, fecha_actualizacion`

// UsuarioRepo implementación del puerto UsuarioRepository sobre PostgreSQL.
// La unicidad de email y la atomicidad del consumo de token viven en el
// almacén (índice único y UPDATE condicional), no en el proceso.
type UsuarioRepo struct {
	pool *pgxpool.Pool
}

// NewUsuarioRepository construye el adaptador de persistencia para usuarios.
func NewUsuarioRepository(pool *pgxpool.Pool) *UsuarioRepo {
	return &UsuarioRepo{pool: pool}
}

// Crear persiste un nuevo usuario. Email duplicado (índice único sobre
// lower(email)) se mapea a domain.ErrEmailRegistrado.
func (r *UsuarioRepo) Crear(u *entity.Usuario) error {
	detalles, err := json.Marshal(u.Detalles)
	if err != nil {
		return fmt.Errorf("serializar detalles: %w", err)
	}
	query := `
		INSERT INTO usuarios (id, email, password_hash, nombre, documento, telefono, direccion,
			activo, rol, detalles, fecha_creacion, fecha_actualizacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.pool.Exec(context.Background(), query,
		u.ID, u.Email, u.PasswordHash, u.Nombre, u.Documento, u.Telefono, u.Direccion,
		u.Activo, u.Rol, detalles, u.FechaCreacion, u.FechaActualizacion,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailRegistrado
		}
		return fmt.Errorf("insertar usuario: %w", err)
	}
	return nil
}

// ObtenerPorID obtiene un usuario por ID con el rol resuelto.
func (r *UsuarioRepo) ObtenerPorID(id string) (*entity.Usuario, error) {
	query := `SELECT ` + columnasUsuario + ` FROM usuarios WHERE id = $1`
	return r.escanearUno(r.pool.QueryRow(context.Background(), query, id), "obtener usuario por id")
}

// ObtenerPorEmail obtiene un usuario por email normalizado con el rol resuelto.
func (r *UsuarioRepo) ObtenerPorEmail(email string) (*entity.Usuario, error) {
	query := `SELECT ` + columnasUsuario + ` FROM usuarios WHERE lower(email) = lower($1) LIMIT 1`
	return r.escanearUno(r.pool.QueryRow(context.Background(), query, email), "obtener usuario por email")
}

// ListarActivos lista usuarios activos sin credencial ni detalles
// (proyección de mínimo privilegio por defecto).
func (r *UsuarioRepo) ListarActivos(limit, offset int) ([]*entity.Usuario, error) {
	query := `
		SELECT id, email, nombre, documento, telefono, direccion, rol, activo, fecha_creacion, fecha_actualizacion
		FROM usuarios WHERE activo ORDER BY fecha_creacion DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	defer rows.Close()
	var list []*entity.Usuario
	for rows.Next() {
		var u entity.Usuario
		if err := rows.Scan(&u.ID, &u.Email, &u.Nombre, &u.Documento, &u.Telefono, &u.Direccion,
			&u.Rol, &u.Activo, &u.FechaCreacion, &u.FechaActualizacion); err != nil {
			return nil, fmt.Errorf("escanear usuario: %w", err)
		}
		resolverRol(&u)
		list = append(list, &u)
	}
	return list, rows.Err()
}

// Contar cuenta los usuarios activos (detección del arranque).
func (r *UsuarioRepo) Contar() (int, error) {
	var n int
	err := r.pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM usuarios WHERE activo`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("contar usuarios: %w", err)
	}
	return n, nil
}

// Actualizar persiste los campos mutables del usuario. Las columnas del token
// de recuperación tienen operaciones dedicadas y no se tocan aquí.
func (r *UsuarioRepo) Actualizar(u *entity.Usuario) error {
	detalles, err := json.Marshal(u.Detalles)
	if err != nil {
		return fmt.Errorf("serializar detalles: %w", err)
	}
	query := `
		UPDATE usuarios SET email = $2, password_hash = $3, nombre = $4, documento = $5,
			telefono = $6, direccion = $7, activo = $8, rol = $9, detalles = $10,
			fecha_actualizacion = $11
		WHERE id = $1`
	tag, err := r.pool.Exec(context.Background(), query,
		u.ID, u.Email, u.PasswordHash, u.Nombre, u.Documento, u.Telefono, u.Direccion,
		u.Activo, u.Rol, detalles, u.FechaActualizacion,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailRegistrado
		}
		return fmt.Errorf("actualizar usuario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUsuarioNoEncontrado
	}
	return nil
}

// GuardarTokenRecuperacion reemplaza el token pendiente del usuario.
func (r *UsuarioRepo) GuardarTokenRecuperacion(idUsuario string, t *entity.TokenRecuperacion) error {
	query := `
		UPDATE usuarios SET token_recuperacion = $2, token_expiracion = $3, token_intentos = $4
		WHERE id = $1`
	tag, err := r.pool.Exec(context.Background(), query, idUsuario, t.Token, t.Expiracion, t.Intentos)
	if err != nil {
		return fmt.Errorf("guardar token de recuperación: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUsuarioNoEncontrado
	}
	return nil
}

// RegistrarIntentoToken gasta un intento de validación: UPDATE condicional
// sobre el token vigente. Sin fila afectada devuelve nil (token inválido,
// expirado o con intentos agotados; no se distingue).
func (r *UsuarioRepo) RegistrarIntentoToken(token string, maxIntentos int) (*entity.Usuario, error) {
	query := `
		UPDATE usuarios SET token_intentos = token_intentos + 1
		WHERE token_recuperacion = $1 AND token_expiracion > now() AND token_intentos < $2
		RETURNING ` + columnasUsuario
	return r.escanearUno(r.pool.QueryRow(context.Background(), query, token, maxIntentos), "registrar intento de token")
}

// ConsumirTokenRecuperacion limpia el token con un UPDATE condicional atómico:
// de dos consumos concurrentes del mismo token exactamente uno afecta la fila.
func (r *UsuarioRepo) ConsumirTokenRecuperacion(token string, maxIntentos int) (*entity.Usuario, error) {
	query := `
		UPDATE usuarios SET token_recuperacion = NULL, token_expiracion = NULL, token_intentos = 0
		WHERE token_recuperacion = $1 AND token_expiracion > now() AND token_intentos < $2
		RETURNING ` + columnasUsuario
	return r.escanearUno(r.pool.QueryRow(context.Background(), query, token, maxIntentos), "consumir token de recuperación")
}

// escanearUno escanea la fila completa de un usuario; pgx.ErrNoRows se mapea a (nil, nil).
func (r *UsuarioRepo) escanearUno(row pgx.Row, op string) (*entity.Usuario, error) {
	var (
		u          entity.Usuario
		detalles   []byte
		token      *string
		expiracion *time.Time
		intentos   int
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Nombre, &u.Documento, &u.Telefono, &u.Direccion,
		&u.Activo, &u.Rol, &detalles, &token, &expiracion, &intentos, &u.FechaCreacion, &u.FechaActualizacion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(detalles) > 0 {
		if err := json.Unmarshal(detalles, &u.Detalles); err != nil {
			return nil, fmt.Errorf("%s: deserializar detalles: %w", op, err)
		}
	}
	if token != nil && expiracion != nil {
		u.TokenRecuperacion = &entity.TokenRecuperacion{Token: *token, Expiracion: *expiracion, Intentos: intentos}
	}
	resolverRol(&u)
	return &u, nil
}

// resolverRol puebla RolResuelto desde el registro canónico. Rol desconocido
// deja el valor cero: conjunto de permisos vacío, sin error.
func resolverRol(u *entity.Usuario) {
	if rol, err := roles.Resolver(u.Rol); err == nil {
		u.RolResuelto = rol
	}
}
