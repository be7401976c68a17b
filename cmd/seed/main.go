// Comando seed: aplica el esquema de usuarios y normaliza datos heredados.
//
// Versiones anteriores de la plataforma guardaban una copia embebida del rol
// (nombre + permisos) en cada usuario, con tablas de permisos que derivaron
// entre sí. El modelo vigente referencia el rol por nombre y resuelve los
// permisos contra el registro canónico en tiempo de lectura, así que aquí solo
// queda normalizar emails, garantizar el flag activo y reportar la semilla
// canónica con la que quedará operando el sistema.
package main

import (
	"context"
	"os"

	"github.com/labsalud/laboratorio-api/internal/domain/roles"
	"github.com/labsalud/laboratorio-api/internal/infrastructure/postgres"
	"github.com/labsalud/laboratorio-api/pkg/config"
	"github.com/labsalud/laboratorio-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	esquema, err := os.ReadFile("migrations/001_usuarios.sql")
	if err != nil {
		log.Fatal().Err(err).Msg("leer esquema")
	}
	if _, err := pool.Exec(ctx, string(esquema)); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}
	log.Info().Msg("esquema aplicado")

	// Normalización de datos heredados.
	if tag, err := pool.Exec(ctx, `UPDATE usuarios SET email = lower(email) WHERE email <> lower(email)`); err != nil {
		log.Fatal().Err(err).Msg("normalizar emails")
	} else if tag.RowsAffected() > 0 {
		log.Info().Int64("filas", tag.RowsAffected()).Msg("emails normalizados")
	}
	if tag, err := pool.Exec(ctx, `UPDATE usuarios SET activo = TRUE WHERE activo IS NULL`); err != nil {
		log.Fatal().Err(err).Msg("backfill activo")
	} else if tag.RowsAffected() > 0 {
		log.Info().Int64("filas", tag.RowsAffected()).Msg("flag activo backfilled")
	}

	for _, rol := range roles.Todos() {
		log.Info().
			Str("rol", rol.Nombre).
			Strs("permisos", rol.Permisos).
			Msg("rol canónico")
	}
	log.Info().Msg("migración completada exitosamente")
}
