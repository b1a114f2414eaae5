package repository

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/avergara/comicstore/api"
	"github.com/avergara/comicstore/domain"
)

// AdminRepository: administración remota de usuarios. Cada llamada lleva
// el rol del operador en el encabezado X-ROL.
type AdminRepository struct {
	api *api.Client
}

func NewAdminRepository(c *api.Client) *AdminRepository {
	return &AdminRepository{api: c}
}

func (r *AdminRepository) ListarUsuarios(ctx context.Context, rol string) ([]domain.Usuario, error) {
	return r.api.ListarUsuarios(ctx, rol)
}

func (r *AdminRepository) ActualizarRol(ctx context.Context, rol string, id int64, nuevoRol string) (*domain.Usuario, error) {
	u, err := r.api.ActualizarRol(ctx, rol, id, nuevoRol)
	if err != nil {
		log.Error().Err(err).Int64("usuario", id).Str("nuevo_rol", nuevoRol).Msg("actualizar rol")
		return nil, err
	}
	return u, nil
}

func (r *AdminRepository) EliminarUsuario(ctx context.Context, rol string, id int64) error {
	return r.api.EliminarUsuario(ctx, rol, id)
}
