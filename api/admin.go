package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/avergara/comicstore/domain"
)

// RolHeader es el encabezado que el backend exige en las acciones de
// administración de usuarios.
const RolHeader = "X-ROL"

func rolHeaders(rol string) map[string]string {
	return map[string]string{RolHeader: rol}
}

func (c *Client) ListarUsuarios(ctx context.Context, rol string) ([]domain.Usuario, error) {
	var out []domain.Usuario
	if err := c.doJSON(ctx, http.MethodGet, c.usuariosURL+"/usuarios", rolHeaders(rol), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ActualizarRol(ctx context.Context, rol string, id int64, nuevoRol string) (*domain.Usuario, error) {
	if !domain.RolValido(nuevoRol) {
		return nil, domain.NewError(domain.KindValidation, "rol desconocido: "+nuevoRol, nil)
	}
	u := c.usuariosURL + "/usuarios/" + itoa(id) + "/rol?nuevoRol=" + url.QueryEscape(nuevoRol)
	var out domain.Usuario
	if err := c.doJSON(ctx, http.MethodPut, u, rolHeaders(rol), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EliminarUsuario(ctx context.Context, rol string, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, c.usuariosURL+"/usuarios/"+itoa(id), rolHeaders(rol), nil, nil)
}
