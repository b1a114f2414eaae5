package api

import (
	"context"
	"net/http"

	"github.com/avergara/comicstore/domain"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UsuarioRegisterDTO struct {
	Nombre   string `json:"nombre"`
	Rut      string `json:"rut"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Rol      string `json:"rol"`
}

type UsuarioUpdateDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.Usuario, error) {
	var u domain.Usuario
	err := c.doJSON(ctx, http.MethodPost, c.usuariosURL+"/usuarios/login", nil,
		LoginRequest{Email: email, Password: password}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Register(ctx context.Context, nombre, rut, email, password string) (*domain.Usuario, error) {
	body := UsuarioRegisterDTO{
		Nombre:   nombre,
		Rut:      rut,
		Email:    email,
		Password: password,
		Rol:      domain.RolUsuario, // por defecto
	}
	var u domain.Usuario
	if err := c.doJSON(ctx, http.MethodPost, c.usuariosURL+"/usuarios", nil, body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ActualizarEmailPassword(ctx context.Context, id int64, email, password string) (*domain.Usuario, error) {
	var u domain.Usuario
	err := c.doJSON(ctx, http.MethodPut, c.usuariosURL+"/usuarios/"+itoa(id), nil,
		UsuarioUpdateDTO{Email: email, Password: password}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
