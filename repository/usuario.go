package repository

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/avergara/comicstore/api"
	"github.com/avergara/comicstore/domain"
	"github.com/avergara/comicstore/store"
)

// UsuarioRepository autentica y registra contra el API remoto.
type UsuarioRepository struct {
	api *api.Client
}

func NewUsuarioRepository(c *api.Client) *UsuarioRepository {
	return &UsuarioRepository{api: c}
}

func (r *UsuarioRepository) Login(ctx context.Context, email, password string) (*domain.Usuario, error) {
	return r.api.Login(ctx, email, password)
}

func (r *UsuarioRepository) Register(ctx context.Context, nombre, rut, email, password string) (*domain.Usuario, error) {
	return r.api.Register(ctx, nombre, rut, email, password)
}

func (r *UsuarioRepository) ActualizarEmailPassword(ctx context.Context, id int64, email, password string) (*domain.Usuario, error) {
	return r.api.ActualizarEmailPassword(ctx, id, email, password)
}

// LocalUsuarioRepository es la variante sin red: usuarios en la base
// embebida, contraseñas con hash bcrypt (nunca texto plano).
type LocalUsuarioRepository struct {
	store *store.Store
}

func NewLocalUsuarioRepository(s *store.Store) *LocalUsuarioRepository {
	return &LocalUsuarioRepository{store: s}
}

func (r *LocalUsuarioRepository) Register(ctx context.Context, nombre, rut, email, password string) (*domain.Usuario, error) {
	// verifica que no exista
	if u, _ := r.store.GetUsuarioByEmail(ctx, email); u != nil {
		return nil, domain.NewError(domain.KindConflict, "email already registered", nil)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewError(domain.KindInternal, "", err)
	}
	u := &store.UsuarioLocal{
		Usuario: domain.Usuario{
			Nombre: nombre,
			Rut:    rut,
			Email:  email,
			Rol:    domain.RolUsuario,
		},
		PasswordHash: string(hash),
	}
	id, err := r.store.CreateUsuario(ctx, u)
	if err != nil {
		return nil, wrapStore(err, "Error al registrar usuario")
	}
	u.ID = id
	out := u.Usuario
	return &out, nil
}

// Authenticate responde lo mismo ante "no existe" y "contraseña mala":
// credenciales inválidas, sin distinguir.
func (r *LocalUsuarioRepository) Authenticate(ctx context.Context, email, password string) (*domain.Usuario, error) {
	u, err := r.store.GetUsuarioByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.KindCredentials, "invalid credentials", nil)
		}
		return nil, wrapStore(err, "Error al iniciar sesión")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, domain.NewError(domain.KindCredentials, "invalid credentials", nil)
	}
	out := u.Usuario
	return &out, nil
}

func (r *LocalUsuarioRepository) ActualizarEmailPassword(ctx context.Context, id int64, email, password string) (*domain.Usuario, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewError(domain.KindInternal, "", err)
	}
	if err := r.store.UpdateEmailPassword(ctx, id, email, string(hash)); err != nil {
		return nil, wrapStore(err, "Error al actualizar datos")
	}
	u, err := r.store.GetUsuario(ctx, id)
	if err != nil {
		return nil, wrapStore(err, "Usuario no encontrado")
	}
	out := u.Usuario
	return &out, nil
}
