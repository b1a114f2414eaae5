package state

import (
	"context"
	"sync"

	"github.com/avergara/comicstore/domain"
	"github.com/avergara/comicstore/repository"
)

type AdminState struct {
	Usuarios []domain.Usuario
	Loading  bool
	Error    string
	Success  string
}

// AdminHolder: administración remota de usuarios. El rol del operador se
// toma de la sesión y viaja en cada llamada; el control de acceso real
// vive en el servidor, aquí solo se filtran pantallas.
type AdminHolder struct {
	mu    sync.Mutex
	state AdminState
	pub   publisher[AdminState]

	repo *repository.AdminRepository
	rol  string
}

func NewAdminHolder(repo *repository.AdminRepository, rol string) *AdminHolder {
	return &AdminHolder{pub: newPublisher[AdminState](), repo: repo, rol: rol}
}

func (h *AdminHolder) State() AdminState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *AdminHolder) Updates() <-chan AdminState { return h.pub.updates() }

func (h *AdminHolder) set(s AdminState) {
	h.state = s
	h.pub.publish(s)
}

func (h *AdminHolder) Load(ctx context.Context) AdminState {
	h.mu.Lock()
	h.set(AdminState{Usuarios: h.state.Usuarios, Loading: true})
	h.mu.Unlock()

	usuarios, err := h.repo.ListarUsuarios(ctx, h.rol)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.set(AdminState{Error: domain.Mensaje(err, "Error al listar usuarios")})
		return h.state
	}
	h.set(AdminState{Usuarios: usuarios})
	return h.state
}

func (h *AdminHolder) UpdateRol(ctx context.Context, id int64, nuevoRol string) AdminState {
	updated, err := h.repo.ActualizarRol(ctx, h.rol, id, nuevoRol)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.set(AdminState{Usuarios: h.state.Usuarios, Error: domain.Mensaje(err, "Error actualizando rol")})
		return h.state
	}

	usuarios := make([]domain.Usuario, len(h.state.Usuarios))
	copy(usuarios, h.state.Usuarios)
	for i := range usuarios {
		if usuarios[i].ID == updated.ID {
			usuarios[i] = *updated
			break
		}
	}
	h.set(AdminState{Usuarios: usuarios, Success: "Rol actualizado correctamente"})
	return h.state
}

func (h *AdminHolder) Delete(ctx context.Context, id int64) AdminState {
	err := h.repo.EliminarUsuario(ctx, h.rol, id)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.set(AdminState{Usuarios: h.state.Usuarios, Error: domain.Mensaje(err, "Error al eliminar")})
		return h.state
	}

	var usuarios []domain.Usuario
	for _, u := range h.state.Usuarios {
		if u.ID != id {
			usuarios = append(usuarios, u)
		}
	}
	h.set(AdminState{Usuarios: usuarios, Success: "Usuario eliminado"})
	return h.state
}
