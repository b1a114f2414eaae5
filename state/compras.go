package state

import (
	"context"
	"sync"

	"github.com/avergara/comicstore/domain"
	"github.com/avergara/comicstore/repository"
)

type ComprasState struct {
	Compras []domain.Pedido
	Loading bool
	Error   string
}

// ComprasHolder lista las compras del propio usuario.
type ComprasHolder struct {
	mu    sync.Mutex
	state ComprasState
	pub   publisher[ComprasState]

	pedidos repository.PedidoRepository
}

func NewComprasHolder(pedidos repository.PedidoRepository) *ComprasHolder {
	return &ComprasHolder{pub: newPublisher[ComprasState](), pedidos: pedidos}
}

func (h *ComprasHolder) State() ComprasState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *ComprasHolder) Updates() <-chan ComprasState { return h.pub.updates() }

func (h *ComprasHolder) Load(ctx context.Context, usuarioID int64) ComprasState {
	h.mu.Lock()
	h.state = ComprasState{Compras: h.state.Compras, Loading: true}
	h.pub.publish(h.state)
	h.mu.Unlock()

	compras, err := h.pedidos.ListForUser(ctx, usuarioID)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.state = ComprasState{Error: domain.Mensaje(err, "Error al obtener compras")}
	} else {
		h.state = ComprasState{Compras: compras}
	}
	h.pub.publish(h.state)
	return h.state
}
