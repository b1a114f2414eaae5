package state

import (
	"context"
	"sync"

	"github.com/avergara/comicstore/domain"
	"github.com/avergara/comicstore/repository"
)

type SellerState struct {
	Pedidos []domain.Pedido
	Loading bool
	Error   string
	Success string
}

// SellerHolder: gestión de pedidos del vendedor (listar, cambiar estado,
// cancelar, eliminar). El estado lo muta solo el vendedor/admin; el
// comprador no toca un pedido después de crearlo salvo cancelarlo.
type SellerHolder struct {
	mu    sync.Mutex
	state SellerState
	pub   publisher[SellerState]

	pedidos repository.PedidoRepository
}

func NewSellerHolder(pedidos repository.PedidoRepository) *SellerHolder {
	return &SellerHolder{pub: newPublisher[SellerState](), pedidos: pedidos}
}

func (h *SellerHolder) State() SellerState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *SellerHolder) Updates() <-chan SellerState { return h.pub.updates() }

func (h *SellerHolder) set(s SellerState) {
	h.state = s
	h.pub.publish(s)
}

func (h *SellerHolder) LoadAll(ctx context.Context) SellerState {
	h.mu.Lock()
	h.set(SellerState{Pedidos: h.state.Pedidos, Loading: true})
	h.mu.Unlock()

	pedidos, err := h.pedidos.ListAll(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.set(SellerState{Error: domain.Mensaje(err, "Error al obtener pedidos")})
		return h.state
	}
	h.set(SellerState{Pedidos: pedidos})
	return h.state
}

// UpdateEstado reemplaza el pedido en la lista local con la respuesta.
func (h *SellerHolder) UpdateEstado(ctx context.Context, id int64, estado domain.EstadoPedido) SellerState {
	updated, err := h.pedidos.UpdateEstado(ctx, id, estado)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.set(SellerState{Pedidos: h.state.Pedidos, Error: domain.Mensaje(err, "Error al actualizar el estado")})
		return h.state
	}

	pedidos := replacePedido(h.state.Pedidos, *updated)
	h.set(SellerState{Pedidos: pedidos, Success: "Estado actualizado a " + string(estado)})
	return h.state
}

func (h *SellerHolder) Cancel(ctx context.Context, id int64) SellerState {
	cancelled, err := h.pedidos.Cancel(ctx, id)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.set(SellerState{Pedidos: h.state.Pedidos, Error: domain.Mensaje(err, "Error al cancelar el pedido")})
		return h.state
	}
	pedidos := replacePedido(h.state.Pedidos, *cancelled)
	h.set(SellerState{Pedidos: pedidos, Success: "Pedido cancelado"})
	return h.state
}

func (h *SellerHolder) Delete(ctx context.Context, id int64) SellerState {
	err := h.pedidos.Delete(ctx, id)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.set(SellerState{Pedidos: h.state.Pedidos, Error: domain.Mensaje(err, "Error al eliminar el pedido")})
		return h.state
	}

	var pedidos []domain.Pedido
	for _, p := range h.state.Pedidos {
		if p.ID != id {
			pedidos = append(pedidos, p)
		}
	}
	h.set(SellerState{Pedidos: pedidos, Success: "Pedido eliminado"})
	return h.state
}

func (h *SellerHolder) ClearMessages() SellerState {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.state
	s.Error, s.Success = "", ""
	h.set(s)
	return h.state
}

func replacePedido(pedidos []domain.Pedido, nuevo domain.Pedido) []domain.Pedido {
	out := make([]domain.Pedido, len(pedidos))
	copy(out, pedidos)
	for i := range out {
		if out[i].ID == nuevo.ID {
			out[i] = nuevo
			return out
		}
	}
	return append(out, nuevo)
}
