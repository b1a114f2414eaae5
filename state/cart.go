package state

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/avergara/comicstore/domain"
	"github.com/avergara/comicstore/repository"
)

// CartState es el snapshot del carrito. Items conserva el orden de
// inserción. Total se recalcula como función pura de la lista en cada
// mutación — nunca se mantiene incrementalmente, para que no pueda
// desincronizarse.
type CartState struct {
	Items   []domain.CartItem
	Total   int
	Loading bool
	Error   string
	Success string
}

func recomputeTotal(items []domain.CartItem) int {
	total := 0
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}

// StockReconciler descuenta el stock local tras una compra confirmada.
// Es opcional: la variante remota deja el stock al servidor.
type StockReconciler interface {
	ReduceStock(ctx context.Context, purchased []domain.CartItem) error
}

// CartHolder mantiene la selección en curso del comprador y conduce el
// envío del pedido. Una instancia por sesión; dueño exclusivo del carrito.
type CartHolder struct {
	mu    sync.Mutex
	state CartState
	pub   publisher[CartState]

	pedidos    repository.PedidoRepository
	reconciler StockReconciler
}

func NewCartHolder(pedidos repository.PedidoRepository, reconciler StockReconciler) *CartHolder {
	return &CartHolder{
		pub:        newPublisher[CartState](),
		pedidos:    pedidos,
		reconciler: reconciler,
	}
}

// State devuelve el snapshot actual.
func (h *CartHolder) State() CartState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Updates entrega cada snapshot publicado.
func (h *CartHolder) Updates() <-chan CartState { return h.pub.updates() }

func (h *CartHolder) set(s CartState) {
	h.state = s
	h.pub.publish(s)
}

// Add suma una unidad del cómic: si ya hay línea para ese id incrementa
// su cantidad, si no agrega una línea nueva al final. Nunca falla.
func (h *CartHolder) Add(comic domain.Comic) CartState {
	h.mu.Lock()
	defer h.mu.Unlock()

	items := make([]domain.CartItem, len(h.state.Items))
	copy(items, h.state.Items)

	found := false
	for i := range items {
		if items[i].Comic.ID == comic.ID {
			items[i].Cantidad++
			found = true
			break
		}
	}
	if !found {
		items = append(items, domain.CartItem{Comic: comic, Cantidad: 1})
	}

	h.set(CartState{Items: items, Total: recomputeTotal(items)})
	return h.state
}

// RemoveOneUnit descuenta una unidad; una línea con cantidad 1 se elimina
// por completo (nunca queda con cantidad 0). No-op si el id no está.
func (h *CartHolder) RemoveOneUnit(comicID int64) CartState {
	h.mu.Lock()
	defer h.mu.Unlock()

	idx := -1
	for i, it := range h.state.Items {
		if it.Comic.ID == comicID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return h.state
	}

	items := make([]domain.CartItem, len(h.state.Items))
	copy(items, h.state.Items)
	if items[idx].Cantidad > 1 {
		items[idx].Cantidad--
	} else {
		items = append(items[:idx], items[idx+1:]...)
	}

	h.set(CartState{Items: items, Total: recomputeTotal(items)})
	return h.state
}

// RemoveItem elimina la línea completa sin importar la cantidad.
func (h *CartHolder) RemoveItem(comicID int64) CartState {
	h.mu.Lock()
	defer h.mu.Unlock()

	var items []domain.CartItem
	for _, it := range h.state.Items {
		if it.Comic.ID != comicID {
			items = append(items, it)
		}
	}

	h.set(CartState{Items: items, Total: recomputeTotal(items)})
	return h.state
}

// Total es una lectura pura.
func (h *CartHolder) Total() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return recomputeTotal(h.state.Items)
}

// SubmitOrder envía el pedido al repositorio. Con carrito vacío falla en
// local sin tocar la red. El vaciado del carrito es condicional al éxito
// confirmado del servidor: ante una falla los ítems quedan intactos para
// que el comprador reintente sin rearmar su selección.
func (h *CartHolder) SubmitOrder(ctx context.Context, buyerID int64) CartState {
	h.mu.Lock()
	if len(h.state.Items) == 0 {
		h.set(CartState{
			Items: h.state.Items,
			Total: h.state.Total,
			Error: "El carrito está vacío",
		})
		s := h.state
		h.mu.Unlock()
		return s
	}

	items := make([]domain.CartItem, len(h.state.Items))
	copy(items, h.state.Items)

	np := repository.NuevoPedido{UsuarioID: buyerID}
	for _, it := range items {
		np.Items = append(np.Items, repository.LineaPedido{
			ComicID:      it.Comic.ID,
			Cantidad:     it.Cantidad,
			PrecioUnidad: it.Comic.Precio,
		})
	}

	h.set(CartState{Items: items, Total: recomputeTotal(items), Loading: true})
	h.mu.Unlock()

	pedido, err := h.pedidos.Create(ctx, np)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		// los ítems quedan exactamente como estaban
		h.set(CartState{
			Items: items,
			Total: recomputeTotal(items),
			Error: domain.Mensaje(err, "Error al crear el pedido"),
		})
		return h.state
	}

	log.Info().Int64("pedido", pedido.ID).Int64("usuario", buyerID).Msg("pedido creado")
	if h.reconciler != nil {
		if rerr := h.reconciler.ReduceStock(ctx, items); rerr != nil {
			log.Error().Err(rerr).Int64("pedido", pedido.ID).Msg("descuento de stock tras compra")
		}
	}

	h.set(CartState{Success: "Su pedido ha sido creado correctamente"})
	return h.state
}

// ClearMessages limpia error/éxito sin tocar los ítems.
func (h *CartHolder) ClearMessages() CartState {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.state
	s.Error, s.Success = "", ""
	h.set(s)
	return h.state
}
