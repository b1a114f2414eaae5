package state

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/avergara/comicstore/domain"
	"github.com/avergara/comicstore/repository"
	"github.com/avergara/comicstore/store"
)

type InventarioState struct {
	Comics  []domain.Comic
	Loading bool
	Error   string
	Success string
}

// InventarioHolder maneja el inventario local: listado, búsqueda,
// ajustes de stock del vendedor y el descuento de stock tras una compra.
type InventarioHolder struct {
	mu    sync.Mutex
	state InventarioState
	pub   publisher[InventarioState]

	repo *repository.InventarioRepository
}

func NewInventarioHolder(repo *repository.InventarioRepository) *InventarioHolder {
	return &InventarioHolder{pub: newPublisher[InventarioState](), repo: repo}
}

func (h *InventarioHolder) State() InventarioState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *InventarioHolder) Updates() <-chan InventarioState { return h.pub.updates() }

func (h *InventarioHolder) set(s InventarioState) {
	h.state = s
	h.pub.publish(s)
}

func (h *InventarioHolder) Load(ctx context.Context) InventarioState {
	h.mu.Lock()
	h.set(InventarioState{Comics: h.state.Comics, Loading: true})
	h.mu.Unlock()

	comics, err := h.repo.GetAll(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.set(InventarioState{Error: domain.Mensaje(err, "Error al cargar inventario")})
		return h.state
	}
	h.set(InventarioState{Comics: comics})
	return h.state
}

// Search filtra por id exacto, título o categoría.
func (h *InventarioHolder) Search(ctx context.Context, query string) InventarioState {
	h.mu.Lock()
	h.set(InventarioState{Comics: h.state.Comics, Loading: true})
	h.mu.Unlock()

	all, err := h.repo.GetAll(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.set(InventarioState{Error: domain.Mensaje(err, "Error al buscar productos")})
		return h.state
	}

	q := strings.ToLower(query)
	var out []domain.Comic
	for _, c := range all {
		idMatch := false
		if n, err := strconv.ParseInt(query, 10, 64); err == nil {
			idMatch = c.ID == n
		}
		if idMatch ||
			strings.Contains(strings.ToLower(c.Titulo), q) ||
			strings.Contains(strings.ToLower(c.Categoria), q) {
			out = append(out, c)
		}
	}
	h.set(InventarioState{Comics: out})
	return h.state
}

// UpdateStock fija el stock absoluto de un producto y recarga.
func (h *InventarioHolder) UpdateStock(ctx context.Context, id int64, nuevoStock int) InventarioState {
	h.mu.Lock()
	h.set(InventarioState{Comics: h.state.Comics, Loading: true})
	h.mu.Unlock()

	err := h.repo.UpdateStock(ctx, id, nuevoStock)
	if err != nil {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.set(InventarioState{Comics: h.state.Comics, Error: "Error al actualizar el stock"})
		return h.state
	}

	s := h.Load(ctx)
	h.mu.Lock()
	defer h.mu.Unlock()
	s.Success = "Stock actualizado correctamente"
	h.set(s)
	return h.state
}

func (h *InventarioHolder) Delete(ctx context.Context, id int64) InventarioState {
	err := h.repo.Delete(ctx, id)
	if err != nil {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.set(InventarioState{Comics: h.state.Comics, Error: "Error al eliminar producto"})
		return h.state
	}

	s := h.Load(ctx)
	h.mu.Lock()
	defer h.mu.Unlock()
	s.Success = "Producto eliminado correctamente"
	h.set(s)
	return h.state
}

// ReduceStock descuenta el stock de los ítems recién comprados.
// Primero ajusta el snapshot en memoria y lo publica (el catálogo refleja
// el stock nuevo de inmediato) y después persiste todas las filas mutadas
// en una sola transacción. El stock nunca baja de cero: si la cantidad
// comprada excede el disponible se recorta, no se rechaza. Si la
// persistencia falla se recarga desde el store para resincronizar.
func (h *InventarioHolder) ReduceStock(ctx context.Context, purchased []domain.CartItem) error {
	h.mu.Lock()

	qty := make(map[int64]int, len(purchased))
	for _, it := range purchased {
		qty[it.Comic.ID] += it.Cantidad
	}

	comics := make([]domain.Comic, len(h.state.Comics))
	copy(comics, h.state.Comics)
	var lines []store.PurchaseLine
	for i := range comics {
		n, ok := qty[comics[i].ID]
		if !ok {
			continue
		}
		nuevo := comics[i].Stock - n
		if nuevo < 0 {
			nuevo = 0
		}
		comics[i].Stock = nuevo
		lines = append(lines, store.PurchaseLine{ComicID: comics[i].ID, Cantidad: n})
	}
	// líneas compradas que no estaban en el snapshot igual se persisten
	seen := make(map[int64]bool, len(lines))
	for _, l := range lines {
		seen[l.ComicID] = true
	}
	for id, n := range qty {
		if !seen[id] {
			lines = append(lines, store.PurchaseLine{ComicID: id, Cantidad: n})
		}
	}

	h.set(InventarioState{Comics: comics})
	h.mu.Unlock()

	if err := h.repo.ApplyPurchase(ctx, lines); err != nil {
		log.Error().Err(err).Msg("persistir descuento de stock")
		h.mu.Lock()
		h.set(InventarioState{Comics: comics, Error: domain.Mensaje(err, "Error al descontar stock")})
		h.mu.Unlock()
		h.Load(ctx)
		return err
	}
	return nil
}
