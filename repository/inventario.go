package repository

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/avergara/comicstore/domain"
	"github.com/avergara/comicstore/store"
)

// InventarioRepository es la variante local del catálogo: el inventario
// vive en la base embebida y se muta solo a través de este repositorio.
type InventarioRepository struct {
	store *store.Store
}

func NewInventarioRepository(s *store.Store) *InventarioRepository {
	return &InventarioRepository{store: s}
}

func (r *InventarioRepository) GetAll(ctx context.Context) ([]domain.Comic, error) {
	out, err := r.store.ListInventario(ctx)
	if err != nil {
		return nil, wrapStore(err, "Error al cargar inventario")
	}
	return out, nil
}

func (r *InventarioRepository) Get(ctx context.Context, id int64) (*domain.Comic, error) {
	c, err := r.store.GetComic(ctx, id)
	if err != nil {
		return nil, wrapStore(err, "Producto no encontrado")
	}
	return c, nil
}

func (r *InventarioRepository) Search(ctx context.Context, query string) ([]domain.Comic, error) {
	out, err := r.store.SearchInventario(ctx, query)
	if err != nil {
		return nil, wrapStore(err, "Error al buscar productos")
	}
	return out, nil
}

func (r *InventarioRepository) Insert(ctx context.Context, c *domain.Comic) (int64, error) {
	id, err := r.store.InsertComic(ctx, c)
	if err != nil {
		log.Error().Err(err).Str("titulo", c.Titulo).Msg("insertar producto")
		return 0, wrapStore(err, "Error al guardar el producto")
	}
	return id, nil
}

func (r *InventarioRepository) Update(ctx context.Context, c *domain.Comic) error {
	if err := r.store.UpdateComic(ctx, c); err != nil {
		return wrapStore(err, "Error al actualizar el producto")
	}
	return nil
}

func (r *InventarioRepository) Delete(ctx context.Context, id int64) error {
	if err := r.store.DeleteComic(ctx, id); err != nil {
		return wrapStore(err, "Error al eliminar producto")
	}
	return nil
}

func (r *InventarioRepository) UpdateStock(ctx context.Context, id int64, nuevoStock int) error {
	if err := r.store.UpdateStock(ctx, id, nuevoStock); err != nil {
		return wrapStore(err, "Error al actualizar el stock")
	}
	return nil
}

// ApplyPurchase persiste el descuento de stock de una compra como lote
// atómico: o quedan todas las filas, o ninguna.
func (r *InventarioRepository) ApplyPurchase(ctx context.Context, lines []store.PurchaseLine) error {
	if err := r.store.ApplyPurchase(ctx, lines); err != nil {
		log.Error().Err(err).Int("lineas", len(lines)).Msg("aplicar compra")
		return wrapStore(err, "Error al descontar stock")
	}
	return nil
}
