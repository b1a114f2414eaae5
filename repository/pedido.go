// Capa de repositorios: envuelve store y API en un resultado uniforme,
// traduciendo fallas de bajo nivel a errores de dominio. Nunca reintenta
// por su cuenta; el usuario vuelve a gatillar la acción.
package repository

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/avergara/comicstore/api"
	"github.com/avergara/comicstore/domain"
	"github.com/avergara/comicstore/store"
)

// LineaPedido es una línea a comprar. PrecioUnidad viene del snapshot del
// carrito; la variante remota lo ignora (el servidor re-cotiza).
type LineaPedido struct {
	ComicID      int64
	Cantidad     int
	PrecioUnidad int
}

type NuevoPedido struct {
	UsuarioID int64
	Items     []LineaPedido
}

// PedidoRepository tiene dos implementaciones: contra el API remoto y
// contra la base local (las dos variantes de la arquitectura).
type PedidoRepository interface {
	Create(ctx context.Context, np NuevoPedido) (*domain.Pedido, error)
	Get(ctx context.Context, id int64) (*domain.Pedido, error)
	ListForUser(ctx context.Context, usuarioID int64) ([]domain.Pedido, error)
	ListAll(ctx context.Context) ([]domain.Pedido, error)
	UpdateEstado(ctx context.Context, id int64, estado domain.EstadoPedido) (*domain.Pedido, error)
	Cancel(ctx context.Context, id int64) (*domain.Pedido, error)
	Delete(ctx context.Context, id int64) error
}

// ---- variante remota ----

type RemotePedidoRepository struct {
	api *api.Client
}

func NewRemotePedidoRepository(c *api.Client) *RemotePedidoRepository {
	return &RemotePedidoRepository{api: c}
}

func (r *RemotePedidoRepository) Create(ctx context.Context, np NuevoPedido) (*domain.Pedido, error) {
	req := api.PedidoRequest{UsuarioID: np.UsuarioID}
	for _, it := range np.Items {
		req.Items = append(req.Items, api.PedidoItemRequest{ComicID: it.ComicID, Cantidad: it.Cantidad})
	}
	p, err := r.api.CrearPedido(ctx, req)
	if err != nil {
		log.Error().Err(err).Int64("usuario", np.UsuarioID).Msg("crear pedido remoto")
		return nil, err
	}
	return p, nil
}

func (r *RemotePedidoRepository) Get(ctx context.Context, id int64) (*domain.Pedido, error) {
	return r.api.ObtenerPedido(ctx, id)
}

func (r *RemotePedidoRepository) ListForUser(ctx context.Context, usuarioID int64) ([]domain.Pedido, error) {
	return r.api.ObtenerPedidosPorUsuario(ctx, usuarioID)
}

func (r *RemotePedidoRepository) ListAll(ctx context.Context) ([]domain.Pedido, error) {
	return r.api.ObtenerPedidos(ctx)
}

func (r *RemotePedidoRepository) UpdateEstado(ctx context.Context, id int64, estado domain.EstadoPedido) (*domain.Pedido, error) {
	return r.api.ActualizarEstadoPedido(ctx, id, estado)
}

func (r *RemotePedidoRepository) Cancel(ctx context.Context, id int64) (*domain.Pedido, error) {
	return r.api.CancelarPedido(ctx, id)
}

func (r *RemotePedidoRepository) Delete(ctx context.Context, id int64) error {
	return r.api.EliminarPedido(ctx, id)
}

// ---- variante local ----

type LocalPedidoRepository struct {
	store *store.Store
}

func NewLocalPedidoRepository(s *store.Store) *LocalPedidoRepository {
	return &LocalPedidoRepository{store: s}
}

func (r *LocalPedidoRepository) Create(ctx context.Context, np NuevoPedido) (*domain.Pedido, error) {
	p := &domain.Pedido{
		UsuarioID: np.UsuarioID,
		Estado:    domain.EstadoPendiente,
	}
	for _, it := range np.Items {
		p.Items = append(p.Items, domain.DetallePedido{
			ComicID:      it.ComicID,
			Cantidad:     it.Cantidad,
			PrecioUnidad: it.PrecioUnidad,
		})
		p.Total += it.PrecioUnidad * it.Cantidad
	}
	id, err := r.store.CreatePedido(ctx, p)
	if err != nil {
		log.Error().Err(err).Int64("usuario", np.UsuarioID).Msg("crear pedido local")
		return nil, wrapStore(err, "Error al crear el pedido")
	}
	return r.Get(ctx, id)
}

func (r *LocalPedidoRepository) Get(ctx context.Context, id int64) (*domain.Pedido, error) {
	p, err := r.store.GetPedido(ctx, id)
	if err != nil {
		return nil, wrapStore(err, "Pedido no encontrado")
	}
	return p, nil
}

func (r *LocalPedidoRepository) ListForUser(ctx context.Context, usuarioID int64) ([]domain.Pedido, error) {
	out, err := r.store.ListPedidosByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, wrapStore(err, "Error al obtener compras")
	}
	return out, nil
}

func (r *LocalPedidoRepository) ListAll(ctx context.Context) ([]domain.Pedido, error) {
	out, err := r.store.ListPedidos(ctx)
	if err != nil {
		return nil, wrapStore(err, "Error al obtener pedidos")
	}
	return out, nil
}

func (r *LocalPedidoRepository) UpdateEstado(ctx context.Context, id int64, estado domain.EstadoPedido) (*domain.Pedido, error) {
	if err := r.store.UpdateEstadoPedido(ctx, id, estado); err != nil {
		return nil, wrapStore(err, "Error al actualizar el estado")
	}
	return r.Get(ctx, id)
}

// Cancel devuelve el stock al inventario en la misma transacción.
func (r *LocalPedidoRepository) Cancel(ctx context.Context, id int64) (*domain.Pedido, error) {
	if err := r.store.CancelPedido(ctx, id); err != nil {
		return nil, wrapStore(err, "Error al cancelar el pedido")
	}
	return r.Get(ctx, id)
}

func (r *LocalPedidoRepository) Delete(ctx context.Context, id int64) error {
	if err := r.store.DeletePedido(ctx, id); err != nil {
		return wrapStore(err, "Error al eliminar el pedido")
	}
	return nil
}

// wrapStore normaliza errores del store; los *domain.Error pasan intactos.
func wrapStore(err error, msg string) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewError(domain.KindNotFound, msg, err)
	}
	return domain.NewError(domain.KindInternal, msg, err)
}
