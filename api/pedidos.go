package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/avergara/comicstore/domain"
)

// IdempotencyHeader acompaña la creación de pedidos: un reintento manual
// tras una falla de red no debe duplicar el pedido en el servidor.
const IdempotencyHeader = "Idempotency-Key"

type PedidoItemRequest struct {
	ComicID  int64 `json:"comicId"`
	Cantidad int   `json:"cantidad"`
}

type PedidoRequest struct {
	UsuarioID int64               `json:"usuarioId"`
	Items     []PedidoItemRequest `json:"items"`
}

type pedidoItemDTO struct {
	ID           int64 `json:"id"`
	ComicID      int64 `json:"comicId"`
	Cantidad     int   `json:"cantidad"`
	PrecioUnidad int   `json:"precioUnidad"`
}

type pedidoDTO struct {
	ID        int64           `json:"id"`
	UsuarioID int64           `json:"usuarioId"`
	Fecha     string          `json:"fecha"`
	Total     int             `json:"total"`
	Estado    string          `json:"estado"`
	Items     []pedidoItemDTO `json:"items"`
}

func (d pedidoDTO) toDomain() domain.Pedido {
	p := domain.Pedido{
		ID:        d.ID,
		UsuarioID: d.UsuarioID,
		Total:     d.Total,
		Estado:    domain.EstadoPedido(d.Estado),
	}
	// El servidor entrega la fecha como texto; se aceptan los dos formatos vistos.
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, d.Fecha); err == nil {
			p.Fecha = t
			break
		}
	}
	for _, it := range d.Items {
		p.Items = append(p.Items, domain.DetallePedido{
			ID:           it.ID,
			PedidoID:     d.ID,
			ComicID:      it.ComicID,
			Cantidad:     it.Cantidad,
			PrecioUnidad: it.PrecioUnidad,
		})
	}
	return p
}

func (c *Client) CrearPedido(ctx context.Context, req PedidoRequest) (*domain.Pedido, error) {
	headers := map[string]string{IdempotencyHeader: uuid.NewString()}
	var out pedidoDTO
	if err := c.doJSON(ctx, http.MethodPost, c.pedidosURL+"/pedidos", headers, req, &out); err != nil {
		return nil, err
	}
	p := out.toDomain()
	return &p, nil
}

func (c *Client) ObtenerPedidos(ctx context.Context) ([]domain.Pedido, error) {
	return c.listPedidos(ctx, c.pedidosURL+"/pedidos")
}

func (c *Client) ObtenerPedidosPorUsuario(ctx context.Context, usuarioID int64) ([]domain.Pedido, error) {
	return c.listPedidos(ctx, c.pedidosURL+"/pedidos/usuario/"+itoa(usuarioID))
}

func (c *Client) listPedidos(ctx context.Context, url string) ([]domain.Pedido, error) {
	var dtos []pedidoDTO
	if err := c.doJSON(ctx, http.MethodGet, url, nil, nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.Pedido, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (c *Client) ObtenerPedido(ctx context.Context, id int64) (*domain.Pedido, error) {
	var out pedidoDTO
	if err := c.doJSON(ctx, http.MethodGet, c.pedidosURL+"/pedidos/"+itoa(id), nil, nil, &out); err != nil {
		return nil, err
	}
	p := out.toDomain()
	return &p, nil
}

func (c *Client) ActualizarEstadoPedido(ctx context.Context, id int64, estado domain.EstadoPedido) (*domain.Pedido, error) {
	if !estado.Valido() {
		return nil, domain.NewError(domain.KindValidation, "estado de pedido desconocido: "+string(estado), nil)
	}
	var out pedidoDTO
	url := c.pedidosURL + "/pedidos/" + itoa(id) + "/estado/" + string(estado)
	if err := c.doJSON(ctx, http.MethodPut, url, nil, nil, &out); err != nil {
		return nil, err
	}
	p := out.toDomain()
	return &p, nil
}

// CancelarPedido: la devolución de stock es responsabilidad del servidor.
func (c *Client) CancelarPedido(ctx context.Context, id int64) (*domain.Pedido, error) {
	var out pedidoDTO
	if err := c.doJSON(ctx, http.MethodPut, c.pedidosURL+"/pedidos/"+itoa(id)+"/cancelar", nil, nil, &out); err != nil {
		return nil, err
	}
	p := out.toDomain()
	return &p, nil
}

func (c *Client) EliminarPedido(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, c.pedidosURL+"/pedidos/"+itoa(id), nil, nil, nil)
}
