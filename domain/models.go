package domain

import "time"

// Roles de usuario. Determinan qué pantallas/menús son alcanzables.
const (
	RolUsuario  = "usuario"
	RolVendedor = "vendedor"
	RolAdmin    = "admin"
)

func RolValido(rol string) bool {
	switch rol {
	case RolUsuario, RolVendedor, RolAdmin:
		return true
	}
	return false
}

// Estado de un pedido. Conjunto cerrado: cualquier otro valor se rechaza.
type EstadoPedido string

const (
	EstadoPendiente  EstadoPedido = "pendiente"
	EstadoPreparando EstadoPedido = "preparando"
	EstadoEnviado    EstadoPedido = "enviado"
	EstadoEntregado  EstadoPedido = "entregado"
	EstadoCancelado  EstadoPedido = "cancelado"
)

func (e EstadoPedido) Valido() bool {
	switch e {
	case EstadoPendiente, EstadoPreparando, EstadoEnviado, EstadoEntregado, EstadoCancelado:
		return true
	}
	return false
}

// Comic es una entrada vendible del catálogo.
// El precio es en unidades enteras (pesos), sin centavos.
type Comic struct {
	ID          int64  `json:"id"`
	Titulo      string `json:"titulo"`
	Autor       string `json:"autor"`
	Descripcion string `json:"descripcion"`
	Categoria   string `json:"categoria"`
	Precio      int    `json:"precio"`
	Stock       int    `json:"cantidad"`
	ImagenURL   string `json:"imagenUrl,omitempty"`
}

// CartItem empareja un cómic con la cantidad pedida. Vive solo en memoria,
// propiedad exclusiva del holder de carrito; nunca se persiste.
// Invariante: Cantidad >= 1 (una línea que llega a 0 se elimina).
type CartItem struct {
	Comic    Comic
	Cantidad int
}

func (it CartItem) Subtotal() int { return it.Comic.Precio * it.Cantidad }

// Pedido es una compra confirmada.
type Pedido struct {
	ID        int64           `json:"id"`
	UsuarioID int64           `json:"usuarioId"`
	Fecha     time.Time       `json:"fecha"`
	Estado    EstadoPedido    `json:"estado"`
	Total     int             `json:"total"`
	Items     []DetallePedido `json:"items"`
}

// DetallePedido es una línea de pedido. PrecioUnidad se captura al momento
// de la compra: los pedidos históricos son inmunes a cambios de precio.
type DetallePedido struct {
	ID           int64 `json:"id"`
	PedidoID     int64 `json:"pedidoId"`
	ComicID      int64 `json:"comicId"`
	Cantidad     int   `json:"cantidad"`
	PrecioUnidad int   `json:"precioUnidad"`
}

// Usuario tal como lo entrega el API remoto o la tabla local.
type Usuario struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Rut    string `json:"rut"`
	Email  string `json:"email"`
	Rol    string `json:"rol"`
}

// UserSession es la identidad persistida entre reinicios del proceso.
type UserSession struct {
	ID       int64
	Nombre   string
	Email    string
	Rut      string
	Rol      string
	LoggedIn bool
}
