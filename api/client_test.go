package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avergara/comicstore/config"
	"github.com/avergara/comicstore/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.Config{
		UsuariosBaseURL: srv.URL,
		ComicsBaseURL:   srv.URL,
		PedidosBaseURL:  srv.URL,
		HTTPTimeout:     5 * time.Second,
	})
}

func TestLoginEnviaCredencialesYDecodificaUsuario(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/usuarios/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ana@mail.com", req.Email)
		assert.Equal(t, "Secreta1", req.Password)

		json.NewEncoder(w).Encode(domain.Usuario{ID: 3, Nombre: "Ana", Email: req.Email, Rol: domain.RolUsuario})
	})

	u, err := c.Login(context.Background(), "ana@mail.com", "Secreta1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, "Ana", u.Nombre)
}

func TestLoginCredencialesInvalidas(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Credenciales incorrectas"})
	})

	_, err := c.Login(context.Background(), "ana@mail.com", "mala")
	assert.Equal(t, domain.KindCredentials, domain.KindOf(err))
	assert.Equal(t, "Credenciales incorrectas", domain.Mensaje(err, ""))
}

func TestRegisterAsignaRolUsuarioPorDefecto(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req UsuarioRegisterDTO
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, domain.RolUsuario, req.Rol)
		json.NewEncoder(w).Encode(domain.Usuario{ID: 1, Nombre: req.Nombre, Email: req.Email, Rol: req.Rol})
	})

	u, err := c.Register(context.Background(), "Ana", "12345678-9", "ana@mail.com", "Secreta1")
	require.NoError(t, err)
	assert.Equal(t, domain.RolUsuario, u.Rol)
}

func TestRegisterEmailDuplicado(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	_, err := c.Register(context.Background(), "Ana", "12345678-9", "ana@mail.com", "Secreta1")
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestServidorCaidoEsErrorDeTransporte(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := NewClient(config.Config{
		UsuariosBaseURL: srv.URL, ComicsBaseURL: srv.URL, PedidosBaseURL: srv.URL,
		HTTPTimeout: time.Second,
	})
	srv.Close()

	_, err := c.ObtenerComics(context.Background())
	assert.Equal(t, domain.KindTransport, domain.KindOf(err))
	assert.Equal(t, "no se pudo conectar con el servidor", domain.Mensaje(err, ""))
}

func TestObtenerComicNoEncontrado(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Comic no encontrado", http.StatusNotFound)
	})

	_, err := c.ObtenerComic(context.Background(), 99)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, "Comic no encontrado", domain.Mensaje(err, ""))
}

func TestActualizarStockArmaLaRuta(t *testing.T) {
	var gotPath, gotMethod string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.ActualizarStock(context.Background(), 7, 15))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/comics/7/actualizar-stock/15", gotPath)
}

func TestCrearPedidoLlevaClaveDeIdempotencia(t *testing.T) {
	var claves []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		claves = append(claves, r.Header.Get(IdempotencyHeader))

		var req PedidoRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(7), req.UsuarioID)
		require.Len(t, req.Items, 1)

		json.NewEncoder(w).Encode(pedidoDTO{
			ID: 42, UsuarioID: req.UsuarioID, Fecha: "2026-08-31", Estado: "pendiente", Total: 2000,
		})
	})

	req := PedidoRequest{UsuarioID: 7, Items: []PedidoItemRequest{{ComicID: 1, Cantidad: 2}}}
	p, err := c.CrearPedido(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.ID)

	_, err = c.CrearPedido(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, claves, 2)
	assert.NotEmpty(t, claves[0])
	assert.NotEmpty(t, claves[1])
	// cada envío es un pedido nuevo: clave distinta por llamada
	assert.NotEqual(t, claves[0], claves[1])
}

func TestPedidoDTOAceptaAmbosFormatosDeFecha(t *testing.T) {
	p := pedidoDTO{ID: 1, Fecha: "2026-08-31T10:30:00Z", Estado: "enviado"}.toDomain()
	assert.Equal(t, 2026, p.Fecha.Year())
	assert.Equal(t, 10, p.Fecha.Hour())
	assert.Equal(t, domain.EstadoEnviado, p.Estado)

	p = pedidoDTO{ID: 2, Fecha: "2026-08-31"}.toDomain()
	assert.Equal(t, time.Month(8), p.Fecha.Month())
	assert.Equal(t, 31, p.Fecha.Day())
}

func TestActualizarEstadoInvalidoNoTocaLaRed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no debe llegar al servidor con estado inválido")
	})

	_, err := c.ActualizarEstadoPedido(context.Background(), 1, domain.EstadoPedido("perdido"))
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestCancelarPedidoUsaLaRutaDeCancelacion(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/pedidos/5/cancelar", r.URL.Path)
		json.NewEncoder(w).Encode(pedidoDTO{ID: 5, Estado: "cancelado", Fecha: "2026-08-31"})
	})

	p, err := c.CancelarPedido(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, domain.EstadoCancelado, p.Estado)
}

func TestAccionesDeAdminLlevanElRol(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, domain.RolAdmin, r.Header.Get(RolHeader))
		switch {
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode([]domain.Usuario{{ID: 1, Nombre: "Ana"}})
		case r.Method == http.MethodPut:
			assert.Equal(t, "/usuarios/3/rol", r.URL.Path)
			assert.Equal(t, domain.RolVendedor, r.URL.Query().Get("nuevoRol"))
			json.NewEncoder(w).Encode(domain.Usuario{ID: 3, Rol: domain.RolVendedor})
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()

	usuarios, err := c.ListarUsuarios(ctx, domain.RolAdmin)
	require.NoError(t, err)
	assert.Len(t, usuarios, 1)

	u, err := c.ActualizarRol(ctx, domain.RolAdmin, 3, domain.RolVendedor)
	require.NoError(t, err)
	assert.Equal(t, domain.RolVendedor, u.Rol)

	require.NoError(t, c.EliminarUsuario(ctx, domain.RolAdmin, 1))
}

func TestActualizarRolInvalido(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no debe llegar al servidor con rol inválido")
	})

	_, err := c.ActualizarRol(context.Background(), domain.RolAdmin, 3, "superadmin")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestUploadImageMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/comics/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "portada.png", hdr.Filename)
		json.NewEncoder(w).Encode(ImageUploadResponse{URL: "http://cdn/portada.png"})
	})

	url, err := c.UploadImage(context.Background(), "portada.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/portada.png", url)
}

func TestUploadImageFallaDelServidor(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.UploadImage(context.Background(), "x.png", strings.NewReader("x"))
	assert.Equal(t, domain.KindTransport, domain.KindOf(err))
}
