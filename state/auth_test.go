package state

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avergara/comicstore/api"
	"github.com/avergara/comicstore/config"
	"github.com/avergara/comicstore/domain"
	"github.com/avergara/comicstore/prefs"
	"github.com/avergara/comicstore/repository"
	"github.com/avergara/comicstore/store"
)

func newAuth(t *testing.T, h http.HandlerFunc) (*AuthHolder, *prefs.UserPreferences) {
	t.Helper()
	st, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client := api.NewClient(config.Config{
		UsuariosBaseURL: srv.URL, ComicsBaseURL: srv.URL, PedidosBaseURL: srv.URL,
		HTTPTimeout: 5 * time.Second,
	})

	p := prefs.New(st.DB)
	return NewAuthHolder(repository.NewUsuarioRepository(client), p), p
}

func sinRed(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("la validación local debe bloquear la llamada de red")
	}
}

func TestLoginEmailInvalidoNoTocaLaRed(t *testing.T) {
	h, _ := newAuth(t, sinRed(t))

	s := h.Login(context.Background(), "sin-arroba", "Secreta1")

	assert.Equal(t, "El correo ingresado es inválido", s.EmailError)
	assert.False(t, s.Session.LoggedIn)
}

func TestLoginSinContrasena(t *testing.T) {
	h, _ := newAuth(t, sinRed(t))

	s := h.Login(context.Background(), "ana@mail.com", "")

	assert.Equal(t, "La contraseña es obligatoria", s.PasswordError)
}

func TestLoginExitosoPersisteLaSesion(t *testing.T) {
	h, p := newAuth(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.Usuario{
			ID: 7, Nombre: "Ana", Rut: "12345678-9", Email: "ana@mail.com", Rol: domain.RolVendedor,
		})
	})

	s := h.Login(context.Background(), "ana@mail.com", "Secreta1")

	require.True(t, s.Session.LoggedIn)
	assert.Equal(t, int64(7), s.Session.ID)
	assert.Equal(t, domain.RolVendedor, s.Session.Rol)

	sess, err := p.Session(context.Background())
	require.NoError(t, err)
	assert.True(t, sess.LoggedIn)
	assert.Equal(t, "Ana", sess.Nombre)
}

func TestLoginRechazadoMuestraElMensajeDelServidor(t *testing.T) {
	h, p := newAuth(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Credenciales incorrectas"})
	})

	s := h.Login(context.Background(), "ana@mail.com", "mala")

	assert.Equal(t, "Credenciales incorrectas", s.Error)
	assert.False(t, s.Session.LoggedIn)

	sess, err := p.Session(context.Background())
	require.NoError(t, err)
	assert.False(t, sess.LoggedIn)
}

func TestRegisterReportaErroresPorCampo(t *testing.T) {
	h, _ := newAuth(t, sinRed(t))

	s := h.Register(context.Background(), "Al", "malo", "sin-arroba", "corta", "otra")

	assert.Equal(t, "El nombre ingresado es demasiado corto", s.NombreError)
	assert.NotEmpty(t, s.RutError)
	assert.Equal(t, "El correo ingresado es inválido", s.EmailError)
	assert.Equal(t, "La contraseña debe tener al menos 8 caracteres", s.PasswordError)
	assert.Equal(t, "Las contraseñas no coinciden", s.ConfirmarError)
}

func TestRegisterExitoso(t *testing.T) {
	h, _ := newAuth(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.Usuario{ID: 1, Nombre: "Ana", Rol: domain.RolUsuario})
	})

	s := h.Register(context.Background(), "Ana María", "12345678-9", "ana@mail.com", "Secreta1", "Secreta1")

	assert.Equal(t, "Usuario registrado correctamente", s.Success)
	assert.Empty(t, s.Error)
}

func TestRestoreRecuperaLaSesionGuardada(t *testing.T) {
	h, p := newAuth(t, sinRed(t))
	ctx := context.Background()
	require.NoError(t, p.SaveUser(ctx, 7, "Ana", "ana@mail.com", "12345678-9", domain.RolAdmin))

	s := h.Restore(ctx)

	assert.True(t, s.Session.LoggedIn)
	assert.Equal(t, domain.RolAdmin, s.Session.Rol)
}

func TestLogoutDestruyeLaSesion(t *testing.T) {
	h, p := newAuth(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.Usuario{ID: 7, Nombre: "Ana", Email: "ana@mail.com"})
	})
	ctx := context.Background()
	h.Login(ctx, "ana@mail.com", "Secreta1")

	s := h.Logout(ctx)

	assert.False(t, s.Session.LoggedIn)
	sess, err := p.Session(ctx)
	require.NoError(t, err)
	assert.False(t, sess.LoggedIn)
}

func TestActualizarEmailPasswordRefrescaLaSesion(t *testing.T) {
	h, p := newAuth(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			json.NewEncoder(w).Encode(domain.Usuario{
				ID: 7, Nombre: "Ana", Rut: "12345678-9", Email: "ana@mail.com", Rol: domain.RolUsuario,
			})
		case http.MethodPut:
			json.NewEncoder(w).Encode(domain.Usuario{
				ID: 7, Nombre: "Ana", Rut: "12345678-9", Email: "nueva@mail.com", Rol: domain.RolUsuario,
			})
		}
	})
	ctx := context.Background()
	h.Login(ctx, "ana@mail.com", "Secreta1")

	s := h.ActualizarEmailPassword(ctx, "nueva@mail.com", "Secreta2")

	assert.Equal(t, "Datos actualizados correctamente", s.Success)
	assert.Equal(t, "nueva@mail.com", s.Session.Email)

	sess, err := p.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, "nueva@mail.com", sess.Email)
}
