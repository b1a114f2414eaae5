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
	"github.com/avergara/comicstore/repository"
)

func newCatalog(t *testing.T, h http.HandlerFunc) *CatalogHolder {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client := api.NewClient(config.Config{
		UsuariosBaseURL: srv.URL, ComicsBaseURL: srv.URL, PedidosBaseURL: srv.URL,
		HTTPTimeout: 5 * time.Second,
	})
	repo, err := repository.NewComicRepository(client)
	require.NoError(t, err)
	return NewCatalogHolder(repo)
}

func TestCatalogLoad(t *testing.T) {
	h := newCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]domain.Comic{
			{ID: 1, Titulo: "Watchmen", Precio: 25000, Stock: 10},
			{ID: 2, Titulo: "Maus", Precio: 18000, Stock: 5},
		})
	})

	s := h.Load(context.Background())

	require.Len(t, s.Comics, 2)
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
}

func TestCatalogLoadConServidorCaido(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := api.NewClient(config.Config{
		UsuariosBaseURL: srv.URL, ComicsBaseURL: srv.URL, PedidosBaseURL: srv.URL,
		HTTPTimeout: time.Second,
	})
	repo, err := repository.NewComicRepository(client)
	require.NoError(t, err)
	srv.Close()
	h := NewCatalogHolder(repo)

	s := h.Load(context.Background())

	assert.Empty(t, s.Comics)
	assert.Equal(t, "no se pudo conectar con el servidor", s.Error)
}
