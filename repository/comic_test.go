package repository

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
)

func newComicRepo(t *testing.T, h http.HandlerFunc) *ComicRepository {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client := api.NewClient(config.Config{
		UsuariosBaseURL: srv.URL, ComicsBaseURL: srv.URL, PedidosBaseURL: srv.URL,
		HTTPTimeout: 5 * time.Second,
	})
	repo, err := NewComicRepository(client)
	require.NoError(t, err)
	return repo
}

func TestGetUsaCacheTrasPrimeraLectura(t *testing.T) {
	hits := 0
	repo := newComicRepo(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		json.NewEncoder(w).Encode(domain.Comic{ID: 1, Titulo: "Watchmen", Precio: 1000})
	})
	ctx := context.Background()

	c1, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	c2, err := repo.Get(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, c1.Titulo, c2.Titulo)
	assert.Equal(t, 1, hits)
}

func TestGetAllPueblaElCache(t *testing.T) {
	hits := 0
	repo := newComicRepo(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		json.NewEncoder(w).Encode([]domain.Comic{
			{ID: 1, Titulo: "Watchmen"},
			{ID: 2, Titulo: "Maus"},
		})
	})
	ctx := context.Background()

	_, err := repo.GetAll(ctx)
	require.NoError(t, err)

	// lecturas por id posteriores salen del caché
	c, err := repo.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Maus", c.Titulo)
	assert.Equal(t, 1, hits)
}

func TestActualizarStockInvalidaElCache(t *testing.T) {
	stock := 10
	repo := newComicRepo(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			stock = 3
			w.WriteHeader(http.StatusOK)
			return
		}
		json.NewEncoder(w).Encode(domain.Comic{ID: 1, Titulo: "Watchmen", Stock: stock})
	})
	ctx := context.Background()

	c, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, c.Stock)

	require.NoError(t, repo.ActualizarStock(ctx, 1, 3))

	c, err = repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Stock)
}

func TestEliminarSacaLaEntradaDelCache(t *testing.T) {
	deleted := false
	repo := newComicRepo(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete:
			deleted = true
			w.WriteHeader(http.StatusNoContent)
		case deleted:
			http.Error(w, "Comic no encontrado", http.StatusNotFound)
		default:
			json.NewEncoder(w).Encode(domain.Comic{ID: 1, Titulo: "Watchmen"})
		}
	})
	ctx := context.Background()

	_, err := repo.Get(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, repo.Eliminar(ctx, 1))

	_, err = repo.Get(ctx, 1)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
