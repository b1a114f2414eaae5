package repository

import (
	"context"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/avergara/comicstore/api"
	"github.com/avergara/comicstore/domain"
)

const comicCacheSize = 256

// ComicRepository habla con el catálogo remoto. Las lecturas por id pasan
// por un caché LRU que se invalida en cada escritura.
type ComicRepository struct {
	api   *api.Client
	cache *lru.Cache[int64, domain.Comic]
}

func NewComicRepository(c *api.Client) (*ComicRepository, error) {
	cache, err := lru.New[int64, domain.Comic](comicCacheSize)
	if err != nil {
		return nil, err
	}
	return &ComicRepository{api: c, cache: cache}, nil
}

func (r *ComicRepository) GetAll(ctx context.Context) ([]domain.Comic, error) {
	comics, err := r.api.ObtenerComics(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range comics {
		r.cache.Add(c.ID, c)
	}
	return comics, nil
}

func (r *ComicRepository) Get(ctx context.Context, id int64) (*domain.Comic, error) {
	if c, ok := r.cache.Get(id); ok {
		return &c, nil
	}
	c, err := r.api.ObtenerComic(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Add(c.ID, *c)
	return c, nil
}

func (r *ComicRepository) Crear(ctx context.Context, comic *domain.Comic) (*domain.Comic, error) {
	created, err := r.api.CrearComic(ctx, comic)
	if err != nil {
		log.Error().Err(err).Str("titulo", comic.Titulo).Msg("crear comic")
		return nil, err
	}
	r.cache.Add(created.ID, *created)
	return created, nil
}

func (r *ComicRepository) Actualizar(ctx context.Context, id int64, comic *domain.Comic) (*domain.Comic, error) {
	updated, err := r.api.ActualizarComic(ctx, id, comic)
	if err != nil {
		return nil, err
	}
	r.cache.Add(updated.ID, *updated)
	return updated, nil
}

func (r *ComicRepository) Eliminar(ctx context.Context, id int64) error {
	if err := r.api.EliminarComic(ctx, id); err != nil {
		return err
	}
	r.cache.Remove(id)
	return nil
}

// ActualizarStock invalida el caché de la entrada: el próximo Get re-lee.
func (r *ComicRepository) ActualizarStock(ctx context.Context, id int64, stock int) error {
	if err := r.api.ActualizarStock(ctx, id, stock); err != nil {
		return err
	}
	r.cache.Remove(id)
	return nil
}

func (r *ComicRepository) UploadImage(ctx context.Context, filename string, img io.Reader) (string, error) {
	return r.api.UploadImage(ctx, filename, img)
}
