package state

import (
	"context"
	"sync"

	"github.com/avergara/comicstore/domain"
	"github.com/avergara/comicstore/repository"
)

type CatalogState struct {
	Comics  []domain.Comic
	Loading bool
	Error   string
}

// CatalogHolder carga el catálogo remoto para la pantalla del comprador.
// Cada recarga simplemente reemplaza la copia local; dos pantallas pueden
// mostrar stocks transitoriamente distintos hasta su próxima recarga.
type CatalogHolder struct {
	mu    sync.Mutex
	state CatalogState
	pub   publisher[CatalogState]

	repo *repository.ComicRepository
}

func NewCatalogHolder(repo *repository.ComicRepository) *CatalogHolder {
	return &CatalogHolder{pub: newPublisher[CatalogState](), repo: repo}
}

func (h *CatalogHolder) State() CatalogState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *CatalogHolder) Updates() <-chan CatalogState { return h.pub.updates() }

func (h *CatalogHolder) Load(ctx context.Context) CatalogState {
	h.mu.Lock()
	h.state = CatalogState{Comics: h.state.Comics, Loading: true}
	h.pub.publish(h.state)
	h.mu.Unlock()

	comics, err := h.repo.GetAll(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.state = CatalogState{Error: domain.Mensaje(err, "Error al cargar inventario")}
	} else {
		h.state = CatalogState{Comics: comics}
	}
	h.pub.publish(h.state)
	return h.state
}
