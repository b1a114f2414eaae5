package state

import (
	"context"
	"io"
	"strconv"
	"sync"
	"unicode"

	"github.com/avergara/comicstore/domain"
	"github.com/avergara/comicstore/repository"
	"github.com/avergara/comicstore/validate"
)

// AddComicState: campos del formulario de alta/edición de cómic.
// Precio y Cantidad se guardan como texto porque vienen de campos de
// entrada; se convierten recién al guardar.
type AddComicState struct {
	Titulo      string
	Descripcion string
	Autor       string
	Precio      string
	Cantidad    string
	ImagenURL   string
	Categoria   string

	Loading        bool
	UploadingImage bool
	Error          string
	Success        string
}

type AddComicHolder struct {
	mu    sync.Mutex
	state AddComicState
	pub   publisher[AddComicState]

	repo *repository.ComicRepository
}

func NewAddComicHolder(repo *repository.ComicRepository) *AddComicHolder {
	return &AddComicHolder{pub: newPublisher[AddComicState](), repo: repo}
}

func (h *AddComicHolder) State() AddComicState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *AddComicHolder) Updates() <-chan AddComicState { return h.pub.updates() }

func (h *AddComicHolder) set(s AddComicState) {
	h.state = s
	h.pub.publish(s)
}

func soloDigitos(v string) bool {
	for _, r := range v {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (h *AddComicHolder) SetTitulo(v string)      { h.setField(func(s *AddComicState) { s.Titulo = v }) }
func (h *AddComicHolder) SetDescripcion(v string) { h.setField(func(s *AddComicState) { s.Descripcion = v }) }
func (h *AddComicHolder) SetAutor(v string)       { h.setField(func(s *AddComicState) { s.Autor = v }) }
func (h *AddComicHolder) SetCategoria(v string)   { h.setField(func(s *AddComicState) { s.Categoria = v }) }

// SetPrecio y SetCantidad ignoran entradas no numéricas: el campo nunca
// llega a contener texto inválido.
func (h *AddComicHolder) SetPrecio(v string) {
	if v == "" || soloDigitos(v) {
		h.setField(func(s *AddComicState) { s.Precio = v })
	}
}

func (h *AddComicHolder) SetCantidad(v string) {
	if v == "" || soloDigitos(v) {
		h.setField(func(s *AddComicState) { s.Cantidad = v })
	}
}

func (h *AddComicHolder) setField(f func(*AddComicState)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.state
	f(&s)
	h.set(s)
}

// PrecioFormateado es el precio con separador de miles, para mostrar.
func (h *AddComicHolder) PrecioFormateado() string {
	return validate.FormatearPesos(h.State().Precio)
}

func (h *AddComicHolder) UploadImage(ctx context.Context, filename string, img io.Reader) AddComicState {
	h.mu.Lock()
	s := h.state
	s.UploadingImage, s.Error, s.Success = true, "", ""
	h.set(s)
	h.mu.Unlock()

	url, err := h.repo.UploadImage(ctx, filename, img)

	h.mu.Lock()
	defer h.mu.Unlock()
	s = h.state
	s.UploadingImage = false
	if err != nil {
		s.Error = domain.Mensaje(err, "Error al subir imagen")
	} else {
		s.ImagenURL = url
		s.Success = "Imagen subida correctamente"
	}
	h.set(s)
	return h.state
}

// Guardar valida todos los campos y crea el cómic. Los errores de
// validación no generan tráfico de red.
func (h *AddComicHolder) Guardar(ctx context.Context) AddComicState {
	h.mu.Lock()
	s := h.state

	if s.Titulo == "" || s.Descripcion == "" || s.Autor == "" ||
		s.Precio == "" || s.Cantidad == "" || s.Categoria == "" {
		s.Error = "Todos los campos son obligatorios"
		h.set(s)
		h.mu.Unlock()
		return s
	}
	if err := validate.Cantidad(s.Cantidad); err != nil {
		s.Error = err.Error()
		h.set(s)
		h.mu.Unlock()
		return s
	}

	precio, err := strconv.Atoi(s.Precio)
	if err != nil || precio <= 0 {
		s.Error = "El precio debe ser mayor a 0"
		h.set(s)
		h.mu.Unlock()
		return s
	}
	cantidad, _ := strconv.Atoi(s.Cantidad)

	s.Loading, s.Error, s.Success = true, "", ""
	h.set(s)
	h.mu.Unlock()

	comic := &domain.Comic{
		Titulo:      s.Titulo,
		Autor:       s.Autor,
		Descripcion: s.Descripcion,
		Categoria:   s.Categoria,
		Precio:      precio,
		Stock:       cantidad,
		ImagenURL:   s.ImagenURL,
	}
	_, err = h.repo.Crear(ctx, comic)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		s = h.state
		s.Loading = false
		s.Error = domain.Mensaje(err, "Error al guardar el cómic")
		h.set(s)
		return h.state
	}
	h.set(AddComicState{Success: "Cómic guardado correctamente"})
	return h.state
}
