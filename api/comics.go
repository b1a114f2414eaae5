package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/avergara/comicstore/domain"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func (c *Client) ObtenerComics(ctx context.Context) ([]domain.Comic, error) {
	var out []domain.Comic
	if err := c.doJSON(ctx, http.MethodGet, c.comicsURL+"/comics", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ObtenerComic(ctx context.Context, id int64) (*domain.Comic, error) {
	var out domain.Comic
	if err := c.doJSON(ctx, http.MethodGet, c.comicsURL+"/comics/"+itoa(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CrearComic(ctx context.Context, comic *domain.Comic) (*domain.Comic, error) {
	var out domain.Comic
	if err := c.doJSON(ctx, http.MethodPost, c.comicsURL+"/comics", nil, comic, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ActualizarComic(ctx context.Context, id int64, comic *domain.Comic) (*domain.Comic, error) {
	var out domain.Comic
	if err := c.doJSON(ctx, http.MethodPut, c.comicsURL+"/comics/"+itoa(id), nil, comic, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EliminarComic(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, c.comicsURL+"/comics/"+itoa(id), nil, nil, nil)
}

// ActualizarStock cambia solo el stock, sin tocar el resto del cómic.
func (c *Client) ActualizarStock(ctx context.Context, id int64, stock int) error {
	url := c.comicsURL + "/comics/" + itoa(id) + "/actualizar-stock/" + strconv.Itoa(stock)
	return c.doJSON(ctx, http.MethodPut, url, nil, nil, nil)
}

type ImageUploadResponse struct {
	URL string `json:"url"`
}

// UploadImage sube la imagen como multipart y devuelve la URL pública.
func (c *Client) UploadImage(ctx context.Context, filename string, img io.Reader) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", domain.NewError(domain.KindInternal, "", err)
	}
	if _, err := io.Copy(part, img); err != nil {
		return "", domain.NewError(domain.KindInternal, "No se pudo leer la imagen", err)
	}
	if err := w.Close(); err != nil {
		return "", domain.NewError(domain.KindInternal, "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.comicsURL+"/comics/upload", &buf)
	if err != nil {
		return "", domain.NewError(domain.KindInternal, "", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", domain.NewError(domain.KindTransport, "Error al subir imagen", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", domain.NewError(domain.KindTransport, "Error al subir imagen", nil)
	}

	var out ImageUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.URL == "" {
		return "", domain.NewError(domain.KindTransport, "Error al subir imagen", err)
	}
	return out.URL, nil
}
