// Cliente REST tipado contra los microservicios remotos (JSON sobre HTTP).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/avergara/comicstore/config"
	"github.com/avergara/comicstore/domain"
)

type Client struct {
	http        *http.Client
	usuariosURL string
	comicsURL   string
	pedidosURL  string
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		http:        &http.Client{Timeout: cfg.HTTPTimeout},
		usuariosURL: strings.TrimRight(cfg.UsuariosBaseURL, "/"),
		comicsURL:   strings.TrimRight(cfg.ComicsBaseURL, "/"),
		pedidosURL:  strings.TrimRight(cfg.PedidosBaseURL, "/"),
	}
}

// doJSON arma la petición, decodifica la respuesta en out (si out != nil)
// y normaliza fallas HTTP a errores de dominio.
func (c *Client) doJSON(ctx context.Context, method, url string, headers map[string]string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return domain.NewError(domain.KindInternal, "", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return domain.NewError(domain.KindInternal, "", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.NewError(domain.KindTransport, "no se pudo conectar con el servidor", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewError(domain.KindTransport, "respuesta inválida del servidor", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	msg := readBodyMessage(resp)
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if msg == "" {
			msg = "invalid credentials"
		}
		return domain.NewError(domain.KindCredentials, msg, nil)
	case http.StatusNotFound:
		if msg == "" {
			msg = "no encontrado"
		}
		return domain.NewError(domain.KindNotFound, msg, nil)
	case http.StatusConflict:
		if msg == "" {
			msg = "email already registered"
		}
		return domain.NewError(domain.KindConflict, msg, nil)
	default:
		if msg == "" {
			msg = fmt.Sprintf("error del servidor (%d)", resp.StatusCode)
		}
		return domain.NewError(domain.KindTransport, msg, nil)
	}
}

// readBodyMessage reenvía el mensaje del servidor tal cual cuando existe.
func readBodyMessage(resp *http.Response) string {
	b, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(b) == 0 {
		return ""
	}
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(b, &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "<") {
		return ""
	}
	return s
}
